package systems

import (
	"log"
	"math/rand"
	"time"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/ecs"
	"github.com/gonewx/driftfield/pkg/entities"
	"github.com/gonewx/driftfield/pkg/game"
	"github.com/gonewx/driftfield/pkg/utils"
)

// FreeSystem free 家族（彗星、小行星、卫星）
//
// 每个种类有独立的生成定时器：首次在 initialDelay 后生成，
// 之后每隔 spawnInterval 内的随机时长尝试生成一次，同类存活数量不超过 maxActive。
// 粒子在文档坐标中做直线运动，不受视差影响，不透明度由视口上下边缘的淡出区决定。
type FreeSystem struct {
	em      *ecs.EntityManager
	factory *entities.ParticleFactory
	cfg     *config.EngineConfig
	life    *lifecycle
	timers  *game.Timers
	hub     *game.SignalHub
	rng     *rand.Rand

	kinds   map[string]config.FreeKindConfig
	order   []string
	pending map[string]game.TimerID
	initial []game.TimerID
	running bool
	spawned int
}

// NewFreeSystem 创建 free 家族系统
func NewFreeSystem(em *ecs.EntityManager, factory *entities.ParticleFactory, collision *CollisionSystem,
	timers *game.Timers, hub *game.SignalHub, rng *rand.Rand, cfg *config.EngineConfig, stats *Stats) *FreeSystem {
	s := &FreeSystem{
		em:      em,
		factory: factory,
		cfg:     cfg,
		life:    &lifecycle{em: em, collision: collision, cfg: cfg, stats: stats, tag: "FreeSystem"},
		timers:  timers,
		hub:     hub,
		rng:     rng,
		kinds:   make(map[string]config.FreeKindConfig, len(cfg.Free.Kinds)),
		pending: make(map[string]game.TimerID, len(cfg.Free.Kinds)),
	}
	for _, kind := range cfg.Free.Kinds {
		s.kinds[kind.Name] = kind
		s.order = append(s.order, kind.Name)
	}
	return s
}

// Start 启动所有种类的生成定时器
func (s *FreeSystem) Start() {
	if s.running || !s.cfg.Free.Enabled {
		return
	}
	s.running = true
	for _, name := range s.order {
		kind := s.kinds[name]
		s.initial = append(s.initial, s.timers.After(kind.InitialDelay, func() { s.Spawn(kind.Name) }))
		s.scheduleSpawn(kind)
	}
	log.Printf("[FreeSystem] Spawn timers started for %d kinds", len(s.order))
}

// Stop 取消所有生成定时器
func (s *FreeSystem) Stop() {
	if !s.running {
		return
	}
	s.running = false
	for _, id := range s.initial {
		s.timers.Cancel(id)
	}
	s.initial = nil
	for name, id := range s.pending {
		s.timers.Cancel(id)
		delete(s.pending, name)
	}
}

func (s *FreeSystem) scheduleSpawn(kind config.FreeKindConfig) {
	delay := time.Duration(kind.SpawnIntervalMs.Sample(s.rng) * float64(time.Millisecond))
	s.pending[kind.Name] = s.timers.After(delay, func() {
		s.Spawn(kind.Name)
		if s.running {
			s.scheduleSpawn(kind)
		}
	})
}

// Spawn 立即尝试生成一个指定种类的粒子
//
// 视口为空、种类未知或已达到 maxActive 时不生成，返回 false。
func (s *FreeSystem) Spawn(kindName string) bool {
	kind, ok := s.kinds[kindName]
	if !ok {
		return false
	}
	vp := s.hub.Viewport()
	if vp.Empty() {
		return false
	}
	if s.ActiveCount(kindName) >= kind.MaxActive {
		return false
	}

	s.factory.CreateFreeParticle(kind, s.timers.Now(), vp, s.hub.ScrollY())
	s.spawned++
	return true
}

// ActiveCount 返回指定种类的存活数量（不含已标记删除的实体）
func (s *FreeSystem) ActiveCount(kindName string) int {
	count := 0
	for _, id := range ecs.GetEntitiesWith1[*components.FreeComponent](s.em) {
		if s.em.IsMarked(id) {
			continue
		}
		if free, ok := ecs.GetComponent[*components.FreeComponent](s.em, id); ok && free.Kind == kindName {
			count++
		}
	}
	return count
}

// Spawned 返回累计生成数量
func (s *FreeSystem) Spawned() int {
	return s.spawned
}

// Update 推进所有 free 粒子
func (s *FreeSystem) Update(fc FrameContext) {
	if !s.cfg.Free.Enabled || fc.Viewport.Empty() {
		return
	}
	for _, id := range ecs.GetEntitiesWith2[*components.ParticleComponent, *components.FreeComponent](s.em) {
		if s.em.IsMarked(id) {
			continue
		}
		s.life.step(id, s, fc)
	}
}

func (s *FreeSystem) position(_ ecs.EntityID, p *components.ParticleComponent, elapsedMs float64, fc FrameContext) (float64, float64) {
	x := p.StartX + p.VelocityX*elapsedMs
	docY := p.StartY + p.VelocityY*elapsedMs
	return x, docY - fc.ScrollY
}

func (s *FreeSystem) opacity(_ ecs.EntityID, _ *components.ParticleComponent, y, _ float64, fc FrameContext) float64 {
	return min(utils.EdgeFadeOpacity(y, fc.Viewport.Height, s.cfg.Parallax.EdgeFadeRatio), s.cfg.Free.MaxOpacity)
}

func (s *FreeSystem) offScreen(p *components.ParticleComponent, x, y float64, fc FrameContext) bool {
	return utils.OffScreenX(x, p.Size, fc.Viewport.Width) || utils.OffScreenY(y, p.Size, fc.Viewport.Height)
}

func (s *FreeSystem) respawn(id ecs.EntityID, fc FrameContext) {
	free, ok := ecs.GetComponent[*components.FreeComponent](s.em, id)
	if !ok {
		return
	}
	kind, ok := s.kinds[free.Kind]
	if !ok {
		s.em.DestroyEntity(id)
		return
	}
	s.factory.RespawnFree(id, kind, fc.Now, fc.Viewport, fc.ScrollY)
}
