package systems

import (
	"log"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/ecs"
	"github.com/gonewx/driftfield/pkg/entities"
	"github.com/gonewx/driftfield/pkg/utils"
)

// BeltSystem belt 家族（小行星带）
//
// 粒子沿文档高度上的固定带状区域从左向右穿行：
//
//	x       = startX + vx·elapsed
//	docY    = journey·documentHeight + vy·elapsed
//	viewY   = docY - scrollY·parallaxSpeed·spaceMultiplier
//
// 不透明度取决于与视口中心线的距离。
type BeltSystem struct {
	em          *ecs.EntityManager
	factory     *entities.ParticleFactory
	cfg         *config.EngineConfig
	life        *lifecycle
	initialized bool
}

// NewBeltSystem 创建 belt 家族系统
func NewBeltSystem(em *ecs.EntityManager, factory *entities.ParticleFactory, collision *CollisionSystem, cfg *config.EngineConfig, stats *Stats) *BeltSystem {
	return &BeltSystem{
		em:      em,
		factory: factory,
		cfg:     cfg,
		life:    &lifecycle{em: em, collision: collision, cfg: cfg, stats: stats, tag: "BeltSystem"},
	}
}

// Update 推进所有 belt 粒子
//
// 视口尚未布局时跳过；第一次拿到有效视口时生成初始粒子。
func (s *BeltSystem) Update(fc FrameContext) {
	if !s.cfg.Belt.Enabled || fc.Viewport.Empty() {
		return
	}
	if !s.initialized {
		s.populate(fc)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.ParticleComponent, *components.BeltComponent](s.em) {
		p, _ := ecs.GetComponent[*components.ParticleComponent](s.em, id)
		if p.Family != components.FamilyBelt {
			continue
		}
		s.life.step(id, s, fc)
	}
}

func (s *BeltSystem) populate(fc FrameContext) {
	for i := 0; i < s.cfg.Belt.Count; i++ {
		s.factory.CreateBeltParticle(fc.Now, fc.Viewport)
	}
	s.initialized = true
	log.Printf("[BeltSystem] Spawned %d belt particles", s.cfg.Belt.Count)
}

func (s *BeltSystem) position(id ecs.EntityID, p *components.ParticleComponent, elapsedMs float64, fc FrameContext) (float64, float64) {
	belt, _ := ecs.GetComponent[*components.BeltComponent](s.em, id)
	journey := 0.0
	if belt != nil {
		journey = belt.JourneyPosition
	}
	x := p.StartX + p.VelocityX*elapsedMs
	docY := journey*fc.Viewport.DocumentHeight + p.VelocityY*elapsedMs
	y := docY - fc.ScrollY*s.cfg.Belt.ParallaxSpeed*s.cfg.Parallax.SpaceMultiplier
	return x, y
}

func (s *BeltSystem) opacity(_ ecs.EntityID, _ *components.ParticleComponent, y, _ float64, fc FrameContext) float64 {
	par := s.cfg.Parallax
	return utils.CenterOpacity(y, fc.Viewport.Height, par.CenterRatio, par.MaxDistanceRatio) * s.cfg.Belt.MaxOpacity
}

// 只检查横向，纵向由不透明度淡出
func (s *BeltSystem) offScreen(p *components.ParticleComponent, x, _ float64, fc FrameContext) bool {
	return utils.OffScreenX(x, p.Size, fc.Viewport.Width)
}

func (s *BeltSystem) respawn(id ecs.EntityID, fc FrameContext) {
	s.factory.RespawnBelt(id, fc.Now)
}
