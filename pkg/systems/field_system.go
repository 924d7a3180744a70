package systems

import (
	"log"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/ecs"
	"github.com/gonewx/driftfield/pkg/entities"
	"github.com/gonewx/driftfield/pkg/utils"
)

// FieldSystem field 家族（外层带天体）
//
// 在 belt 的横向漂移之上叠加纵向正弦振荡，
// 并在振荡转向处按 |cos(phase)|^fadePower 淡出。
type FieldSystem struct {
	em          *ecs.EntityManager
	factory     *entities.ParticleFactory
	cfg         *config.EngineConfig
	life        *lifecycle
	fadePower   float64
	initialized bool
}

// NewFieldSystem 创建 field 家族系统
func NewFieldSystem(em *ecs.EntityManager, factory *entities.ParticleFactory, collision *CollisionSystem, cfg *config.EngineConfig, stats *Stats) *FieldSystem {
	return &FieldSystem{
		em:        em,
		factory:   factory,
		cfg:       cfg,
		life:      &lifecycle{em: em, collision: collision, cfg: cfg, stats: stats, tag: "FieldSystem"},
		fadePower: cfg.Field.FadePower,
	}
}

// SetFadePower 覆盖转向淡出指数，<= 0 时恢复配置值
func (s *FieldSystem) SetFadePower(power float64) {
	if power <= 0 {
		power = s.cfg.Field.FadePower
	}
	s.fadePower = power
}

// FadePower 当前转向淡出指数
func (s *FieldSystem) FadePower() float64 {
	return s.fadePower
}

// Update 推进所有 field 粒子
func (s *FieldSystem) Update(fc FrameContext) {
	if !s.cfg.Field.Enabled || fc.Viewport.Empty() {
		return
	}
	if !s.initialized {
		for i := 0; i < s.cfg.Field.Count; i++ {
			s.factory.CreateFieldParticle(i, fc.Now, fc.Viewport)
		}
		s.initialized = true
		log.Printf("[FieldSystem] Spawned %d field particles", s.cfg.Field.Count)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.ParticleComponent, *components.OscillationComponent](s.em) {
		s.life.step(id, s, fc)
	}
}

func (s *FieldSystem) position(id ecs.EntityID, p *components.ParticleComponent, elapsedMs float64, fc FrameContext) (float64, float64) {
	journey := 0.0
	if belt, ok := ecs.GetComponent[*components.BeltComponent](s.em, id); ok {
		journey = belt.JourneyPosition
	}
	offset := 0.0
	if osc, ok := ecs.GetComponent[*components.OscillationComponent](s.em, id); ok {
		offset = osc.Offset(elapsedMs)
	}

	x := p.StartX + p.VelocityX*elapsedMs
	docY := journey*fc.Viewport.DocumentHeight + offset
	y := docY - fc.ScrollY*s.cfg.Field.ParallaxSpeed*s.cfg.Parallax.SpaceMultiplier
	return x, y
}

func (s *FieldSystem) opacity(id ecs.EntityID, _ *components.ParticleComponent, y, elapsedMs float64, fc FrameContext) float64 {
	par := s.cfg.Parallax
	opacity := utils.CenterOpacity(y, fc.Viewport.Height, par.CenterRatio, par.MaxDistanceRatio) * s.cfg.Field.MaxOpacity
	if osc, ok := ecs.GetComponent[*components.OscillationComponent](s.em, id); ok {
		opacity *= osc.DirectionFade(elapsedMs, s.fadePower)
	}
	return opacity
}

func (s *FieldSystem) offScreen(p *components.ParticleComponent, x, _ float64, fc FrameContext) bool {
	return utils.OffScreenX(x, p.Size, fc.Viewport.Width)
}

func (s *FieldSystem) respawn(id ecs.EntityID, fc FrameContext) {
	s.factory.RespawnField(id, fc.Now)
}
