package systems

import (
	"math/rand"
	"time"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/ecs"
	"github.com/gonewx/driftfield/pkg/entities"
	"github.com/gonewx/driftfield/pkg/game"
	"github.com/gonewx/driftfield/pkg/utils"
)

const tick = 33 * time.Millisecond

var testViewport = game.Viewport{Width: 1280, Height: 720, DocumentHeight: 2000}

// testWorld 组装系统测试所需的全部协作者
type testWorld struct {
	cfg       *config.EngineConfig
	em        *ecs.EntityManager
	timers    *game.Timers
	hub       *game.SignalHub
	registry  *game.PanelRegistry
	collision *CollisionSystem
	factory   *entities.ParticleFactory
	stats     *Stats
	rng       *rand.Rand
}

func newTestWorld(mutate func(*config.EngineConfig)) *testWorld {
	cfg := config.DefaultEngineConfig()
	// 默认不自动生成初始粒子，测试自行创建
	cfg.Belt.Count = 0
	cfg.Field.Count = 0
	if mutate != nil {
		mutate(cfg)
	}

	w := &testWorld{
		cfg:      cfg,
		em:       ecs.NewEntityManager(),
		timers:   game.NewTimers(0),
		registry: game.NewPanelRegistry(),
		stats:    &Stats{},
		rng:      rand.New(rand.NewSource(7)),
	}
	w.hub = game.NewSignalHub(w.timers, cfg.Signals.ResizeDebounce, testViewport)
	w.collision = NewCollisionSystem(w.registry, w.timers, w.hub, cfg.Collision, w.stats)
	w.factory = entities.NewParticleFactory(w.em, cfg, w.rng)
	return w
}

func (w *testWorld) frame(now time.Duration, scan bool) FrameContext {
	w.timers.Advance(now)
	return FrameContext{
		Now:      now,
		ScrollY:  w.hub.ScrollY(),
		Viewport: w.hub.Viewport(),
		Scan:     scan,
	}
}

// fullScreenPanel 注册一个覆盖整个视口的面板
func (w *testWorld) fullScreenPanel(id string) {
	w.registry.Register(id, game.ElementFunc(func() utils.Bounds {
		return utils.NewBounds(0, 0, testViewport.Width, testViewport.Height)
	}))
}

func (w *testWorld) components(id ecs.EntityID) (*components.ParticleComponent, *components.CollisionComponent, *components.RenderComponent) {
	p, _ := ecs.GetComponent[*components.ParticleComponent](w.em, id)
	c, _ := ecs.GetComponent[*components.CollisionComponent](w.em, id)
	r, _ := ecs.GetComponent[*components.RenderComponent](w.em, id)
	return p, c, r
}

// placeBelt 创建一个停在视口内 (x, ~docHeight*journey) 的 belt 粒子
func (w *testWorld) placeBelt(now time.Duration, x float64, collider bool) ecs.EntityID {
	id := w.factory.CreateBeltParticle(now, testViewport)
	p, c, _ := w.components(id)
	p.SpawnTime = now
	p.StartX = x
	p.VelocityY = 0
	p.Size = 30
	c.Reset(collider)

	belt, _ := ecs.GetComponent[*components.BeltComponent](w.em, id)
	belt.JourneyPosition = 0.18 // 2000*0.18 = 360，视口中心
	return id
}
