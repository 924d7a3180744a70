package systems

import (
	"log"
	"time"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/ecs"
	"github.com/gonewx/driftfield/pkg/game"
	"github.com/gonewx/driftfield/pkg/utils"
)

// EvictionSystem 批量清理过期的 free 粒子
//
// 由调度器的低频定时器驱动，不在每帧运行。
// 只清理同时满足以下条件的粒子：存活超过 maxLifetime，且位置已离开视口
// （横向缓冲 size*2，纵向缓冲 size*6）。淡出到不可见但仍在屏幕内的粒子保留。
type EvictionSystem struct {
	entityManager *ecs.EntityManager
	maxLifetime   time.Duration
	stats         *Stats
}

// NewEvictionSystem 创建清理系统
func NewEvictionSystem(em *ecs.EntityManager, maxLifetime time.Duration, stats *Stats) *EvictionSystem {
	return &EvictionSystem{
		entityManager: em,
		maxLifetime:   maxLifetime,
		stats:         stats,
	}
}

// Sweep 标记并移除过期粒子，返回移除数量
//
// vp 为当前视口，用于判断粒子是否已离开屏幕。
func (s *EvictionSystem) Sweep(now time.Duration, vp game.Viewport) int {
	entities := ecs.GetEntitiesWith3[*components.ParticleComponent, *components.FreeComponent, *components.RenderComponent](s.entityManager)

	for _, id := range entities {
		p, _ := ecs.GetComponent[*components.ParticleComponent](s.entityManager, id)
		render, _ := ecs.GetComponent[*components.RenderComponent](s.entityManager, id)

		expired := now-p.SpawnTime >= s.maxLifetime
		offScreen := utils.OffScreenX(render.X, p.Size, vp.Width) || utils.OffScreenY(render.Y, p.Size, vp.Height)
		if expired && offScreen {
			s.entityManager.DestroyEntity(id)
		}
	}

	// 其他系统标记的实体也在这里统一清理
	removed := s.entityManager.RemoveMarkedEntities()
	if removed > 0 {
		s.stats.Evictions += removed
		log.Printf("[EvictionSystem] Evicted %d particles", removed)
	}
	return removed
}
