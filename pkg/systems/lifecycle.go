package systems

import (
	"log"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/ecs"
	"github.com/gonewx/driftfield/pkg/utils"
)

// trajectory 家族专属的运动规则，生命周期状态机由 lifecycle 统一驱动
type trajectory interface {
	// position 正常飞行时的视口坐标
	position(id ecs.EntityID, p *components.ParticleComponent, elapsedMs float64, fc FrameContext) (x, y float64)
	// opacity 视口坐标 y 处的不透明度
	opacity(id ecs.EntityID, p *components.ParticleComponent, y, elapsedMs float64, fc FrameContext) float64
	// offScreen 是否已离开可见范围（超出与尺寸成比例的缓冲区）
	offScreen(p *components.ParticleComponent, x, y float64, fc FrameContext) bool
	// respawn 在原实体上重新生成
	respawn(id ecs.EntityID, fc FrameContext)
}

// CollisionAnimation 计算碰撞动画中的位置和缩放
//
// 位置：从锚点出发，速度按 1-easeOutCubic(progress) 衰减，再乘以减速系数。
// 缩放：宽限期内保持 1，之后按 easeOutCubic 收缩，在 absorptionDuration 时到达 0；
// 低于 absorbScaleThreshold 时直接视为 0。
//
// 参数:
//   - anchor: 碰撞时的位置
//   - vx, vy: 粒子速度（像素/毫秒）
//   - collisionElapsedMs: 进入 Colliding 以来的毫秒数
func CollisionAnimation(anchor utils.Point, vx, vy, collisionElapsedMs float64, cfg config.CollisionConfig) (utils.Point, float64) {
	durationMs := components.Millis(cfg.AbsorptionDuration)
	graceMs := components.Millis(cfg.SlowdownGrace)
	e := max(collisionElapsedMs, 0)

	progress := 1.0
	if durationMs > 0 {
		progress = min(e/durationMs, 1)
	}
	decay := (1 - utils.EaseOutCubic(progress)) * cfg.DecelerationFactor
	pos := utils.Point{
		X: anchor.X + vx*e*decay,
		Y: anchor.Y + vy*e*decay,
	}

	scale := 1.0
	if e > graceMs {
		shrink := 1.0
		if durationMs > graceMs {
			shrink = min((e-graceMs)/(durationMs-graceMs), 1)
		}
		scale = 1 - utils.EaseOutCubic(shrink)
		if scale <= cfg.AbsorbScaleThreshold {
			scale = 0
		}
	}
	return pos, scale
}

// lifecycle 所有家族共享的逐粒子状态机
type lifecycle struct {
	em        *ecs.EntityManager
	collision *CollisionSystem
	cfg       *config.EngineConfig
	stats     *Stats
	tag       string
}

// step 推进一个粒子一个 tick
//
//  1. Absorbed：吸收时长过后原地重生，否则保持隐藏
//  2. Colliding：沿减速轨迹移动并收缩，满吸收时长后进入 Absorbed
//  3. 正常飞行：计算位置与不透明度，离开屏幕则立即重生
//  4. 扫描 tick 上的活跃碰撞体查询碰撞检测器
func (l *lifecycle) step(id ecs.EntityID, traj trajectory, fc FrameContext) {
	p, ok := ecs.GetComponent[*components.ParticleComponent](l.em, id)
	if !ok {
		return
	}
	coll, ok1 := ecs.GetComponent[*components.CollisionComponent](l.em, id)
	render, ok2 := ecs.GetComponent[*components.RenderComponent](l.em, id)
	if !ok1 || !ok2 {
		return
	}

	elapsed := p.ElapsedMs(fc.Now)
	absorptionMs := components.Millis(l.cfg.Collision.AbsorptionDuration)

	switch coll.State {
	case components.CollisionAbsorbed:
		render.Hide()
		if components.Millis(fc.Now-coll.StartTime) > absorptionMs {
			l.respawn(id, traj, fc)
		}
		return

	case components.CollisionColliding:
		collisionElapsed := components.Millis(fc.Now - coll.StartTime)
		if collisionElapsed >= absorptionMs {
			coll.Absorb()
			render.Hide()
			render.Scale = 0
			l.stats.Absorptions++
			log.Printf("[%s] Particle %d absorbed after %.0fms", l.tag, id, collisionElapsed)
			return
		}

		pos, scale := CollisionAnimation(*coll.Anchor, p.VelocityX, p.VelocityY, collisionElapsed, l.cfg.Collision)
		render.X = pos.X
		render.Y = pos.Y
		render.RotationDeg = p.RotationAt(elapsed)
		render.Opacity = traj.opacity(id, p, pos.Y, elapsed, fc)
		render.Scale = scale
		// 动画期间始终可见，由缩放控制消失
		render.Visible = scale > 0
		return
	}

	x, y := traj.position(id, p, elapsed, fc)
	if traj.offScreen(p, x, y, fc) {
		l.respawn(id, traj, fc)
		return
	}

	opacity := traj.opacity(id, p, y, elapsed, fc)
	render.X = x
	render.Y = y
	render.RotationDeg = p.RotationAt(elapsed)
	render.Opacity = opacity
	render.Scale = 1

	if fc.Scan && coll.CanCollide() && l.collision != nil {
		if _, hit := l.collision.Collide(coll, x, y, p.Size/2, fc.Now); hit {
			render.Visible = true
			return
		}
	}

	render.Visible = opacity > l.cfg.Parallax.OpacityThreshold &&
		utils.InViewportY(y, p.Size, fc.Viewport.Height)
}

func (l *lifecycle) respawn(id ecs.EntityID, traj trajectory, fc FrameContext) {
	traj.respawn(id, fc)
	if render, ok := ecs.GetComponent[*components.RenderComponent](l.em, id); ok {
		render.Hide()
		render.Scale = 1
	}
	l.stats.Respawns++
}
