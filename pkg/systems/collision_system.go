package systems

import (
	"log"
	"time"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/game"
	"github.com/gonewx/driftfield/pkg/utils"
)

// CollisionResult 一次命中的结果
type CollisionResult struct {
	PanelID string
	// CollisionPoint 面板矩形上距离粒子中心最近的点（视口坐标）
	CollisionPoint utils.Point
	// LocalPoint 同一个点在面板局部坐标系中的位置
	LocalPoint utils.Point
}

// CollisionSystem 碰撞检测器
//
// 职责：
//   - 以帧计数节流完整扫描（每 N 个 tick 一次）
//   - 对面板注册表的边界快照做圆-矩形相交查询，注册顺序中第一个命中者胜出
//   - 滚动停止一段时间后让注册表的边界缓存失效
//   - 视口尺寸变化时立即让边界缓存失效
type CollisionSystem struct {
	registry *game.PanelRegistry
	timers   *game.Timers
	hub      *game.SignalHub
	cfg      config.CollisionConfig
	stats    *Stats

	frameCounter int

	lastScroll      float64
	hasScroll       bool
	invalidateTimer game.TimerID

	unsubscribe []func()
}

// NewCollisionSystem 创建碰撞检测器并订阅滚动/尺寸信号
func NewCollisionSystem(registry *game.PanelRegistry, timers *game.Timers, hub *game.SignalHub, cfg config.CollisionConfig, stats *Stats) *CollisionSystem {
	s := &CollisionSystem{
		registry: registry,
		timers:   timers,
		hub:      hub,
		cfg:      cfg,
		stats:    stats,
	}

	if unsub, err := hub.SubscribeScroll(s.NotifyScroll); err == nil {
		s.unsubscribe = append(s.unsubscribe, unsub)
	} else {
		log.Printf("[CollisionSystem] Warning: scroll subscription failed: %v", err)
	}
	if unsub, err := hub.SubscribeResize(func(game.Viewport) { registry.Invalidate() }); err == nil {
		s.unsubscribe = append(s.unsubscribe, unsub)
	} else {
		log.Printf("[CollisionSystem] Warning: resize subscription failed: %v", err)
	}

	return s
}

// ShouldScanThisFrame 推进帧计数，每 checkIntervalFrames 次调用返回一次 true
//
// 第 N 次调用首次返回 true。
func (s *CollisionSystem) ShouldScanThisFrame() bool {
	interval := max(s.cfg.CheckIntervalFrames, 1)
	s.frameCounter++
	if s.frameCounter >= interval {
		s.frameCounter = 0
		return true
	}
	return false
}

// Query 查询圆与可见面板的碰撞
//
// 按注册表顺序遍历，跳过视口外的面板，返回第一个相交的面板。
// 注册表为空或缓存刚失效时同样安全，只是可能没有结果。
func (s *CollisionSystem) Query(center utils.Point, radius float64) (CollisionResult, bool) {
	vp := s.hub.Viewport()
	for _, pb := range s.registry.AllBounds() {
		if !utils.IsVisible(pb.Bounds, vp.Width, vp.Height) {
			continue
		}
		if utils.Intersects(center, radius, pb.Bounds) {
			point := utils.CollisionPoint(center, pb.Bounds)
			return CollisionResult{
				PanelID:        pb.ID,
				CollisionPoint: point,
				LocalPoint:     utils.ToLocal(point, pb.Bounds),
			}, true
		}
	}
	return CollisionResult{}, false
}

// Collide 对一个活跃碰撞体执行查询，命中时进入 Colliding 并通知面板效果
func (s *CollisionSystem) Collide(coll *components.CollisionComponent, x, y, radius float64, now time.Duration) (CollisionResult, bool) {
	if !coll.CanCollide() {
		return CollisionResult{}, false
	}
	result, hit := s.Query(utils.Point{X: x, Y: y}, radius)
	if !hit {
		return CollisionResult{}, false
	}

	coll.Begin(x, y, now)
	s.registry.TriggerEffect(result.PanelID, result.LocalPoint)
	if s.stats != nil {
		s.stats.Collisions++
	}
	log.Printf("[CollisionSystem] Particle hit panel %q at local (%.1f, %.1f)",
		result.PanelID, result.LocalPoint.X, result.LocalPoint.Y)
	return result, true
}

// NotifyScroll 滚动位置变化时重新开始失效计时
func (s *CollisionSystem) NotifyScroll(scrollY float64) {
	if s.hasScroll && scrollY == s.lastScroll {
		return
	}
	first := !s.hasScroll
	s.lastScroll = scrollY
	s.hasScroll = true
	if first {
		return
	}

	if s.invalidateTimer != 0 {
		s.timers.Cancel(s.invalidateTimer)
	}
	s.invalidateTimer = s.timers.After(s.cfg.BoundsInvalidationDelay, func() {
		s.invalidateTimer = 0
		s.registry.Invalidate()
		log.Printf("[CollisionSystem] Scroll settled at %.0f, panel bounds invalidated", s.lastScroll)
	})
}

// Close 取消订阅和挂起的失效计时
func (s *CollisionSystem) Close() {
	for _, unsub := range s.unsubscribe {
		unsub()
	}
	s.unsubscribe = nil
	if s.invalidateTimer != 0 {
		s.timers.Cancel(s.invalidateTimer)
		s.invalidateTimer = 0
	}
}
