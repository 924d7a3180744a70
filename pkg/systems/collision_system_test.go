package systems

import (
	"testing"
	"time"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/game"
	"github.com/gonewx/driftfield/pkg/utils"
)

// 每 N 次调用恰好返回一次 true，从第 N 次开始
func TestShouldScanThisFrame_Throttle(t *testing.T) {
	for n := 1; n <= 6; n++ {
		w := newTestWorld(func(c *config.EngineConfig) {
			c.Collision.CheckIntervalFrames = n
		})
		for call := 1; call <= 60; call++ {
			got := w.collision.ShouldScanThisFrame()
			if want := call%n == 0; got != want {
				t.Errorf("N=%d call %d: got %v, want %v", n, call, got, want)
			}
		}
	}
}

func TestQuery_Scenario(t *testing.T) {
	w := newTestWorld(nil)
	w.registry.Register("panel", game.ElementFunc(func() utils.Bounds {
		return utils.BoundsFromEdges(90, 90, 150, 150)
	}))

	result, hit := w.collision.Query(utils.Point{X: 100, Y: 100}, 10)
	if !hit {
		t.Fatal("circle at (100,100) r=10 should hit panel 90..150")
	}
	if result.PanelID != "panel" {
		t.Errorf("PanelID = %q, want panel", result.PanelID)
	}
	if result.CollisionPoint != (utils.Point{X: 100, Y: 100}) {
		t.Errorf("CollisionPoint = %+v, want (100,100)", result.CollisionPoint)
	}
	if result.LocalPoint != (utils.Point{X: 10, Y: 10}) {
		t.Errorf("LocalPoint = %+v, want (10,10)", result.LocalPoint)
	}

	if _, hit := w.collision.Query(utils.Point{X: 300, Y: 300}, 10); hit {
		t.Error("circle at (300,300) r=10 should miss")
	}
}

// 注册顺序中第一个命中者胜出，而不是最近者
func TestQuery_FirstRegisteredWins(t *testing.T) {
	w := newTestWorld(nil)
	w.registry.Register("far", game.ElementFunc(func() utils.Bounds { return utils.NewBounds(0, 0, 200, 200) }))
	w.registry.Register("near", game.ElementFunc(func() utils.Bounds { return utils.NewBounds(95, 95, 10, 10) }))

	result, hit := w.collision.Query(utils.Point{X: 100, Y: 100}, 5)
	if !hit || result.PanelID != "far" {
		t.Errorf("got (%q, %v), want first registered panel 'far'", result.PanelID, hit)
	}
}

func TestQuery_SkipsInvisiblePanels(t *testing.T) {
	w := newTestWorld(nil)
	w.registry.Register("above", game.ElementFunc(func() utils.Bounds { return utils.NewBounds(0, -500, 200, 100) }))

	if _, hit := w.collision.Query(utils.Point{X: 100, Y: -450}, 50); hit {
		t.Error("panel outside the viewport must be skipped")
	}
}

func TestQuery_EmptyRegistry(t *testing.T) {
	w := newTestWorld(nil)
	if _, hit := w.collision.Query(utils.Point{X: 1, Y: 1}, 100); hit {
		t.Error("empty registry should never report a hit")
	}
	w.registry.Invalidate()
	if _, hit := w.collision.Query(utils.Point{X: 1, Y: 1}, 100); hit {
		t.Error("invalidated empty registry should never report a hit")
	}
}

// 滚动停止 boundsInvalidationDelay 之后才让缓存失效
func TestNotifyScroll_DebouncedInvalidation(t *testing.T) {
	w := newTestWorld(nil)
	w.fullScreenPanel("p")
	w.registry.AllBounds()

	w.collision.NotifyScroll(100)
	w.timers.Advance(100 * time.Millisecond)
	if !w.registry.Valid() {
		t.Fatal("cache invalidated while still scrolling")
	}

	// 继续滚动，重新计时
	w.collision.NotifyScroll(120)
	w.timers.Advance(200 * time.Millisecond)
	if !w.registry.Valid() {
		t.Fatal("cache invalidated before the restarted delay elapsed")
	}
	w.timers.Advance(250 * time.Millisecond)
	if w.registry.Valid() {
		t.Error("cache should be invalid 150ms after scrolling stopped")
	}

	// 相同位置不会重新计时
	w.registry.AllBounds()
	w.collision.NotifyScroll(120)
	w.timers.Advance(time.Second)
	if !w.registry.Valid() {
		t.Error("unchanged scroll position must not invalidate")
	}
}

// 通过信号中心分发的滚动同样触发失效
func TestNotifyScroll_ViaHub(t *testing.T) {
	w := newTestWorld(nil)
	w.fullScreenPanel("p")
	w.registry.AllBounds()

	w.hub.NotifyScroll(300)
	w.hub.Flush()
	w.timers.Advance(150 * time.Millisecond)
	if w.registry.Valid() {
		t.Error("hub scroll delivery should schedule invalidation")
	}
}

func TestResize_InvalidatesRegistry(t *testing.T) {
	w := newTestWorld(nil)
	w.fullScreenPanel("p")
	w.registry.AllBounds()

	w.hub.NotifyResize(game.Viewport{Width: 800, Height: 600, DocumentHeight: 3000})
	w.timers.Advance(w.cfg.Signals.ResizeDebounce)
	if w.registry.Valid() {
		t.Error("resize should invalidate panel bounds")
	}
}

func TestCollide(t *testing.T) {
	w := newTestWorld(nil)
	w.fullScreenPanel("hero")

	var effects []utils.Point
	w.registry.OnEffect(func(id string, local utils.Point) { effects = append(effects, local) })

	coll := components.NewCollisionComponent(true)
	now := 5 * time.Second
	if _, hit := w.collision.Collide(coll, 40, 50, 10, now); !hit {
		t.Fatal("active collider inside panel should collide")
	}
	if coll.State != components.CollisionColliding || coll.StartTime != now {
		t.Errorf("state=%v start=%v, want colliding at %v", coll.State, coll.StartTime, now)
	}
	if coll.Anchor == nil || *coll.Anchor != (utils.Point{X: 40, Y: 50}) {
		t.Errorf("anchor = %v, want (40,50)", coll.Anchor)
	}
	if len(effects) != 1 || effects[0] != (utils.Point{X: 40, Y: 50}) {
		t.Errorf("effects = %v, want one at (40,50)", effects)
	}
	if w.stats.Collisions != 1 {
		t.Errorf("Collisions = %d, want 1", w.stats.Collisions)
	}

	// 已在 Colliding 中不会再次命中
	if _, hit := w.collision.Collide(coll, 40, 50, 10, now); hit {
		t.Error("colliding particle must not collide again")
	}

	// 非碰撞体永远不参与检测
	plain := components.NewCollisionComponent(false)
	if _, hit := w.collision.Collide(plain, 40, 50, 10, now); hit || plain.State != components.CollisionNone {
		t.Error("non-collider must never enter colliding")
	}
}

func TestCollisionSystem_Close(t *testing.T) {
	w := newTestWorld(nil)
	w.fullScreenPanel("p")
	w.registry.AllBounds()

	w.collision.NotifyScroll(10)
	w.collision.Close()
	w.timers.Advance(time.Second)
	if !w.registry.Valid() {
		t.Error("Close should cancel the pending invalidation")
	}

	w.hub.NotifyScroll(50)
	w.hub.Flush()
	w.timers.Advance(2 * time.Second)
	if !w.registry.Valid() {
		t.Error("closed collision system should no longer receive scroll")
	}
}
