package systems

import (
	"math"
	"testing"
	"time"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/ecs"
	"github.com/gonewx/driftfield/pkg/game"
	"github.com/gonewx/driftfield/pkg/utils"
)

func singleKind(c *config.EngineConfig) {
	c.Free.Kinds = []config.FreeKindConfig{{
		Name:            "comet",
		SpawnIntervalMs: utils.Range{2000, 2000},
		InitialDelay:    time.Second,
		SpeedRange:      utils.Range{0.1, 0.1},
		SizeRange:       utils.Range{40, 40},
		AngleRange:      utils.Range{0, 0},
		MaxActive:       2,
		Variants:        1,
	}}
}

func newFreeSystem(w *testWorld) *FreeSystem {
	return NewFreeSystem(w.em, w.factory, w.collision, w.timers, w.hub, w.rng, w.cfg, w.stats)
}

func TestFreeSystem_SpawnTimers(t *testing.T) {
	w := newTestWorld(singleKind)
	free := newFreeSystem(w)
	free.Start()

	steps := []struct {
		at   time.Duration
		want int
	}{
		{999 * time.Millisecond, 0},
		{time.Second, 1},     // 初始延迟
		{2 * time.Second, 2}, // 第一个生成间隔
		{4 * time.Second, 2}, // 达到 maxActive
	}
	for _, step := range steps {
		w.timers.Advance(step.at)
		if got := free.ActiveCount("comet"); got != step.want {
			t.Errorf("at %v ActiveCount = %d, want %d", step.at, got, step.want)
		}
	}
	if free.Spawned() != 2 {
		t.Errorf("Spawned = %d, want 2", free.Spawned())
	}

	free.Stop()
	if w.timers.Len() != 0 {
		t.Errorf("Stop left %d timers", w.timers.Len())
	}
}

func TestFreeSystem_SpawnGuards(t *testing.T) {
	w := newTestWorld(singleKind)
	free := newFreeSystem(w)

	if free.Spawn("unknown") {
		t.Error("unknown kind should not spawn")
	}

	empty := game.NewSignalHub(w.timers, 0, game.Viewport{})
	free.hub = empty
	if free.Spawn("comet") {
		t.Error("empty viewport should not spawn")
	}
}

func TestFreeSystem_PositionAndOpacity(t *testing.T) {
	w := newTestWorld(singleKind)
	free := newFreeSystem(w)

	w.hub.NotifyScroll(1000)
	w.hub.Flush()
	free.Spawn("comet")
	id := ecs.GetEntitiesWith1[*components.FreeComponent](w.em)[0]
	p, _, render := w.components(id)

	// 固定到已知轨迹
	p.StartX = 100
	p.StartY = 1000 + 360
	p.VelocityX = 0.1
	p.VelocityY = 0

	free.Update(w.frame(500*time.Millisecond, false))
	if render.X != 150 || render.Y != 360 {
		t.Errorf("render at (%v, %v), want (150, 360)", render.X, render.Y)
	}
	if render.Opacity != w.cfg.Free.MaxOpacity {
		t.Errorf("opacity in the middle = %v, want cap %v", render.Opacity, w.cfg.Free.MaxOpacity)
	}

	// 上边缘淡出区
	p.StartY = 1000 + 54
	free.Update(w.frame(500*time.Millisecond, false))
	if math.Abs(render.Opacity-0.5) > 1e-9 {
		t.Errorf("opacity at half of the fade zone = %v, want 0.5", render.Opacity)
	}
}

func TestFreeSystem_OffScreenRespawn(t *testing.T) {
	w := newTestWorld(singleKind)
	free := newFreeSystem(w)
	free.Spawn("comet")
	id := ecs.GetEntitiesWith1[*components.FreeComponent](w.em)[0]
	p, _, _ := w.components(id)

	// 纵向超出 6·size
	p.StartX = 400
	p.VelocityX = 0
	p.VelocityY = 0
	p.StartY = testViewport.Height + 6*p.Size + 1
	free.Update(w.frame(0, false))
	if p.Generation != 1 {
		t.Fatalf("vertical exit should respawn, Generation = %d", p.Generation)
	}
	if p.StartX != -p.Size && p.StartX != testViewport.Width+p.Size {
		t.Errorf("respawn should start at an edge, StartX = %v", p.StartX)
	}
	if free.ActiveCount("comet") != 1 {
		t.Errorf("respawn must not change population, got %d", free.ActiveCount("comet"))
	}
}
