package systems

import (
	"math"
	"testing"
	"time"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/ecs"
)

func newFieldParticle(w *testWorld, phase float64) (ecs.EntityID, *components.RenderComponent) {
	id := w.factory.CreateFieldParticle(0, 0, testViewport)
	p, _, render := w.components(id)
	p.SpawnTime = 0
	p.StartX = 400
	p.VelocityX = 0

	belt, _ := ecs.GetComponent[*components.BeltComponent](w.em, id)
	belt.JourneyPosition = 0.18
	osc, _ := ecs.GetComponent[*components.OscillationComponent](w.em, id)
	osc.Amplitude = 30
	osc.PeriodMs = 8000
	osc.Phase = phase
	return id, render
}

func TestFieldSystem_OscillationAndFade(t *testing.T) {
	w := newTestWorld(nil)
	field := NewFieldSystem(w.em, w.factory, w.collision, w.cfg, w.stats)
	_, render := newFieldParticle(w, 0)

	// phase=0: 偏移 0，|cos|=1，不透明度为中心最大值
	field.Update(w.frame(0, false))
	if math.Abs(render.Y-360) > 1e-9 {
		t.Errorf("Y = %v, want 360", render.Y)
	}
	if math.Abs(render.Opacity-w.cfg.Field.MaxOpacity) > 1e-9 {
		t.Errorf("opacity = %v, want %v", render.Opacity, w.cfg.Field.MaxOpacity)
	}

	// 四分之一周期：到达振幅顶点，cos=0，完全淡出
	field.Update(w.frame(2000*time.Millisecond, false))
	if math.Abs(render.Y-390) > 1e-9 {
		t.Errorf("Y at quarter period = %v, want 390", render.Y)
	}
	if render.Opacity > 1e-9 || render.Visible {
		t.Errorf("turning point should be faded out, opacity=%v visible=%v", render.Opacity, render.Visible)
	}
}

func TestFieldSystem_FadePowerOverride(t *testing.T) {
	w := newTestWorld(nil)
	field := NewFieldSystem(w.em, w.factory, w.collision, w.cfg, w.stats)
	_, render := newFieldParticle(w, 0)

	// 1/8 周期：|cos| = √2/2
	at := 1000 * time.Millisecond
	centerOpacity := func() float64 {
		par := w.cfg.Parallax
		d := math.Abs(render.Y - testViewport.Height*par.CenterRatio)
		return (1 - d/(testViewport.Height*par.MaxDistanceRatio)) * w.cfg.Field.MaxOpacity
	}

	field.Update(w.frame(at, false))
	want3 := centerOpacity() * math.Pow(math.Sqrt2/2, 3)
	if math.Abs(render.Opacity-want3) > 1e-9 {
		t.Errorf("fadePower 3 opacity = %v, want %v", render.Opacity, want3)
	}

	field.SetFadePower(1)
	field.Update(w.frame(at, false))
	want1 := centerOpacity() * math.Sqrt2 / 2
	if math.Abs(render.Opacity-want1) > 1e-9 {
		t.Errorf("fadePower 1 opacity = %v, want %v", render.Opacity, want1)
	}

	field.SetFadePower(0)
	if field.FadePower() != w.cfg.Field.FadePower {
		t.Errorf("SetFadePower(0) should restore config value, got %v", field.FadePower())
	}
}

func TestFieldSystem_PopulatesOnce(t *testing.T) {
	w := newTestWorld(func(c *config.EngineConfig) { c.Field.Count = 12 })
	field := NewFieldSystem(w.em, w.factory, w.collision, w.cfg, w.stats)

	field.Update(w.frame(0, false))
	field.Update(w.frame(tick, false))
	if n := len(ecs.GetEntitiesWith1[*components.OscillationComponent](w.em)); n != 12 {
		t.Errorf("field particles = %d, want 12", n)
	}
}
