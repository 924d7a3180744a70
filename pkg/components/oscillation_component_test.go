package components

import (
	"math"
	"testing"
	"time"
)

func TestOscillation_OffsetAndFade(t *testing.T) {
	o := &OscillationComponent{Amplitude: 30, PeriodMs: 8000, Phase: 0}

	// 四分之一周期处到达振幅峰值，且处于转向点（淡出为 0）
	if got := o.Offset(2000); math.Abs(got-30) > 1e-9 {
		t.Errorf("Offset(quarter period) = %v, want 30", got)
	}
	if got := o.DirectionFade(2000, 3); got > 1e-9 {
		t.Errorf("DirectionFade at turning point = %v, want ~0", got)
	}

	// 起点处速度最大，不淡出
	if got := o.DirectionFade(0, 3); math.Abs(got-1) > 1e-9 {
		t.Errorf("DirectionFade at start = %v, want 1", got)
	}

	// fadePower 越大，淡出越快
	mid := 1000.0
	if o.DirectionFade(mid, 5) >= o.DirectionFade(mid, 1) {
		t.Error("higher fade power should fade more")
	}
}

func TestOscillation_ZeroPeriod(t *testing.T) {
	o := &OscillationComponent{Amplitude: 10, PeriodMs: 0, Phase: math.Pi / 2}
	if got := o.Offset(12345); math.Abs(got-10) > 1e-9 {
		t.Errorf("zero period should hold the initial phase, got %v", got)
	}
}

func TestParticleComponent_Timing(t *testing.T) {
	p := &ParticleComponent{SpawnTime: -2 * time.Second, InitialRotation: 10, RotationSpeed: 45}

	if got := p.ElapsedMs(time.Second); got != 3000 {
		t.Errorf("ElapsedMs: got %v, want 3000", got)
	}
	if got := p.RotationAt(2000); got != 100 {
		t.Errorf("RotationAt(2000): got %v, want 100", got)
	}
	if FamilyField.String() != "field" || Family(99).String() != "unknown" {
		t.Error("Family.String mismatch")
	}
}
