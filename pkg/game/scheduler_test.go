package game

import (
	"testing"
	"time"

	"github.com/gonewx/driftfield/pkg/config"
)

const frame = 16 * time.Millisecond

func newTestScheduler(throttle int) (*Scheduler, *ManualClock, *Timers) {
	clock := NewManualClock(0)
	timers := NewTimers(0)
	s := NewScheduler(clock, timers, config.SchedulerConfig{
		ThrottleFrames: throttle,
		SweepInterval:  500 * time.Millisecond,
	})
	return s, clock, timers
}

func TestScheduler_ThrottlesTicks(t *testing.T) {
	for _, throttle := range []int{1, 2, 3, 5} {
		s, clock, _ := newTestScheduler(throttle)
		frames, ticks := 0, 0
		s.OnFrame(func() { frames++ })
		s.OnTick(func(time.Duration) { ticks++ })
		s.Start()

		for i := 1; i <= 30; i++ {
			clock.Advance(frame)
			ticked := s.Frame()
			if want := i%throttle == 0; ticked != want {
				t.Errorf("throttle=%d frame %d: ticked=%v, want %v", throttle, i, ticked, want)
			}
		}
		if frames != 30 {
			t.Errorf("throttle=%d: frame hooks ran %d times, want 30", throttle, frames)
		}
		if ticks != 30/throttle {
			t.Errorf("throttle=%d: ticks = %d, want %d", throttle, ticks, 30/throttle)
		}
	}
}

func TestScheduler_FrameHooksBeforeTick(t *testing.T) {
	s, clock, _ := newTestScheduler(1)
	var order []string
	s.OnFrame(func() { order = append(order, "frame") })
	s.OnTick(func(time.Duration) { order = append(order, "tick") })
	s.Start()

	clock.Advance(frame)
	s.Frame()
	if len(order) != 2 || order[0] != "frame" || order[1] != "tick" {
		t.Errorf("order = %v, want [frame tick]", order)
	}
}

func TestScheduler_TickReceivesClockTime(t *testing.T) {
	s, clock, _ := newTestScheduler(1)
	var got time.Duration
	s.OnTick(func(now time.Duration) { got = now })
	s.Start()

	clock.Set(1234 * time.Millisecond)
	s.Frame()
	if got != 1234*time.Millisecond {
		t.Errorf("tick now = %v, want 1.234s", got)
	}
}

func TestScheduler_SweepInterval(t *testing.T) {
	s, clock, _ := newTestScheduler(2)
	sweeps := 0
	s.OnSweep(func() { sweeps++ })
	s.Start()

	for clock.Now() < 2*time.Second {
		clock.Advance(frame)
		s.Frame()
	}
	if sweeps != 4 {
		t.Errorf("sweeps over 2s = %d, want 4", sweeps)
	}
	if s.Sweeps() != sweeps {
		t.Errorf("Sweeps() = %d, want %d", s.Sweeps(), sweeps)
	}
}

func TestScheduler_StopClearsTimers(t *testing.T) {
	s, clock, timers := newTestScheduler(1)
	fired := false
	s.Start()
	timers.After(100*time.Millisecond, func() { fired = true })

	s.Stop()
	if timers.Len() != 0 {
		t.Errorf("Stop left %d timers", timers.Len())
	}
	clock.Advance(time.Second)
	if s.Frame() {
		t.Error("stopped scheduler should not tick")
	}
	if fired {
		t.Error("timer fired after Stop")
	}
	if s.Running() {
		t.Error("Running() = true after Stop")
	}
}

func TestScheduler_NotRunningBeforeStart(t *testing.T) {
	s, clock, _ := newTestScheduler(1)
	ticks := 0
	s.OnTick(func(time.Duration) { ticks++ })
	clock.Advance(frame)
	if s.Frame() || ticks != 0 {
		t.Error("Frame before Start should do nothing")
	}
}
