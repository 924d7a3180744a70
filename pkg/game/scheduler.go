package game

import (
	"log"
	"time"

	"github.com/gonewx/driftfield/pkg/config"
)

// Scheduler 帧调度器
//
// 宿主每个原生动画帧调用一次 Frame()：
//  1. 推进定时器队列（防抖、生成定时器、清理定时器）
//  2. 执行帧钩子（例如 SignalHub.Flush 分发合并后的滚动位置）
//  3. 每 throttleFrames 帧执行一次 tick，推进粒子模拟
//
// 另有一个独立的低频清理定时器（默认 500ms），批量移除过期粒子。
type Scheduler struct {
	clock  Clock
	timers *Timers

	throttleFrames int
	sweepInterval  time.Duration

	onFrame []func()
	onTick  []func(now time.Duration)
	onSweep []func()

	sweepTimer TimerID
	running    bool

	frames int
	ticks  int
	sweeps int
}

// NewScheduler 创建调度器
func NewScheduler(clock Clock, timers *Timers, cfg config.SchedulerConfig) *Scheduler {
	throttle := cfg.ThrottleFrames
	if throttle < 1 {
		throttle = 1
	}
	return &Scheduler{
		clock:          clock,
		timers:         timers,
		throttleFrames: throttle,
		sweepInterval:  cfg.SweepInterval,
	}
}

// OnFrame 注册每个原生帧都执行的钩子（在 tick 之前）
func (s *Scheduler) OnFrame(fn func()) {
	s.onFrame = append(s.onFrame, fn)
}

// OnTick 注册节流后的模拟 tick
func (s *Scheduler) OnTick(fn func(now time.Duration)) {
	s.onTick = append(s.onTick, fn)
}

// OnSweep 注册低频清理回调
func (s *Scheduler) OnSweep(fn func()) {
	s.onSweep = append(s.onSweep, fn)
}

// Start 开始调度并启动清理定时器，重复调用无效
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.timers.Advance(s.clock.Now())
	s.sweepTimer = s.timers.Every(s.sweepInterval, s.sweep)
	log.Printf("[Scheduler] Started (throttle=%d, sweep=%v)", s.throttleFrames, s.sweepInterval)
}

// Stop 停止调度，清除所有挂起的定时器
//
// 进行中的碰撞动画直接放弃，不做补偿。
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.timers.CancelAll()
	s.sweepTimer = 0
	log.Printf("[Scheduler] Stopped after %d frames, %d ticks", s.frames, s.ticks)
}

// Running 调度器是否在运行
func (s *Scheduler) Running() bool {
	return s.running
}

// Frame 处理一个原生动画帧，返回本帧是否执行了 tick
func (s *Scheduler) Frame() bool {
	if !s.running {
		return false
	}

	now := s.clock.Now()
	s.timers.Advance(now)
	// 定时器回调可能已经停止了调度器
	if !s.running {
		return false
	}

	for _, fn := range s.onFrame {
		fn()
	}

	s.frames++
	if s.frames%s.throttleFrames != 0 {
		return false
	}

	s.ticks++
	for _, fn := range s.onTick {
		fn(now)
	}
	return true
}

func (s *Scheduler) sweep() {
	s.sweeps++
	for _, fn := range s.onSweep {
		fn()
	}
}

// Frames 返回处理过的原生帧数
func (s *Scheduler) Frames() int { return s.frames }

// Ticks 返回执行过的 tick 数
func (s *Scheduler) Ticks() int { return s.ticks }

// Sweeps 返回执行过的清理次数
func (s *Scheduler) Sweeps() int { return s.sweeps }
