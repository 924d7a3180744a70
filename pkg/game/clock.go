package game

import "time"

// Clock 引擎时钟，返回自引擎启动以来的单调时长
//
// 所有粒子运动都由 Now() 的差值推导，测试中使用 ManualClock 获得确定性结果。
type Clock interface {
	Now() time.Duration
}

// SystemClock 基于系统单调时钟的实现
type SystemClock struct {
	start time.Time
}

// NewSystemClock 创建系统时钟，以当前时刻为零点
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now 返回自创建以来经过的时长（使用单调时钟读数）
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock 手动推进的时钟，用于测试和无界面验证工具
type ManualClock struct {
	now time.Duration
}

// NewManualClock 创建从 start 开始的手动时钟
func NewManualClock(start time.Duration) *ManualClock {
	return &ManualClock{now: start}
}

// Now 返回当前时刻
func (c *ManualClock) Now() time.Duration {
	return c.now
}

// Set 设置当前时刻，时钟不允许倒退
func (c *ManualClock) Set(now time.Duration) {
	if now > c.now {
		c.now = now
	}
}

// Advance 推进 d，返回推进后的时刻
func (c *ManualClock) Advance(d time.Duration) time.Duration {
	if d > 0 {
		c.now += d
	}
	return c.now
}

// PausableClock 在另一个时钟之上叠加暂停
//
// 暂停期间 Now() 冻结在暂停时刻，恢复后扣除累计暂停时长，
// 因此粒子位置和定时器截止时间在暂停前后保持连续。
type PausableClock struct {
	base        Clock
	paused      bool
	pausedAt    time.Duration // 暂停开始时 base 的读数
	totalPaused time.Duration
}

// NewPausableClock 包装 base
func NewPausableClock(base Clock) *PausableClock {
	return &PausableClock{base: base}
}

// Now 返回扣除暂停时长后的时刻
func (c *PausableClock) Now() time.Duration {
	if c.paused {
		return c.pausedAt - c.totalPaused
	}
	return c.base.Now() - c.totalPaused
}

// Pause 冻结时钟，重复调用无效
func (c *PausableClock) Pause() {
	if c.paused {
		return
	}
	c.paused = true
	c.pausedAt = c.base.Now()
}

// Resume 恢复时钟，重复调用无效
func (c *PausableClock) Resume() {
	if !c.paused {
		return
	}
	c.paused = false
	c.totalPaused += c.base.Now() - c.pausedAt
}

// Paused 是否处于暂停状态
func (c *PausableClock) Paused() bool {
	return c.paused
}

// TotalPaused 累计暂停时长（包含进行中的暂停）
func (c *PausableClock) TotalPaused() time.Duration {
	if c.paused {
		return c.totalPaused + c.base.Now() - c.pausedAt
	}
	return c.totalPaused
}
