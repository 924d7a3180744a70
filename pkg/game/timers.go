package game

import (
	"slices"
	"time"
)

// TimerID 定时器句柄，0 表示无效
type TimerID uint64

type timer struct {
	id       TimerID
	deadline time.Duration
	interval time.Duration // > 0 表示重复定时器
	fn       func()
}

// Timers 单线程协作式定时器队列
//
// 没有后台 goroutine：由帧循环调用 Advance(now) 触发到期的回调。
// 队列按截止时间排序，截止时间相同的定时器按注册顺序触发。
// 回调中可以安全地注册或取消其他定时器（包括取消自身）。
type Timers struct {
	queue  []*timer
	nextID TimerID
	now    time.Duration
}

// NewTimers 创建定时器队列，start 为当前时刻
func NewTimers(start time.Duration) *Timers {
	return &Timers{nextID: 1, now: start}
}

// Now 返回最近一次 Advance 的时刻
func (t *Timers) Now() time.Duration {
	return t.now
}

// Len 返回待触发的定时器数量
func (t *Timers) Len() int {
	return len(t.queue)
}

// After 在 delay 之后触发一次 fn
func (t *Timers) After(delay time.Duration, fn func()) TimerID {
	if delay < 0 {
		delay = 0
	}
	return t.schedule(&timer{deadline: t.now + delay, fn: fn})
}

// Every 每隔 interval 触发一次 fn，直到被取消
//
// interval <= 0 时不注册，返回 0。
func (t *Timers) Every(interval time.Duration, fn func()) TimerID {
	if interval <= 0 {
		return 0
	}
	return t.schedule(&timer{deadline: t.now + interval, interval: interval, fn: fn})
}

// Pending 检查定时器是否仍在队列中
func (t *Timers) Pending(id TimerID) bool {
	return t.indexOf(id) >= 0
}

// Cancel 取消定时器；未知或已触发的 id 返回 false
func (t *Timers) Cancel(id TimerID) bool {
	i := t.indexOf(id)
	if i < 0 {
		return false
	}
	t.queue = slices.Delete(t.queue, i, i+1)
	return true
}

// CancelAll 清空所有定时器
func (t *Timers) CancelAll() {
	clear(t.queue)
	t.queue = t.queue[:0]
}

// Advance 推进到 now 并按截止时间顺序触发所有到期的定时器
//
// 时间不会倒退。重复定时器错过多个周期时只触发一次，下一次截止时间对齐到 now 之后。
// 返回本次触发的回调数量。
func (t *Timers) Advance(now time.Duration) int {
	if now > t.now {
		t.now = now
	}

	fired := 0
	for len(t.queue) > 0 && t.queue[0].deadline <= t.now {
		next := t.queue[0]
		t.queue = slices.Delete(t.queue, 0, 1)

		if next.interval > 0 {
			deadline := next.deadline + next.interval
			if deadline <= t.now {
				missed := (t.now-deadline)/next.interval + 1
				deadline += missed * next.interval
			}
			next.deadline = deadline
			t.insert(next)
		}

		next.fn()
		fired++
	}
	return fired
}

func (t *Timers) schedule(tm *timer) TimerID {
	tm.id = t.nextID
	t.nextID++
	t.insert(tm)
	return tm.id
}

// insert 保持队列有序，相同截止时间插到已有定时器之后
func (t *Timers) insert(tm *timer) {
	i, _ := slices.BinarySearchFunc(t.queue, tm.deadline, func(e *timer, deadline time.Duration) int {
		if e.deadline <= deadline {
			return -1
		}
		return 1
	})
	t.queue = slices.Insert(t.queue, i, tm)
}

func (t *Timers) indexOf(id TimerID) int {
	if id == 0 {
		return -1
	}
	return slices.IndexFunc(t.queue, func(e *timer) bool { return e.id == id })
}
