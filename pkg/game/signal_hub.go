package game

import (
	"errors"
	"log"
	"slices"
	"time"
)

// ErrHubClosed 信号中心已关闭
var ErrHubClosed = errors.New("signal hub closed")

// Viewport 视口尺寸与文档可滚动总高度
type Viewport struct {
	Width          float64
	Height         float64
	DocumentHeight float64
}

// Empty 视口尚未完成布局（任一尺寸 <= 0）
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// SignalHub 滚动/尺寸信号中心
//
// 宿主只向这里报告一次原生滚动和尺寸变化，再由它分发给所有订阅者：
//   - 滚动：每帧最多分发一次（Flush 时分发最近的位置）
//   - 尺寸：防抖，最后一次变化 resizeDebounce 之后才分发
type SignalHub struct {
	timers         *Timers
	resizeDebounce time.Duration

	scrollY       float64
	scrollPending bool

	viewport        Viewport
	pendingViewport Viewport
	resizeTimer     TimerID

	nextID       int
	scrollSubs   []subscriber[float64]
	viewportSubs []subscriber[Viewport]
	closed       bool

	scrollDeliveries int
	resizeDeliveries int
}

// NewSignalHub 创建信号中心
//
// 参数:
//   - timers: 驱动尺寸防抖的定时器队列
//   - resizeDebounce: 尺寸变化的防抖延迟
//   - initial: 初始视口
func NewSignalHub(timers *Timers, resizeDebounce time.Duration, initial Viewport) *SignalHub {
	return &SignalHub{
		timers:          timers,
		resizeDebounce:  resizeDebounce,
		viewport:        initial,
		pendingViewport: initial,
	}
}

// SubscribeScroll 订阅滚动位置，立即以当前位置回调一次
//
// 返回取消订阅函数；关闭后订阅返回 ErrHubClosed。
func (h *SignalHub) SubscribeScroll(fn func(scrollY float64)) (func(), error) {
	if h.closed {
		return nil, ErrHubClosed
	}
	h.nextID++
	id := h.nextID
	h.scrollSubs = append(h.scrollSubs, subscriber[float64]{id: id, fn: fn})
	fn(h.scrollY)

	return func() {
		h.scrollSubs = slices.DeleteFunc(h.scrollSubs, func(s subscriber[float64]) bool { return s.id == id })
	}, nil
}

// SubscribeResize 订阅视口变化，立即以当前视口回调一次
func (h *SignalHub) SubscribeResize(fn func(vp Viewport)) (func(), error) {
	if h.closed {
		return nil, ErrHubClosed
	}
	h.nextID++
	id := h.nextID
	h.viewportSubs = append(h.viewportSubs, subscriber[Viewport]{id: id, fn: fn})
	fn(h.viewport)

	return func() {
		h.viewportSubs = slices.DeleteFunc(h.viewportSubs, func(s subscriber[Viewport]) bool { return s.id == id })
	}, nil
}

// NotifyScroll 宿主报告原生滚动位置；同一帧内的多次调用合并为一次分发
func (h *SignalHub) NotifyScroll(scrollY float64) {
	if h.closed {
		return
	}
	if scrollY == h.scrollY && !h.scrollPending {
		return
	}
	h.scrollY = scrollY
	h.scrollPending = true
}

// Flush 在动画帧开始时调用，分发合并后的滚动位置
func (h *SignalHub) Flush() {
	if !h.scrollPending || h.closed {
		return
	}
	h.scrollPending = false
	h.scrollDeliveries++

	y := h.scrollY
	for _, s := range slices.Clone(h.scrollSubs) {
		s.fn(y)
	}
}

// NotifyResize 宿主报告视口变化，重新开始防抖计时
func (h *SignalHub) NotifyResize(vp Viewport) {
	if h.closed {
		return
	}
	h.pendingViewport = vp
	if h.resizeTimer != 0 {
		h.timers.Cancel(h.resizeTimer)
	}
	h.resizeTimer = h.timers.After(h.resizeDebounce, h.deliverResize)
}

func (h *SignalHub) deliverResize() {
	h.resizeTimer = 0
	if h.closed {
		return
	}
	h.viewport = h.pendingViewport
	h.resizeDeliveries++
	log.Printf("[SignalHub] Viewport resized to %.0fx%.0f (document %.0f)",
		h.viewport.Width, h.viewport.Height, h.viewport.DocumentHeight)

	vp := h.viewport
	for _, s := range slices.Clone(h.viewportSubs) {
		s.fn(vp)
	}
}

// ScrollY 返回最近报告的滚动位置
func (h *SignalHub) ScrollY() float64 {
	return h.scrollY
}

// Viewport 返回最近一次已分发的视口
func (h *SignalHub) Viewport() Viewport {
	return h.viewport
}

// Deliveries 返回滚动和尺寸信号的分发次数
func (h *SignalHub) Deliveries() (scroll, resize int) {
	return h.scrollDeliveries, h.resizeDeliveries
}

// Close 取消挂起的防抖并清空所有订阅
func (h *SignalHub) Close() {
	if h.closed {
		return
	}
	if h.resizeTimer != 0 {
		h.timers.Cancel(h.resizeTimer)
		h.resizeTimer = 0
	}
	h.scrollSubs = nil
	h.viewportSubs = nil
	h.closed = true
	log.Printf("[SignalHub] Closed")
}
