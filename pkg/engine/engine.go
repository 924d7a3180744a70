// Package engine 组装粒子/碰撞引擎
//
// Engine 是宿主唯一需要接触的对象：宿主在每个原生动画帧调用 Frame()，
// 报告滚动和视口变化，注册面板，并在每帧读取 Snapshot() 渲染粒子。
// 所有工作都在调用 Frame() 的线程上同步完成，Engine 不是并发安全的。
package engine

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/ecs"
	"github.com/gonewx/driftfield/pkg/entities"
	"github.com/gonewx/driftfield/pkg/game"
	"github.com/gonewx/driftfield/pkg/systems"
	"github.com/gonewx/driftfield/pkg/utils"
)

// Stats 引擎运行计数
type Stats = systems.Stats

// RenderState 单个粒子的渲染输出
type RenderState struct {
	ID          ecs.EntityID
	Family      components.Family
	Kind        string // 仅 free 家族
	X           float64
	Y           float64
	RotationDeg float64
	Opacity     float64
	Scale       float64
	Visible     bool
	Variant     int
	Size        float64
	IsCollider  bool
	State       components.CollisionState
}

type options struct {
	clock    game.Clock
	rng      *rand.Rand
	viewport game.Viewport
}

// Option 引擎构造选项
type Option func(*options)

// WithClock 注入时钟（测试和无界面工具使用 game.ManualClock）
func WithClock(clock game.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithRand 注入随机源
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithViewport 设置初始视口（不经过防抖）
func WithViewport(vp game.Viewport) Option {
	return func(o *options) { o.viewport = vp }
}

// Engine 粒子/碰撞引擎
type Engine struct {
	cfg *config.EngineConfig

	clock     game.Clock
	timers    *game.Timers
	hub       *game.SignalHub
	registry  *game.PanelRegistry
	scheduler *game.Scheduler

	em        *ecs.EntityManager
	collision *systems.CollisionSystem
	belt      *systems.BeltSystem
	field     *systems.FieldSystem
	free      *systems.FreeSystem
	eviction  *systems.EvictionSystem

	stats  *systems.Stats
	closed bool
}

// New 创建引擎
//
// cfg 为 nil 时使用默认配置。配置非法时返回错误。
func New(cfg *config.EngineConfig, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = game.NewSystemClock()
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e := &Engine{
		cfg:      cfg,
		clock:    o.clock,
		timers:   game.NewTimers(o.clock.Now()),
		registry: game.NewPanelRegistry(),
		em:       ecs.NewEntityManager(),
		stats:    &systems.Stats{},
	}
	e.hub = game.NewSignalHub(e.timers, cfg.Signals.ResizeDebounce, o.viewport)
	e.scheduler = game.NewScheduler(e.clock, e.timers, cfg.Scheduler)

	factory := entities.NewParticleFactory(e.em, cfg, o.rng)
	e.collision = systems.NewCollisionSystem(e.registry, e.timers, e.hub, cfg.Collision, e.stats)
	e.belt = systems.NewBeltSystem(e.em, factory, e.collision, cfg, e.stats)
	e.field = systems.NewFieldSystem(e.em, factory, e.collision, cfg, e.stats)
	e.free = systems.NewFreeSystem(e.em, factory, e.collision, e.timers, e.hub, o.rng, cfg, e.stats)
	e.eviction = systems.NewEvictionSystem(e.em, cfg.Free.MaxLifetime, e.stats)

	e.scheduler.OnFrame(e.hub.Flush)
	e.scheduler.OnTick(e.tick)
	e.scheduler.OnSweep(func() { e.eviction.Sweep(e.clock.Now(), e.hub.Viewport()) })

	log.Printf("[Engine] Created (belt=%d, field=%d, free kinds=%d)",
		cfg.Belt.Count, cfg.Field.Count, len(cfg.Free.Kinds))
	return e, nil
}

// Start 启动调度器和 free 家族生成定时器
func (e *Engine) Start() {
	if e.closed {
		return
	}
	e.scheduler.Start()
	e.free.Start()
}

// Stop 停止调度并清除所有挂起的定时器，粒子保持原状
func (e *Engine) Stop() {
	e.free.Stop()
	e.scheduler.Stop()
}

// Running 引擎是否在运行
func (e *Engine) Running() bool {
	return e.scheduler.Running()
}

// Close 停止引擎并释放注册表与信号订阅，之后的 Start 无效
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.Stop()
	e.collision.Close()
	e.hub.Close()
	e.registry.Clear()
	e.closed = true
	log.Printf("[Engine] Closed")
}

// Frame 处理一个原生动画帧，返回本帧是否推进了模拟
func (e *Engine) Frame() bool {
	ticked := e.scheduler.Frame()
	e.stats.Frames = e.scheduler.Frames()
	e.stats.Ticks = e.scheduler.Ticks()
	return ticked
}

func (e *Engine) tick(now time.Duration) {
	scan := e.collision.ShouldScanThisFrame()
	if scan {
		e.stats.Scans++
	}
	fc := systems.FrameContext{
		Now:      now,
		ScrollY:  e.hub.ScrollY(),
		Viewport: e.hub.Viewport(),
		Scan:     scan,
	}

	e.belt.Update(fc)
	e.field.Update(fc)
	e.free.Update(fc)
	e.stats.Live = e.em.Count()
}

// RegisterPanel 注册可碰撞的面板，UI 区域挂载时调用
func (e *Engine) RegisterPanel(id string, element game.Element) {
	e.registry.Register(id, element)
}

// UnregisterPanel 注销面板，未知 id 为空操作
func (e *Engine) UnregisterPanel(id string) {
	e.registry.Unregister(id)
}

// InvalidatePanels 宿主布局变化（非滚动/尺寸引起）时让面板边界缓存失效
func (e *Engine) InvalidatePanels() {
	e.registry.Invalidate()
}

// OnCollision 订阅碰撞效果：面板 id 与面板局部坐标系中的接触点
//
// 返回取消订阅函数。UI 层负责渲染涟漪等效果及其清理。
func (e *Engine) OnCollision(fn func(panelID string, local utils.Point)) func() {
	return e.registry.OnEffect(fn)
}

// NotifyScroll 报告原生滚动位置
func (e *Engine) NotifyScroll(scrollY float64) {
	e.hub.NotifyScroll(scrollY)
}

// NotifyResize 报告视口尺寸与文档高度变化（防抖后生效）
func (e *Engine) NotifyResize(vp game.Viewport) {
	e.hub.NotifyResize(vp)
}

// Viewport 返回当前生效的视口
func (e *Engine) Viewport() game.Viewport {
	return e.hub.Viewport()
}

// ScrollY 返回最近报告的滚动位置
func (e *Engine) ScrollY() float64 {
	return e.hub.ScrollY()
}

// SetFadePower 覆盖 field 家族的转向淡出指数，<= 0 恢复配置值
func (e *Engine) SetFadePower(power float64) {
	e.field.SetFadePower(power)
}

// Config 返回引擎配置
func (e *Engine) Config() *config.EngineConfig {
	return e.cfg
}

// Timers 返回引擎的定时器队列，宿主可以用它调度与模拟同步的回调（如涟漪清理）
func (e *Engine) Timers() *game.Timers {
	return e.timers
}

// Now 返回引擎时钟的当前时刻
func (e *Engine) Now() time.Duration {
	return e.clock.Now()
}

// Stats 返回运行计数的副本
func (e *Engine) Stats() Stats {
	return *e.stats
}

// Snapshot 返回所有存活粒子的渲染输出，按实体 ID 升序
func (e *Engine) Snapshot() []RenderState {
	ids := ecs.GetEntitiesWith2[*components.ParticleComponent, *components.RenderComponent](e.em)
	out := make([]RenderState, 0, len(ids))
	for _, id := range ids {
		p, _ := ecs.GetComponent[*components.ParticleComponent](e.em, id)
		r, _ := ecs.GetComponent[*components.RenderComponent](e.em, id)

		state := RenderState{
			ID:          id,
			Family:      p.Family,
			X:           r.X,
			Y:           r.Y,
			RotationDeg: r.RotationDeg,
			Opacity:     r.Opacity,
			Scale:       r.Scale,
			Visible:     r.Visible,
			Variant:     p.Variant,
			Size:        p.Size,
		}
		if c, ok := ecs.GetComponent[*components.CollisionComponent](e.em, id); ok {
			state.IsCollider = c.IsCollider
			state.State = c.State
		}
		if f, ok := ecs.GetComponent[*components.FreeComponent](e.em, id); ok {
			state.Kind = f.Kind
		}
		out = append(out, state)
	}
	return out
}
