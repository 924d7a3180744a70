package game

import (
	"log"
	"slices"

	"github.com/gonewx/driftfield/pkg/utils"
)

// Element 面板对应的外部 UI 元素
//
// 注册表只通过 Bounds() 观察元素几何，不管理元素的生命周期。
// Bounds() 被视为昂贵操作，只在缓存失效后批量调用。
type Element interface {
	Bounds() utils.Bounds
}

// ElementFunc 将普通函数适配为 Element
type ElementFunc func() utils.Bounds

// Bounds 调用 f
func (f ElementFunc) Bounds() utils.Bounds { return f() }

// PanelBounds 快照中的一项
type PanelBounds struct {
	ID     string
	Bounds utils.Bounds
}

// EffectHandler 接收面板局部坐标系中的接触点
type EffectHandler func(panelID string, local utils.Point)

type effectSubscriber struct {
	id int
	fn EffectHandler
}

type panelEntry struct {
	element Element
	bounds  utils.Bounds
}

// PanelRegistry 面板注册表
//
// 保存 面板ID -> (元素, 缓存边界)，按注册顺序迭代。
// AllBounds() 在缓存失效后惰性地重新查询所有元素的边界，
// 同一次失效周期内的重复调用返回同一份快照。
type PanelRegistry struct {
	order    []string
	panels   map[string]*panelEntry
	snapshot []PanelBounds
	valid    bool
	handlers []effectSubscriber
	nextID   int

	recomputes int
}

// NewPanelRegistry 创建空注册表
func NewPanelRegistry() *PanelRegistry {
	return &PanelRegistry{
		panels: make(map[string]*panelEntry),
	}
}

// Register 注册面板并计算其初始边界
//
// 只让多面板快照失效，不立即重算其他面板，批量挂载时避免 O(n²) 的几何查询。
// 重复注册同一 id 会替换元素，保留原有的迭代位置。
func (r *PanelRegistry) Register(id string, element Element) {
	if element == nil {
		log.Printf("[PanelRegistry] Ignoring panel %q with nil element", id)
		return
	}

	entry := &panelEntry{
		element: element,
		bounds:  element.Bounds().Normalize(),
	}
	if _, exists := r.panels[id]; !exists {
		r.order = append(r.order, id)
	}
	r.panels[id] = entry
	r.valid = false

	log.Printf("[PanelRegistry] Registered panel %q (%d total)", id, len(r.order))
}

// Unregister 移除面板；未知 id 为空操作
//
// 移除不会改变其他面板的坐标，因此快照有效时直接剔除该项，不触发重算。
func (r *PanelRegistry) Unregister(id string) {
	if _, exists := r.panels[id]; !exists {
		return
	}
	delete(r.panels, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })

	if r.valid {
		r.snapshot = slices.DeleteFunc(slices.Clone(r.snapshot), func(pb PanelBounds) bool { return pb.ID == id })
	}

	log.Printf("[PanelRegistry] Unregistered panel %q (%d remaining)", id, len(r.order))
}

// Invalidate 标记缓存失效，下一次 AllBounds() 会重新查询所有元素
func (r *PanelRegistry) Invalidate() {
	r.valid = false
}

// Valid 缓存是否有效
func (r *PanelRegistry) Valid() bool {
	return r.valid
}

// AllBounds 返回按注册顺序排列的边界快照
//
// 返回的切片在下一次失效前保持不变，调用方不得修改。
func (r *PanelRegistry) AllBounds() []PanelBounds {
	if r.valid {
		return r.snapshot
	}

	snapshot := make([]PanelBounds, 0, len(r.order))
	for _, id := range r.order {
		entry := r.panels[id]
		entry.bounds = entry.element.Bounds().Normalize()
		snapshot = append(snapshot, PanelBounds{ID: id, Bounds: entry.bounds})
	}
	r.snapshot = snapshot
	r.valid = true
	r.recomputes++
	return r.snapshot
}

// Bounds 返回单个面板最近一次缓存的边界
func (r *PanelRegistry) Bounds(id string) (utils.Bounds, bool) {
	entry, ok := r.panels[id]
	if !ok {
		return utils.Bounds{}, false
	}
	return entry.bounds, true
}

// Len 返回已注册面板数量
func (r *PanelRegistry) Len() int {
	return len(r.order)
}

// IDs 返回按注册顺序排列的面板 id 副本
func (r *PanelRegistry) IDs() []string {
	return slices.Clone(r.order)
}

// Recomputes 返回快照重算次数
func (r *PanelRegistry) Recomputes() int {
	return r.recomputes
}

// OnEffect 订阅接触效果通知，返回取消订阅函数
//
// 订阅按 id 区分，Clear 之后调用旧的取消函数不会影响新订阅。
func (r *PanelRegistry) OnEffect(handler EffectHandler) func() {
	r.nextID++
	id := r.nextID
	r.handlers = append(r.handlers, effectSubscriber{id: id, fn: handler})
	return func() {
		r.handlers = slices.DeleteFunc(r.handlers, func(s effectSubscriber) bool { return s.id == id })
	}
}

// TriggerEffect 通知外部渲染层在面板局部坐标 local 处显示接触效果
//
// 未知 id 静默忽略。
func (r *PanelRegistry) TriggerEffect(id string, local utils.Point) {
	if _, ok := r.panels[id]; !ok {
		return
	}
	for _, h := range slices.Clone(r.handlers) {
		if h.fn != nil {
			h.fn(id, local)
		}
	}
}

// Clear 移除所有面板和效果订阅
func (r *PanelRegistry) Clear() {
	r.order = nil
	clear(r.panels)
	r.snapshot = nil
	r.valid = false
	r.handlers = nil
}
