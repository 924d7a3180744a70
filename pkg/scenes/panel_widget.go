package scenes

import (
	"fmt"
	"time"

	"github.com/gonewx/driftfield/pkg/utils"
)

// Ripple 面板上的一次碰撞涟漪（面板局部坐标）
type Ripple struct {
	id    uint64
	Local utils.Point
	Start time.Duration
}

// Progress 返回涟漪在 [0, 1] 内的播放进度
func (r Ripple) Progress(now, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	return utils.Clamp(float64(now-r.Start)/float64(duration), 0, 1)
}

// PanelWidget 文档中的一块内容面板
//
// DocRect 使用文档坐标，Bounds() 按当前滚动位置换算为视口坐标，
// 因此注册到引擎后无需在滚动时重新注册。
type PanelWidget struct {
	ID      string
	Title   string
	DocRect utils.Bounds

	scrollY func() float64
	ripples []Ripple
	nextID  uint64
}

// NewPanelWidget 创建面板，scrollY 返回宿主当前滚动位置
func NewPanelWidget(id, title string, docRect utils.Bounds, scrollY func() float64) *PanelWidget {
	return &PanelWidget{
		ID:      id,
		Title:   title,
		DocRect: docRect.Normalize(),
		scrollY: scrollY,
	}
}

// Bounds 返回面板在视口坐标中的矩形
func (w *PanelWidget) Bounds() utils.Bounds {
	var y float64
	if w.scrollY != nil {
		y = w.scrollY()
	}
	return w.DocRect.Translate(0, -y)
}

// AddRipple 在局部坐标 local 处添加一个涟漪，返回其 id
func (w *PanelWidget) AddRipple(local utils.Point, now time.Duration) uint64 {
	w.nextID++
	w.ripples = append(w.ripples, Ripple{id: w.nextID, Local: local, Start: now})
	return w.nextID
}

// RemoveRipple 移除指定涟漪，未知 id 为空操作
func (w *PanelWidget) RemoveRipple(id uint64) {
	for i, r := range w.ripples {
		if r.id == id {
			w.ripples = append(w.ripples[:i], w.ripples[i+1:]...)
			return
		}
	}
}

// Ripples 返回当前涟漪
func (w *PanelWidget) Ripples() []Ripple {
	return w.ripples
}

// String 调试输出
func (w *PanelWidget) String() string {
	return fmt.Sprintf("%s[%.0f,%.0f %.0fx%.0f]", w.ID, w.DocRect.Left, w.DocRect.Top, w.DocRect.Width, w.DocRect.Height)
}

// PanelSlot 面板在文档中的相对布局（比例坐标）
type PanelSlot struct {
	Title  string
	Left   float64 // 相对视口宽度
	Top    float64 // 相对文档高度
	Width  float64 // 相对视口宽度
	Height float64 // 相对视口高度
}

// DefaultPanelSlots 默认面板布局
//
// 第一块面板覆盖 belt 家族所在的文档高度区间，最后一块靠近文档底部的 field 区间。
var DefaultPanelSlots = []PanelSlot{
	{Title: "Overview", Left: 0.08, Top: 0.12, Width: 0.40, Height: 0.45},
	{Title: "Telemetry", Left: 0.55, Top: 0.28, Width: 0.36, Height: 0.40},
	{Title: "Archive", Left: 0.10, Top: 0.46, Width: 0.50, Height: 0.35},
	{Title: "Signals", Left: 0.50, Top: 0.64, Width: 0.40, Height: 0.45},
	{Title: "Outpost", Left: 0.20, Top: 0.88, Width: 0.60, Height: 0.30},
}

// SlotRect 将比例布局换算为文档坐标矩形
func SlotRect(slot PanelSlot, viewportWidth, viewportHeight, documentHeight float64) utils.Bounds {
	return utils.NewBounds(
		slot.Left*viewportWidth,
		slot.Top*documentHeight,
		slot.Width*viewportWidth,
		slot.Height*viewportHeight,
	)
}
