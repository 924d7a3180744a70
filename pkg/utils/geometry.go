package utils

// Geometry kernel (几何内核)
//
// 粒子与面板之间的碰撞检测只依赖这里的纯函数：圆与矩形相交、最近点、
// 视口坐标到面板局部坐标的转换，以及视口可见性判断。
//
// 所有坐标均为视口坐标（左上角为原点，Y 轴向下）。

// Point 表示一个二维坐标点
type Point struct {
	X float64
	Y float64
}

// Bounds 表示一个轴对齐矩形（视口坐标）
//
// 不变式：Right >= Left，Bottom >= Top，Width/Height 与边一致。
// 通过 NewBounds / BoundsFromEdges 构造可以保证该不变式。
type Bounds struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
	Width  float64
	Height float64
}

// NewBounds 根据左上角和尺寸构造矩形，负尺寸按 0 处理
func NewBounds(left, top, width, height float64) Bounds {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Bounds{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
		Width:  width,
		Height: height,
	}
}

// BoundsFromEdges 根据四条边构造矩形，边顺序颠倒时自动交换
func BoundsFromEdges(left, top, right, bottom float64) Bounds {
	if right < left {
		left, right = right, left
	}
	if bottom < top {
		top, bottom = bottom, top
	}
	return Bounds{
		Left:   left,
		Top:    top,
		Right:  right,
		Bottom: bottom,
		Width:  right - left,
		Height: bottom - top,
	}
}

// Normalize 返回满足不变式的矩形（Width/Height 由边重新计算）
func (b Bounds) Normalize() Bounds {
	return BoundsFromEdges(b.Left, b.Top, b.Right, b.Bottom)
}

// Contains 检查点是否落在矩形内（含边界）
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Top && p.Y <= b.Bottom
}

// Translate 返回平移后的矩形
func (b Bounds) Translate(dx, dy float64) Bounds {
	return Bounds{
		Left:   b.Left + dx,
		Top:    b.Top + dy,
		Right:  b.Right + dx,
		Bottom: b.Bottom + dy,
		Width:  b.Width,
		Height: b.Height,
	}
}

// ClosestPoint 将 center 钳制到矩形内，得到矩形上距离 center 最近的点
func ClosestPoint(center Point, b Bounds) Point {
	return Point{
		X: Clamp(center.X, b.Left, b.Right),
		Y: Clamp(center.Y, b.Top, b.Bottom),
	}
}

// Intersects 判断圆（center, radius）是否与矩形相交
//
// 当圆心到矩形最近点的距离平方 <= radius² 时返回 true。
// 负半径永远不相交。
func Intersects(center Point, radius float64, b Bounds) bool {
	if radius < 0 {
		return false
	}
	closest := ClosestPoint(center, b)
	dx := center.X - closest.X
	dy := center.Y - closest.Y
	return dx*dx+dy*dy <= radius*radius
}

// CollisionPoint 返回对外暴露的接触点，即矩形上距离圆心最近的点
func CollisionPoint(center Point, b Bounds) Point {
	return ClosestPoint(center, b)
}

// ToLocal 将视口坐标转换为面板局部坐标
//
// 结果限制在 [0,width] × [0,height] 内。Right = Left+Width 存在舍入，
// 贴边的接触点相减后可能比 Width 大 1 ulp。
func ToLocal(p Point, b Bounds) Point {
	return Point{
		X: Clamp(p.X-b.Left, 0, b.Width),
		Y: Clamp(p.Y-b.Top, 0, b.Height),
	}
}

// IsVisible 判断矩形是否与视口 [0,w] × [0,h] 重叠
//
// 视口尺寸为 0 或负数时（例如布局尚未完成）视为没有任何可见区域。
func IsVisible(b Bounds, viewportWidth, viewportHeight float64) bool {
	if viewportWidth <= 0 || viewportHeight <= 0 {
		return false
	}
	return b.Right >= 0 &&
		b.Left <= viewportWidth &&
		b.Bottom >= 0 &&
		b.Top <= viewportHeight
}
