package components

// RenderComponent 每个 tick 写出的渲染输出，供表现层读取
//
// 坐标为视口坐标；Scale 在吸收动画期间从 1 收缩到 0。
type RenderComponent struct {
	X           float64
	Y           float64
	RotationDeg float64
	Opacity     float64
	Scale       float64
	Visible     bool
}

// Hide 隐藏粒子（吸收完成、重生瞬间、视口为空时）
func (r *RenderComponent) Hide() {
	r.Visible = false
	r.Opacity = 0
}
