package components

import "time"

// Family 粒子家族
type Family uint8

const (
	// FamilyBelt 沿文档高度固定带状区域穿行的粒子（小行星带）
	FamilyBelt Family = iota
	// FamilyFree 从屏幕左右边缘生成、做直线运动的粒子（彗星、卫星等）
	FamilyFree
	// FamilyField 带周期性纵向振荡的粒子（外层带天体）
	FamilyField
)

// String 返回家族名称
func (f Family) String() string {
	switch f {
	case FamilyBelt:
		return "belt"
	case FamilyFree:
		return "free"
	case FamilyField:
		return "field"
	}
	return "unknown"
}

// ParticleComponent holds the kinematic state shared by every particle family.
// Position is always derived from elapsed time since SpawnTime, never integrated
// frame by frame, so a skipped tick never accumulates drift.
//
// Respawn rewrites this component in place on the same entity.
type ParticleComponent struct {
	Family Family

	// SpawnTime 生成时刻（引擎时钟），初始化时可能为负值以错开粒子年龄
	SpawnTime time.Duration

	// 起点。StartY 仅对 free 家族有意义（文档坐标）
	StartX float64
	StartY float64

	// 速度（像素/毫秒）
	VelocityX float64
	VelocityY float64

	// Size 直径（像素），碰撞半径为 Size/2
	Size float64

	// 旋转（度、度/秒）
	InitialRotation float64
	RotationSpeed   float64

	// Variant 渲染变体索引，由表现层自行映射到具体素材
	Variant int

	// Generation 重生次数
	Generation int
}

// ElapsedMs 返回自生成以来经过的毫秒数
func (p *ParticleComponent) ElapsedMs(now time.Duration) float64 {
	return Millis(now - p.SpawnTime)
}

// RotationAt 返回 elapsedMs 时刻的旋转角度（度）
func (p *ParticleComponent) RotationAt(elapsedMs float64) float64 {
	return p.InitialRotation + (elapsedMs/1000)*p.RotationSpeed
}

// Millis 将时长转换为浮点毫秒
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
