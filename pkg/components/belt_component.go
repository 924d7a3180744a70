package components

// BeltComponent 带状家族（belt/field）共享的旅程位置
//
// JourneyPosition ∈ [0,1]，乘以文档总高度得到文档坐标 Y。
type BeltComponent struct {
	JourneyPosition float64
}
