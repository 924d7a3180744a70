package utils

import (
	"math"
	"math/rand"
)

// Range 表示一个闭区间 [Min, Max]
//
// YAML 中写作两元素数组，例如 sizeRange: [12, 28]
type Range [2]float64

// Min 区间下界
func (r Range) Min() float64 { return r[0] }

// Max 区间上界
func (r Range) Max() float64 { return r[1] }

// Valid 区间是否满足 Min <= Max
func (r Range) Valid() bool { return r[0] <= r[1] }

// Contains 检查 v 是否落在区间内
func (r Range) Contains(v float64) bool { return v >= r[0] && v <= r[1] }

// Sample 在区间内均匀采样
func (r Range) Sample(rng *rand.Rand) float64 {
	return RandomInRange(rng, r[0], r[1])
}

// RandomInRange 返回 [min, max) 内的均匀随机数
func RandomInRange(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// RandomSign 以各 50% 的概率返回 1 或 -1
func RandomSign(rng *rand.Rand) float64 {
	if rng.Float64() > 0.5 {
		return 1
	}
	return -1
}

// GaussianRandom 使用 Box–Muller 变换生成正态分布随机数
func GaussianRandom(rng *rand.Rand, mean, stdDev float64) float64 {
	// u1 取 (0, 1]，避免 log(0)
	u1 := 1 - rng.Float64()
	u2 := rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + z*stdDev
}

// SampleBeltPosition 在 journeyRange 内采样一个以 midpoint 为中心的高斯分布位置
//
// 标准差取区间宽度的 1/4（约 95% 的样本自然落在区间内），
// 其余样本被钳制到区间边界。
func SampleBeltPosition(rng *rand.Rand, journeyRange Range, midpoint float64) float64 {
	stdDev := (journeyRange.Max() - journeyRange.Min()) / 4
	return Clamp(GaussianRandom(rng, midpoint, stdDev), journeyRange.Min(), journeyRange.Max())
}
