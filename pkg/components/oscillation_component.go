package components

import "math"

// OscillationComponent field 家族的纵向正弦振荡参数
type OscillationComponent struct {
	Amplitude float64 // 振幅（像素）
	PeriodMs  float64 // 周期（毫秒）
	Phase     float64 // 初相位（弧度）
}

// PhaseAngle 返回 elapsedMs 时刻的相位角 2π·elapsed/period + phase
func (o *OscillationComponent) PhaseAngle(elapsedMs float64) float64 {
	if o.PeriodMs <= 0 {
		return o.Phase
	}
	return (elapsedMs/o.PeriodMs)*math.Pi*2 + o.Phase
}

// Offset 返回纵向偏移 amplitude × sin(phaseAngle)
func (o *OscillationComponent) Offset(elapsedMs float64) float64 {
	return o.Amplitude * math.Sin(o.PhaseAngle(elapsedMs))
}

// DirectionFade 返回 |cos(phaseAngle)|^power，在振荡的转向点处趋近 0
func (o *OscillationComponent) DirectionFade(elapsedMs, power float64) float64 {
	return math.Pow(math.Abs(math.Cos(o.PhaseAngle(elapsedMs))), power)
}
