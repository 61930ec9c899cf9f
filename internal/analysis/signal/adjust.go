package signal

import "math"

// ConfidenceAdjuster는 점수 계산 후, 알림 포맷 전에 한 번 적용되는 신뢰도 보정 훅입니다
type ConfidenceAdjuster func(confidence float64) float64

// Identity는 신뢰도를 그대로 반환합니다
func Identity(confidence float64) float64 {
	return confidence
}

// Offset은 신뢰도에 delta를 더하고 0~100으로 자르는 보정 훅을 반환합니다
func Offset(delta float64) ConfidenceAdjuster {
	if delta == 0 {
		return Identity
	}
	return func(confidence float64) float64 {
		return math.Min(100, math.Max(0, confidence+delta))
	}
}
