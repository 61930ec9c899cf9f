package indicator

import "fmt"

// BollingerResult는 볼린저 밴드 계산 결과입니다
type BollingerResult struct {
	Basis []float64 // 중심선 (단순 이동평균)
	Upper []float64 // 상단 밴드
	Lower []float64 // 하단 밴드
}

// Bollinger는 볼린저 밴드를 계산합니다. 편차는 모표준편차입니다.
func Bollinger(values []float64, length int, mult float64) (BollingerResult, error) {
	basis, err := SMA(values, length)
	if err != nil {
		return BollingerResult{}, fmt.Errorf("중심선 계산 실패: %w", err)
	}
	dev, err := RollingStdDev(values, length)
	if err != nil {
		return BollingerResult{}, fmt.Errorf("표준편차 계산 실패: %w", err)
	}

	upper := make([]float64, len(values))
	lower := make([]float64, len(values))
	for i := range values {
		upper[i] = basis[i] + mult*dev[i]
		lower[i] = basis[i] - mult*dev[i]
	}

	return BollingerResult{Basis: basis, Upper: upper, Lower: lower}, nil
}
