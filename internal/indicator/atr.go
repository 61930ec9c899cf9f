package indicator

import (
	"fmt"
	"math"
)

// TrueRange는 봉별 True Range를 계산합니다.
// 첫 봉은 이전 종가가 없으므로 high-low가 됩니다.
func TrueRange(high, low, close []float64) ([]float64, error) {
	if err := validateColumns(high, low, close); err != nil {
		return nil, err
	}

	tr := make([]float64, len(close))
	for i := range close {
		r := high[i] - low[i]
		if i > 0 {
			prev := close[i-1]
			r = math.Max(r, math.Max(math.Abs(high[i]-prev), math.Abs(low[i]-prev)))
		}
		tr[i] = r
	}
	return tr, nil
}

// ATR은 True Range의 단순 이동평균(Average True Range)을 계산합니다
func ATR(high, low, close []float64, length int) ([]float64, error) {
	if err := validatePeriod("length", length); err != nil {
		return nil, err
	}

	tr, err := TrueRange(high, low, close)
	if err != nil {
		return nil, fmt.Errorf("True Range 계산 실패: %w", err)
	}
	return SMA(tr, length)
}
