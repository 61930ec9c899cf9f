package indicator

import "math"

// EMA는 지수이동평균을 계산합니다.
// 승수는 2/(length+1)이고 첫 값을 시작값으로 사용합니다 (워밍업 구간 없음).
func EMA(values []float64, length int) ([]float64, error) {
	if err := validatePeriod("length", length); err != nil {
		return nil, err
	}

	results := make([]float64, len(values))
	if len(values) == 0 {
		return results, nil
	}

	alpha := 2.0 / float64(length+1)
	ema := values[0]
	results[0] = ema
	for i := 1; i < len(values); i++ {
		ema = values[i]*alpha + ema*(1-alpha)
		results[i] = ema
	}

	return results, nil
}

// SMA는 단순 이동평균을 계산합니다
func SMA(values []float64, length int) ([]float64, error) {
	if err := validatePeriod("length", length); err != nil {
		return nil, err
	}

	results := make([]float64, len(values))
	w := newWindow(length)
	for i, v := range values {
		w.push(v)
		results[i] = w.mean()
	}
	return results, nil
}

// RollingStdDev는 이동 모표준편차(분모 = length)를 계산합니다
func RollingStdDev(values []float64, length int) ([]float64, error) {
	if err := validatePeriod("length", length); err != nil {
		return nil, err
	}

	results := make([]float64, len(values))
	w := newWindow(length)
	for i, v := range values {
		w.push(v)
		results[i] = math.Sqrt(w.variance())
	}
	return results, nil
}
