package indicator

import "math"

// rsiNeutral는 계산할 수 없는 구간의 RSI 값입니다
const rsiNeutral = 50.0

// RSI는 Relative Strength Index를 계산합니다.
//
// 평균 이득/손실은 length 구간의 단순 이동평균입니다 (Wilder 평활 아님).
// 첫 봉은 이전 종가가 없으므로 이득·손실 모두 0으로 취급합니다.
// 윈도우가 채워지지 않았거나 평균 손실이 0이면 50을 반환합니다.
func RSI(values []float64, length int) ([]float64, error) {
	if err := validatePeriod("length", length); err != nil {
		return nil, err
	}

	results := make([]float64, len(values))
	gains := newWindow(length)
	losses := newWindow(length)

	for i := range values {
		gain, loss := 0.0, 0.0
		if i > 0 {
			delta := values[i] - values[i-1]
			switch {
			case delta > 0:
				gain = delta
			case delta < 0:
				loss = -delta
			}
		}
		gains.push(gain)
		losses.push(loss)

		results[i] = toRSI(gains.mean(), losses.mean())
	}

	return results, nil
}

func toRSI(avgGain, avgLoss float64) float64 {
	if math.IsNaN(avgGain) || math.IsNaN(avgLoss) || avgLoss == 0 {
		return rsiNeutral
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
