package indicator

import "fmt"

// MACDResult는 MACD 계산 결과입니다
type MACDResult struct {
	Line      []float64 // MACD 라인 (단기 EMA - 장기 EMA)
	Signal    []float64 // 시그널 라인 (MACD 라인의 EMA)
	Histogram []float64 // 히스토그램 (Line - Signal)
}

// ValidateMACDOption은 MACD 기간을 검증합니다
func ValidateMACDOption(fast, slow, signal int) error {
	if err := validatePeriod("fast", fast); err != nil {
		return err
	}
	if slow <= fast {
		return &ValidationError{
			Field: "slow",
			Err:   fmt.Errorf("장기 기간은 단기 기간보다 커야 합니다: %d <= %d", slow, fast),
		}
	}
	return validatePeriod("signal", signal)
}

// MACD는 MACD(Moving Average Convergence Divergence) 지표를 계산합니다
func MACD(values []float64, fast, slow, signal int) (MACDResult, error) {
	if err := ValidateMACDOption(fast, slow, signal); err != nil {
		return MACDResult{}, err
	}

	fastEMA, err := EMA(values, fast)
	if err != nil {
		return MACDResult{}, fmt.Errorf("단기 EMA 계산 실패: %w", err)
	}
	slowEMA, err := EMA(values, slow)
	if err != nil {
		return MACDResult{}, fmt.Errorf("장기 EMA 계산 실패: %w", err)
	}

	line := make([]float64, len(values))
	for i := range values {
		line[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine, err := EMA(line, signal)
	if err != nil {
		return MACDResult{}, fmt.Errorf("시그널 라인 계산 실패: %w", err)
	}

	hist := make([]float64, len(values))
	for i := range values {
		hist[i] = line[i] - signalLine[i]
	}

	return MACDResult{Line: line, Signal: signalLine, Histogram: hist}, nil
}
