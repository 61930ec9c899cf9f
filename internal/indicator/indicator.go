// Package indicator는 정렬된 가격 시계열에 대한 순수 기술적 지표 함수를 제공합니다.
// 모든 함수는 입력과 같은 길이의 결과를 반환하며, 윈도우가 채워지지 않은
// 구간은 math.NaN()으로 채웁니다.
package indicator

import (
	"fmt"
	"math"
)

// ValidationError는 입력값 검증 에러를 정의합니다
type ValidationError struct {
	Field string
	Err   error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("유효하지 않은 %s: %v", e.Field, e.Err)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

func validatePeriod(field string, period int) error {
	if period <= 0 {
		return &ValidationError{Field: field, Err: fmt.Errorf("기간은 0보다 커야 합니다: %d", period)}
	}
	return nil
}

func validateColumns(high, low, close []float64) error {
	if len(high) != len(low) || len(high) != len(close) {
		return &ValidationError{
			Field: "columns",
			Err:   fmt.Errorf("컬럼 길이가 다릅니다 (high=%d, low=%d, close=%d)", len(high), len(low), len(close)),
		}
	}
	return nil
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
