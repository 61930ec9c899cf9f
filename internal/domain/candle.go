package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMalformedSeries는 캔들 시리즈가 데이터 계약을 위반했을 때 반환됩니다
var ErrMalformedSeries = errors.New("잘못된 캔들 시리즈")

// Candle은 캔들 데이터를 표현합니다
type Candle struct {
	OpenTime int64   // 캔들 시작 시간 (epoch, 단위는 공급자 기준)
	Open     float64 // 시가
	High     float64 // 고가
	Low      float64 // 저가
	Close    float64 // 종가
	Volume   float64 // 거래량
}

// Time은 OpenTime을 밀리초 epoch로 해석한 시간을 반환합니다
func (c Candle) Time() time.Time {
	return time.UnixMilli(c.OpenTime).UTC()
}

// CandleList는 시간 오름차순으로 정렬된 캔들 데이터 목록입니다
type CandleList []Candle

// GetLastCandle은 가장 최근 캔들을 반환합니다
func (cl CandleList) GetLastCandle() (Candle, bool) {
	if len(cl) == 0 {
		return Candle{}, false
	}
	return cl[len(cl)-1], true
}

// Closes는 종가 컬럼을 반환합니다
func (cl CandleList) Closes() []float64 {
	return cl.column(func(c Candle) float64 { return c.Close })
}

// Highs는 고가 컬럼을 반환합니다
func (cl CandleList) Highs() []float64 {
	return cl.column(func(c Candle) float64 { return c.High })
}

// Lows는 저가 컬럼을 반환합니다
func (cl CandleList) Lows() []float64 {
	return cl.column(func(c Candle) float64 { return c.Low })
}

// Volumes는 거래량 컬럼을 반환합니다
func (cl CandleList) Volumes() []float64 {
	return cl.column(func(c Candle) float64 { return c.Volume })
}

func (cl CandleList) column(pick func(Candle) float64) []float64 {
	out := make([]float64, len(cl))
	for i, c := range cl {
		out[i] = pick(c)
	}
	return out
}

// Validate는 시리즈가 지표 계산에 사용할 수 있는 형태인지 확인합니다.
// 값을 보정하지 않고 첫 번째 위반 지점을 에러로 보고합니다.
func (cl CandleList) Validate() error {
	for i, c := range cl {
		for _, v := range [...]float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: 인덱스 %d에 유한하지 않은 값", ErrMalformedSeries, i)
			}
		}
		if i > 0 && c.OpenTime < cl[i-1].OpenTime {
			return fmt.Errorf("%w: 인덱스 %d의 타임스탬프가 감소함 (%d < %d)",
				ErrMalformedSeries, i, c.OpenTime, cl[i-1].OpenTime)
		}
	}
	return nil
}
