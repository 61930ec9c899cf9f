package signal

import (
	"fmt"

	"github.com/assist-by/phoenix-scanner/internal/domain"
	"github.com/assist-by/phoenix-scanner/internal/indicator"
)

// Frame은 시리즈 전체에 대해 계산된 지표 배열입니다. 모든 배열은 캔들 인덱스와 정렬됩니다.
// 평가 호출마다 새로 만들고 호출이 끝나면 버립니다.
type Frame struct {
	Close      []float64
	Volume     []float64
	EMA9       []float64
	EMA21      []float64
	RSI        []float64
	MACDLine   []float64
	MACDSignal []float64
	MACDHist   []float64
	BBBasis    []float64
	BBUpper    []float64
	BBLower    []float64
	ATR        []float64
}

// Len은 프레임의 행 수를 반환합니다
func (f *Frame) Len() int {
	return len(f.Close)
}

// Row는 i번째 행의 지표 스냅샷을 반환합니다
func (f *Frame) Row(i int) domain.Snapshot {
	return domain.Snapshot{
		EMA9:       f.EMA9[i],
		EMA21:      f.EMA21[i],
		RSI:        f.RSI[i],
		MACDLine:   f.MACDLine[i],
		MACDSignal: f.MACDSignal[i],
		BBUpper:    f.BBUpper[i],
		BBLower:    f.BBLower[i],
		Volume:     f.Volume[i],
	}
}

// ComputeFrame은 설정된 기간으로 전체 지표 프레임을 계산합니다
func ComputeFrame(series domain.CandleList, cfg Config) (*Frame, error) {
	closes := series.Closes()
	f := &Frame{
		Close:  closes,
		Volume: series.Volumes(),
	}

	var err error
	if f.EMA9, err = indicator.EMA(closes, cfg.FastEMA); err != nil {
		return nil, fmt.Errorf("EMA(%d) 계산 실패: %w", cfg.FastEMA, err)
	}
	if f.EMA21, err = indicator.EMA(closes, cfg.SlowEMA); err != nil {
		return nil, fmt.Errorf("EMA(%d) 계산 실패: %w", cfg.SlowEMA, err)
	}
	if f.RSI, err = indicator.RSI(closes, cfg.RSIPeriod); err != nil {
		return nil, fmt.Errorf("RSI 계산 실패: %w", err)
	}

	macd, err := indicator.MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	if err != nil {
		return nil, fmt.Errorf("MACD 계산 실패: %w", err)
	}
	f.MACDLine, f.MACDSignal, f.MACDHist = macd.Line, macd.Signal, macd.Histogram

	bb, err := indicator.Bollinger(closes, cfg.BBPeriod, cfg.BBMult)
	if err != nil {
		return nil, fmt.Errorf("볼린저 밴드 계산 실패: %w", err)
	}
	f.BBBasis, f.BBUpper, f.BBLower = bb.Basis, bb.Upper, bb.Lower

	if f.ATR, err = indicator.ATR(series.Highs(), series.Lows(), closes, cfg.ATRPeriod); err != nil {
		return nil, fmt.Errorf("ATR 계산 실패: %w", err)
	}

	return f, nil
}
