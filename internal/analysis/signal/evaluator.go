// Package signal은 캔들 시리즈에서 다중 필터 확인 시그널을 평가합니다.
package signal

import (
	"fmt"
	"math"

	"github.com/assist-by/phoenix-scanner/internal/domain"
)

// filterCount는 투표 필터 개수입니다 (신뢰도 분모)
const filterCount = 5

// Config는 평가기 설정입니다
type Config struct {
	MinCandles int // 최소 캔들 수 (기본 50)
	Quorum     int // 시그널 확정에 필요한 최소 득표 (기본 3)

	FastEMA, SlowEMA               int
	RSIPeriod                      int
	RSIBuyAbove, RSISellBelow      float64
	MACDFast, MACDSlow, MACDSignal int
	BBPeriod                       int
	BBMult                         float64
	BBProximity                    float64 // 밴드 폭 대비 근접 비율 (기본 0.10)
	BBMinWidth                     float64 // 0 나눗셈 방지용 최소 폭
	ATRPeriod                      int
	VolumeLookback                 int     // 거래량 기준선 구간 (마지막 봉 제외)
	VolumeSpikeMult                float64 // 거래량 급증 배수
}

// DefaultConfig는 기본 평가기 설정을 반환합니다
func DefaultConfig() Config {
	return Config{
		MinCandles:      50,
		Quorum:          3,
		FastEMA:         9,
		SlowEMA:         21,
		RSIPeriod:       14,
		RSIBuyAbove:     55,
		RSISellBelow:    45,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BBPeriod:        20,
		BBMult:          2.0,
		BBProximity:     0.10,
		BBMinWidth:      1e-6,
		ATRPeriod:       14,
		VolumeLookback:  20,
		VolumeSpikeMult: 1.5,
	}
}

// Vote는 한 필터의 매수/매도 투표입니다
type Vote struct {
	Buy  bool
	Sell bool
}

// Tally는 다섯 필터의 투표 결과입니다
type Tally struct {
	Trend     Vote // EMA9 vs EMA21
	RSI       Vote
	MACD      Vote
	Bollinger Vote // 밴드 근접
	Volume    Vote // 거래량 급증 (양방향 동시 투표)
}

// Scores는 매수/매도 득표 수를 반환합니다
func (t Tally) Scores() (buy, sell int) {
	for _, v := range [...]Vote{t.Trend, t.RSI, t.MACD, t.Bollinger, t.Volume} {
		if v.Buy {
			buy++
		}
		if v.Sell {
			sell++
		}
	}
	return buy, sell
}

// Evaluator는 상태 없는 시그널 평가기입니다. 동시에 여러 고루틴에서 사용해도 안전합니다
type Evaluator struct {
	cfg Config
}

// NewEvaluator는 새로운 평가기를 생성합니다
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

var defaultEvaluator = NewEvaluator(DefaultConfig())

// Evaluate는 기본 설정으로 시리즈를 평가합니다
func Evaluate(series domain.CandleList) (domain.Result, error) {
	return defaultEvaluator.Evaluate(series)
}

// Config는 평가기 설정을 반환합니다
func (e *Evaluator) Config() Config {
	return e.cfg
}

// Evaluate는 시리즈를 평가해 시그널 또는 시그널 없음을 반환합니다.
// 데이터 부족과 확인 실패는 에러가 아니라 NoSignal 결과입니다.
// 에러는 시리즈가 데이터 계약을 위반한 경우에만 반환됩니다.
func (e *Evaluator) Evaluate(series domain.CandleList) (domain.Result, error) {
	if len(series) < e.cfg.MinCandles || len(series) < 2 {
		return domain.NewNoSignal(domain.ReasonNotEnoughData), nil
	}

	if err := series.Validate(); err != nil {
		return domain.Result{}, err
	}

	frame, err := ComputeFrame(series, e.cfg)
	if err != nil {
		return domain.Result{}, fmt.Errorf("지표 프레임 계산 실패: %w", err)
	}

	last := frame.Len() - 1
	tally := e.Tally(frame, last)
	buy, sell := tally.Scores()

	direction, score, ok := decide(buy, sell, e.cfg.Quorum)
	if !ok {
		return domain.NewNoSignal(domain.ReasonNoConfirmation), nil
	}

	return domain.NewSignalResult(domain.Signal{
		Direction:      direction,
		Score:          score,
		BuyScore:       buy,
		SellScore:      sell,
		Confidence:     float64(score) / filterCount * 100,
		ReferenceClose: frame.Close[last],
		ATR:            frame.ATR[last],
		Detail:         frame.Row(last),
		Previous:       frame.Row(last - 1),
	}), nil
}

// Tally는 프레임의 i번째 행에 대해 다섯 필터의 투표를 계산합니다
func (e *Evaluator) Tally(f *Frame, i int) Tally {
	var t Tally

	// 1. 추세
	t.Trend = Vote{Buy: f.EMA9[i] > f.EMA21[i], Sell: f.EMA9[i] < f.EMA21[i]}

	// 2. RSI 모멘텀 (45~55는 기권)
	t.RSI = Vote{Buy: f.RSI[i] > e.cfg.RSIBuyAbove, Sell: f.RSI[i] < e.cfg.RSISellBelow}

	// 3. MACD 모멘텀
	t.MACD = Vote{Buy: f.MACDLine[i] > f.MACDSignal[i], Sell: f.MACDLine[i] < f.MACDSignal[i]}

	// 4. 볼린저 밴드 근접: 하단 근처면 반등(매수), 상단 근처면 저항(매도)
	width := math.Max(e.cfg.BBMinWidth, f.BBUpper[i]-f.BBLower[i])
	t.Bollinger = Vote{
		Buy:  (f.Close[i]-f.BBLower[i])/width <= e.cfg.BBProximity,
		Sell: (f.BBUpper[i]-f.Close[i])/width <= e.cfg.BBProximity,
	}

	// 5. 거래량 급증: 방향성 없이 양쪽 모두에 확인 표를 준다
	spike := f.Volume[i] > e.cfg.VolumeSpikeMult*volumeBaseline(f.Volume, i, e.cfg.VolumeLookback)
	t.Volume = Vote{Buy: spike, Sell: spike}

	return t
}

// decide는 득표 수로 방향을 정합니다. 동점은 정족수와 무관하게 시그널이 아닙니다
func decide(buy, sell, quorum int) (domain.Direction, int, bool) {
	switch {
	case buy > sell && buy >= quorum:
		return domain.Buy, buy, true
	case sell > buy && sell >= quorum:
		return domain.Sell, sell, true
	}
	return "", 0, false
}

// volumeBaseline은 i번째 봉 직전 lookback개 봉의 평균 거래량입니다 (i번째 봉 제외)
func volumeBaseline(volumes []float64, i, lookback int) float64 {
	start := max(0, i-lookback)
	if start >= i {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range volumes[start:i] {
		sum += v
	}
	return sum / float64(i-start)
}
