package signal

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/phoenix-scanner/internal/domain"
)

// makeSeries는 종가와 거래량으로 1분봉 시리즈를 만듭니다 (고가/저가 = 종가 ± 1)
func makeSeries(closes, volumes []float64) domain.CandleList {
	series := make(domain.CandleList, len(closes))
	for i, c := range closes {
		v := 1000.0
		if volumes != nil {
			v = volumes[i]
		}
		series[i] = domain.Candle{
			OpenTime: int64(i) * 60_000,
			Open:     c,
			High:     c + 1,
			Low:      c - 1,
			Close:    c,
			Volume:   v,
		}
	}
	return series
}

// pullbackUptrend는 +2, +2, -1 패턴으로 상승하는 60개 종가를 만듭니다
func pullbackUptrend() []float64 {
	pattern := []float64{2, 2, -1}
	closes := []float64{100}
	for i := 0; len(closes) < 60; i++ {
		closes = append(closes, closes[len(closes)-1]+pattern[i%3])
	}
	return closes
}

func mirrored(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i, c := range closes {
		out[i] = 300 - (c - 100)
	}
	return out
}

func constantVolume(n int, last float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1000
	}
	v[n-1] = last
	return v
}

func TestEvaluate_NotEnoughData(t *testing.T) {
	for _, n := range []int{0, 1, 20, 49} {
		closes := make([]float64, n)
		for i := range closes {
			closes[i] = math.NaN() // 내용과 무관하게 데이터 부족
		}
		res, err := Evaluate(makeSeries(closes, nil))
		require.NoError(t, err)
		assert.False(t, res.HasSignal())
		assert.Equal(t, domain.ReasonNotEnoughData, res.Reason)
	}
}

func TestEvaluate_Signals(t *testing.T) {
	tests := []struct {
		name           string
		closes         []float64
		volumes        []float64
		wantDirection  domain.Direction
		wantConfidence float64
		wantBuy        int
		wantSell       int
	}{
		{
			name:           "눌림 상승 추세 매수",
			closes:         pullbackUptrend(),
			wantDirection:  domain.Buy,
			wantConfidence: 60,
			wantBuy:        3,
			wantSell:       1, // 상단 밴드 근접
		},
		{
			name:           "거래량 급증은 양쪽 모두에 투표",
			closes:         pullbackUptrend(),
			volumes:        constantVolume(60, 3000),
			wantDirection:  domain.Buy,
			wantConfidence: 80,
			wantBuy:        4,
			wantSell:       2,
		},
		{
			name:           "대칭 하락 추세 매도",
			closes:         mirrored(pullbackUptrend()),
			wantDirection:  domain.Sell,
			wantConfidence: 60,
			wantBuy:        1,
			wantSell:       3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := makeSeries(tt.closes, tt.volumes)
			res, err := Evaluate(series)
			require.NoError(t, err)
			require.True(t, res.HasSignal(), "reason=%s", res.Reason)

			s := res.Signal
			assert.Equal(t, tt.wantDirection, s.Direction)
			assert.Equal(t, tt.wantConfidence, s.Confidence)
			assert.Equal(t, tt.wantBuy, s.BuyScore)
			assert.Equal(t, tt.wantSell, s.SellScore)
			assert.Equal(t, tt.closes[len(tt.closes)-1], s.ReferenceClose)
			assert.InDelta(t, 38.0/14, s.ATR, 1e-9)
			assert.Equal(t, series[len(series)-1].Volume, s.Detail.Volume)
		})
	}
}

func TestEvaluate_SnapshotValues(t *testing.T) {
	res, err := Evaluate(makeSeries(pullbackUptrend(), nil))
	require.NoError(t, err)
	require.True(t, res.HasSignal())

	d := res.Signal.Detail
	assert.InDelta(t, 83.3333333333, d.RSI, 1e-6)
	assert.Greater(t, d.EMA9, d.EMA21)
	assert.Greater(t, d.MACDLine, d.MACDSignal)
	assert.Greater(t, d.BBUpper, d.BBLower)
	assert.NotEqual(t, d, res.Signal.Previous)
}

func TestEvaluate_NoConfirmation(t *testing.T) {
	t.Run("손실 없는 상승 시리즈는 RSI 중립이라 확인 실패", func(t *testing.T) {
		closes := make([]float64, 60)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		res, err := Evaluate(makeSeries(closes, nil))
		require.NoError(t, err)
		assert.Equal(t, domain.NewNoSignal(domain.ReasonNoConfirmation), res)
	})

	t.Run("횡보 시리즈", func(t *testing.T) {
		closes := make([]float64, 60)
		for i := range closes {
			closes[i] = 100
		}
		res, err := Evaluate(makeSeries(closes, nil))
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonNoConfirmation, res.Reason)
	})
}

func TestEvaluate_MalformedSeries(t *testing.T) {
	closes := pullbackUptrend()
	series := makeSeries(closes, nil)
	series[30].Close = math.Inf(1)

	_, err := Evaluate(series)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedSeries))

	series = makeSeries(closes, nil)
	series[10].OpenTime = -1
	_, err = Evaluate(series)
	assert.True(t, errors.Is(err, domain.ErrMalformedSeries))
}

func TestTally_Scores(t *testing.T) {
	tally := Tally{
		Trend:     Vote{Buy: true},
		RSI:       Vote{},
		MACD:      Vote{Sell: true},
		Bollinger: Vote{Buy: true, Sell: true},
		Volume:    Vote{Buy: true, Sell: true},
	}
	buy, sell := tally.Scores()
	assert.Equal(t, 3, buy)
	assert.Equal(t, 3, sell)
}

func TestVolumeBaseline_ExcludesLastBar(t *testing.T) {
	volumes := make([]float64, 30)
	for i := range volumes {
		volumes[i] = float64(i)
	}
	// 인덱스 9~28의 평균
	assert.Equal(t, 18.5, volumeBaseline(volumes, 29, 20))
	assert.True(t, math.IsNaN(volumeBaseline(volumes, 0, 20)))
}

func TestEvaluate_RandomWalkProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := 0

	for trial := 0; trial < 300; trial++ {
		n := 50 + rng.Intn(200)
		closes := make([]float64, n)
		volumes := make([]float64, n)
		price := 100.0
		for i := range closes {
			price = math.Max(1, price+rng.NormFloat64()*2)
			closes[i] = price
			volumes[i] = 500 + rng.Float64()*1000
		}
		if rng.Intn(3) == 0 {
			volumes[n-1] *= 3
		}
		series := makeSeries(closes, volumes)

		first, err := Evaluate(series)
		require.NoError(t, err)
		second, err := Evaluate(series)
		require.NoError(t, err)
		require.Equal(t, first, second, "같은 입력은 같은 결과")

		if !first.HasSignal() {
			assert.Equal(t, domain.ReasonNoConfirmation, first.Reason)
			continue
		}
		seen++
		s := first.Signal
		assert.Contains(t, []float64{60, 80, 100}, s.Confidence)
		assert.NotEqual(t, s.BuyScore, s.SellScore)
		assert.GreaterOrEqual(t, s.Score, 3)
		assert.False(t, math.IsNaN(s.ATR))
	}

	assert.Positive(t, seen, "무작위 시리즈 중 일부는 시그널을 만들어야 합니다")
}

func TestConfidenceAdjusters(t *testing.T) {
	assert.Equal(t, 80.0, Identity(80))
	assert.Equal(t, 90.0, Offset(10)(80))
	assert.Equal(t, 100.0, Offset(30)(80))
	assert.Equal(t, 0.0, Offset(-90)(60))
	assert.Equal(t, 60.0, Offset(0)(60))
}

func TestDecide(t *testing.T) {
	tests := []struct {
		buy, sell     int
		wantDirection domain.Direction
		wantScore     int
		wantOK        bool
	}{
		{buy: 3, sell: 0, wantDirection: domain.Buy, wantScore: 3, wantOK: true},
		{buy: 5, sell: 2, wantDirection: domain.Buy, wantScore: 5, wantOK: true},
		{buy: 1, sell: 4, wantDirection: domain.Sell, wantScore: 4, wantOK: true},
		{buy: 2, sell: 0},
		{buy: 3, sell: 3},
		{buy: 4, sell: 4},
		{buy: 5, sell: 5},
		{buy: 0, sell: 0},
	}

	for _, tt := range tests {
		direction, score, ok := decide(tt.buy, tt.sell, 3)
		assert.Equal(t, tt.wantOK, ok, "buy=%d sell=%d", tt.buy, tt.sell)
		assert.Equal(t, tt.wantDirection, direction)
		assert.Equal(t, tt.wantScore, score)
	}
}

func TestEvaluator_ConcurrentUse(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())
	series := makeSeries(pullbackUptrend(), nil)
	want, err := ev.Evaluate(series)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]domain.Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = ev.Evaluate(series)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestEvaluator_CustomQuorum(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Quorum = 4
	res, err := NewEvaluator(cfg).Evaluate(makeSeries(pullbackUptrend(), nil))
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonNoConfirmation, res.Reason)
	assert.Equal(t, 4, NewEvaluator(cfg).Config().Quorum)
}
