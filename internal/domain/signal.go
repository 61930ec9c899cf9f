package domain

// NoSignalReason은 시그널이 발생하지 않은 이유입니다
type NoSignalReason string

const (
	ReasonNotEnoughData  NoSignalReason = "not-enough-data"
	ReasonNoConfirmation NoSignalReason = "no-confirmation"
)

// Snapshot은 시그널 판단 시점의 지표 값입니다
type Snapshot struct {
	EMA9       float64
	EMA21      float64
	RSI        float64
	MACDLine   float64
	MACDSignal float64
	BBUpper    float64
	BBLower    float64
	Volume     float64
}

// Signal은 확정된 매매 시그널입니다
type Signal struct {
	Direction      Direction // BUY 또는 SELL
	Score          int       // 채택된 방향의 필터 득표 (3~5)
	BuyScore       int
	SellScore      int
	Confidence     float64 // Score / 5 * 100
	ReferenceClose float64 // 마지막 봉 종가
	ATR            float64 // 마지막 봉 ATR(14)
	Detail         Snapshot
	Previous       Snapshot // 직전 봉 스냅샷 (점수 계산에는 쓰지 않음)
}

// Result는 평가 결과입니다. Signal 또는 Reason 중 정확히 하나만 채워집니다
type Result struct {
	Signal *Signal
	Reason NoSignalReason
}

// NewNoSignal은 시그널 없음 결과를 생성합니다
func NewNoSignal(reason NoSignalReason) Result {
	return Result{Reason: reason}
}

// NewSignalResult는 시그널 결과를 생성합니다
func NewSignalResult(s Signal) Result {
	return Result{Signal: &s}
}

// HasSignal은 결과에 시그널이 있는지 확인합니다
func (r Result) HasSignal() bool {
	return r.Signal != nil
}

// TargetLevels는 익절/손절 가격입니다 (소수점 2자리 반올림)
type TargetLevels struct {
	TakeProfit float64
	StopLoss   float64
}

// Alert은 알림으로 전송할 시그널 정보입니다
type Alert struct {
	Asset      AssetClass
	Symbol     string
	Timeframe  TimeInterval
	Direction  Direction
	Price      float64
	Levels     TargetLevels
	Confidence float64 // 보정 훅이 적용된 신뢰도
	Detail     Snapshot
}
