package domain

import "strings"

// Direction은 시그널 방향을 정의합니다
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// String은 Direction의 문자열 표현을 반환합니다
func (d Direction) String() string {
	return string(d)
}

// IsBuy는 대소문자 구분 없이 매수 방향인지 확인합니다
func (d Direction) IsBuy() bool {
	return strings.EqualFold(string(d), string(Buy))
}

// AssetClass는 스캔 대상 자산 분류입니다
type AssetClass string

const (
	Crypto AssetClass = "CRYPTO"
	Stock  AssetClass = "STOCK"
	Index  AssetClass = "INDEX"
)

// TimeInterval은 캔들 차트의 시간 간격을 정의합니다
type TimeInterval string

const (
	Interval1m  TimeInterval = "1m"
	Interval3m  TimeInterval = "3m"
	Interval5m  TimeInterval = "5m"
	Interval15m TimeInterval = "15m"
	Interval30m TimeInterval = "30m"
	Interval1h  TimeInterval = "1h"
	Interval2h  TimeInterval = "2h"
	Interval4h  TimeInterval = "4h"
	Interval1d  TimeInterval = "1d"
)

// DefaultTimeframes는 기본 스캔 타임프레임입니다
var DefaultTimeframes = []TimeInterval{Interval5m, Interval15m, Interval1h, Interval4h, Interval1d}
