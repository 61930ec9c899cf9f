// internal/exchange/exchange.go
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/assist-by/phoenix-scanner/internal/domain"
)

var (
	// ErrNotConfigured는 데이터 제공자가 설정되지 않았을 때 반환됩니다.
	// 스캐너는 이 에러를 받으면 해당 자산 그룹의 나머지 스캔을 중단합니다.
	ErrNotConfigured = errors.New("데이터 제공자가 설정되지 않았습니다")

	// ErrDataFormat은 캔들 행을 숫자로 해석할 수 없을 때 반환됩니다
	ErrDataFormat = errors.New("잘못된 캔들 데이터 형식")
)

// Provider는 캔들 데이터 제공자 인터페이스입니다.
type Provider interface {
	// GetKlines는 시간 오름차순으로 정렬된 캔들을 반환합니다
	GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error)
}

// ProviderFunc는 함수를 Provider로 사용할 수 있게 합니다
type ProviderFunc func(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error)

// GetKlines는 Provider 인터페이스를 구현합니다
func (f ProviderFunc) GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	return f(ctx, symbol, interval, limit)
}

// ParseKlineRows는 [ts, open, high, low, close, volume, ...] 형태의 행을 캔들 목록으로 변환합니다.
// 각 셀은 문자열 또는 숫자일 수 있으며, 결과는 시간 오름차순으로 정렬됩니다.
func ParseKlineRows(rows [][]any) (domain.CandleList, error) {
	candles := make(domain.CandleList, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("%w: %d번째 행의 컬럼 수 부족 (%d)", ErrDataFormat, i, len(row))
		}

		openTime, err := toInt(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %d번째 행 시간: %v", ErrDataFormat, i, err)
		}

		var values [5]float64
		for j := range values {
			if values[j], err = toFloat(row[j+1]); err != nil {
				return nil, fmt.Errorf("%w: %d번째 행 %d번째 컬럼: %v", ErrDataFormat, i, j+1, err)
			}
		}

		candles = append(candles, domain.Candle{
			OpenTime: openTime,
			Open:     values[0],
			High:     values[1],
			Low:      values[2],
			Close:    values[3],
			Volume:   values[4],
		})
	}

	sort.SliceStable(candles, func(a, b int) bool {
		return candles[a].OpenTime < candles[b].OpenTime
	})
	return candles, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseFloat(x, 64)
	case float64:
		return x, nil
	case json.Number:
		return x.Float64()
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("지원하지 않는 타입 %T", v)
	}
}

func toInt(v any) (int64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseInt(x, 10, 64)
	case float64:
		return int64(x), nil
	case json.Number:
		return x.Int64()
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	default:
		return 0, fmt.Errorf("지원하지 않는 타입 %T", v)
	}
}
