// Package logger는 zerolog 로거를 구성합니다.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New는 stderr로 출력하는 로거를 생성합니다.
// 알 수 없는 레벨은 info로 처리하며, pretty가 true이면 콘솔 형식으로 출력합니다.
func New(level string, pretty bool) zerolog.Logger {
	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(out, level)
}

// NewWithWriter는 지정한 writer로 출력하는 로거를 생성합니다
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel은 문자열 로그 레벨을 파싱합니다. 빈 값이나 잘못된 값은 info입니다
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
