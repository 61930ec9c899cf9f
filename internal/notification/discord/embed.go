package discord

import (
	"time"
	"unicode/utf8"
)

// Discord 임베드 길이 제한
const (
	maxTitleLen       = 256
	maxDescriptionLen = 4096
	maxFieldValueLen  = 1024
	maxFields         = 25
)

// footerText는 모든 알림 임베드에 붙는 푸터입니다
const footerText = "Phoenix Scanner 🔭"

// WebhookMessage는 Discord 웹훅 메시지입니다
type WebhookMessage struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed는 Discord 메시지 임베드입니다
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// newAlertEmbed는 스캐너 푸터와 발생 시각이 채워진 임베드를 만듭니다.
// 제목과 설명은 Discord 제한 길이로 잘립니다.
func newAlertEmbed(title, description string, color int, at time.Time) *Embed {
	return &Embed{
		Title:       truncate(title, maxTitleLen),
		Description: truncate(description, maxDescriptionLen),
		Color:       color,
		Footer:      &EmbedFooter{Text: footerText},
		Timestamp:   at.UTC().Format(time.RFC3339),
	}
}

// field는 필드를 추가합니다. 25개를 넘는 필드는 버립니다
func (e *Embed) field(name, value string, inline bool) *Embed {
	if len(e.Fields) >= maxFields {
		return e
	}
	e.Fields = append(e.Fields, EmbedField{
		Name:   truncate(name, maxTitleLen),
		Value:  truncate(value, maxFieldValueLen),
		Inline: inline,
	})
	return e
}

// truncate는 룬 단위로 자르고 마지막에 "…"를 붙입니다
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
