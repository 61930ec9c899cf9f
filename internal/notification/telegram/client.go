// Package telegram은 텔레그램 봇으로 알림을 전송합니다.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrInvalidChatID는 채팅 ID가 숫자도 @채널도 아닐 때 반환됩니다
var ErrInvalidChatID = errors.New("잘못된 텔레그램 채팅 ID")

// Client는 텔레그램 알림 클라이언트입니다. 봇 인증은 첫 전송 시점에 수행됩니다
type Client struct {
	token      string
	chatID     int64
	channel    string
	endpoint   string
	httpClient *http.Client

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// ClientOption은 클라이언트 생성 옵션을 정의합니다
type ClientOption func(*Client)

// WithEndpoint는 Bot API 엔드포인트 형식("…/bot%s/%s")을 설정합니다
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient는 사용할 HTTP 클라이언트를 설정합니다
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient는 새로운 텔레그램 클라이언트를 생성합니다.
// chatID는 숫자 ID 또는 @channel 형식이어야 합니다.
func NewClient(token, chatID string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		token:      token,
		endpoint:   tgbotapi.APIEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	chatID = strings.TrimSpace(chatID)
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		c.chatID = id
	} else if strings.HasPrefix(chatID, "@") && len(chatID) > 1 {
		c.channel = chatID
	} else {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChatID, chatID)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// authorize는 봇 인증을 한 번만 수행합니다. 실패하면 다음 전송 때 다시 시도합니다
func (c *Client) authorize() (*tgbotapi.BotAPI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bot != nil {
		return c.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(c.token, c.endpoint, c.httpClient)
	if err != nil {
		return nil, fmt.Errorf("텔레그램 봇 인증 실패: %w", err)
	}
	c.bot = bot
	return bot, nil
}

// Send는 텍스트 메시지를 전송합니다
func (c *Client) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bot, err := c.authorize()
	if err != nil {
		return err
	}

	var msg tgbotapi.MessageConfig
	if c.channel != "" {
		msg = tgbotapi.NewMessageToChannel(c.channel, text)
	} else {
		msg = tgbotapi.NewMessage(c.chatID, text)
	}
	msg.DisableWebPagePreview = true

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("텔레그램 메시지 전송 실패: %w", err)
	}
	return nil
}
