// Package telegram предоставляет клиент Telegram Bot API для отправки сообщений.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL адрес публичного Bot API.
const DefaultBaseURL = "https://api.telegram.org"

// ErrNotConfigured возвращается, если у клиента нет адреса или токена бота.
var ErrNotConfigured = errors.New("telegram client not configured")

// APIError описывает отказ Bot API.
type APIError struct {
	StatusCode  int
	Code        int
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("telegram api: %d %s", e.Code, e.Description)
}

// Client инкапсулирует HTTP-взаимодействие с Bot API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewClient создаёт клиент Bot API для указанного адреса и токена бота.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendMessage отправляет текстовое сообщение в указанный чат.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	if c == nil || c.baseURL == "" || c.token == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error содержит адрес с токеном бота
		return fmt.Errorf("do request: %w", redact(err, c.token))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var result apiResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil && resp.StatusCode == http.StatusOK {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode != http.StatusOK || !result.OK {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        result.ErrorCode,
			Description: result.Description,
		}
	}

	return nil
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{
		msg: strings.ReplaceAll(err.Error(), token, "<redacted>"),
		err: err,
	}
}
