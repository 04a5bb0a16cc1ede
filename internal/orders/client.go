// Package orders предоставляет HTTP-клиент API сервиса заказов.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmeshcher/eggmarket/internal/model"
)

// Client инкапсулирует HTTP-взаимодействие с сервисом заказов.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Receipt подтверждение принятого заказа.
type Receipt struct {
	OrderID           string `json:"orderId"`
	Message           string `json:"message"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// RejectedError ответ сервиса с success=false.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("orders api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("orders api: %s (status %d)", e.Message, e.StatusCode)
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewClient создаёт клиент сервиса заказов по указанному адресу.
func NewClient(baseURL string) *Client {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Submit отправляет заказ и возвращает подтверждение сервиса.
func (c *Client) Submit(ctx context.Context, order model.SubmitRequest) (*Receipt, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	var resp struct {
		envelope
		Receipt
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}

	return &resp.Receipt, nil
}

// Status возвращает текущий статус заказа.
func (c *Client) Status(ctx context.Context, orderID string) (model.OrderStatus, error) {
	var resp struct {
		envelope
		Order struct {
			Status model.OrderStatus `json:"status"`
		} `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(orderID), nil, &resp); err != nil {
		return "", err
	}

	return resp.Order.Status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return &RejectedError{StatusCode: resp.StatusCode, Message: env.Error}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
