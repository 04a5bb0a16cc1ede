// Package handler содержит HTTP-обработчики API сервиса заказов.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/eggmarket/internal/metrics"
	"github.com/mmeshcher/eggmarket/internal/middleware"
	"github.com/mmeshcher/eggmarket/internal/model"
	"github.com/mmeshcher/eggmarket/internal/repository"
	"github.com/mmeshcher/eggmarket/internal/service"
	"github.com/mmeshcher/eggmarket/internal/validation"
)

const (
	maxBodyBytes = 1 << 20

	estimatedDelivery = "30-45 minutes"
	timestampLayout   = "2006-01-02T15:04:05.000Z07:00"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	SubmitOrder(ctx context.Context, req *model.SubmitRequest) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (*model.Order, error)
	OrderCount(ctx context.Context) (int, error)
}

// Handler реализует HTTP-обработчики API сервиса заказов.
type Handler struct {
	service Service
	logger  *zap.Logger
	metrics *metrics.Metrics
	static  fs.FS
	files   http.Handler
	started time.Time
}

// NewHandler создаёт обработчик. static может быть nil, тогда статика не раздаётся.
func NewHandler(s Service, logger *zap.Logger, static fs.FS, m *metrics.Metrics) *Handler {
	h := &Handler{
		service: s,
		logger:  logger,
		metrics: m,
		static:  static,
		started: time.Now(),
	}
	if static != nil {
		h.files = http.FileServer(http.FS(static))
	}
	return h
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("encode response error", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError переводит ошибку сервиса в HTTP-ответ.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		h.writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, repository.ErrOrderNotFound):
		h.writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, service.ErrInvalidStatus):
		h.writeError(w, http.StatusBadRequest, "Invalid status")
	default:
		h.logger.Error(op+" error",
			zap.Error(err),
			zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
		)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

type submitResponse struct {
	Success           bool   `json:"success"`
	OrderID           string `json:"orderId"`
	Message           string `json:"message"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// SubmitOrder принимает новый заказ из корзины.
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req model.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.service.SubmitOrder(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err, "submit order")
		return
	}

	h.writeJSON(w, http.StatusOK, submitResponse{
		Success:           true,
		OrderID:           order.ID,
		Message:           "Order placed successfully",
		EstimatedDelivery: estimatedDelivery,
	})
}

type itemResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

type orderResponse struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	Total     float64        `json:"total"`
	Timestamp string         `json:"timestamp"`
	Items     []itemResponse `json:"items"`
}

type getOrderResponse struct {
	Success bool          `json:"success"`
	Order   orderResponse `json:"order"`
}

// GetOrder возвращает статус и состав заказа.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.writeServiceError(w, r, err, "get order")
		return
	}

	items := make([]itemResponse, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, itemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.UnitPrice.InexactFloat64(),
			Quantity:  it.Quantity,
			Total:     it.LineTotal.InexactFloat64(),
		})
	}

	h.writeJSON(w, http.StatusOK, getOrderResponse{
		Success: true,
		Order: orderResponse{
			ID:        order.ID,
			Status:    string(order.Status),
			Total:     order.Total.InexactFloat64(),
			Timestamp: order.CreatedAt.UTC().Format(timestampLayout),
			Items:     items,
		},
	})
}

type adminOrderResponse struct {
	ID        string  `json:"id"`
	User      string  `json:"user"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
	Timestamp string  `json:"timestamp"`
	Status    string  `json:"status"`
}

type listOrdersResponse struct {
	Success bool                 `json:"success"`
	Orders  []adminOrderResponse `json:"orders"`
}

// ListOrders возвращает сводку по всем заказам.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "list orders")
		return
	}

	resp := make([]adminOrderResponse, 0, len(orders))
	for _, o := range orders {
		user := o.User.Username
		if user == "" {
			user = string(o.User.ID)
		}
		resp = append(resp, adminOrderResponse{
			ID:        o.ID,
			User:      user,
			Total:     o.Total.InexactFloat64(),
			ItemCount: len(o.Items),
			Timestamp: o.CreatedAt.UTC().Format(timestampLayout),
			Status:    string(o.Status),
		})
	}

	h.writeJSON(w, http.StatusOK, listOrdersResponse{Success: true, Orders: resp})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UpdateOrderStatus меняет статус заказа.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderId")
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	// Нечитаемое тело равносильно пустому статусу: сначала проверяется существование заказа.
	var req updateStatusRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	order, err := h.service.UpdateOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeServiceError(w, r, err, "update order status")
		return
	}

	h.writeJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: "Order " + order.ID + " status updated to " + string(order.Status),
	})
}

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Orders    int     `json:"orders"`
}

// Health сообщает о состоянии сервиса.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.OrderCount(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "health")
		return
	}

	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(timestampLayout),
		Uptime:    time.Since(h.started).Seconds(),
		Orders:    count,
	})
}

// NotFound отвечает на запросы к неизвестным адресам.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusNotFound, "Endpoint not found")
}

// Static раздаёт файлы клиентского приложения. Каталоги без index.html не листаются.
func (h *Handler) Static(w http.ResponseWriter, r *http.Request) {
	if h.static == nil {
		h.NotFound(w, r)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "."
	}

	info, err := fs.Stat(h.static, name)
	if err == nil && info.IsDir() {
		_, err = fs.Stat(h.static, path.Join(name, "index.html"))
	}
	if err != nil {
		h.NotFound(w, r)
		return
	}

	h.files.ServeHTTP(w, r)
}
