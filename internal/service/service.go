// Package service реализует бизнес-логику приёма и обработки заказов.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/eggmarket/internal/catalog"
	"github.com/mmeshcher/eggmarket/internal/metrics"
	"github.com/mmeshcher/eggmarket/internal/model"
	"github.com/mmeshcher/eggmarket/internal/notifier"
	"github.com/mmeshcher/eggmarket/internal/validation"
)

// ErrInvalidStatus возвращается, если статус не входит в список допустимых.
var ErrInvalidStatus = errors.New("invalid status")

// DefaultNotifyTimeout ограничивает время одной отправки уведомлений.
const DefaultNotifyTimeout = 5 * time.Second

// Repository описывает контракт хранилища заказов, используемый сервисом.
type Repository interface {
	Close() error
	AddOrder(ctx context.Context, order model.Order) (model.Order, error)
	GetOrder(ctx context.Context, id string) (model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (model.OrderStatus, model.Order, error)
	CountOrders(ctx context.Context) (int, error)
}

// Service содержит бизнес-логику сервиса заказов.
type Service struct {
	repo          Repository
	catalog       *catalog.Catalog
	notifier      notifier.Notifier
	logger        *zap.Logger
	metrics       *metrics.Metrics
	notifyTimeout time.Duration
	now           func() time.Time

	wg sync.WaitGroup
}

// Option настраивает Service.
type Option func(*Service)

// WithMetrics подключает счётчики Prometheus.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithNotifyTimeout задаёт таймаут отправки уведомлений.
func WithNotifyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService создаёт сервис с указанным хранилищем, каталогом и уведомителем.
func NewService(repo Repository, cat *catalog.Catalog, n notifier.Notifier, logger *zap.Logger, opts ...Option) *Service {
	if n == nil {
		n = notifier.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		repo:          repo,
		catalog:       cat,
		notifier:      n,
		logger:        logger,
		notifyTimeout: DefaultNotifyTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close дожидается завершения отправки уведомлений и закрывает хранилище.
func (s *Service) Close() error {
	s.wg.Wait()
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// SubmitOrder проверяет заказ, сверяет его с каталогом и сохраняет.
// Уведомления отправляются асинхронно и не влияют на результат.
func (s *Service) SubmitOrder(ctx context.Context, req *model.SubmitRequest) (*model.Order, error) {
	if err := validation.ValidateSubmission(req); err != nil {
		s.metrics.OrderRejected("invalid")
		return nil, err
	}

	items, total, err := s.price(req.Items)
	if err != nil {
		s.metrics.OrderRejected("catalog")
		return nil, err
	}

	// Сравниваем с точностью до цента: клиент присылает float.
	if !decimal.NewFromFloat(req.Total).Round(2).Equal(total.Round(2)) {
		s.metrics.OrderRejected("total_mismatch")
		return nil, validation.Invalid("total", "Invalid order data: total does not match items")
	}

	user := model.User{ID: model.AnonymousUserID, Username: "Unknown"}
	if req.User != nil && req.User.ID != "" {
		user = *req.User
	}

	order, err := s.repo.AddOrder(ctx, model.Order{
		Items:     items,
		Total:     total,
		User:      user,
		CreatedAt: s.now().UTC(),
		Status:    model.OrderStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("add order: %w", err)
	}

	s.metrics.OrderSubmitted()
	s.logger.Info("order placed",
		zap.String("order", order.ID),
		zap.String("user", string(order.User.ID)),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("lines", len(order.Items)),
	)

	s.dispatch("order_placed", order, s.notifier.OrderPlaced)

	return &order, nil
}

func (s *Service) price(in []model.SubmitItem) ([]model.OrderItem, decimal.Decimal, error) {
	items := make([]model.OrderItem, 0, len(in))
	total := decimal.Zero

	for i, it := range in {
		p, ok := s.catalog.Lookup(it.ProductID)
		if !ok {
			return nil, decimal.Zero, validation.Invalid("items", "Invalid order data: item %d has unknown product %q", i+1, it.ProductID)
		}
		line := p.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, model.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: line,
		})
		total = total.Add(line)
	}

	return items, total, nil
}

// GetOrder возвращает заказ по идентификатору.
func (s *Service) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders возвращает все заказы в порядке оформления.
func (s *Service) ListOrders(ctx context.Context) ([]model.Order, error) {
	return s.repo.ListOrders(ctx)
}

// UpdateOrderStatus меняет статус заказа. Порядок переходов не ограничен.
func (s *Service) UpdateOrderStatus(ctx context.Context, id, status string) (*model.Order, error) {
	// Существование заказа проверяется раньше статуса.
	if _, err := s.repo.GetOrder(ctx, id); err != nil {
		return nil, err
	}

	st, ok := model.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	prev, order, err := s.repo.UpdateOrderStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}

	s.metrics.StatusUpdated(string(st))
	s.logger.Info("order status updated",
		zap.String("order", id),
		zap.String("from", string(prev)),
		zap.String("to", string(st)),
	)

	if prev != st {
		s.dispatch("status_changed", order, s.notifier.StatusChanged)
	}

	return &order, nil
}

// OrderCount возвращает число сохранённых заказов.
func (s *Service) OrderCount(ctx context.Context) (int, error) {
	return s.repo.CountOrders(ctx)
}

func (s *Service) dispatch(event string, order model.Order, send func(context.Context, model.Order) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		err := send(ctx, order)
		s.metrics.NotificationSent(event, err)
		if err != nil {
			s.logger.Warn("notification failed",
				zap.String("event", event),
				zap.String("order", order.ID),
				zap.Error(err),
			)
		}
	}()
}
