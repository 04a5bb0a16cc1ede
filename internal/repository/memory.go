// Package repository содержит хранилище заказов в памяти процесса.
package repository

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/mmeshcher/eggmarket/internal/model"
)

// ErrOrderNotFound возвращается, если заказ с указанным идентификатором не найден.
var ErrOrderNotFound = errors.New("order not found")

const (
	// OrderIDPrefix текстовый префикс идентификатора заказа.
	OrderIDPrefix = "EGG-"
	// FirstOrderNumber номер, с которого начинается нумерация заказов.
	FirstOrderNumber = 1000
)

// MemoryRepository хранит заказы в порядке поступления. Заказы не удаляются
// и теряются при перезапуске процесса.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders []*model.Order
	byID   map[string]int
	next   int64
}

// NewMemoryRepository создаёт пустое хранилище.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID: make(map[string]int),
		next: FirstOrderNumber,
	}
}

// Close ничего не освобождает, нужен для совместимости с контрактом сервиса.
func (r *MemoryRepository) Close() error {
	return nil
}

// AddOrder присваивает заказу идентификатор и добавляет его в конец последовательности.
// Выдача номера и добавление выполняются под одной блокировкой.
func (r *MemoryRepository) AddOrder(ctx context.Context, order model.Order) (model.Order, error) {
	if err := ctx.Err(); err != nil {
		return model.Order{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := order.Clone()
	stored.ID = OrderIDPrefix + strconv.FormatInt(r.next, 10)
	r.next++

	r.byID[stored.ID] = len(r.orders)
	r.orders = append(r.orders, &stored)

	return stored.Clone(), nil
}

// GetOrder возвращает копию заказа по идентификатору.
func (r *MemoryRepository) GetOrder(ctx context.Context, id string) (model.Order, error) {
	if err := ctx.Err(); err != nil {
		return model.Order{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return model.Order{}, ErrOrderNotFound
	}
	return r.orders[i].Clone(), nil
}

// ListOrders возвращает копии всех заказов, старые первыми.
func (r *MemoryRepository) ListOrders(ctx context.Context) ([]model.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		res = append(res, o.Clone())
	}
	return res, nil
}

// UpdateOrderStatus устанавливает статус заказа и возвращает предыдущий статус
// вместе с обновлённой копией заказа.
func (r *MemoryRepository) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (model.OrderStatus, model.Order, error) {
	if err := ctx.Err(); err != nil {
		return "", model.Order{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byID[id]
	if !ok {
		return "", model.Order{}, ErrOrderNotFound
	}

	prev := r.orders[i].Status
	r.orders[i].Status = status

	return prev, r.orders[i].Clone(), nil
}

// CountOrders возвращает количество сохранённых заказов.
func (r *MemoryRepository) CountOrders(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.orders), nil
}
