// Package notifier рассылает уведомления о заказах во внешний мессенджер.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/eggmarket/internal/model"
)

// Notifier контракт отправки уведомлений о событиях заказа.
type Notifier interface {
	OrderPlaced(ctx context.Context, order model.Order) error
	StatusChanged(ctx context.Context, order model.Order) error
}

// Sender отправляет текст в чат мессенджера.
type Sender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// Nop не отправляет ничего. Используется, когда бот не настроен.
type Nop struct{}

// OrderPlaced ничего не делает.
func (Nop) OrderPlaced(context.Context, model.Order) error { return nil }

// StatusChanged ничего не делает.
func (Nop) StatusChanged(context.Context, model.Order) error { return nil }

// Telegram отправляет уведомления администраторам и покупателю через бота.
type Telegram struct {
	sender      Sender
	adminChatID string
	logger      *zap.Logger
}

// NewTelegram создаёт уведомитель. Пустой adminChatID отключает сообщения администраторам.
func NewTelegram(sender Sender, adminChatID string, logger *zap.Logger) *Telegram {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Telegram{
		sender:      sender,
		adminChatID: adminChatID,
		logger:      logger,
	}
}

// OrderPlaced отправляет подробности заказа в чат администраторов и подтверждение покупателю.
// Сообщения отправляются независимо друг от друга, ошибки объединяются.
func (t *Telegram) OrderPlaced(ctx context.Context, order model.Order) error {
	var errs []error

	if t.adminChatID != "" {
		if err := t.sender.SendMessage(ctx, t.adminChatID, AdminOrderMessage(order)); err != nil {
			errs = append(errs, fmt.Errorf("admin chat: %w", err))
		} else {
			t.logger.Debug("admin notification sent", zap.String("order", order.ID))
		}
	}

	if !order.User.IsAnonymous() {
		if err := t.sender.SendMessage(ctx, string(order.User.ID), CustomerOrderMessage(order)); err != nil {
			errs = append(errs, fmt.Errorf("customer chat: %w", err))
		} else {
			t.logger.Debug("customer notification sent", zap.String("order", order.ID))
		}
	}

	return errors.Join(errs...)
}

// StatusChanged сообщает покупателю новый статус заказа.
func (t *Telegram) StatusChanged(ctx context.Context, order model.Order) error {
	if order.User.IsAnonymous() {
		return nil
	}
	if err := t.sender.SendMessage(ctx, string(order.User.ID), CustomerStatusMessage(order)); err != nil {
		return fmt.Errorf("customer chat: %w", err)
	}
	return nil
}

const timeLayout = "2006-01-02 15:04:05 MST"

// AdminOrderMessage формирует сообщение о новом заказе для администраторов.
func AdminOrderMessage(order model.Order) string {
	var b strings.Builder

	b.WriteString("🥚 NEW ORDER RECEIVED!\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", order.ID)
	fmt.Fprintf(&b, "Customer: %s\n", order.User.Handle())
	fmt.Fprintf(&b, "User ID: %s\n\n", order.User.ID)
	b.WriteString("Items:\n")
	for _, it := range order.Items {
		fmt.Fprintf(&b, "• %dx %s - %s\n", it.Quantity, it.Name, it.LineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\n💰 Total: %s\n", order.Total.StringFixed(2))
	fmt.Fprintf(&b, "⏰ Time: %s", order.CreatedAt.Format(timeLayout))

	return b.String()
}

// CustomerOrderMessage формирует подтверждение заказа для покупателя.
func CustomerOrderMessage(order model.Order) string {
	return fmt.Sprintf(
		"✅ Your order has been placed!\n\nOrder ID: %s\nTotal: %s\n\nWe'll notify you when it's ready.",
		order.ID,
		order.Total.StringFixed(2),
	)
}

// CustomerStatusMessage формирует сообщение об изменении статуса заказа.
func CustomerStatusMessage(order model.Order) string {
	switch order.Status {
	case model.OrderStatusConfirmed:
		return fmt.Sprintf("👍 Order %s has been confirmed.", order.ID)
	case model.OrderStatusPreparing:
		return fmt.Sprintf("🍳 Order %s is being prepared.", order.ID)
	case model.OrderStatusReady:
		return fmt.Sprintf("✅ Order %s is ready!", order.ID)
	case model.OrderStatusDelivered:
		return fmt.Sprintf("🎉 Order %s has been delivered. Thank you!", order.ID)
	case model.OrderStatusCancelled:
		return fmt.Sprintf("❌ Order %s has been cancelled.", order.ID)
	default:
		return fmt.Sprintf("📋 Order %s status: %s", order.ID, order.Status)
	}
}
