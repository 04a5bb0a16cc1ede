// Package model содержит доменные сущности сервиса заказов eggmarket.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает статус обработки заказа.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses перечисляет все допустимые статусы заказа.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus возвращает статус, если строка совпадает с одним из допустимых значений.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// AnonymousUserID подставляется, когда клиент не передал данные пользователя.
const AnonymousUserID = "anonymous"

// UserID идентификатор пользователя мессенджера. В JSON принимается как строка или число.
type UserID string

// UnmarshalJSON принимает строку, число или null.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or a number: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// User описывает покупателя, оформившего заказ.
type User struct {
	ID        UserID `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

// IsAnonymous сообщает, что пользователь не идентифицирован.
func (u User) IsAnonymous() bool {
	return u.ID == "" || u.ID == AnonymousUserID
}

// Handle возвращает отображаемое имя покупателя.
func (u User) Handle() string {
	switch {
	case u.Username != "":
		return u.Username
	case u.FirstName != "":
		return u.FirstName
	default:
		return "Anonymous"
	}
}

// OrderItem фиксирует позицию заказа на момент оформления.
type OrderItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// Order описывает заказ покупателя.
type Order struct {
	ID        string
	Items     []OrderItem
	Total     decimal.Decimal
	User      User
	CreatedAt time.Time
	Status    OrderStatus
}

// Clone возвращает копию заказа, не разделяющую срез позиций с оригиналом.
func (o Order) Clone() Order {
	c := o
	c.Items = append([]OrderItem(nil), o.Items...)
	return c
}

// SubmitItem позиция заказа в том виде, в котором её присылает клиент.
type SubmitItem struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name,omitempty"`
	UnitPrice float64 `json:"price,omitempty"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
	LineTotal float64 `json:"total,omitempty"`
}

// SubmitRequest тело запроса на оформление заказа.
type SubmitRequest struct {
	Items []SubmitItem `json:"items" validate:"required,min=1"`
	Total float64      `json:"total" validate:"gt=0"`
	User  *User        `json:"user,omitempty"`
}
