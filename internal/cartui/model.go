// Package cartui реализует терминальный интерфейс корзины на bubbletea.
package cartui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmeshcher/eggmarket/internal/cart"
	"github.com/mmeshcher/eggmarket/internal/catalog"
	"github.com/mmeshcher/eggmarket/internal/model"
	"github.com/mmeshcher/eggmarket/internal/orders"
)

const submitTimeout = 10 * time.Second

// Submitter отправляет заказ в сервис.
type Submitter interface {
	Submit(ctx context.Context, order model.SubmitRequest) (*orders.Receipt, error)
}

// Model состояние экрана корзины.
type Model struct {
	products  []catalog.Product
	cart      *cart.Cart
	submitter Submitter
	user      model.User

	// Обновляется наблюдателем корзины.
	summary *cart.Summary

	cursor int
	status string
	busy   bool
}

// New создаёт модель экрана для каталога и клиента сервиса заказов.
func New(cat *catalog.Catalog, submitter Submitter, user model.User) Model {
	c := cart.New(cat)
	summary := &cart.Summary{}
	c.OnChange(func(s cart.Summary) { *summary = s })

	return Model{
		products:  cat.Products(),
		cart:      c,
		submitter: submitter,
		user:      user,
		summary:   summary,
		status:    "Ready",
	}
}

type submitResult struct {
	receipt *orders.Receipt
	err     error
}

// Init ничего не запускает.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update обрабатывает нажатия клавиш и результат оформления заказа.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.products)-1 {
				m.cursor++
			}
		case "+", "right", "l":
			m.adjust(1)
		case "-", "left", "h":
			m.adjust(-1)
		case "c":
			m.cart.Clear()
			m.status = "Cart cleared"
		case "enter":
			if m.busy {
				return m, nil
			}
			req, err := m.cart.Checkout(m.user)
			if errors.Is(err, cart.ErrEmptyCart) {
				m.status = "Cart is empty"
				return m, nil
			}
			if err != nil {
				m.status = fmt.Sprintf("Checkout failed: %v", err)
				return m, nil
			}
			m.busy = true
			m.status = "Placing order..."
			return m, submitCmd(m.submitter, req)
		}
	case submitResult:
		m.busy = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Order failed: %v", msg.err)
			return m, nil
		}
		m.cart.Clear()
		m.status = fmt.Sprintf("Order %s placed! Delivery in %s", msg.receipt.OrderID, msg.receipt.EstimatedDelivery)
	}
	return m, nil
}

func (m *Model) adjust(delta int) {
	if len(m.products) == 0 {
		return
	}
	if err := m.cart.Adjust(m.products[m.cursor].ID, delta); err != nil {
		m.status = err.Error()
	}
}

func submitCmd(s Submitter, req model.SubmitRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		receipt, err := s.Submit(ctx, req)
		return submitResult{receipt: receipt, err: err}
	}
}

// View рисует каталог, количество в корзине и итог.
func (m Model) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "🥚 Egg Market")
	fmt.Fprintln(b, "")

	for i, p := range m.products {
		marker := " "
		if i == m.cursor {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-12s %6s  x%d\n", marker, p.Name, p.UnitPrice.StringFixed(2), m.cart.Quantity(p.ID))
	}

	fmt.Fprintln(b, "")
	fmt.Fprintf(b, "Items: %d  Total: %s\n", m.summary.ItemCount, m.summary.TotalPrice.StringFixed(2))
	fmt.Fprintf(b, "Status: %s\n", m.status)
	fmt.Fprintln(b, "\nControls: up/down select, +/- change quantity, c clear, enter order, q quit")
	return b.String()
}
