package cartui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/eggmarket/internal/catalog"
	"github.com/mmeshcher/eggmarket/internal/model"
	"github.com/mmeshcher/eggmarket/internal/orders"
)

type stubSubmitter struct {
	got     *model.SubmitRequest
	receipt *orders.Receipt
	err     error
}

func (s *stubSubmitter) Submit(ctx context.Context, order model.SubmitRequest) (*orders.Receipt, error) {
	s.got = &order
	return s.receipt, s.err
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m tea.Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m.(Model), cmd
}

func TestAdjustUpdatesSummary(t *testing.T) {
	m := New(catalog.Default(), &stubSubmitter{}, model.User{ID: "77"})

	// brown-eggs вторые в каталоге.
	got, _ := press(t, m, "down", "+", "+")
	assert.Equal(t, 2, got.summary.ItemCount)
	assert.Equal(t, "13.98", got.summary.TotalPrice.StringFixed(2))
	assert.Contains(t, got.View(), "Items: 2  Total: 13.98")

	got, _ = press(t, got, "-", "-", "-")
	assert.Equal(t, 0, got.summary.ItemCount)
	assert.True(t, got.summary.TotalPrice.IsZero())
}

func TestEnterOnEmptyCart(t *testing.T) {
	m := New(catalog.Default(), &stubSubmitter{}, model.User{ID: "77"})

	got, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, "Cart is empty", got.status)
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	sub := &stubSubmitter{receipt: &orders.Receipt{OrderID: "EGG-1000", EstimatedDelivery: "30-45 minutes"}}
	m := New(catalog.Default(), sub, model.User{ID: "77"})

	got, cmd := press(t, m, "+", "enter")
	require.NotNil(t, cmd)
	assert.True(t, got.busy)

	msg := cmd()
	require.NotNil(t, sub.got)
	assert.Equal(t, "white-eggs", sub.got.Items[0].ProductID)
	assert.Equal(t, 4.99, sub.got.Total)

	next, _ := got.Update(msg)
	final := next.(Model)
	assert.False(t, final.busy)
	assert.Equal(t, "Order EGG-1000 placed! Delivery in 30-45 minutes", final.status)
	assert.Equal(t, 0, final.summary.ItemCount)
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	sub := &stubSubmitter{err: errors.New("connection refused")}
	m := New(catalog.Default(), sub, model.User{ID: "77"})

	got, cmd := press(t, m, "+", "enter")
	next, _ := got.Update(cmd())
	final := next.(Model)

	assert.Contains(t, final.status, "connection refused")
	assert.Equal(t, 1, final.summary.ItemCount)
}

func TestClearAndQuit(t *testing.T) {
	m := New(catalog.Default(), &stubSubmitter{}, model.User{ID: "77"})

	got, _ := press(t, m, "+", "+", "c")
	assert.Equal(t, 0, got.summary.ItemCount)

	_, cmd := press(t, got, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
