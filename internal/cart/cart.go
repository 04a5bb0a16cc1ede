// Package cart реализует клиентскую корзину: количество товаров, итоговая сумма
// и подготовка заказа к отправке.
package cart

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/eggmarket/internal/catalog"
	"github.com/mmeshcher/eggmarket/internal/model"
)

var (
	// ErrUnknownProduct возвращается для товара, которого нет в каталоге.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrEmptyCart возвращается при попытке оформить пустую корзину.
	ErrEmptyCart = errors.New("cart is empty")
)

// Summary итоги корзины.
type Summary struct {
	ItemCount  int
	TotalPrice decimal.Decimal
}

// Line строка корзины.
type Line struct {
	Product  catalog.Product
	Quantity int
}

// LineTotal стоимость строки.
func (l Line) LineTotal() decimal.Decimal {
	return l.Product.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart корзина покупателя. Не предназначена для конкурентного использования.
type Cart struct {
	catalog    *catalog.Catalog
	quantities map[string]int
	observers  []func(Summary)
}

// New создаёт пустую корзину для указанного каталога.
func New(c *catalog.Catalog) *Cart {
	return &Cart{
		catalog:    c,
		quantities: make(map[string]int),
	}
}

// OnChange регистрирует наблюдателя. Наблюдатели вызываются в порядке регистрации
// после каждого изменения корзины.
func (c *Cart) OnChange(fn func(Summary)) {
	c.observers = append(c.observers, fn)
}

// Adjust изменяет количество товара на delta. Количество не опускается ниже нуля,
// строка с нулевым количеством удаляется.
func (c *Cart) Adjust(productID string, delta int) error {
	if _, ok := c.catalog.Lookup(productID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}

	qty := c.quantities[productID] + delta
	if qty <= 0 {
		delete(c.quantities, productID)
	} else {
		c.quantities[productID] = qty
	}

	c.notify()
	return nil
}

// Clear очищает корзину.
func (c *Cart) Clear() {
	clear(c.quantities)
	c.notify()
}

// Quantity возвращает текущее количество товара.
func (c *Cart) Quantity(productID string) int {
	return c.quantities[productID]
}

// Len возвращает число различных товаров в корзине.
func (c *Cart) Len() int {
	return len(c.quantities)
}

// Lines возвращает строки корзины в порядке каталога.
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.quantities))
	for id, qty := range c.quantities {
		p, ok := c.catalog.Lookup(id)
		if !ok {
			continue
		}
		lines = append(lines, Line{Product: p, Quantity: qty})
	}

	sort.Slice(lines, func(i, j int) bool {
		return c.catalog.Position(lines[i].Product.ID) < c.catalog.Position(lines[j].Product.ID)
	})

	return lines
}

// Summary пересчитывает количество и сумму при каждом вызове.
func (c *Cart) Summary() Summary {
	s := Summary{TotalPrice: decimal.Zero}
	for _, l := range c.Lines() {
		s.ItemCount += l.Quantity
		s.TotalPrice = s.TotalPrice.Add(l.LineTotal())
	}
	return s
}

// Checkout формирует тело запроса на оформление заказа из содержимого корзины.
func (c *Cart) Checkout(user model.User) (model.SubmitRequest, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return model.SubmitRequest{}, ErrEmptyCart
	}

	req := model.SubmitRequest{
		Items: make([]model.SubmitItem, 0, len(lines)),
		User:  &user,
	}

	total := decimal.Zero
	for _, l := range lines {
		lineTotal := l.LineTotal()
		req.Items = append(req.Items, model.SubmitItem{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			UnitPrice: l.Product.UnitPrice.InexactFloat64(),
			Quantity:  l.Quantity,
			LineTotal: lineTotal.InexactFloat64(),
		})
		total = total.Add(lineTotal)
	}
	req.Total = total.InexactFloat64()

	return req, nil
}

func (c *Cart) notify() {
	if len(c.observers) == 0 {
		return
	}
	s := c.Summary()
	for _, fn := range c.observers {
		fn(s)
	}
}
