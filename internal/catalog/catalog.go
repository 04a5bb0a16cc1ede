// Package catalog содержит справочник товаров магазина.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога. Значения не изменяются после загрузки.
type Product struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
}

// Catalog неизменяемый упорядоченный справочник товаров.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New создаёт каталог из списка товаров. Идентификаторы должны быть уникальны, цены положительны.
func New(products ...Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}

	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %q: empty id", p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("product %q: duplicate id", p.ID)
		}
		if !p.UnitPrice.IsPositive() {
			return nil, fmt.Errorf("product %q: unit price must be positive", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

// Default возвращает каталог яиц, который продаёт мини-приложение.
func Default() *Catalog {
	c, err := New(
		Product{ID: "white-eggs", Name: "White Eggs", UnitPrice: decimal.RequireFromString("4.99")},
		Product{ID: "brown-eggs", Name: "Brown Eggs", UnitPrice: decimal.RequireFromString("6.99")},
		Product{ID: "duck-eggs", Name: "Duck Eggs", UnitPrice: decimal.RequireFromString("8.99")},
		Product{ID: "quail-eggs", Name: "Quail Eggs", UnitPrice: decimal.RequireFromString("12.99")},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup возвращает товар по идентификатору.
func (c *Catalog) Lookup(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Products возвращает копию списка товаров в порядке каталога.
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

// Position возвращает порядковый номер товара в каталоге или -1.
func (c *Catalog) Position(id string) int {
	i, ok := c.byID[id]
	if !ok {
		return -1
	}
	return i
}
