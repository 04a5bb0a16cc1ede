package cart

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/eggmarket/internal/catalog"
	"github.com/mmeshcher/eggmarket/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAdjust_BrownEggsScenario(t *testing.T) {
	c := New(catalog.Default())

	require.NoError(t, c.Adjust("brown-eggs", 1))
	require.NoError(t, c.Adjust("brown-eggs", 1))

	s := c.Summary()
	assert.Equal(t, 2, s.ItemCount)
	assert.True(t, s.TotalPrice.Equal(dec("13.98")), "total = %s", s.TotalPrice)

	require.NoError(t, c.Adjust("brown-eggs", -5))

	s = c.Summary()
	assert.Equal(t, 0, s.ItemCount)
	assert.True(t, s.TotalPrice.IsZero())
	assert.Equal(t, 0, c.Len())
}

func TestAdjust_IncrementsMinusDecrements(t *testing.T) {
	tests := []struct {
		name string
		n    int
		m    int
	}{
		{name: "three minus one", n: 3, m: 1},
		{name: "equal", n: 4, m: 4},
		{name: "nothing removed", n: 2, m: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(catalog.Default())
			for i := 0; i < tt.n; i++ {
				require.NoError(t, c.Adjust("duck-eggs", 1))
			}
			for i := 0; i < tt.m; i++ {
				require.NoError(t, c.Adjust("duck-eggs", -1))
			}

			assert.Equal(t, tt.n-tt.m, c.Summary().ItemCount)
			assert.Equal(t, tt.n-tt.m, c.Quantity("duck-eggs"))
			if tt.n == tt.m {
				_, present := c.quantities["duck-eggs"]
				assert.False(t, present, "zero quantity must not be stored")
			}
		})
	}
}

func TestAdjust_DecrementAbsentLine(t *testing.T) {
	c := New(catalog.Default())

	require.NoError(t, c.Adjust("quail-eggs", -1))

	assert.Equal(t, 0, c.Quantity("quail-eggs"))
	assert.Equal(t, 0, c.Len())
}

func TestAdjust_UnknownProduct(t *testing.T) {
	c := New(catalog.Default())
	require.NoError(t, c.Adjust("white-eggs", 2))

	calls := 0
	c.OnChange(func(Summary) { calls++ })

	err := c.Adjust("dragon-eggs", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownProduct))
	assert.Equal(t, 0, calls, "observers must not fire on rejected adjust")
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Summary().TotalPrice.Equal(dec("9.98")))
}

func TestAdjust_RandomSequencesKeepInvariants(t *testing.T) {
	cat := catalog.Default()
	products := cat.Products()
	rnd := rand.New(rand.NewSource(42))

	c := New(cat)
	for i := 0; i < 2000; i++ {
		p := products[rnd.Intn(len(products))]
		require.NoError(t, c.Adjust(p.ID, rnd.Intn(7)-3))

		for id, qty := range c.quantities {
			require.Greater(t, qty, 0, "product %s stored with quantity %d", id, qty)
		}

		want := decimal.Zero
		count := 0
		for _, p := range products {
			q := c.Quantity(p.ID)
			require.GreaterOrEqual(t, q, 0)
			count += q
			want = want.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(q))))
		}

		s := c.Summary()
		require.Equal(t, count, s.ItemCount)
		require.True(t, want.Equal(s.TotalPrice), "total %s, want %s", s.TotalPrice, want)
	}
}

func TestObserversRunInOrderAfterMutation(t *testing.T) {
	c := New(catalog.Default())

	var got []string
	c.OnChange(func(s Summary) {
		got = append(got, "display:"+s.TotalPrice.StringFixed(2))
	})
	c.OnChange(func(s Summary) {
		if c.Len() > 0 {
			got = append(got, "back:show")
		} else {
			got = append(got, "back:hide")
		}
	})

	require.NoError(t, c.Adjust("white-eggs", 1))
	c.Clear()

	assert.Equal(t, []string{
		"display:4.99", "back:show",
		"display:0.00", "back:hide",
	}, got)
}

func TestLinesFollowCatalogOrder(t *testing.T) {
	c := New(catalog.Default())
	require.NoError(t, c.Adjust("quail-eggs", 1))
	require.NoError(t, c.Adjust("white-eggs", 3))
	require.NoError(t, c.Adjust("duck-eggs", 2))

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "white-eggs", lines[0].Product.ID)
	assert.Equal(t, "duck-eggs", lines[1].Product.ID)
	assert.Equal(t, "quail-eggs", lines[2].Product.ID)
	assert.True(t, lines[1].LineTotal().Equal(dec("17.98")))
}

func TestCheckout(t *testing.T) {
	c := New(catalog.Default())

	_, err := c.Checkout(model.User{ID: "u1"})
	assert.ErrorIs(t, err, ErrEmptyCart)

	require.NoError(t, c.Adjust("duck-eggs", 2))
	require.NoError(t, c.Adjust("white-eggs", 1))

	req, err := c.Checkout(model.User{ID: "u1", Username: "eggfan"})
	require.NoError(t, err)

	require.Len(t, req.Items, 2)
	assert.Equal(t, "white-eggs", req.Items[0].ProductID)
	assert.Equal(t, "duck-eggs", req.Items[1].ProductID)
	assert.Equal(t, 2, req.Items[1].Quantity)
	assert.InDelta(t, 17.98, req.Items[1].LineTotal, 1e-9)
	assert.InDelta(t, 22.97, req.Total, 1e-9)
	require.NotNil(t, req.User)
	assert.Equal(t, model.UserID("u1"), req.User.ID)

	assert.Equal(t, 3, c.Summary().ItemCount, "checkout must not clear the cart")
}
