package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func sample(id, name string) Product {
	return Product{ID: id, Name: name, Price: d("1000"), Stock: 10}
}

func TestProduct_TierRate(t *testing.T) {
	p := Product{
		ID:    "p1",
		Price: d("1000"),
		Stock: 100,
		Tiers: []DiscountTier{
			{Quantity: 10, Rate: d("0.2")},
			{Quantity: 5, Rate: d("0.05")},
		},
	}

	tests := []struct {
		qty  int
		want decimal.Decimal
	}{
		{qty: 1, want: d("0")},
		{qty: 4, want: d("0")},
		{qty: 5, want: d("0.05")},
		{qty: 9, want: d("0.05")},
		{qty: 10, want: d("0.2")},
		{qty: 50, want: d("0.2")},
	}
	for _, tt := range tests {
		got := p.TierRate(tt.qty)
		assert.True(t, tt.want.Equal(got), "qty %d: want %s, got %s", tt.qty, tt.want, got)
	}
}

func TestCatalog_AddGetList(t *testing.T) {
	c := NewCatalog(sample("p1", "Waffle"), sample("p2", "Latte"))

	got, ok := c.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "Waffle", got.Name)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	require.NoError(t, c.Add(sample("p3", "Bagel")))
	err := c.Add(sample("p3", "Duplicate"))
	require.ErrorIs(t, err, ErrDuplicateID)

	ids := make([]string, 0, 3)
	for _, p := range c.List() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids)
}

func TestCatalog_Update(t *testing.T) {
	c := NewCatalog(sample("p1", "Waffle"))

	updated := sample("p1", "Waffle Deluxe")
	updated.Stock = 42
	require.NoError(t, c.Update(updated))

	got, ok := c.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "Waffle Deluxe", got.Name)
	assert.Equal(t, 42, got.Stock)

	err := c.Update(sample("missing", "Ghost"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_Delete(t *testing.T) {
	c := NewCatalog(sample("p1", "Waffle"), sample("p2", "Latte"), sample("p3", "Bagel"))

	c.Delete("p2")
	_, ok := c.Get("p2")
	assert.False(t, ok)
	assert.Len(t, c.List(), 2)

	// Index stays consistent after the middle removal.
	got, ok := c.Get("p3")
	require.True(t, ok)
	assert.Equal(t, "Bagel", got.Name)

	c.Delete("missing")
	assert.Len(t, c.List(), 2)
}

func TestCatalog_Search(t *testing.T) {
	c := NewCatalog(sample("p1", "Chicken Waffle"), sample("p2", "Iced Latte"), sample("p3", "Waffle Fries"))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "substring match", query: "waffle", want: []string{"p1", "p3"}},
		{name: "case insensitive", query: "LATTE", want: []string{"p2"}},
		{name: "empty query returns all", query: "", want: []string{"p1", "p2", "p3"}},
		{name: "no match", query: "pizza", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, 0)
			for _, p := range c.Search(tt.query) {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
