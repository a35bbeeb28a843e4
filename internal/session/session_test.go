package session

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/minimart/storefront/internal/domain/cart"
	"github.com/minimart/storefront/internal/domain/coupon"
	"github.com/minimart/storefront/internal/domain/order"
	"github.com/minimart/storefront/internal/domain/product"
	"github.com/minimart/storefront/internal/storage/kv"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newTestSession() (*Session, *kv.Memory) {
	store := kv.NewMemory()
	return New(store, zap.NewNop()), store
}

func testItems() []cart.Item {
	return []cart.Item{
		{
			Product: product.Product{
				ID:    "p1",
				Name:  "Chicken Waffle",
				Price: d("1299"),
				Stock: 12,
				Tiers: []product.DiscountTier{
					{Quantity: 5, Rate: d("0.05")},
					{Quantity: 10, Rate: d("0.2")},
				},
			},
			Quantity: 3,
		},
		{
			Product: product.Product{
				ID:    "p2",
				Name:  "Iced Latte",
				Price: d("450"),
				Stock: 30,
			},
			Quantity: 1,
		},
	}
}

func TestSession_Cart(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		s, _ := newTestSession()
		items := testItems()

		require.NoError(t, s.SaveCart(items))
		got := s.LoadCart()
		require.Len(t, got, 2)
		assert.Equal(t, "p1", got[0].Product.ID)
		assert.Equal(t, 3, got[0].Quantity)
		assert.True(t, d("1299").Equal(got[0].Product.Price))
		require.Len(t, got[0].Product.Tiers, 2)
		assert.Equal(t, 10, got[0].Product.Tiers[1].Quantity)
		assert.True(t, d("0.2").Equal(got[0].Product.Tiers[1].Rate))
		assert.Equal(t, "Iced Latte", got[1].Product.Name)
	})

	t.Run("absent key yields empty cart", func(t *testing.T) {
		s, _ := newTestSession()
		assert.Empty(t, s.LoadCart())
	})

	t.Run("empty cart removes the key", func(t *testing.T) {
		s, store := newTestSession()
		require.NoError(t, s.SaveCart(testItems()))
		require.NoError(t, s.SaveCart(nil))

		_, ok, err := store.Get(KeyCart)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed value yields empty cart", func(t *testing.T) {
		s, store := newTestSession()
		for _, raw := range []string{
			"not json",
			`{"oops": true}`,
			`[{"id": "", "quantity": 1}]`,
			`[{"id": "p1", "quantity": 0}]`,
		} {
			require.NoError(t, store.Set(KeyCart, raw))
			assert.Empty(t, s.LoadCart(), "raw %q", raw)
		}
	})
}

func TestSession_Coupons(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		s, _ := newTestSession()
		coupons := append(coupon.Defaults(), coupon.Coupon{
			Name:  "Happy Hour",
			Code:  "HAPPYHRS",
			Type:  coupon.DiscountPercentage,
			Value: d("18"),
		})

		require.NoError(t, s.SaveCoupons(coupons))
		got := s.LoadCoupons()
		require.Len(t, got, 3)
		assert.Equal(t, "WELCOME5000", got[0].Code)
		assert.Equal(t, "HAPPYHRS", got[2].Code)
		assert.Equal(t, coupon.DiscountPercentage, got[2].Type)
		assert.True(t, d("18").Equal(got[2].Value))
	})

	t.Run("absent key yields defaults", func(t *testing.T) {
		s, _ := newTestSession()
		got := s.LoadCoupons()
		require.Len(t, got, 2)
		assert.Equal(t, "WELCOME5000", got[0].Code)
		assert.Equal(t, "SAVE10", got[1].Code)
	})

	t.Run("malformed value yields defaults", func(t *testing.T) {
		s, store := newTestSession()
		for _, raw := range []string{
			"{broken",
			`[{"code": "", "type": "amount", "value": "10"}]`,
			`[{"code": "X", "type": "mystery", "value": "10"}]`,
		} {
			require.NoError(t, store.Set(KeyCoupons, raw))
			got := s.LoadCoupons()
			require.Len(t, got, 2, "raw %q", raw)
			assert.Equal(t, "WELCOME5000", got[0].Code)
		}
	})

	t.Run("saved empty set stays empty", func(t *testing.T) {
		// An explicitly saved empty registry must not fall back to
		// defaults: all coupons were deliberately deleted.
		s, _ := newTestSession()
		require.NoError(t, s.SaveCoupons(nil))
		assert.Empty(t, s.LoadCoupons())
	})
}

func TestSession_Orders(t *testing.T) {
	s, store := newTestSession()

	o := order.Order{
		ID: "ord-1",
		Items: []order.LineItem{
			{ProductID: "p1", Name: "Chicken Waffle", UnitPrice: d("1299"), Quantity: 3, Total: d("3897")},
		},
		Subtotal:   d("3897"),
		Total:      d("3397"),
		Discounts:  d("500"),
		CouponCode: "FLAT500",
		CreatedAt:  time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, s.Append(&o))
	o2 := o
	o2.ID = "ord-2"
	o2.CouponCode = ""
	require.NoError(t, s.Append(&o2))

	got := s.LoadOrders()
	require.Len(t, got, 2)
	assert.Equal(t, "ord-1", got[0].ID)
	assert.Equal(t, "FLAT500", got[0].CouponCode)
	assert.True(t, got[0].CreatedAt.Equal(o.CreatedAt))
	require.Len(t, got[0].Items, 1)
	assert.True(t, d("3897").Equal(got[0].Items[0].Total))
	assert.Equal(t, "ord-2", got[1].ID)
	assert.Empty(t, got[1].CouponCode)

	// A corrupted log is ignored rather than surfaced.
	require.NoError(t, store.Set(KeyOrders, "corrupt"))
	assert.Empty(t, s.LoadOrders())
}
