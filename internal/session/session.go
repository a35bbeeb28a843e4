// Package session persists the shopper's cart, the coupon registry,
// and the order log to the key-value store, and restores them at
// session start. Malformed persisted data never propagates: the cart
// falls back to empty and the coupons to the default pair.
package session

import (
	"go.uber.org/zap"

	"github.com/minimart/storefront/internal/domain/cart"
	"github.com/minimart/storefront/internal/domain/coupon"
	"github.com/minimart/storefront/internal/domain/order"
	"github.com/minimart/storefront/internal/storage/kv"
)

// Store keys. The cart key is removed entirely when the cart is empty.
const (
	KeyCart    = "cart"
	KeyCoupons = "coupons"
	KeyOrders  = "orders"
)

// Session reads and writes storefront state through a kv.Store.
type Session struct {
	store kv.Store
	lg    *zap.Logger
}

var _ order.Repository = (*Session)(nil)

// New creates a Session over the given store.
func New(store kv.Store, lg *zap.Logger) *Session {
	return &Session{store: store, lg: lg}
}

// LoadCart restores the persisted cart items. An absent or unparsable
// value yields an empty cart.
func (s *Session) LoadCart() []cart.Item {
	raw, ok, err := s.store.Get(KeyCart)
	if err != nil || !ok {
		if err != nil {
			s.lg.Warn("Cart restore failed, starting empty", zap.Error(err))
		}
		return nil
	}

	items, err := decodeCart(raw)
	if err != nil {
		s.lg.Warn("Persisted cart is malformed, starting empty", zap.Error(err))
		return nil
	}
	return items
}

// SaveCart persists the cart items, removing the key when the cart is
// empty.
func (s *Session) SaveCart(items []cart.Item) error {
	if len(items) == 0 {
		return s.store.Remove(KeyCart)
	}
	return s.store.Set(KeyCart, encodeCart(items))
}

// LoadCoupons restores the persisted coupon set. An absent or
// unparsable value yields the default coupon pair.
func (s *Session) LoadCoupons() []coupon.Coupon {
	raw, ok, err := s.store.Get(KeyCoupons)
	if err != nil || !ok {
		if err != nil {
			s.lg.Warn("Coupon restore failed, using defaults", zap.Error(err))
		}
		return coupon.Defaults()
	}

	coupons, err := decodeCoupons(raw)
	if err != nil {
		s.lg.Warn("Persisted coupons are malformed, using defaults", zap.Error(err))
		return coupon.Defaults()
	}
	return coupons
}

// SaveCoupons persists the coupon set.
func (s *Session) SaveCoupons(coupons []coupon.Coupon) error {
	return s.store.Set(KeyCoupons, encodeCoupons(coupons))
}

// LoadOrders restores the order log, best effort: a malformed log
// yields an empty history.
func (s *Session) LoadOrders() []order.Order {
	raw, ok, err := s.store.Get(KeyOrders)
	if err != nil || !ok {
		return nil
	}

	orders, err := decodeOrders(raw)
	if err != nil {
		s.lg.Warn("Persisted order log is malformed, ignoring", zap.Error(err))
		return nil
	}
	return orders
}

// Append adds a completed order to the persisted order log.
func (s *Session) Append(o *order.Order) error {
	existing := s.LoadOrders()
	return s.store.Set(KeyOrders, encodeOrders(append(existing, *o)))
}
