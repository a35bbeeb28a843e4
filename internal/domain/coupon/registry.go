package coupon

import (
	"sync"

	"github.com/go-faster/errors"
)

// Registry holds the set of coupons available for application, in
// insertion order. Uniqueness by code is enforced on Add.
type Registry struct {
	mu      sync.RWMutex
	coupons []Coupon
}

// NewRegistry creates a Registry seeded with the given coupons. Later
// duplicates of a code are dropped.
func NewRegistry(coupons ...Coupon) *Registry {
	r := &Registry{}
	for _, c := range coupons {
		_ = r.Add(c)
	}
	return r
}

// List returns a snapshot of all coupons in insertion order.
func (r *Registry) List() []Coupon {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Coupon, len(r.coupons))
	copy(out, r.coupons)
	return out
}

// FindByCode returns the coupon with the exact code.
func (r *Registry) FindByCode(code string) (Coupon, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.coupons {
		if c.Code == code {
			return c, true
		}
	}
	return Coupon{}, false
}

// Add appends a coupon. It returns ErrDuplicateCode when a coupon with
// the same code (exact, case-sensitive match) is already registered.
func (r *Registry) Add(c Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.coupons {
		if existing.Code == c.Code {
			return errors.Wrapf(ErrDuplicateCode, "add coupon %q", c.Code)
		}
	}
	r.coupons = append(r.coupons, c)
	return nil
}

// Delete removes the coupon with the given code and reports whether a
// match existed. Deleting an unknown code is not an error.
func (r *Registry) Delete(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.coupons {
		if c.Code == code {
			r.coupons = append(r.coupons[:i], r.coupons[i+1:]...)
			return true
		}
	}
	return false
}
