package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a completed shopper order with pricing details.
// Totals are in whole currency units.
type Order struct {
	ID         string
	Items      []LineItem
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
	Discounts  decimal.Decimal
	CouponCode string
	CreatedAt  time.Time
}

// LineItem is a single priced line of a completed order. Total is the
// line total after per-item discounts.
type LineItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Total     decimal.Decimal
}

// Repository defines persistence for completed orders.
type Repository interface {
	Append(o *Order) error
}
