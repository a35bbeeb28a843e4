package coupon

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountAmount subtracts a fixed number of currency units from the
	// order total, floored at zero.
	DiscountAmount DiscountType = "amount"
	// DiscountPercentage applies a percentage-based discount (0-100) to
	// the order total.
	DiscountPercentage DiscountType = "percentage"
)

// ErrDuplicateCode is returned when registering a coupon whose code is
// already taken. Codes are compared case-sensitively.
var ErrDuplicateCode = errors.New("coupon code already exists")

// Coupon is an order-level discount. The code is the identity key; at
// most one coupon is active per order, with replacement semantics.
type Coupon struct {
	Name  string
	Code  string
	Type  DiscountType
	Value decimal.Decimal
}

// Defaults returns the coupon pair used when no persisted coupons exist
// or the persisted data cannot be parsed.
func Defaults() []Coupon {
	return []Coupon{
		{
			Name:  "Welcome: 5000 off",
			Code:  "WELCOME5000",
			Type:  DiscountAmount,
			Value: decimal.NewFromInt(5000),
		},
		{
			Name:  "10% off your order",
			Code:  "SAVE10",
			Type:  DiscountPercentage,
			Value: decimal.NewFromInt(10),
		},
	}
}
