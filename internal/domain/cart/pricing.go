package cart

import (
	"github.com/shopspring/decimal"

	"github.com/minimart/storefront/internal/domain/coupon"
)

// BulkQuantity is the single-item quantity at which the cart-wide bulk
// bonus kicks in.
const BulkQuantity = 10

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	// bulkBonus is added to every item's tier rate once any item in the
	// cart reaches BulkQuantity.
	bulkBonus = decimal.RequireFromString("0.05")
	// maxRate caps the combined per-item discount rate.
	maxRate = decimal.RequireFromString("0.5")
	// percentageMinimum is the smallest discounted subtotal a percentage
	// coupon may be applied to.
	percentageMinimum = decimal.NewFromInt(10000)
)

// Totals holds the order-wide totals in whole currency units.
type Totals struct {
	// BeforeDiscount is the undiscounted sum of price x quantity.
	BeforeDiscount decimal.Decimal
	// AfterDiscount is the sum of discounted item totals with the
	// selected coupon, if any, applied on top.
	AfterDiscount decimal.Decimal
}

// HasBulkQuantity reports whether any single item's quantity reaches
// BulkQuantity, which grants the bulk bonus to every item in the cart.
func HasBulkQuantity(items []Item) bool {
	for _, it := range items {
		if it.Quantity >= BulkQuantity {
			return true
		}
	}
	return false
}

// DiscountRate returns the effective discount rate for an item: its
// best qualifying tier rate, plus the bulk bonus when bulk is set,
// clamped at maxRate. The rate depends on global cart state through
// bulk, so it is recomputed on demand and never cached.
func DiscountRate(it Item, bulk bool) decimal.Decimal {
	rate := it.Product.TierRate(it.Quantity)
	if bulk {
		rate = rate.Add(bulkBonus)
	}
	if rate.GreaterThan(maxRate) {
		return maxRate
	}
	return rate
}

// ItemTotal returns price x quantity x (1 - rate) rounded half-up to
// whole currency units.
func ItemTotal(it Item, bulk bool) decimal.Decimal {
	qty := decimal.NewFromInt(int64(it.Quantity))
	rate := DiscountRate(it, bulk)
	return it.Product.Price.Mul(qty).Mul(one.Sub(rate)).Round(0)
}

// ComputeTotals calculates order-wide totals for the given items and
// optional selected coupon.
func ComputeTotals(items []Item, selected *coupon.Coupon) Totals {
	bulk := HasBulkQuantity(items)

	before := decimal.Zero
	after := decimal.Zero
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		before = before.Add(it.Product.Price.Mul(qty))
		after = after.Add(ItemTotal(it, bulk))
	}

	if selected != nil {
		switch selected.Type {
		case coupon.DiscountAmount:
			after = after.Sub(selected.Value)
			if after.IsNegative() {
				after = decimal.Zero
			}
		case coupon.DiscountPercentage:
			after = after.Mul(one.Sub(selected.Value.Div(hundred)))
		}
	}

	return Totals{
		BeforeDiscount: before.Round(0),
		AfterDiscount:  after.Round(0),
	}
}
