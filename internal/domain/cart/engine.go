package cart

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/minimart/storefront/internal/domain/coupon"
	"github.com/minimart/storefront/internal/domain/order"
	"github.com/minimart/storefront/internal/domain/product"
	"github.com/minimart/storefront/internal/notify"
)

// Sentinel errors for cart mutations. All of them are recoverable
// user-facing conditions; the engine never fails fatally.
var (
	// ErrOutOfStock is returned when adding a product whose remaining
	// stock is exhausted by the cart.
	ErrOutOfStock = errors.New("out of stock")
	// ErrCouponBelowMinimum is returned when a percentage coupon is
	// applied to an order below the eligibility minimum.
	ErrCouponBelowMinimum = errors.New("order total below coupon minimum")
)

// StockLimitError indicates a quantity change would exceed the
// product's available stock.
type StockLimitError struct {
	ProductID string
	Max       int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("stock limit reached for product %s: max %d", e.ProductID, e.Max)
}

// Lookup resolves a product by ID from the current catalog snapshot.
// Implemented by *product.Catalog.
type Lookup interface {
	Get(id string) (product.Product, bool)
}

// Engine holds one shopper's in-progress order: the ordered cart items
// and the selected coupon. Mutations validate against catalog stock,
// emit notifications, and leave state untouched on failure.
type Engine struct {
	catalog  Lookup
	notifier notify.Notifier

	items    []Item
	selected *coupon.Coupon
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithItems restores previously persisted cart items.
func WithItems(items []Item) Option {
	return func(e *Engine) {
		e.items = append(e.items[:0], items...)
	}
}

// NewEngine creates an Engine reading product stock from catalog and
// reporting outcomes to notifier.
func NewEngine(catalog Lookup, notifier notify.Notifier, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Items returns a snapshot of the cart in insertion order.
func (e *Engine) Items() []Item {
	out := make([]Item, len(e.items))
	copy(out, e.items)
	return out
}

// Empty reports whether the cart has no items.
func (e *Engine) Empty() bool {
	return len(e.items) == 0
}

// SelectedCoupon returns the active coupon, if any.
func (e *Engine) SelectedCoupon() (coupon.Coupon, bool) {
	if e.selected == nil {
		return coupon.Coupon{}, false
	}
	return *e.selected, true
}

// RemainingStock returns the product's stock minus the quantity already
// held in the cart. Pure; no side effects.
func (e *Engine) RemainingStock(p product.Product) int {
	return p.Stock - quantityOf(e.items, p.ID)
}

// AddToCart adds one unit of the product. A new item is appended with
// quantity 1; an existing item has its quantity incremented in place.
// Fails without changing the cart when remaining stock is exhausted or
// the increment would exceed the product's stock.
func (e *Engine) AddToCart(p product.Product) error {
	if e.RemainingStock(p) <= 0 {
		e.notifier.Notify(fmt.Sprintf("%s is out of stock", p.Name), notify.SeverityError)
		return errors.Wrapf(ErrOutOfStock, "add product %q", p.ID)
	}

	added := false
	for i, it := range e.items {
		if it.Product.ID != p.ID {
			continue
		}
		newQty := it.Quantity + 1
		if newQty > p.Stock {
			e.notifier.Notify(fmt.Sprintf("Only %d of %s available", p.Stock, p.Name), notify.SeverityError)
			return &StockLimitError{ProductID: p.ID, Max: p.Stock}
		}
		e.items[i].Quantity = newQty
		added = true
		break
	}
	if !added {
		e.items = append(e.items, Item{Product: p, Quantity: 1})
	}

	e.notifier.Notify(fmt.Sprintf("%s added to cart", p.Name), notify.SeveritySuccess)
	return nil
}

// RemoveFromCart removes the item for the given product ID. Removing an
// absent product is a no-op, not an error.
func (e *Engine) RemoveFromCart(productID string) {
	for i, it := range e.items {
		if it.Product.ID == productID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the cart quantity for the given product ID,
// preserving the item's position. A non-positive quantity removes the
// item; an unknown product is a no-op; a quantity above the product's
// stock fails without changing the cart.
func (e *Engine) UpdateQuantity(productID string, qty int) error {
	if qty <= 0 {
		e.RemoveFromCart(productID)
		return nil
	}

	for i, it := range e.items {
		if it.Product.ID != productID {
			continue
		}

		// Validate against the catalog's current stock; fall back to the
		// snapshot when the product was deleted from the catalog.
		stock := it.Product.Stock
		if p, ok := e.catalog.Get(productID); ok {
			stock = p.Stock
		}
		if qty > stock {
			e.notifier.Notify(fmt.Sprintf("Only %d of %s available", stock, it.Product.Name), notify.SeverityError)
			return &StockLimitError{ProductID: productID, Max: stock}
		}

		e.items[i].Quantity = qty
		return nil
	}
	return nil
}

// ApplyCoupon selects the coupon for the current order, replacing any
// previous selection. Percentage coupons require the coupon-free
// discounted subtotal to reach the eligibility minimum; amount coupons
// have no minimum. Never stacks; reapplying the same coupon is
// idempotent.
func (e *Engine) ApplyCoupon(c coupon.Coupon) error {
	if c.Type == coupon.DiscountPercentage {
		subtotal := ComputeTotals(e.items, nil).AfterDiscount
		if subtotal.LessThan(percentageMinimum) {
			e.notifier.Notify(
				fmt.Sprintf("Coupon %s requires an order of at least %s", c.Code, percentageMinimum),
				notify.SeverityWarning,
			)
			return errors.Wrapf(ErrCouponBelowMinimum, "apply coupon %q", c.Code)
		}
	}

	selected := c
	e.selected = &selected
	e.notifier.Notify(fmt.Sprintf("Coupon %s applied", c.Name), notify.SeveritySuccess)
	return nil
}

// DeselectCoupon clears the selection when it matches the given code.
// Used when the active coupon is deleted from the registry.
func (e *Engine) DeselectCoupon(code string) {
	if e.selected != nil && e.selected.Code == code {
		e.selected = nil
	}
}

// Totals returns the order-wide totals for the current cart and
// selected coupon.
func (e *Engine) Totals() Totals {
	return ComputeTotals(e.items, e.selected)
}

// CompleteOrder finalizes the current cart into an order, emits a
// success notification carrying the order ID, and resets the cart and
// coupon selection. It never fails. Catalog stock is not decremented;
// stock is only reserved by the cart's live quantity while in progress.
func (e *Engine) CompleteOrder() *order.Order {
	totals := ComputeTotals(e.items, e.selected)
	bulk := HasBulkQuantity(e.items)

	lines := make([]order.LineItem, len(e.items))
	for i, it := range e.items {
		lines[i] = order.LineItem{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			UnitPrice: it.Product.Price,
			Quantity:  it.Quantity,
			Total:     ItemTotal(it, bulk),
		}
	}

	o := &order.Order{
		ID:        uuid.New().String(),
		Items:     lines,
		Subtotal:  totals.BeforeDiscount,
		Total:     totals.AfterDiscount,
		Discounts: totals.BeforeDiscount.Sub(totals.AfterDiscount),
		CreatedAt: time.Now(),
	}
	if e.selected != nil {
		o.CouponCode = e.selected.Code
	}

	e.items = nil
	e.selected = nil

	e.notifier.Notify(fmt.Sprintf("Order %s completed", o.ID), notify.SeveritySuccess)
	return o
}
