// Package cart implements the shopping cart engine: stock-aware
// quantity accounting, tier and bulk discount pricing, coupon
// application, and order completion.
package cart

import (
	"github.com/minimart/storefront/internal/domain/product"
)

// Item is a single cart line: a product snapshot taken at add time and
// a positive quantity. At most one Item exists per product ID.
type Item struct {
	Product  product.Product
	Quantity int
}

// quantityOf returns the cart quantity for the given product ID, or
// zero when the product is not in the cart.
func quantityOf(items []Item, productID string) int {
	for _, it := range items {
		if it.Product.ID == productID {
			return it.Quantity
		}
	}
	return 0
}
