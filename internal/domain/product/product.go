package product

import (
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for catalog operations.
var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateID is returned when adding a product whose ID is already taken.
	ErrDuplicateID = errors.New("product id already exists")
)

// DiscountTier grants a discount rate once the cart quantity for the
// product reaches Quantity. Rate is a fraction in [0, 1).
type DiscountTier struct {
	Quantity int
	Rate     decimal.Decimal
}

// Product represents a catalog item available for purchase. Price is in
// whole currency units; Stock is the quantity available before any cart
// reservation.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Stock int
	Tiers []DiscountTier
}

// TierRate returns the highest tier rate whose quantity threshold is met
// by qty, or zero when no tier qualifies. Tiers are evaluated
// independently; order does not matter.
func (p Product) TierRate(qty int) decimal.Decimal {
	rate := decimal.Zero
	for _, t := range p.Tiers {
		if qty >= t.Quantity && t.Rate.GreaterThan(rate) {
			rate = t.Rate
		}
	}
	return rate
}

// Catalog is an in-memory product catalog. It is the single source of
// truth for what can be purchased; admin mutations and shopper reads go
// through it. Products are kept in insertion order.
type Catalog struct {
	mu       sync.RWMutex
	products []Product
	index    map[string]int
}

// NewCatalog creates a Catalog seeded with the given products. A later
// duplicate of an ID replaces the earlier entry in place.
func NewCatalog(products ...Product) *Catalog {
	c := &Catalog{index: make(map[string]int)}
	for _, p := range products {
		if i, ok := c.index[p.ID]; ok {
			c.products[i] = p
			continue
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// List returns a snapshot of all products in insertion order.
func (c *Catalog) List() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the product with the given ID.
func (c *Catalog) Get(id string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Add appends a new product. It returns ErrDuplicateID when the ID is
// already present.
func (c *Catalog) Add(p Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[p.ID]; ok {
		return errors.Wrapf(ErrDuplicateID, "add product %q", p.ID)
	}
	c.index[p.ID] = len(c.products)
	c.products = append(c.products, p)
	return nil
}

// Update replaces the product with the same ID, preserving its position.
// It returns ErrNotFound when the ID is unknown.
func (c *Catalog) Update(p Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[p.ID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "update product %q", p.ID)
	}
	c.products[i] = p
	return nil
}

// Delete removes the product with the given ID. Deleting an unknown ID
// is a no-op.
func (c *Catalog) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		return
	}
	c.products = append(c.products[:i], c.products[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.products); j++ {
		c.index[c.products[j].ID] = j
	}
}

// Search returns products whose name contains the query,
// case-insensitively. An empty query matches everything.
func (c *Catalog) Search(query string) []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if query == "" {
		out := make([]Product, len(c.products))
		copy(out, c.products)
		return out
	}

	q := strings.ToLower(query)
	var out []Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}
