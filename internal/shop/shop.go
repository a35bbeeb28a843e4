// Package shop wires the catalog, coupon registry, cart engine,
// notification sink, and session persistence into a single store
// object with explicit mutation methods. The presentation layer talks
// only to this package.
package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/minimart/storefront/internal/domain/cart"
	"github.com/minimart/storefront/internal/domain/coupon"
	"github.com/minimart/storefront/internal/domain/order"
	"github.com/minimart/storefront/internal/domain/product"
	"github.com/minimart/storefront/internal/notify"
	"github.com/minimart/storefront/internal/session"
	"github.com/minimart/storefront/pkg/debounce"
)

// ProductWriter persists admin catalog mutations. Optional; the
// in-memory catalog is the source of truth either way.
type ProductWriter interface {
	Upsert(ctx context.Context, p product.Product) error
	Delete(ctx context.Context, id string) error
}

// Config holds non-dependency configuration for the Store.
type Config struct {
	// PersistDelay is the debounce quiet period for store writes.
	PersistDelay time.Duration
	// SearchDelay is the debounce quiet period for search callbacks.
	SearchDelay time.Duration
	// Meter and Tracer default to the global otel providers when nil.
	Meter  metric.Meter
	Tracer trace.Tracer
}

// Store coordinates all storefront state. Mutating methods validate,
// emit notifications, persist as a fire-and-forget side effect, and
// record telemetry. All methods are meant to be called from the single
// UI-event actor.
type Store struct {
	ctx     context.Context
	catalog *product.Catalog
	coupons *coupon.Registry
	engine  *cart.Engine
	sink    *notify.Sink
	sess    *session.Session
	writer  ProductWriter
	lg      *zap.Logger

	saver    *debounce.Debouncer
	searcher *debounce.Debouncer

	tracer    trace.Tracer
	mutations metric.Int64Counter
	completed metric.Int64Counter
}

// New creates a Store. The cart and coupon registry are restored from
// the session; writer may be nil when no persistent catalog exists.
func New(
	ctx context.Context,
	cfg Config,
	catalog *product.Catalog,
	sink *notify.Sink,
	sess *session.Session,
	writer ProductWriter,
	lg *zap.Logger,
) *Store {
	if cfg.PersistDelay <= 0 {
		cfg.PersistDelay = 100 * time.Millisecond
	}
	if cfg.SearchDelay <= 0 {
		cfg.SearchDelay = 300 * time.Millisecond
	}
	if cfg.Meter == nil {
		cfg.Meter = otel.Meter("storefront")
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer("storefront")
	}

	s := &Store{
		ctx:      ctx,
		catalog:  catalog,
		coupons:  coupon.NewRegistry(sess.LoadCoupons()...),
		sink:     sink,
		sess:     sess,
		writer:   writer,
		lg:       lg,
		saver:    debounce.New(cfg.PersistDelay),
		searcher: debounce.New(cfg.SearchDelay),
		tracer:   cfg.Tracer,
	}
	s.engine = cart.NewEngine(catalog, sink, cart.WithItems(sess.LoadCart()))

	var err error
	if s.mutations, err = cfg.Meter.Int64Counter("storefront.cart.mutations"); err != nil {
		lg.Warn("Create mutations counter failed", zap.Error(err))
	}
	if s.completed, err = cfg.Meter.Int64Counter("storefront.orders.completed"); err != nil {
		lg.Warn("Create orders counter failed", zap.Error(err))
	}

	return s
}

// Close flushes pending persistence and stops the timers.
func (s *Store) Close() {
	s.saver.Flush()
	s.searcher.Stop()
	s.saver.Stop()
	s.sink.Stop()
}

// --- Shopper reads ---

// Products returns the catalog snapshot.
func (s *Store) Products() []product.Product {
	return s.catalog.List()
}

// Search schedules a debounced catalog search; fn receives the results
// once the query has been quiet for the configured delay.
func (s *Store) Search(query string, fn func([]product.Product)) {
	s.searcher.Call(func() {
		fn(s.catalog.Search(query))
	})
}

// Items returns the cart snapshot in insertion order.
func (s *Store) Items() []cart.Item {
	return s.engine.Items()
}

// Totals returns the order-wide totals for the current cart and coupon.
func (s *Store) Totals() cart.Totals {
	return s.engine.Totals()
}

// RemainingStock returns catalog stock minus the cart's live quantity.
func (s *Store) RemainingStock(productID string) (int, error) {
	p, ok := s.catalog.Get(productID)
	if !ok {
		return 0, errors.Wrapf(product.ErrNotFound, "remaining stock of %q", productID)
	}
	return s.engine.RemainingStock(p), nil
}

// Coupons returns the registered coupons.
func (s *Store) Coupons() []coupon.Coupon {
	return s.coupons.List()
}

// SelectedCoupon returns the active coupon, if any.
func (s *Store) SelectedCoupon() (coupon.Coupon, bool) {
	return s.engine.SelectedCoupon()
}

// Notifications returns the not-yet-expired notifications.
func (s *Store) Notifications() []notify.Notification {
	return s.sink.List()
}

// Orders returns the persisted order history.
func (s *Store) Orders() []order.Order {
	return s.sess.LoadOrders()
}

// --- Cart mutations ---

// AddToCart adds one unit of the identified product to the cart.
func (s *Store) AddToCart(productID string) error {
	p, ok := s.catalog.Get(productID)
	if !ok {
		s.sink.Notify(fmt.Sprintf("Product %s is not available", productID), notify.SeverityError)
		return errors.Wrapf(product.ErrNotFound, "add to cart %q", productID)
	}

	if err := s.engine.AddToCart(p); err != nil {
		return err
	}
	s.countMutation()
	s.persist()
	return nil
}

// RemoveFromCart removes the identified product from the cart.
func (s *Store) RemoveFromCart(productID string) {
	s.engine.RemoveFromCart(productID)
	s.countMutation()
	s.persist()
}

// UpdateQuantity sets the cart quantity for the identified product.
func (s *Store) UpdateQuantity(productID string, qty int) error {
	if err := s.engine.UpdateQuantity(productID, qty); err != nil {
		return err
	}
	s.countMutation()
	s.persist()
	return nil
}

// ApplyCoupon selects the coupon with the given code for the current
// order, replacing any previous selection.
func (s *Store) ApplyCoupon(code string) error {
	c, ok := s.coupons.FindByCode(code)
	if !ok {
		s.sink.Notify(fmt.Sprintf("Unknown coupon code %s", code), notify.SeverityError)
		return errors.Errorf("coupon %q not found", code)
	}
	return s.engine.ApplyCoupon(c)
}

// CompleteOrder finalizes the cart into an order, appends it to the
// order log, and clears the cart and coupon selection. Never fails.
func (s *Store) CompleteOrder() *order.Order {
	_, span := s.tracer.Start(s.ctx, "CompleteOrder")
	defer span.End()

	o := s.engine.CompleteOrder()
	if err := s.sess.Append(o); err != nil {
		// Order log is best effort; the order itself has completed.
		s.lg.Warn("Append order to log failed", zap.String("order", o.ID), zap.Error(err))
	}
	if s.completed != nil {
		s.completed.Add(s.ctx, 1)
	}
	s.persist()
	return o
}

// --- Coupon administration ---

// AddCoupon registers a new coupon, rejecting duplicate codes.
func (s *Store) AddCoupon(c coupon.Coupon) error {
	if err := s.coupons.Add(c); err != nil {
		s.sink.Notify(fmt.Sprintf("Coupon code %s already exists", c.Code), notify.SeverityError)
		return err
	}
	s.sink.Notify(fmt.Sprintf("Coupon %s added", c.Name), notify.SeveritySuccess)
	s.persist()
	return nil
}

// DeleteCoupon removes the coupon with the given code, clearing it as
// the active selection when needed. Succeeds whether or not a match
// existed.
func (s *Store) DeleteCoupon(code string) {
	s.coupons.Delete(code)
	s.engine.DeselectCoupon(code)
	s.sink.Notify(fmt.Sprintf("Coupon %s deleted", code), notify.SeveritySuccess)
	s.persist()
}

// --- Product administration ---

// AddProduct adds a product to the catalog.
func (s *Store) AddProduct(p product.Product) error {
	if err := s.catalog.Add(p); err != nil {
		s.sink.Notify(fmt.Sprintf("Product id %s already exists", p.ID), notify.SeverityError)
		return err
	}
	s.writeProduct(p)
	s.sink.Notify(fmt.Sprintf("Product %s added", p.Name), notify.SeveritySuccess)
	return nil
}

// UpdateProduct replaces the catalog product with the same ID.
func (s *Store) UpdateProduct(p product.Product) error {
	if err := s.catalog.Update(p); err != nil {
		s.sink.Notify(fmt.Sprintf("Product %s is not available", p.ID), notify.SeverityError)
		return err
	}
	s.writeProduct(p)
	s.sink.Notify(fmt.Sprintf("Product %s updated", p.Name), notify.SeveritySuccess)
	return nil
}

// DeleteProduct removes a product from the catalog. Cart items keep
// their snapshot of the product.
func (s *Store) DeleteProduct(id string) {
	s.catalog.Delete(id)
	if s.writer != nil {
		if err := s.writer.Delete(s.ctx, id); err != nil {
			s.lg.Warn("Delete product from storage failed", zap.String("product", id), zap.Error(err))
		}
	}
	s.sink.Notify(fmt.Sprintf("Product %s deleted", id), notify.SeveritySuccess)
}

// --- Internals ---

func (s *Store) writeProduct(p product.Product) {
	if s.writer == nil {
		return
	}
	if err := s.writer.Upsert(s.ctx, p); err != nil {
		s.lg.Warn("Persist product failed", zap.String("product", p.ID), zap.Error(err))
	}
}

// persist schedules a debounced save of the current cart and coupon
// snapshots. Persistence is fire-and-forget: failures are logged, never
// surfaced to the caller.
func (s *Store) persist() {
	items := s.engine.Items()
	coupons := s.coupons.List()
	s.saver.Call(func() {
		if err := s.sess.SaveCart(items); err != nil {
			s.lg.Warn("Persist cart failed", zap.Error(err))
		}
		if err := s.sess.SaveCoupons(coupons); err != nil {
			s.lg.Warn("Persist coupons failed", zap.Error(err))
		}
	})
}

func (s *Store) countMutation() {
	if s.mutations != nil {
		s.mutations.Add(s.ctx, 1)
	}
}
