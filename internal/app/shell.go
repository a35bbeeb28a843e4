package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/minimart/storefront/internal/domain/coupon"
	"github.com/minimart/storefront/internal/domain/product"
	"github.com/minimart/storefront/internal/shop"
)

// shell is the interactive presentation layer: it reads one command per
// line and renders storefront state. All domain behavior lives in the
// shop.Store; the shell only parses and prints.
type shell struct {
	st  *shop.Store
	out io.Writer
}

func newShell(st *shop.Store, out io.Writer) *shell {
	return &shell{st: st, out: out}
}

// run processes commands until the context is cancelled, input ends, or
// the user exits.
func (s *shell) run(ctx context.Context, in io.Reader) error {
	s.printf("storefront ready; type 'help' for commands\n")

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		s.printf("> ")
		select {
		case <-ctx.Done():
			s.printf("\n")
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return err
				}
				return nil
			}
			if quit := s.dispatch(line); quit {
				return nil
			}
			s.printNotices()
		}
	}
}

// dispatch executes one command line and reports whether to exit.
func (s *shell) dispatch(line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "help":
		s.printHelp()
	case "products":
		s.printProducts(s.st.Products())
	case "search":
		query := strings.Join(args[1:], " ")
		done := make(chan []product.Product, 1)
		s.st.Search(query, func(products []product.Product) {
			done <- products
		})
		s.printProducts(<-done)
	case "cart":
		s.printCart()
	case "add":
		if len(args) != 2 {
			s.printf("usage: add <product-id>\n")
			return false
		}
		_ = s.st.AddToCart(args[1])
	case "rm":
		if len(args) != 2 {
			s.printf("usage: rm <product-id>\n")
			return false
		}
		s.st.RemoveFromCart(args[1])
	case "qty":
		if len(args) != 3 {
			s.printf("usage: qty <product-id> <quantity>\n")
			return false
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			s.printf("quantity must be an integer\n")
			return false
		}
		_ = s.st.UpdateQuantity(args[1], qty)
	case "coupons":
		s.printCoupons()
	case "apply":
		if len(args) != 2 {
			s.printf("usage: apply <coupon-code>\n")
			return false
		}
		_ = s.st.ApplyCoupon(args[1])
	case "coupon":
		s.couponAdmin(args[1:])
	case "product":
		s.productAdmin(args[1:])
	case "checkout":
		o := s.st.CompleteOrder()
		s.printf("order %s total %s (saved %s)\n", o.ID, o.Total, o.Discounts)
	case "orders":
		for _, o := range s.st.Orders() {
			s.printf("%s  %s  total %s\n", o.CreatedAt.Format("2006-01-02 15:04:05"), o.ID, o.Total)
		}
	case "exit", "quit":
		return true
	default:
		s.printf("unknown command %q; type 'help'\n", args[0])
	}
	return false
}

func (s *shell) couponAdmin(args []string) {
	if len(args) == 0 {
		s.printf("usage: coupon add <code> <amount|percentage> <value> <name...> | coupon rm <code>\n")
		return
	}
	switch args[0] {
	case "add":
		if len(args) < 5 {
			s.printf("usage: coupon add <code> <amount|percentage> <value> <name...>\n")
			return
		}
		typ := coupon.DiscountType(args[2])
		if typ != coupon.DiscountAmount && typ != coupon.DiscountPercentage {
			s.printf("coupon type must be amount or percentage\n")
			return
		}
		value, err := decimal.NewFromString(args[3])
		if err != nil || value.IsNegative() {
			s.printf("coupon value must be a non-negative number\n")
			return
		}
		_ = s.st.AddCoupon(coupon.Coupon{
			Code:  args[1],
			Type:  typ,
			Value: value,
			Name:  strings.Join(args[4:], " "),
		})
	case "rm":
		if len(args) != 2 {
			s.printf("usage: coupon rm <code>\n")
			return
		}
		s.st.DeleteCoupon(args[1])
	default:
		s.printf("unknown coupon command %q\n", args[0])
	}
}

func (s *shell) productAdmin(args []string) {
	if len(args) == 0 {
		s.printf("usage: product add <id> <price> <stock> <name...> | product rm <id>\n")
		return
	}
	switch args[0] {
	case "add", "update":
		if len(args) < 5 {
			s.printf("usage: product %s <id> <price> <stock> <name...>\n", args[0])
			return
		}
		price, err := decimal.NewFromString(args[2])
		if err != nil || price.IsNegative() {
			s.printf("price must be a non-negative number\n")
			return
		}
		stock, err := strconv.Atoi(args[3])
		if err != nil || stock < 0 {
			s.printf("stock must be a non-negative integer\n")
			return
		}
		p := product.Product{
			ID:    args[1],
			Price: price,
			Stock: stock,
			Name:  strings.Join(args[4:], " "),
		}
		if args[0] == "add" {
			_ = s.st.AddProduct(p)
		} else {
			_ = s.st.UpdateProduct(p)
		}
	case "rm":
		if len(args) != 2 {
			s.printf("usage: product rm <id>\n")
			return
		}
		s.st.DeleteProduct(args[1])
	default:
		s.printf("unknown product command %q\n", args[0])
	}
}

func (s *shell) printProducts(products []product.Product) {
	for _, p := range products {
		remaining, err := s.st.RemainingStock(p.ID)
		if err != nil {
			remaining = p.Stock
		}
		s.printf("%-6s %-30s %10s  stock %d", p.ID, p.Name, p.Price, remaining)
		for _, t := range p.Tiers {
			s.printf("  [%d+ -%s%%]", t.Quantity, t.Rate.Mul(decimal.NewFromInt(100)))
		}
		s.printf("\n")
	}
}

func (s *shell) printCart() {
	items := s.st.Items()
	if len(items) == 0 {
		s.printf("cart is empty\n")
		return
	}
	for _, it := range items {
		s.printf("%-6s %-30s x%-3d %10s\n", it.Product.ID, it.Product.Name, it.Quantity, it.Product.Price)
	}
	totals := s.st.Totals()
	if c, ok := s.st.SelectedCoupon(); ok {
		s.printf("coupon: %s (%s)\n", c.Name, c.Code)
	}
	s.printf("subtotal %s, total %s\n", totals.BeforeDiscount, totals.AfterDiscount)
}

func (s *shell) printCoupons() {
	for _, c := range s.st.Coupons() {
		switch c.Type {
		case coupon.DiscountPercentage:
			s.printf("%-12s %s (%s%% off)\n", c.Code, c.Name, c.Value)
		default:
			s.printf("%-12s %s (%s off)\n", c.Code, c.Name, c.Value)
		}
	}
}

func (s *shell) printNotices() {
	for _, n := range s.st.Notifications() {
		s.printf("[%s] %s\n", n.Severity, n.Message)
	}
}

func (s *shell) printHelp() {
	s.printf(`shopper:
  products                      list catalog with remaining stock
  search <query>                filter products by name (debounced)
  add <id> | rm <id>            add/remove a cart item
  qty <id> <n>                  set cart quantity (0 removes)
  cart                          show cart and totals
  coupons                       list coupons
  apply <code>                  apply a coupon to the order
  checkout                      complete the order
  orders                        show order history
admin:
  product add <id> <price> <stock> <name...>
  product update <id> <price> <stock> <name...>
  product rm <id>
  coupon add <code> <amount|percentage> <value> <name...>
  coupon rm <code>
exit
`)
}

func (s *shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
