package session

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/minimart/storefront/internal/domain/cart"
	"github.com/minimart/storefront/internal/domain/coupon"
	"github.com/minimart/storefront/internal/domain/order"
	"github.com/minimart/storefront/internal/domain/product"
)

// Decimal values are encoded as strings to keep the stored form exact.

func encodeCart(items []cart.Item) string {
	var e jx.Encoder
	e.ArrStart()
	for _, it := range items {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(it.Product.ID)
		e.FieldStart("name")
		e.Str(it.Product.Name)
		e.FieldStart("price")
		e.Str(it.Product.Price.String())
		e.FieldStart("stock")
		e.Int(it.Product.Stock)
		e.FieldStart("tiers")
		e.ArrStart()
		for _, t := range it.Product.Tiers {
			e.ObjStart()
			e.FieldStart("quantity")
			e.Int(t.Quantity)
			e.FieldStart("rate")
			e.Str(t.Rate.String())
			e.ObjEnd()
		}
		e.ArrEnd()
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.String()
}

func decodeCart(raw string) ([]cart.Item, error) {
	var items []cart.Item
	d := jx.DecodeStr(raw)
	if err := d.Arr(func(d *jx.Decoder) error {
		it, err := decodeCartItem(d)
		if err != nil {
			return err
		}
		items = append(items, it)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	return items, nil
}

func decodeCartItem(d *jx.Decoder) (cart.Item, error) {
	var it cart.Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			it.Product.ID, err = d.Str()
		case "name":
			it.Product.Name, err = d.Str()
		case "price":
			it.Product.Price, err = decodeDecimal(d)
		case "stock":
			it.Product.Stock, err = d.Int()
		case "tiers":
			err = d.Arr(func(d *jx.Decoder) error {
				t, err := decodeTier(d)
				if err != nil {
					return err
				}
				it.Product.Tiers = append(it.Product.Tiers, t)
				return nil
			})
		case "quantity":
			it.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return cart.Item{}, err
	}
	if it.Product.ID == "" || it.Quantity < 1 {
		return cart.Item{}, errors.Errorf("invalid cart item %q", it.Product.ID)
	}
	return it, nil
}

func decodeTier(d *jx.Decoder) (product.DiscountTier, error) {
	var t product.DiscountTier
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "quantity":
			t.Quantity, err = d.Int()
		case "rate":
			t.Rate, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return t, err
}

func encodeCoupons(coupons []coupon.Coupon) string {
	var e jx.Encoder
	e.ArrStart()
	for _, c := range coupons {
		e.ObjStart()
		e.FieldStart("name")
		e.Str(c.Name)
		e.FieldStart("code")
		e.Str(c.Code)
		e.FieldStart("type")
		e.Str(string(c.Type))
		e.FieldStart("value")
		e.Str(c.Value.String())
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.String()
}

func decodeCoupons(raw string) ([]coupon.Coupon, error) {
	var coupons []coupon.Coupon
	d := jx.DecodeStr(raw)
	if err := d.Arr(func(d *jx.Decoder) error {
		var c coupon.Coupon
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "name":
				c.Name, err = d.Str()
			case "code":
				c.Code, err = d.Str()
			case "type":
				var s string
				if s, err = d.Str(); err == nil {
					c.Type = coupon.DiscountType(s)
				}
			case "value":
				c.Value, err = decodeDecimal(d)
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		if c.Code == "" {
			return errors.New("coupon code missing")
		}
		if c.Type != coupon.DiscountAmount && c.Type != coupon.DiscountPercentage {
			return errors.Errorf("unknown coupon type %q", c.Type)
		}
		coupons = append(coupons, c)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode coupons")
	}
	return coupons, nil
}

func encodeOrders(orders []order.Order) string {
	var e jx.Encoder
	e.ArrStart()
	for i := range orders {
		encodeOrder(&e, &orders[i])
	}
	e.ArrEnd()
	return e.String()
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("items")
	e.ArrStart()
	for _, li := range o.Items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(li.ProductID)
		e.FieldStart("name")
		e.Str(li.Name)
		e.FieldStart("unitPrice")
		e.Str(li.UnitPrice.String())
		e.FieldStart("quantity")
		e.Int(li.Quantity)
		e.FieldStart("total")
		e.Str(li.Total.String())
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("subtotal")
	e.Str(o.Subtotal.String())
	e.FieldStart("total")
	e.Str(o.Total.String())
	e.FieldStart("discounts")
	e.Str(o.Discounts.String())
	e.FieldStart("couponCode")
	e.Str(o.CouponCode)
	e.FieldStart("createdAt")
	e.Str(o.CreatedAt.Format(time.RFC3339Nano))
	e.ObjEnd()
}

func decodeOrders(raw string) ([]order.Order, error) {
	var orders []order.Order
	d := jx.DecodeStr(raw)
	if err := d.Arr(func(d *jx.Decoder) error {
		o, err := decodeOrder(d)
		if err != nil {
			return err
		}
		orders = append(orders, o)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

func decodeOrder(d *jx.Decoder) (order.Order, error) {
	var o order.Order
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			o.ID, err = d.Str()
		case "items":
			err = d.Arr(func(d *jx.Decoder) error {
				li, err := decodeLineItem(d)
				if err != nil {
					return err
				}
				o.Items = append(o.Items, li)
				return nil
			})
		case "subtotal":
			o.Subtotal, err = decodeDecimal(d)
		case "total":
			o.Total, err = decodeDecimal(d)
		case "discounts":
			o.Discounts, err = decodeDecimal(d)
		case "couponCode":
			o.CouponCode, err = d.Str()
		case "createdAt":
			var s string
			if s, err = d.Str(); err == nil {
				o.CreatedAt, err = time.Parse(time.RFC3339Nano, s)
			}
		default:
			err = d.Skip()
		}
		return err
	})
	return o, err
}

func decodeLineItem(d *jx.Decoder) (order.LineItem, error) {
	var li order.LineItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			li.ProductID, err = d.Str()
		case "name":
			li.Name, err = d.Str()
		case "unitPrice":
			li.UnitPrice, err = decodeDecimal(d)
		case "quantity":
			li.Quantity, err = d.Int()
		case "total":
			li.Total, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return li, err
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	s, err := d.Str()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(s)
}
