// Package render produces JSON projections of carts, orders, and store
// statistics for the presentation layer. Money is written as exact decimal
// number literals, never as binary floats.
package render

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/shoplite/internal/domain/cart"
	"github.com/xenking/shoplite/internal/domain/order"
	"github.com/xenking/shoplite/internal/store"
)

// money writes a decimal as a two-place JSON number literal.
func money(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.StringFixed(2)))
}

// Cart encodes a snapshot of the cart's current lines and live totals.
func Cart(c *cart.Cart) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("user_id")
	e.Str(c.UserID())
	e.FieldStart("items")
	encodeItems(&e, c.Items())
	e.FieldStart("item_count")
	e.Int(c.ItemCount())
	e.FieldStart("total")
	money(&e, c.Total())
	e.ObjEnd()
	return e.Bytes()
}

// Order encodes the order's summary projection. The delivery date is null
// until the order is delivered.
func Order(o *order.Order) []byte {
	s := o.Summary()

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("order_id")
	e.Str(s.OrderID)
	e.FieldStart("user_id")
	e.Str(s.UserID)
	e.FieldStart("items")
	e.ArrStart()
	for _, l := range s.Items {
		encodeLine(&e, l.ProductID, l.Name, l.UnitPrice, l.Quantity, l.Subtotal)
	}
	e.ArrEnd()
	e.FieldStart("total_amount")
	money(&e, s.TotalAmount)
	e.FieldStart("status")
	e.Str(s.Status)
	e.FieldStart("order_date")
	e.Str(s.OrderDate)
	e.FieldStart("shipping_address")
	e.Str(s.ShippingAddress)
	e.FieldStart("delivery_date")
	if s.DeliveryDate == "" {
		e.Null()
	} else {
		e.Str(s.DeliveryDate)
	}
	e.ObjEnd()
	return e.Bytes()
}

// Statistics encodes the store-wide aggregate counters.
func Statistics(st store.Stats) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("store_name")
	e.Str(st.StoreName)
	e.FieldStart("total_products")
	e.Int(st.TotalProducts)
	e.FieldStart("available_products")
	e.Int(st.AvailableProducts)
	e.FieldStart("total_users")
	e.Int(st.TotalUsers)
	e.FieldStart("total_orders")
	e.Int(st.TotalOrders)
	e.FieldStart("total_revenue")
	money(&e, st.TotalRevenue)
	e.ObjEnd()
	return e.Bytes()
}

func encodeItems(e *jx.Encoder, items []cart.Item) {
	e.ArrStart()
	for _, item := range items {
		encodeLine(e, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.Subtotal)
	}
	e.ArrEnd()
}

func encodeLine(e *jx.Encoder, productID, name string, unitPrice decimal.Decimal, quantity int, subtotal decimal.Decimal) {
	e.ObjStart()
	e.FieldStart("product_id")
	e.Str(productID)
	e.FieldStart("name")
	e.Str(name)
	e.FieldStart("price")
	money(e, unitPrice)
	e.FieldStart("quantity")
	e.Int(quantity)
	e.FieldStart("subtotal")
	money(e, subtotal)
	e.ObjEnd()
}
