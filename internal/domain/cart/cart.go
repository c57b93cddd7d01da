// Package cart implements the per-user staging area for pending purchases.
//
// A cart line keeps a reference to the live catalog Product so totals and
// stock checks always see current values. Order creation takes a value copy
// instead (see Checkout), so a finalized order is decoupled from later
// catalog changes.
package cart

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/shoplite/internal/domain/product"
)

var (
	// ErrInvalidQuantity is returned when a quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	// ErrUnavailable is returned when the product has no stock at all.
	ErrUnavailable = errors.New("product is out of stock")
	// ErrInsufficientStock is returned when the requested quantity exceeds live stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrNotInCart is returned when the product has no line in the cart.
	ErrNotInCart = errors.New("product not in cart")
	// ErrEmpty is returned when checking out a cart with no lines.
	ErrEmpty = errors.New("cart is empty")
)

// Item is a value snapshot of one cart line, used for display and for the
// order's frozen line items.
type Item struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
}

// line pairs a reserved quantity with a reference to the live product.
type line struct {
	quantity int
	product  *product.Product
}

// Cart accumulates a user's pending purchase intent against live product
// stock. All methods are safe for concurrent use.
type Cart struct {
	id     string
	userID string

	mu    sync.Mutex
	lines map[string]*line
}

// New creates an empty cart owned by the given user.
func New(userID string) *Cart {
	return &Cart{
		id:     uuid.New().String(),
		userID: userID,
		lines:  make(map[string]*line),
	}
}

// ID returns the cart's instance identifier.
func (c *Cart) ID() string { return c.id }

// UserID returns the identifier of the owning user.
func (c *Cart) UserID() string { return c.userID }

// AddItem adds quantity units of the product to the cart, validating the
// requested quantity against the product's live stock. When the product is
// already in the cart the quantities are summed; only the increment is
// validated, the summed quantity is not re-checked against stock. That
// matches the shipped behaviour, see TestAddItem_SumNotRevalidated.
func (c *Cart) AddItem(p *product.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !p.Available() {
		return ErrUnavailable
	}
	if p.Stock() < quantity {
		return ErrInsufficientStock
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.lines[p.ID()]; ok {
		l.quantity += quantity
		return nil
	}
	c.lines[p.ID()] = &line{quantity: quantity, product: p}
	return nil
}

// RemoveItem deletes the product's line from the cart entirely.
func (c *Cart) RemoveItem(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.lines[productID]; !ok {
		return ErrNotInCart
	}
	delete(c.lines, productID)
	return nil
}

// RemoveQuantity decrements the product's line by quantity units. When the
// remaining quantity drops to zero or below, the line is deleted.
func (c *Cart) RemoveQuantity(productID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.lines[productID]
	if !ok {
		return ErrNotInCart
	}
	l.quantity -= quantity
	if l.quantity <= 0 {
		delete(c.lines, productID)
	}
	return nil
}

// UpdateQuantity overwrites the product's line quantity. A quantity of zero
// or below removes the line. The new quantity is validated against the
// product's current stock.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.lines[productID]
	if !ok {
		return ErrNotInCart
	}
	if quantity <= 0 {
		delete(c.lines, productID)
		return nil
	}
	if l.product.Stock() < quantity {
		return ErrInsufficientStock
	}
	l.quantity = quantity
	return nil
}

// Total computes the cart total from live product prices. A catalog price
// change is reflected in the next call.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total()
}

// total sums live price times quantity across lines. Caller holds c.mu.
func (c *Cart) total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		qty := decimal.NewFromInt(int64(l.quantity))
		sum = sum.Add(l.product.Price().Mul(qty))
	}
	return sum
}

// ItemCount returns the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemCount()
}

// itemCount sums quantities. Caller holds c.mu.
func (c *Cart) itemCount() int {
	count := 0
	for _, l := range c.lines {
		count += l.quantity
	}
	return count
}

// Clear empties all lines. The cart itself persists.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = make(map[string]*line)
}

// Items returns a value snapshot of all lines ordered by product ID, with
// unit prices and subtotals taken from the live products at call time.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items()
}

// items builds the snapshot. Caller holds c.mu.
func (c *Cart) items() []Item {
	out := make([]Item, 0, len(c.lines))
	for id, l := range c.lines {
		price := l.product.Price()
		qty := decimal.NewFromInt(int64(l.quantity))
		out = append(out, Item{
			ProductID: id,
			Name:      l.product.Name(),
			UnitPrice: price,
			Quantity:  l.quantity,
			Subtotal:  price.Mul(qty),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Checkout atomically snapshots the cart's lines and total, then clears the
// cart. It fails on an empty cart without clearing anything. The snapshot and
// the clear happen under one lock so no caller can observe the cart cleared
// without the snapshot having been taken.
func (c *Cart) Checkout() ([]Item, decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) == 0 {
		return nil, decimal.Zero, ErrEmpty
	}
	items := c.items()
	total := c.total()
	c.lines = make(map[string]*line)
	return items, total, nil
}

// String renders the cart for human-readable output.
func (c *Cart) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("Cart(user_id=%s, items=%d, total=$%s)",
		c.userID, c.itemCount(), c.total().StringFixed(2))
}
