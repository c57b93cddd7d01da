// Package product holds the catalog entry type and its stock and price
// invariants.
package product

import (
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrNegativePrice is returned when a price would become negative.
	ErrNegativePrice = errors.New("price must not be negative")
	// ErrInsufficientStock is returned when a stock change would make the stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)

var hundred = decimal.NewFromInt(100)

// Product represents a catalog item available for purchase. Price and stock
// are guarded by a mutex so concurrent cart validation sees consistent values.
type Product struct {
	id          string
	name        string
	description string

	mu    sync.Mutex
	price decimal.Decimal
	stock int
}

// New creates a Product. Negative price or stock is rejected.
func New(id, name string, price decimal.Decimal, description string, stock int) (*Product, error) {
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if stock < 0 {
		return nil, ErrInsufficientStock
	}
	return &Product{
		id:          id,
		name:        name,
		description: description,
		price:       price,
		stock:       stock,
	}, nil
}

// ID returns the product's unique identifier.
func (p *Product) ID() string { return p.id }

// Name returns the product's display name.
func (p *Product) Name() string { return p.name }

// Description returns the product's description text.
func (p *Product) Description() string { return p.description }

// Price returns the current unit price.
func (p *Product) Price() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.price
}

// Stock returns the current stock level.
func (p *Product) Stock() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stock
}

// UpdatePrice replaces the unit price. Negative prices are rejected and the
// current price is left unchanged.
func (p *Product) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.price = price
	return nil
}

// UpdateStock applies a stock delta: positive to restock, negative to consume.
// The call fails and leaves stock unchanged when the result would be negative.
func (p *Product) UpdateStock(delta int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stock+delta < 0 {
		return ErrInsufficientStock
	}
	p.stock += delta
	return nil
}

// Available reports whether the product has stock to sell.
func (p *Product) Available() bool {
	return p.Stock() > 0
}

// DiscountPrice returns the unit price after a flat percentage discount,
// rounded to cents. A percent outside [0, 100] returns the list price.
func (p *Product) DiscountPrice(percent decimal.Decimal) decimal.Decimal {
	price := p.Price()
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return price
	}
	discount := price.Mul(percent).Div(hundred)
	return price.Sub(discount).Round(2)
}

// String renders the product for human-readable output.
func (p *Product) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("Product(id=%s, name=%s, price=$%s, stock=%d)",
		p.id, p.name, p.price.StringFixed(2), p.stock)
}
