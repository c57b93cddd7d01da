// Package store implements the aggregate root owning the product catalog,
// the registered users, and the placed orders, and mediates the cart-to-order
// conversion.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/shoplite/internal/domain/cart"
	"github.com/xenking/shoplite/internal/domain/order"
	"github.com/xenking/shoplite/internal/domain/product"
	"github.com/xenking/shoplite/internal/domain/user"
)

var (
	// ErrDuplicateProduct is returned when a product ID is already registered.
	// The existing entry is left untouched: registration is never an upsert.
	ErrDuplicateProduct = errors.New("product already registered")
	// ErrDuplicateUser is returned when a user ID is already registered.
	ErrDuplicateUser = errors.New("user already registered")
	// ErrUnknownUser is returned when an order is requested for an unregistered user.
	ErrUnknownUser = errors.New("unknown user")
	// ErrEmptyCart is returned when an order is requested from a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
)

// Store is the single consistency boundary over the three entity collections.
// The collections have no foreign-key enforcement beyond the checks performed
// at order creation.
type Store struct {
	name string
	lg   *zap.Logger

	mu       sync.RWMutex
	products map[string]*product.Product
	users    map[string]*user.User
	orders   map[string]*order.Order
	sequence int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a logger for store operation events. The default
// discards them.
func WithLogger(lg *zap.Logger) Option {
	return func(s *Store) { s.lg = lg }
}

// New creates an empty Store with the given display name.
func New(name string, opts ...Option) *Store {
	s := &Store{
		name:     name,
		lg:       zap.NewNop(),
		products: make(map[string]*product.Product),
		users:    make(map[string]*user.User),
		orders:   make(map[string]*order.Order),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the store's display name.
func (s *Store) Name() string { return s.name }

// AddProduct registers a product in the catalog. A duplicate ID is rejected
// and the existing product is left untouched.
func (s *Store) AddProduct(p *product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID()]; ok {
		return ErrDuplicateProduct
	}
	s.products[p.ID()] = p
	s.lg.Debug("product added", zap.String("product_id", p.ID()))
	return nil
}

// RemoveProduct deletes a product from the catalog. This is a bare removal:
// carts and orders referencing the product are not touched.
func (s *Store) RemoveProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return product.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// GetProduct returns the product with the given ID.
func (s *Store) GetProduct(id string) (*product.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

// RegisterUser registers a user. A duplicate ID is rejected and the existing
// user is left untouched.
func (s *Store) RegisterUser(u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID()]; ok {
		return ErrDuplicateUser
	}
	s.users[u.ID()] = u
	s.lg.Debug("user registered", zap.String("user_id", u.ID()))
	return nil
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(id string) (*user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// CreateOrder converts the user's cart into an order: it snapshots the cart
// contents, allocates the next sequential order ID, registers the order, and
// clears the cart. The whole conversion happens under the store lock with the
// cart's snapshot and clear fused into one step, so no caller observes an
// order existing while the cart still holds its items, or the reverse.
//
// An empty shippingAddress falls back to the user's stored address. Order IDs
// are monotonic per store and never reused, including after cancellation.
func (s *Store) CreateOrder(userID, shippingAddress string) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUnknownUser
	}

	items, total, err := u.Cart().Checkout()
	if err != nil {
		if errors.Is(err, cart.ErrEmpty) {
			return nil, ErrEmptyCart
		}
		return nil, errors.Wrap(err, "checkout cart")
	}

	address := shippingAddress
	if address == "" {
		address = u.Address()
	}

	s.sequence++
	id := fmt.Sprintf("ORD-%06d", s.sequence)

	lines := make([]order.Line, len(items))
	for i, item := range items {
		lines[i] = order.Line{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		}
	}

	o := order.New(id, userID, lines, total, address)
	s.orders[id] = o

	s.lg.Info("order created",
		zap.String("order_id", id),
		zap.String("user_id", userID),
		zap.Int("lines", len(lines)),
		zap.String("total", total.StringFixed(2)),
	)
	return o, nil
}

// GetOrder returns the order with the given ID.
func (s *Store) GetOrder(id string) (*order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	return o, ok
}

// UserOrders returns all orders placed by the given user, ordered by order ID.
func (s *Store) UserOrders(userID string) []*order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*order.Order
	for _, o := range s.orders {
		if o.UserID() == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// String renders the store for human-readable output.
func (s *Store) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("Store(name=%s, products=%d, users=%d, orders=%d)",
		s.name, len(s.products), len(s.users), len(s.orders))
}
