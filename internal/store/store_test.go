package store

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/shoplite/internal/domain/order"
	"github.com/xenking/shoplite/internal/domain/product"
	"github.com/xenking/shoplite/internal/domain/user"
)

func newTestProduct(t *testing.T, id, name, price string, stock int) *product.Product {
	t.Helper()
	p, err := product.New(id, name, decimal.RequireFromString(price), "", stock)
	require.NoError(t, err)
	return p
}

func newTestStore(t *testing.T) (*Store, *user.User) {
	t.Helper()
	s := New("Test Store")
	u := user.New("U1", "John Doe", "john@example.com", "123 Main St")
	require.NoError(t, s.RegisterUser(u))
	return s, u
}

func TestAddProduct_DuplicateRejected(t *testing.T) {
	s := New("Test Store")
	first := newTestProduct(t, "P1", "Widget", "10.00", 5)
	second := newTestProduct(t, "P1", "Impostor", "99.00", 1)

	require.NoError(t, s.AddProduct(first))
	require.ErrorIs(t, s.AddProduct(second), ErrDuplicateProduct)

	got, ok := s.GetProduct("P1")
	require.True(t, ok)
	assert.Equal(t, "Widget", got.Name(), "existing product must stay authoritative")
}

func TestRemoveProduct(t *testing.T) {
	s := New("Test Store")
	require.NoError(t, s.AddProduct(newTestProduct(t, "P1", "Widget", "10.00", 5)))

	require.NoError(t, s.RemoveProduct("P1"))
	_, ok := s.GetProduct("P1")
	assert.False(t, ok)

	require.ErrorIs(t, s.RemoveProduct("P1"), product.ErrNotFound)
}

func TestRegisterUser_DuplicateRejected(t *testing.T) {
	s := New("Test Store")
	first := user.New("U1", "John Doe", "john@example.com", "")
	second := user.New("U1", "Jane Smith", "jane@example.com", "")

	require.NoError(t, s.RegisterUser(first))
	require.ErrorIs(t, s.RegisterUser(second), ErrDuplicateUser)

	got, ok := s.GetUser("U1")
	require.True(t, ok)
	assert.Equal(t, "John Doe", got.Name(), "first registration must stay authoritative")
}

func TestCreateOrder(t *testing.T) {
	s, u := newTestStore(t)
	p1 := newTestProduct(t, "P1", "Widget", "100.00", 5)
	require.NoError(t, s.AddProduct(p1))
	require.NoError(t, u.Cart().AddItem(p1, 3))

	wantItems := u.Cart().Items()

	o, err := s.CreateOrder("U1", "456 Oak Ave")
	require.NoError(t, err)

	assert.Equal(t, "ORD-000001", o.ID())
	assert.Equal(t, "U1", o.UserID())
	assert.Equal(t, order.StatusPending, o.Status())
	assert.Equal(t, "456 Oak Ave", o.ShippingAddress())
	assert.True(t, decimal.RequireFromString("300.00").Equal(o.Total()))

	// All-or-nothing: the cart is empty and the order holds its old contents.
	assert.Equal(t, 0, u.Cart().ItemCount())
	lines := o.Lines()
	require.Len(t, lines, len(wantItems))
	for i, item := range wantItems {
		assert.Equal(t, item.ProductID, lines[i].ProductID)
		assert.Equal(t, item.Quantity, lines[i].Quantity)
		assert.True(t, item.Subtotal.Equal(lines[i].Subtotal))
	}

	got, ok := s.GetOrder("ORD-000001")
	require.True(t, ok)
	assert.Same(t, o, got)
}

func TestCreateOrder_UnknownUser(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateOrder("nobody", "")
	require.ErrorIs(t, err, ErrUnknownUser)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateOrder("U1", "")
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, s.Statistics().TotalOrders, "failed creation must not register an order")
}

func TestCreateOrder_AddressFallsBackToUser(t *testing.T) {
	s, u := newTestStore(t)
	p1 := newTestProduct(t, "P1", "Widget", "10.00", 5)
	require.NoError(t, s.AddProduct(p1))
	require.NoError(t, u.Cart().AddItem(p1, 1))

	o, err := s.CreateOrder("U1", "")
	require.NoError(t, err)
	assert.Equal(t, "123 Main St", o.ShippingAddress())
}

func TestCreateOrder_FrozenAgainstPriceChanges(t *testing.T) {
	s, u := newTestStore(t)
	p1 := newTestProduct(t, "P1", "Widget", "100.00", 5)
	require.NoError(t, s.AddProduct(p1))
	require.NoError(t, u.Cart().AddItem(p1, 1))

	o, err := s.CreateOrder("U1", "")
	require.NoError(t, err)

	require.NoError(t, p1.UpdatePrice(decimal.RequireFromString("500.00")))
	assert.True(t, decimal.RequireFromString("100.00").Equal(o.Total()),
		"a finalized order must not follow catalog price changes")
	assert.True(t, decimal.RequireFromString("100.00").Equal(o.Lines()[0].UnitPrice))
}

func TestCreateOrder_SequentialIDsNotReused(t *testing.T) {
	s, u := newTestStore(t)
	p1 := newTestProduct(t, "P1", "Widget", "10.00", 100)
	require.NoError(t, s.AddProduct(p1))

	require.NoError(t, u.Cart().AddItem(p1, 1))
	first, err := s.CreateOrder("U1", "")
	require.NoError(t, err)
	require.NoError(t, first.Cancel())

	// Cancellation must not free the identifier.
	require.NoError(t, u.Cart().AddItem(p1, 1))
	second, err := s.CreateOrder("U1", "")
	require.NoError(t, err)

	assert.Equal(t, "ORD-000001", first.ID())
	assert.Equal(t, "ORD-000002", second.ID())
}

func TestUserOrders(t *testing.T) {
	s, u := newTestStore(t)
	other := user.New("U2", "Jane Smith", "jane@example.com", "")
	require.NoError(t, s.RegisterUser(other))

	p1 := newTestProduct(t, "P1", "Widget", "10.00", 100)
	require.NoError(t, s.AddProduct(p1))

	require.NoError(t, u.Cart().AddItem(p1, 1))
	_, err := s.CreateOrder("U1", "")
	require.NoError(t, err)

	require.NoError(t, other.Cart().AddItem(p1, 1))
	_, err = s.CreateOrder("U2", "")
	require.NoError(t, err)

	require.NoError(t, u.Cart().AddItem(p1, 1))
	_, err = s.CreateOrder("U1", "")
	require.NoError(t, err)

	orders := s.UserOrders("U1")
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-000001", orders[0].ID())
	assert.Equal(t, "ORD-000003", orders[1].ID())
	assert.Empty(t, s.UserOrders("nobody"))
}

func TestSearchProducts(t *testing.T) {
	s := New("Test Store")
	laptop, err := product.New("P1", "Laptop", decimal.NewFromInt(999), "High-performance laptop", 10)
	require.NoError(t, err)
	mouse, err := product.New("P2", "Mouse", decimal.NewFromInt(29), "Wireless mouse", 50)
	require.NoError(t, err)
	keyboard, err := product.New("P3", "Keyboard", decimal.NewFromInt(79), "Mechanical keyboard with wireless mode", 25)
	require.NoError(t, err)
	for _, p := range []*product.Product{laptop, mouse, keyboard} {
		require.NoError(t, s.AddProduct(p))
	}

	results := s.SearchProducts("WIRELESS")
	require.Len(t, results, 2)
	assert.Equal(t, "P2", results[0].ID())
	assert.Equal(t, "P3", results[1].ID())

	assert.Len(t, s.SearchProducts("laptop"), 1)
	assert.Empty(t, s.SearchProducts("tablet"))
}

func TestAvailableProducts(t *testing.T) {
	s := New("Test Store")
	require.NoError(t, s.AddProduct(newTestProduct(t, "P1", "Widget", "10.00", 5)))
	require.NoError(t, s.AddProduct(newTestProduct(t, "P2", "Gadget", "10.00", 0)))

	available := s.AvailableProducts()
	require.Len(t, available, 1)
	assert.Equal(t, "P1", available[0].ID())
}

func TestStatistics(t *testing.T) {
	s, u := newTestStore(t)
	require.NoError(t, s.AddProduct(newTestProduct(t, "P1", "Widget", "100.00", 5)))
	require.NoError(t, s.AddProduct(newTestProduct(t, "P2", "Gadget", "10.00", 0)))

	p1, _ := s.GetProduct("P1")
	require.NoError(t, u.Cart().AddItem(p1, 2))
	delivered, err := s.CreateOrder("U1", "")
	require.NoError(t, err)
	require.NoError(t, delivered.Confirm())
	require.NoError(t, delivered.Process())
	require.NoError(t, delivered.Ship())
	require.NoError(t, delivered.Deliver())

	require.NoError(t, u.Cart().AddItem(p1, 1))
	_, err = s.CreateOrder("U1", "")
	require.NoError(t, err)

	st := s.Statistics()
	assert.Equal(t, "Test Store", st.StoreName)
	assert.Equal(t, 2, st.TotalProducts)
	assert.Equal(t, 1, st.AvailableProducts)
	assert.Equal(t, 1, st.TotalUsers)
	assert.Equal(t, 2, st.TotalOrders)
	assert.True(t, decimal.RequireFromString("200.00").Equal(st.TotalRevenue),
		"revenue must count delivered orders only, got %s", st.TotalRevenue)
}

func TestString(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.AddProduct(newTestProduct(t, "P1", "Widget", "10.00", 5)))
	assert.Equal(t, "Store(name=Test Store, products=1, users=1, orders=0)", s.String())
}

// Concurrent order creation from many users must produce unique sequential
// IDs and leave every source cart empty.
func TestCreateOrder_Concurrent(t *testing.T) {
	const users = 32

	s := New("Test Store")
	p1 := newTestProduct(t, "P1", "Widget", "10.00", 1_000_000)
	require.NoError(t, s.AddProduct(p1))

	for i := 0; i < users; i++ {
		u := user.New(fmt.Sprintf("U%03d", i), "User", "user@example.com", "addr")
		require.NoError(t, s.RegisterUser(u))
		require.NoError(t, u.Cart().AddItem(p1, 1))
	}

	var g errgroup.Group
	for i := 0; i < users; i++ {
		id := fmt.Sprintf("U%03d", i)
		g.Go(func() error {
			_, err := s.CreateOrder(id, "")
			return err
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[string]bool)
	for i := 0; i < users; i++ {
		id := fmt.Sprintf("U%03d", i)
		orders := s.UserOrders(id)
		require.Len(t, orders, 1)
		assert.False(t, seen[orders[0].ID()], "order ID %s allocated twice", orders[0].ID())
		seen[orders[0].ID()] = true

		u, ok := s.GetUser(id)
		require.True(t, ok)
		assert.Equal(t, 0, u.Cart().ItemCount())
	}
	assert.Equal(t, users, s.Statistics().TotalOrders)
}
