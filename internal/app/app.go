// Package app wires the store, seeds the demo catalog, and drives the
// end-to-end shopping scenario: registration, carts, order placement, and the
// fulfillment lifecycle.
package app

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/xenking/shoplite/internal/domain/order"
	"github.com/xenking/shoplite/internal/domain/product"
	"github.com/xenking/shoplite/internal/domain/user"
	"github.com/xenking/shoplite/internal/render"
	"github.com/xenking/shoplite/internal/store"
)

// seedProduct describes one demo catalog entry.
type seedProduct struct {
	id          string
	name        string
	price       string
	description string
	stock       int
}

var demoCatalog = []seedProduct{
	{"P001", "Laptop", "999.99", "High-performance laptop", 10},
	{"P002", "Mouse", "29.99", "Wireless mouse", 50},
	{"P003", "Keyboard", "79.99", "Mechanical keyboard", 25},
	{"P004", "Monitor", "299.99", "27-inch 4K monitor", 15},
	{"P005", "Headphones", "149.99", "Noise-cancelling headphones", 30},
}

// Run seeds the store and executes the demo scenario. It is the single
// wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("store", cfg.StoreName), zap.String("output", cfg.Output))

	meter := m.MeterProvider().Meter("shoplite")
	ordersCreated, err := meter.Int64Counter("shoplite.orders_created",
		metric.WithDescription("Orders created by the demo scenario"))
	if err != nil {
		return errors.Wrap(err, "create counter")
	}

	s := store.New(cfg.StoreName, store.WithLogger(lg.Named("store")))
	d := &demo{
		store:         s,
		lg:            lg,
		json:          cfg.Output == "json",
		ordersCreated: ordersCreated,
	}
	return d.run(ctx)
}

// demo drives the reference shopping scenario against a freshly seeded store.
type demo struct {
	store         *store.Store
	lg            *zap.Logger
	json          bool
	ordersCreated metric.Int64Counter
}

func (d *demo) run(ctx context.Context) error {
	if err := d.seed(); err != nil {
		return err
	}

	john := user.New("U001", "John Doe", "john@example.com", "123 Main St, City")
	jane := user.New("U002", "Jane Smith", "jane@example.com", "456 Oak Ave, City")
	for _, u := range []*user.User{john, jane} {
		if err := d.store.RegisterUser(u); err != nil {
			return errors.Wrap(err, "register user")
		}
		fmt.Printf("Registered: %s\n", u)
	}

	// John fills his cart and places an order that stays pending-confirmed.
	if err := d.fillCart(john, map[string]int{"P001": 1, "P002": 2, "P003": 1}); err != nil {
		return err
	}
	d.printCart(john)

	order1, err := d.placeOrder(ctx, john.ID(), "123 Main St, City")
	if err != nil {
		return err
	}
	if err := order1.Confirm(); err != nil {
		return errors.Wrap(err, "confirm order")
	}
	fmt.Printf("Order Status: %s\n", order1.Status())

	// Jane's order runs the whole fulfillment chain to delivered.
	if err := d.fillCart(jane, map[string]int{"P004": 1, "P005": 1}); err != nil {
		return err
	}
	d.printCart(jane)

	order2, err := d.placeOrder(ctx, jane.ID(), "")
	if err != nil {
		return err
	}
	for _, step := range []func() error{order2.Confirm, order2.Process, order2.Ship, order2.Deliver} {
		if err := step(); err != nil {
			return errors.Wrap(err, "advance order")
		}
	}
	fmt.Printf("Order Status: %s\n", order2.Status())

	d.printSearch("laptop")
	d.printStatistics()
	d.printOrders([]*order.Order{order1, order2})

	d.lg.Info("Demo scenario complete",
		zap.Int("orders", d.store.Statistics().TotalOrders),
		zap.String("revenue", d.store.Statistics().TotalRevenue.StringFixed(2)),
	)
	return nil
}

// seed registers the demo catalog.
func (d *demo) seed() error {
	for _, sp := range demoCatalog {
		p, err := product.New(sp.id, sp.name, decimal.RequireFromString(sp.price), sp.description, sp.stock)
		if err != nil {
			return errors.Wrapf(err, "create product %s", sp.id)
		}
		if err := d.store.AddProduct(p); err != nil {
			return errors.Wrapf(err, "add product %s", sp.id)
		}
		fmt.Printf("Added: %s\n", p)
	}
	return nil
}

func (d *demo) fillCart(u *user.User, quantities map[string]int) error {
	for _, sp := range demoCatalog {
		qty, ok := quantities[sp.id]
		if !ok {
			continue
		}
		p, ok := d.store.GetProduct(sp.id)
		if !ok {
			return errors.Errorf("product %s missing from catalog", sp.id)
		}
		if err := u.Cart().AddItem(p, qty); err != nil {
			return errors.Wrapf(err, "add %s to cart", sp.id)
		}
	}
	return nil
}

func (d *demo) placeOrder(ctx context.Context, userID, address string) (*order.Order, error) {
	o, err := d.store.CreateOrder(userID, address)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	d.ordersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("user_id", userID)))
	fmt.Printf("Order Created: %s\n", o)
	return o, nil
}

func (d *demo) printCart(u *user.User) {
	if d.json {
		fmt.Println(string(render.Cart(u.Cart())))
		return
	}
	fmt.Printf("Cart: %s\n", u.Cart())
	for _, item := range u.Cart().Items() {
		fmt.Printf("  - %s: %dx $%s = $%s\n",
			item.Name, item.Quantity, item.UnitPrice.StringFixed(2), item.Subtotal.StringFixed(2))
	}
	fmt.Printf("Total: $%s\n", u.Cart().Total().StringFixed(2))
}

func (d *demo) printSearch(keyword string) {
	results := d.store.SearchProducts(keyword)
	fmt.Printf("Search results for %q: %d found\n", keyword, len(results))
	for _, p := range results {
		fmt.Printf("  - %s\n", p)
	}
}

func (d *demo) printStatistics() {
	st := d.store.Statistics()
	if d.json {
		fmt.Println(string(render.Statistics(st)))
		return
	}
	fmt.Printf("Store Name: %s\n", st.StoreName)
	fmt.Printf("Total Products: %d\n", st.TotalProducts)
	fmt.Printf("Available Products: %d\n", st.AvailableProducts)
	fmt.Printf("Total Users: %d\n", st.TotalUsers)
	fmt.Printf("Total Orders: %d\n", st.TotalOrders)
	fmt.Printf("Total Revenue: $%s\n", st.TotalRevenue.StringFixed(2))
}

func (d *demo) printOrders(orders []*order.Order) {
	for _, o := range orders {
		if d.json {
			fmt.Println(string(render.Order(o)))
			continue
		}
		summary := o.Summary()
		fmt.Printf("%s\n", o)
		fmt.Printf("  Items: %d\n", len(summary.Items))
		fmt.Printf("  Status: %s\n", summary.Status)
		fmt.Printf("  Order Date: %s\n", summary.OrderDate)
	}
}
