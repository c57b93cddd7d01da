// Package order implements the immutable order snapshot and its fulfillment
// state machine.
package order

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrAddressLocked is returned when the shipping address can no longer be
// changed because the order has already shipped.
var ErrAddressLocked = errors.New("shipping address can no longer be changed")

// InvalidTransitionError indicates a state-machine call from a disallowed
// source state. The order's state is left unchanged.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// timeFormat is the layout used for dates in order summaries.
const timeFormat = "2006-01-02 15:04:05"

// Line is one frozen order line, copied by value from the cart at creation
// time. Later product or cart mutation never affects it.
type Line struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
}

// Summary is the read-only projection of an order for presentation.
// DeliveryDate is empty until the order is delivered.
type Summary struct {
	OrderID         string
	UserID          string
	Items           []Line
	TotalAmount     decimal.Decimal
	Status          string
	OrderDate       string
	ShippingAddress string
	DeliveryDate    string
}

// Order is an immutable-after-creation snapshot of a cart plus a mutable
// fulfillment status. Lines and total are frozen at construction.
type Order struct {
	id        string
	userID    string
	lines     []Line
	total     decimal.Decimal
	createdAt time.Time

	mu          sync.Mutex
	status      Status
	address     string
	deliveredAt time.Time

	now func() time.Time
}

// New creates an Order in the pending state. The lines slice is copied so the
// caller cannot mutate the order afterwards.
func New(id, userID string, lines []Line, total decimal.Decimal, shippingAddress string) *Order {
	o := &Order{
		id:      id,
		userID:  userID,
		lines:   make([]Line, len(lines)),
		total:   total,
		status:  StatusPending,
		address: shippingAddress,
		now:     time.Now,
	}
	copy(o.lines, lines)
	o.createdAt = o.now()
	return o
}

// ID returns the store-assigned order identifier.
func (o *Order) ID() string { return o.id }

// UserID returns the identifier of the user who placed the order.
func (o *Order) UserID() string { return o.userID }

// Total returns the order total frozen at creation.
func (o *Order) Total() decimal.Decimal { return o.total }

// CreatedAt returns the order creation time.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// Lines returns a copy of the frozen order lines.
func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// Status returns the current fulfillment state.
func (o *Order) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// ShippingAddress returns the current shipping address.
func (o *Order) ShippingAddress() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.address
}

// DeliveredAt returns the delivery time and whether the order has been
// delivered.
func (o *Order) DeliveredAt() (time.Time, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.deliveredAt, !o.deliveredAt.IsZero()
}

// advance moves the order along the fulfillment chain, failing when the
// chain does not lead from the current state to the requested one.
func (o *Order) advance(to Status) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if next[o.status] != to {
		return &InvalidTransitionError{From: o.status, To: to}
	}
	o.status = to
	if to == StatusDelivered {
		o.deliveredAt = o.now()
	}
	return nil
}

// Confirm moves the order from pending to confirmed.
func (o *Order) Confirm() error {
	return o.advance(StatusConfirmed)
}

// Process moves the order from confirmed to processing.
func (o *Order) Process() error {
	return o.advance(StatusProcessing)
}

// Ship moves the order from processing to shipped.
func (o *Order) Ship() error {
	return o.advance(StatusShipped)
}

// Deliver moves the order from shipped to delivered and stamps the delivery
// time. The stamp is set on this transition only.
func (o *Order) Deliver() error {
	return o.advance(StatusDelivered)
}

// Cancel moves the order to cancelled from any non-terminal state.
func (o *Order) Cancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status.Terminal() {
		return &InvalidTransitionError{From: o.status, To: StatusCancelled}
	}
	o.status = StatusCancelled
	return nil
}

// UpdateShippingAddress replaces the shipping address. It fails once the
// order has shipped or been delivered.
func (o *Order) UpdateShippingAddress(address string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == StatusShipped || o.status == StatusDelivered {
		return ErrAddressLocked
	}
	o.address = address
	return nil
}

// Summary produces the read-only presentation projection of the order.
func (o *Order) Summary() Summary {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := Summary{
		OrderID:         o.id,
		UserID:          o.userID,
		Items:           o.Lines(),
		TotalAmount:     o.total,
		Status:          o.status.String(),
		OrderDate:       o.createdAt.Format(timeFormat),
		ShippingAddress: o.address,
	}
	if !o.deliveredAt.IsZero() {
		s.DeliveryDate = o.deliveredAt.Format(timeFormat)
	}
	return s
}

// String renders the order for human-readable output.
func (o *Order) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return fmt.Sprintf("Order(id=%s, user=%s, total=$%s, status=%s)",
		o.id, o.userID, o.total.StringFixed(2), o.status)
}
