// Package user holds the customer identity and its owned shopping cart.
package user

import (
	"fmt"
	"sync"

	"github.com/xenking/shoplite/internal/domain/cart"
)

// User represents a registered customer. Every user owns exactly one cart,
// created with the user and reused across orders.
type User struct {
	id   string
	cart *cart.Cart

	mu      sync.Mutex
	name    string
	email   string
	address string
	active  bool
}

// New creates a User with an empty cart. New users start active.
func New(id, name, email, address string) *User {
	return &User{
		id:      id,
		name:    name,
		email:   email,
		address: address,
		cart:    cart.New(id),
		active:  true,
	}
}

// ID returns the user's unique identifier.
func (u *User) ID() string { return u.id }

// Name returns the user's full name.
func (u *User) Name() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.name
}

// Email returns the user's email address.
func (u *User) Email() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.email
}

// Address returns the user's stored shipping address.
func (u *User) Address() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.address
}

// Active reports whether the account is active.
func (u *User) Active() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.active
}

// Cart returns the user's shopping cart.
func (u *User) Cart() *cart.Cart { return u.cart }

// UpdateProfile overwrites the non-empty fields; empty strings leave the
// corresponding field unchanged.
func (u *User) UpdateProfile(name, email, address string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if name != "" {
		u.name = name
	}
	if email != "" {
		u.email = email
	}
	if address != "" {
		u.address = address
	}
}

// Activate marks the account active.
func (u *User) Activate() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.active = true
}

// Deactivate marks the account inactive.
func (u *User) Deactivate() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.active = false
}

// ClearCart empties the user's cart.
func (u *User) ClearCart() {
	u.cart.Clear()
}

// String renders the user for human-readable output.
func (u *User) String() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	status := "Active"
	if !u.active {
		status = "Inactive"
	}
	return fmt.Sprintf("User(id=%s, name=%s, email=%s, status=%s)", u.id, u.name, u.email, status)
}
