package user

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shoplite/internal/domain/product"
)

func TestNew(t *testing.T) {
	u := New("U1", "John Doe", "john@example.com", "123 Main St")

	assert.Equal(t, "U1", u.ID())
	assert.Equal(t, "John Doe", u.Name())
	assert.True(t, u.Active())
	require.NotNil(t, u.Cart())
	assert.Equal(t, "U1", u.Cart().UserID())
	assert.Equal(t, 0, u.Cart().ItemCount())
}

func TestUpdateProfile(t *testing.T) {
	u := New("U1", "John Doe", "john@example.com", "123 Main St")

	u.UpdateProfile("", "john.doe@example.com", "")
	assert.Equal(t, "John Doe", u.Name(), "empty field must be left unchanged")
	assert.Equal(t, "john.doe@example.com", u.Email())
	assert.Equal(t, "123 Main St", u.Address())

	u.UpdateProfile("Johnny Doe", "", "456 Oak Ave")
	assert.Equal(t, "Johnny Doe", u.Name())
	assert.Equal(t, "456 Oak Ave", u.Address())
}

func TestActivation(t *testing.T) {
	u := New("U1", "John Doe", "john@example.com", "")

	u.Deactivate()
	assert.False(t, u.Active())
	u.Activate()
	assert.True(t, u.Active())
}

func TestClearCart(t *testing.T) {
	p, err := product.New("P1", "Widget", decimal.NewFromInt(10), "", 5)
	require.NoError(t, err)

	u := New("U1", "John Doe", "john@example.com", "")
	require.NoError(t, u.Cart().AddItem(p, 2))

	u.ClearCart()
	assert.Equal(t, 0, u.Cart().ItemCount())
}

func TestString(t *testing.T) {
	u := New("U001", "John Doe", "john@example.com", "")
	assert.Equal(t, "User(id=U001, name=John Doe, email=john@example.com, status=Active)", u.String())

	u.Deactivate()
	assert.Equal(t, "User(id=U001, name=John Doe, email=john@example.com, status=Inactive)", u.String())
}
