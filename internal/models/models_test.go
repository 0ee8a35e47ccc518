package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivityUnitPrice(t *testing.T) {
	assert.Equal(t, 80.0, Activity{Price: 100, PriceDiscount: 80}.UnitPrice())
	assert.Equal(t, 100.0, Activity{Price: 100}.UnitPrice())
}

func TestCartTotal(t *testing.T) {
	carts := []Cart{
		{ID: "c1", Quantity: 2, Activity: &Activity{Price: 100, PriceDiscount: 90}},
		{ID: "c2", Quantity: 1, Activity: &Activity{Price: 50}},
		{ID: "c3", Quantity: 5},
	}
	assert.Equal(t, 230.0, CartTotal(carts))
}

func TestTransactionTotal(t *testing.T) {
	tx := Transaction{Carts: []Cart{{Quantity: 3, Activity: &Activity{Price: 10}}}}
	assert.Equal(t, 30.0, tx.Total())

	tx.TotalAmount = 25
	assert.Equal(t, 25.0, tx.Total())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("Admin").Valid())
	assert.False(t, Role("").Valid())
}
