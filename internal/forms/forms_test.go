package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly-dev/storefront/internal/models"
)

func TestMessage(t *testing.T) {
	validate := NewValidator()

	err := validate.Struct(models.RegisterPayload{
		Email:          "not-an-email",
		Password:       "secret1",
		PasswordRepeat: "secret2",
	})
	require.Error(t, err)
	assert.Equal(t, "email must be a valid email address; passwordRepeat must match password", Message(err, "fallback"))

	err = validate.Struct(models.CreateTransactionPayload{})
	require.Error(t, err)
	assert.Equal(t, "cartIds is required; paymentMethodId is required", Message(err, "fallback"))

	err = validate.Struct(models.UpdateStatusPayload{Status: "pending"})
	require.Error(t, err)
	assert.Equal(t, "status must be one of: success failed", Message(err, "fallback"))
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "fallback", Message(errors.New("boom"), "fallback"))
	assert.Equal(t, "fallback", Message(nil, "fallback"))
}

func TestValidPayload(t *testing.T) {
	validate := NewValidator()
	assert.NoError(t, validate.Struct(models.LoginPayload{Email: "a@b.co", Password: "x"}))
	assert.NoError(t, validate.Struct(models.UpdateCartPayload{Quantity: 2}))
	assert.Error(t, validate.Struct(models.UpdateCartPayload{Quantity: 0}))
}
