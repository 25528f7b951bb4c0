package validation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCheckout() CheckoutRequest {
	return CheckoutRequest{
		AddressID: uuid.NewString(),
		Items: []CheckoutItemRequest{
			{ProductID: uuid.NewString(), Quantity: 2},
		},
		ItemTotal:    100000,
		DeliveryFee:  5000,
		PlatformFee:  3000,
		CashbackUsed: 2000,
		Total:        106000,
	}
}

func TestCheckoutTotalInvariant(t *testing.T) {
	v := New()

	req := validCheckout()
	require.NoError(t, v.Struct(req))

	req.Total = 999999
	err := v.Struct(req)
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Contains(t, fields, "Total")
}

func TestCheckoutCashbackCap(t *testing.T) {
	v := New()

	req := validCheckout()
	req.CashbackUsed = req.ItemTotal + 1
	req.Total = req.ItemTotal + req.DeliveryFee + req.PlatformFee - req.CashbackUsed

	err := v.Struct(req)
	require.Error(t, err)
	assert.Contains(t, FieldErrors(err), "CashbackUsed")
}

func TestCheckoutRequiresItems(t *testing.T) {
	v := New()

	req := validCheckout()
	req.Items = nil
	req.ItemTotal = 0
	req.CashbackUsed = 0
	req.Total = req.DeliveryFee + req.PlatformFee

	assert.Error(t, v.Struct(req))
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+919876543210", true},
		{"+916123456789", true},
		{"+915123456789", false},
		{"9876543210", false},
		{"+9198765432101", false},
		{"+1415555266", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidPhone(tt.phone), "phone %q", tt.phone)
	}
}
