package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePaymentMethod(t *testing.T) {
	assert.Equal(t, "cash", NormalizePaymentMethod("Efectivo"))
	assert.Equal(t, "cash", NormalizePaymentMethod("  efectivo "))
	assert.Equal(t, "card", NormalizePaymentMethod("TARJETA"))
	assert.Equal(t, "transfer", NormalizePaymentMethod("transferencia"))
	assert.Equal(t, "nequi", NormalizePaymentMethod("Nequi"))

	// Already-canonical codes pass through.
	assert.Equal(t, "cash", NormalizePaymentMethod("cash"))

	// Unknown methods survive lowercased instead of being dropped.
	assert.Equal(t, "criptomoneda", NormalizePaymentMethod("Criptomoneda"))
}

func TestPaymentMethodLabel(t *testing.T) {
	assert.Equal(t, "Efectivo", PaymentMethodLabel("cash"))
	assert.Equal(t, "Tarjeta", PaymentMethodLabel("CARD"))
	assert.Equal(t, "Otro", PaymentMethodLabel("bitcoin"))
}
