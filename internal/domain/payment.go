package domain

import "strings"

var paymentMethodLabels = map[string]string{
	"cash":      "Efectivo",
	"card":      "Tarjeta",
	"transfer":  "Transferencia",
	"nequi":     "Nequi",
	"daviplata": "Daviplata",
}

var paymentMethodCodes = map[string]string{
	"efectivo":      "cash",
	"tarjeta":       "card",
	"transferencia": "transfer",
	"nequi":         "nequi",
	"daviplata":     "daviplata",
}

// PaymentMethodLabel returns a display label for a payment method code.
func PaymentMethodLabel(code string) string {
	if label, ok := paymentMethodLabels[strings.ToLower(code)]; ok {
		return label
	}

	return "Otro"
}

// NormalizePaymentMethod maps a label or code (case-insensitive) to the
// canonical code stored on invoices. Unknown inputs pass through
// lowercased so exotic methods remain queryable.
func NormalizePaymentMethod(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if code, ok := paymentMethodCodes[lower]; ok {
		return code
	}
	if _, ok := paymentMethodLabels[lower]; ok {
		return lower
	}

	return lower
}
