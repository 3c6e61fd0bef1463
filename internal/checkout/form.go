package checkout

import (
	"fmt"
	"strings"

	"github.com/avolkov/online-shop-backend/internal/order"
)

// OrderForm is the data a customer submits to turn their cart into an
// order.
type OrderForm struct {
	City       string `json:"city"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
	BuyingType string `json:"buyingType"`
	Comment    string `json:"comment"`
}

// ValidationError carries field-level problems back to the form. It
// never reaches persistence: a form that fails validation has no side
// effects at all.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
	}
	return "invalid order form: " + strings.Join(parts, "; ")
}

// Validate checks the form and returns nil when it is acceptable.
func (f OrderForm) Validate() *ValidationError {
	fields := make(map[string]string)

	if strings.TrimSpace(f.City) == "" {
		fields["city"] = "city is required"
	}
	bt := order.BuyingType(f.BuyingType)
	if !bt.Valid() {
		fields["buyingType"] = "buying type must be \"self\" or \"delivery\""
	}
	// pickup orders need no shipping address
	if bt == order.BuyingDelivery {
		if strings.TrimSpace(f.Address) == "" {
			fields["address"] = "address is required for delivery"
		}
		if strings.TrimSpace(f.PostalCode) == "" {
			fields["postalCode"] = "postal code is required for delivery"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
