// Package checkout validates the delivery form and submits orders.
package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
)

var (
	emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// FormErrors holds one message per invalid field of a CheckoutForm. Every
// rule is evaluated, so several fields can fail at once.
type FormErrors struct {
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
	City          string `json:"city,omitempty"`
	ZipCode       string `json:"zipCode,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// OK reports whether no field failed.
func (e FormErrors) OK() bool { return e == FormErrors{} }

// ValidationError carries the per-field messages of a rejected form.
type ValidationError struct{ Errors FormErrors }

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout: invalid form: %+v", e.Errors)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Validate checks f. An empty payment method is accepted and means credit
// card.
func Validate(f model.CheckoutForm) FormErrors {
	var e FormErrors
	if blank(f.Name) {
		e.Name = "Name is required"
	}
	switch {
	case blank(f.Email):
		e.Email = "Email is required"
	case !emailRe.MatchString(f.Email):
		e.Email = "Email is invalid"
	}
	if blank(f.Address) {
		e.Address = "Address is required"
	}
	if blank(f.City) {
		e.City = "City is required"
	}
	switch {
	case blank(f.ZipCode):
		e.ZipCode = "ZIP code is required"
	case !zipRe.MatchString(f.ZipCode):
		e.ZipCode = "ZIP code is invalid"
	}
	switch f.PaymentMethod {
	case "", model.PaymentCreditCard, model.PaymentCash:
	default:
		e.PaymentMethod = "Payment method is invalid"
	}
	return e
}
