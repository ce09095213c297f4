// Package contact accepts messages from the contact form.
package contact

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
	"github.com/fairyhunter13/pizzeria-storefront/internal/store"
)

// Interest values of the form's order type.
const (
	OrderDelivery = "delivery"
	OrderPickup   = "pickup"
	OrderCatering = "catering"
	OrderFeedback = "feedback"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[\d\s()-]{10,}$`)
)

// Form is the contact form input.
type Form struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	OrderType string `json:"orderType"`
}

// Errors holds one message per invalid field.
type Errors struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message,omitempty"`
	OrderType string `json:"orderType,omitempty"`
}

func (e Errors) OK() bool { return e == Errors{} }

// ValidationError carries the per-field messages of a rejected form.
type ValidationError struct{ Errors Errors }

func (e *ValidationError) Error() string { return fmt.Sprintf("contact: invalid form: %+v", e.Errors) }

// Validate checks every field of f.
func Validate(f Form) Errors {
	var e Errors
	if strings.TrimSpace(f.Name) == "" {
		e.Name = "Name is required"
	}
	switch {
	case strings.TrimSpace(f.Email) == "":
		e.Email = "Email is required"
	case !emailRe.MatchString(f.Email):
		e.Email = "Please enter a valid email address"
	}
	if f.Phone != "" && !phoneRe.MatchString(f.Phone) {
		e.Phone = "Please enter a valid phone number"
	}
	if strings.TrimSpace(f.Message) == "" {
		e.Message = "Message is required"
	}
	switch f.OrderType {
	case "", OrderDelivery, OrderPickup, OrderCatering, OrderFeedback:
	default:
		e.OrderType = "Please choose a valid option"
	}
	return e
}

// Service stores accepted messages.
type Service struct {
	st  store.Store
	now func() time.Time
}

func NewService(st store.Store) *Service { return &Service{st: st, now: time.Now} }

// Submit validates f and stores it. An empty order type means delivery.
func (s *Service) Submit(f Form) (model.ContactMessage, error) {
	if errs := Validate(f); !errs.OK() {
		return model.ContactMessage{}, &ValidationError{Errors: errs}
	}
	if f.OrderType == "" {
		f.OrderType = OrderDelivery
	}
	m := model.ContactMessage{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(f.Name),
		Email:      f.Email,
		Phone:      f.Phone,
		Message:    strings.TrimSpace(f.Message),
		OrderType:  f.OrderType,
		ReceivedAt: s.now().UTC(),
	}
	if err := s.st.PutMessage(m); err != nil {
		return model.ContactMessage{}, fmt.Errorf("store message: %w", err)
	}
	obs.Logger.Info("contact message received", "message_id", m.ID, "order_type", m.OrderType)
	return m, nil
}

// List returns stored messages oldest first.
func (s *Service) List() ([]model.ContactMessage, error) { return s.st.ListMessages() }
