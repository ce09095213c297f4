// Package model defines domain types used by the service.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups catalog items on the menu. The set is open: unknown
// categories from the backend are carried through untouched.
type Category string

const (
	CategoryClassic    Category = "classic"
	CategorySpecialty  Category = "specialty"
	CategoryVegetarian Category = "vegetarian"
)

// CatalogItem is a pizza record as served by the catalog collaborator.
type CatalogItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	ImageKey    string          `json:"image_key"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// CartLine is one entry of a cart. Quantity is always >= 1.
type CartLine struct {
	Item     CatalogItem `json:"item"`
	Quantity int         `json:"quantity"`
}

// LineTotal returns price x quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PaymentMethod is the way a customer pays at checkout.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit-card"
	PaymentCash       PaymentMethod = "cash"
)

// CheckoutForm is the delivery and payment input submitted at checkout.
type CheckoutForm struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Address       string        `json:"address"`
	City          string        `json:"city"`
	ZipCode       string        `json:"zipCode"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// OrderStatus tracks an order through placement.
type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPlaced  OrderStatus = "placed"
	OrderFailed  OrderStatus = "failed"
)

// Order is a submitted checkout: the form, a copy of the cart lines and the
// totals computed at submission time.
type Order struct {
	ID          string          `json:"id"`
	Number      uint64          `json:"number"`
	SessionID   string          `json:"-"`
	Form        CheckoutForm    `json:"form"`
	Lines       []CartLine      `json:"lines"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	Status      OrderStatus     `json:"status"`
	Failure     string          `json:"failure,omitempty"`
	Version     uint64          `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AuthSession is an authenticated session issued by the auth collaborator.
type AuthSession struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Profile is the client record kept alongside an auth account.
type Profile struct {
	ID       string `json:"id,omitempty"`
	AuthID   string `json:"auth_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	ZipCode  string `json:"zip_code,omitempty"`
}

// ContactMessage is a message sent through the contact form.
type ContactMessage struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Message    string    `json:"message"`
	OrderType  string    `json:"orderType"`
	ReceivedAt time.Time `json:"received_at"`
}
