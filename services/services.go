package services

import (
	"context"
	"errors"
	"time"

	"go-bookstore/models"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrOrderNotPaid     = errors.New("order is not paid")
)

// SessionLineItem is one line of a checkout session as reported by the
// payment processor. This is the canonical record the webhook reconciles
// orders from, never the client-declared cart.
type SessionLineItem struct {
	StripeProductID string
	Description     string
	Quantity        int64
	UnitAmount      int64 // minor currency units
}

// PaymentClient talks to the hosted payment processor.
type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, items []models.CartItem, customerEmail string) (sessionID, url string, err error)
	SessionLineItems(ctx context.Context, sessionID string) ([]SessionLineItem, error)
}

// FileStorage is the object store holding book files and generated invoices.
type FileStorage interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) error
	PresignedGet(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// Mailer sends transactional email.
type Mailer interface {
	SendOrderConfirmationEmail(toEmail string, order models.Order) error
}
