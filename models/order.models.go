package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. An order is created pending by the checkout initiator and
// only the payment webhook moves it to paid.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusPaid       = "paid"
	OrderStatusFailed     = "failed"
	OrderStatusRefunded   = "refunded"
)

var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusPaid, OrderStatusFailed},
	OrderStatusProcessing: {OrderStatusPaid, OrderStatusFailed},
	OrderStatusPaid:       {OrderStatusRefunded},
}

// CanTransitionOrder reports whether an order status change is allowed.
func CanTransitionOrder(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusPaid, OrderStatusFailed, OrderStatusRefunded:
		return true
	}
	return false
}

// Order represents a customer's purchase. Exactly one order exists per
// checkout session; CheckoutSessionID is the processor-side join key.
type Order struct {
	ID                string    `bson:"_id" json:"id"`
	CustomerID        string    `bson:"customer_id" json:"customer_id"`
	CustomerEmail     string    `bson:"customer_email" json:"customer_email"`
	Name              string    `bson:"name" json:"name"`
	AmountTotal       float64   `bson:"amount_total" json:"amount_total"`
	Status            string    `bson:"status" json:"status"`
	CheckoutSessionID string    `bson:"checkout_session_id" json:"checkout_session_id"`
	Downloaded        bool      `bson:"downloaded" json:"downloaded"`
	InvoiceDownloaded bool      `bson:"invoice_downloaded" json:"invoice_downloaded"`
	InvoiceURL        string    `bson:"invoice_url,omitempty" json:"invoice_url,omitempty"`
	ProductID         string    `bson:"product_id,omitempty" json:"product_id,omitempty"` // legacy single-item reference
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}

// OrderItem represents one purchased line of an order. Unit prices are kept
// in minor currency units, matching what the payment processor is quoted.
type OrderItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID   string             `bson:"order_id" json:"order_id"`
	ProductID string             `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	UnitPrice int64              `bson:"unit_price" json:"unit_price"`
}
