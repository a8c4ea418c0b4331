package store

import (
	"context"
	"errors"

	"go-bookstore/models"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrCacheMiss       = errors.New("cache miss")
)

// CartRepository persists one cart document per user.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	UpsertCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}

// CartCache is a read-through cache in front of CartRepository.
type CartCache interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Set(ctx context.Context, userID string, cart *models.Cart) error
	Delete(ctx context.Context, userID string) error
}

// OrderRepository persists orders and their line items.
type OrderRepository interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	InsertOrderItems(ctx context.Context, items []models.OrderItem) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	ListOrders(ctx context.Context, status string) ([]models.Order, error)
	ListOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	ReplaceOrderItems(ctx context.Context, orderID string, items []models.OrderItem) error
	UpdateOrderStatus(ctx context.Context, id, status string) error
	MarkDownloaded(ctx context.Context, id string) error
	MarkInvoiceDownloaded(ctx context.Context, id string) error
	SetInvoiceURL(ctx context.Context, id, url string) error
	DeleteOrder(ctx context.Context, id string) error
}

// ProductRepository is the catalog read side used by cart and webhook flows.
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductByStripeID(ctx context.Context, stripeProductID string) (*models.Product, error)
}

// UserRepository resolves customer identities.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
