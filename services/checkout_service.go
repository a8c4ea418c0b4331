package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-bookstore/models"
	"go-bookstore/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutService converts a cart into a pending order and a hosted payment
// session. A payment URL is only ever returned after the pending order and
// its items have been written.
type CheckoutService struct {
	carts    *CartService
	users    store.UserRepository
	orders   store.OrderRepository
	payments PaymentClient
}

func NewCheckoutService(carts *CartService, users store.UserRepository, orders store.OrderRepository, payments PaymentClient) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		users:    users,
		orders:   orders,
		payments: payments,
	}
}

// Checkout runs the initiation flow for the given customer and returns the
// hosted payment page URL. Each step short-circuits on failure. There is no
// compensating cancellation: a persistence failure after session creation
// leaves an orphaned session at the processor and surfaces as an error.
func (s *CheckoutService) Checkout(ctx context.Context, customerID string) (string, error) {
	cart, err := s.carts.GetCart(ctx, customerID)
	if err != nil {
		return "", err
	}
	if len(cart.Items) == 0 {
		return "", ErrEmptyCart
	}

	user, err := s.users.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", ErrCustomerNotFound
		}
		return "", err
	}

	sessionID, url, err := s.payments.CreateCheckoutSession(ctx, cart.Items, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	order := models.Order{
		ID:                uuid.NewString(),
		CustomerID:        customerID,
		CustomerEmail:     user.Email,
		Name:              orderName(cart.Items),
		AmountTotal:       CartTotal(cart).InexactFloat64(),
		Status:            models.OrderStatusPending,
		CheckoutSessionID: sessionID,
		CreatedAt:         time.Now(),
	}
	if err := s.orders.InsertOrder(ctx, &order); err != nil {
		return "", fmt.Errorf("failed to persist pending order: %w", err)
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, models.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: toCents(line.Price),
		})
	}
	if err := s.orders.InsertOrderItems(ctx, items); err != nil {
		return "", fmt.Errorf("failed to persist order items: %w", err)
	}

	if err := s.carts.ClearCart(ctx, customerID); err != nil {
		log.Printf("failed to clear cart after checkout for %s: %v", customerID, err)
	}

	return url, nil
}

func orderName(items []models.CartItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return strings.Join(names, ", ")
}

func toCents(price float64) int64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
