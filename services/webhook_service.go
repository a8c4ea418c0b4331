package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-bookstore/models"
	"go-bookstore/store"
)

// WebhookService is the single writer that marks orders paid. It trusts only
// the processor's record of the session, never the client-declared cart.
type WebhookService struct {
	orders   store.OrderRepository
	products store.ProductRepository
	payments PaymentClient
	mailer   Mailer
}

func NewWebhookService(orders store.OrderRepository, products store.ProductRepository, payments PaymentClient, mailer Mailer) *WebhookService {
	return &WebhookService{
		orders:   orders,
		products: products,
		payments: payments,
		mailer:   mailer,
	}
}

// HandleSessionCompleted transitions the order for the given checkout session
// from pending to paid and replaces its line items with the canonical ones
// re-fetched from the processor. Redelivered events find the order already
// paid and no-op, so a session maps to exactly one paid order.
func (s *WebhookService) HandleSessionCompleted(ctx context.Context, sessionID string) error {
	order, err := s.orders.GetOrderBySessionID(ctx, sessionID)
	if errors.Is(err, store.ErrOrderNotFound) {
		log.Printf("webhook: no order for session %s, ignoring", sessionID)
		return nil
	}
	if err != nil {
		return err
	}

	if order.Status != models.OrderStatusPending {
		log.Printf("webhook: order %s already %s, ignoring redelivery for session %s", order.ID, order.Status, sessionID)
		return nil
	}

	lines, err := s.payments.SessionLineItems(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to fetch session line items: %w", err)
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.products.GetProductByStripeID(ctx, line.StripeProductID)
		if errors.Is(err, store.ErrProductNotFound) {
			log.Printf("webhook: unresolved processor product %q on session %s, skipping line", line.StripeProductID, sessionID)
			continue
		}
		if err != nil {
			return err
		}
		items = append(items, models.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID.Hex(),
			Quantity:  int(line.Quantity),
			UnitPrice: line.UnitAmount,
		})
	}

	if err := s.orders.ReplaceOrderItems(ctx, order.ID, items); err != nil {
		return fmt.Errorf("failed to replace order items: %w", err)
	}
	if err := s.orders.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPaid); err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	paid := *order
	paid.Status = models.OrderStatusPaid
	go func(email string, o models.Order) {
		if err := s.mailer.SendOrderConfirmationEmail(email, o); err != nil {
			log.Printf("failed to send confirmation email to %s: %v", email, err)
		}
	}(order.CustomerEmail, paid)

	return nil
}
