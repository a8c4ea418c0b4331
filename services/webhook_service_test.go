package services

import (
	"context"
	"testing"
	"time"

	"go-bookstore/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedPendingOrder(orders *mockOrderRepo, sessionID string) *models.Order {
	order := &models.Order{
		ID:                "order-1",
		CustomerID:        "user-1",
		CustomerEmail:     "reader@example.com",
		Name:              "Go in Practice",
		AmountTotal:       19.98,
		Status:            models.OrderStatusPending,
		CheckoutSessionID: sessionID,
		CreatedAt:         time.Now(),
	}
	orders.orders[order.ID] = order
	return order
}

func TestWebhookMarksPendingOrderPaid(t *testing.T) {
	orders := newMockOrderRepo()
	seedPendingOrder(orders, "cs_1")

	book := &models.Product{ID: primitive.NewObjectID(), Name: "Go in Practice", StripeProductID: "prod_1"}
	products := &mockProductRepo{byStripe: map[string]*models.Product{"prod_1": book}}
	payments := &mockPaymentClient{lines: []SessionLineItem{
		{StripeProductID: "prod_1", Description: "Go in Practice", Quantity: 2, UnitAmount: 999},
	}}
	mailer := &mockMailer{}
	svc := NewWebhookService(orders, products, payments, mailer)

	require.NoError(t, svc.HandleSessionCompleted(context.Background(), "cs_1"))

	assert.Equal(t, models.OrderStatusPaid, orders.orders["order-1"].Status)
	items := orders.items["order-1"]
	require.Len(t, items, 1)
	assert.Equal(t, book.ID.Hex(), items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(999), items[0].UnitPrice)
}

func TestWebhookReplacesItemsWithProcessorLines(t *testing.T) {
	orders := newMockOrderRepo()
	order := seedPendingOrder(orders, "cs_1")
	orders.items[order.ID] = []models.OrderItem{
		{OrderID: order.ID, ProductID: "stale", Quantity: 9, UnitPrice: 1},
	}

	book := &models.Product{ID: primitive.NewObjectID(), StripeProductID: "prod_1"}
	products := &mockProductRepo{byStripe: map[string]*models.Product{"prod_1": book}}
	payments := &mockPaymentClient{lines: []SessionLineItem{
		{StripeProductID: "prod_1", Quantity: 1, UnitAmount: 450},
	}}
	svc := NewWebhookService(orders, products, payments, &mockMailer{})

	require.NoError(t, svc.HandleSessionCompleted(context.Background(), "cs_1"))

	items := orders.items[order.ID]
	require.Len(t, items, 1)
	assert.Equal(t, book.ID.Hex(), items[0].ProductID)
	assert.Equal(t, []string{order.ID}, orders.replacedOrders)
}

func TestWebhookSkipsUnresolvedProcessorProduct(t *testing.T) {
	orders := newMockOrderRepo()
	seedPendingOrder(orders, "cs_1")

	book := &models.Product{ID: primitive.NewObjectID(), StripeProductID: "prod_known"}
	products := &mockProductRepo{byStripe: map[string]*models.Product{"prod_known": book}}
	payments := &mockPaymentClient{lines: []SessionLineItem{
		{StripeProductID: "prod_unknown", Quantity: 1, UnitAmount: 999},
		{StripeProductID: "prod_known", Quantity: 1, UnitAmount: 450},
	}}
	svc := NewWebhookService(orders, products, payments, &mockMailer{})

	require.NoError(t, svc.HandleSessionCompleted(context.Background(), "cs_1"))

	items := orders.items["order-1"]
	require.Len(t, items, 1)
	assert.Equal(t, book.ID.Hex(), items[0].ProductID)
	assert.Equal(t, models.OrderStatusPaid, orders.orders["order-1"].Status)
}

func TestWebhookRedeliveryIsNoOp(t *testing.T) {
	orders := newMockOrderRepo()
	seedPendingOrder(orders, "cs_1")

	book := &models.Product{ID: primitive.NewObjectID(), StripeProductID: "prod_1"}
	products := &mockProductRepo{byStripe: map[string]*models.Product{"prod_1": book}}
	payments := &mockPaymentClient{lines: []SessionLineItem{
		{StripeProductID: "prod_1", Quantity: 1, UnitAmount: 999},
	}}
	svc := NewWebhookService(orders, products, payments, &mockMailer{})

	require.NoError(t, svc.HandleSessionCompleted(context.Background(), "cs_1"))
	require.NoError(t, svc.HandleSessionCompleted(context.Background(), "cs_1"))

	require.Len(t, orders.orders, 1)
	assert.Len(t, orders.statusUpdates, 1)
	assert.Len(t, orders.replacedOrders, 1)
	assert.Equal(t, 1, payments.linesCalls)
}

func TestWebhookSendsConfirmationEmail(t *testing.T) {
	orders := newMockOrderRepo()
	seedPendingOrder(orders, "cs_1")

	book := &models.Product{ID: primitive.NewObjectID(), StripeProductID: "prod_1"}
	products := &mockProductRepo{byStripe: map[string]*models.Product{"prod_1": book}}
	payments := &mockPaymentClient{lines: []SessionLineItem{
		{StripeProductID: "prod_1", Quantity: 1, UnitAmount: 999},
	}}
	mailer := &mockMailer{notify: make(chan string, 1)}
	svc := NewWebhookService(orders, products, payments, mailer)

	require.NoError(t, svc.HandleSessionCompleted(context.Background(), "cs_1"))

	select {
	case to := <-mailer.notify:
		assert.Equal(t, "reader@example.com", to)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation email was not dispatched")
	}
	assert.Equal(t, 1, mailer.calls)
}

func TestWebhookUnknownSessionIgnored(t *testing.T) {
	orders := newMockOrderRepo()
	payments := &mockPaymentClient{}
	svc := NewWebhookService(orders, &mockProductRepo{}, payments, &mockMailer{})

	require.NoError(t, svc.HandleSessionCompleted(context.Background(), "cs_missing"))

	assert.Empty(t, orders.orders)
	assert.Empty(t, orders.statusUpdates)
	assert.Equal(t, 0, payments.linesCalls)
}
