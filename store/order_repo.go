package store

import (
	"context"
	"errors"
	"fmt"

	"go-bookstore/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoOrderRepository struct {
	orders *mongo.Collection
	items  *mongo.Collection
}

// NewOrderRepository creates a Mongo-backed OrderRepository over the
// "orders" and "order_items" collections.
func NewOrderRepository(client *mongo.Client) OrderRepository {
	db := client.Database("bookstore")
	return &mongoOrderRepository{
		orders: db.Collection("orders"),
		items:  db.Collection("order_items"),
	}
}

func (r *mongoOrderRepository) InsertOrder(ctx context.Context, order *models.Order) error {
	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *mongoOrderRepository) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, item)
	}
	if _, err := r.items.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}
	return nil
}

func (r *mongoOrderRepository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) GetOrderBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := r.orders.FindOne(ctx, bson.M{"checkout_session_id": sessionID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by session: %w", err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) ListOrdersByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	return r.findOrders(ctx, bson.M{"customer_id": customerID})
}

func (r *mongoOrderRepository) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.findOrders(ctx, filter)
}

func (r *mongoOrderRepository) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *mongoOrderRepository) ListOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	cursor, err := r.items.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return items, nil
}

// ReplaceOrderItems swaps an order's line items for the canonical set derived
// from the payment processor. Not transactional with the order update.
func (r *mongoOrderRepository) ReplaceOrderItems(ctx context.Context, orderID string, items []models.OrderItem) error {
	if _, err := r.items.DeleteMany(ctx, bson.M{"order_id": orderID}); err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}
	return r.InsertOrderItems(ctx, items)
}

func (r *mongoOrderRepository) UpdateOrderStatus(ctx context.Context, id, status string) error {
	return r.setOrderField(ctx, id, bson.M{"status": status})
}

func (r *mongoOrderRepository) MarkDownloaded(ctx context.Context, id string) error {
	// Monotonic: the flag only ever moves false -> true.
	return r.setOrderField(ctx, id, bson.M{"downloaded": true})
}

func (r *mongoOrderRepository) MarkInvoiceDownloaded(ctx context.Context, id string) error {
	return r.setOrderField(ctx, id, bson.M{"invoice_downloaded": true})
}

func (r *mongoOrderRepository) SetInvoiceURL(ctx context.Context, id, url string) error {
	return r.setOrderField(ctx, id, bson.M{"invoice_url": url})
}

func (r *mongoOrderRepository) setOrderField(ctx context.Context, id string, fields bson.M) error {
	result, err := r.orders.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *mongoOrderRepository) DeleteOrder(ctx context.Context, id string) error {
	result, err := r.orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrOrderNotFound
	}
	if _, err := r.items.DeleteMany(ctx, bson.M{"order_id": id}); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	return nil
}
