package controllers

import (
	"context"
	"encoding/json"
	"go-bookstore/models"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AnalyticsController serves the admin dashboard summary
type AnalyticsController struct {
	Orders  *mongo.Collection
	Users   *mongo.Collection
	Tickets *mongo.Collection
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(client *mongo.Client) *AnalyticsController {
	db := client.Database("bookstore")
	return &AnalyticsController{
		Orders:  db.Collection("orders"),
		Users:   db.Collection("users"),
		Tickets: db.Collection("tickets"),
	}
}

// GetSummary aggregates paid revenue, order counts by status, user count and
// open ticket count.
func (ac *AnalyticsController) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	revenue, err := ac.paidRevenue(ctx)
	if err != nil {
		http.Error(w, "Failed to compute revenue", http.StatusInternalServerError)
		return
	}

	ordersByStatus, err := ac.ordersByStatus(ctx)
	if err != nil {
		http.Error(w, "Failed to count orders", http.StatusInternalServerError)
		return
	}

	userCount, err := ac.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Failed to count users", http.StatusInternalServerError)
		return
	}

	openTickets, err := ac.Tickets.CountDocuments(ctx, bson.M{"status": models.TicketStatusOpen})
	if err != nil {
		http.Error(w, "Failed to count tickets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"paid_revenue":     revenue,
		"orders_by_status": ordersByStatus,
		"user_count":       userCount,
		"open_tickets":     openTickets,
	})
}

func (ac *AnalyticsController) paidRevenue(ctx context.Context) (float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"status": models.OrderStatusPaid}},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$amount_total"}}},
	}
	cursor, err := ac.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (ac *AnalyticsController) ordersByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := ac.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, row := range results {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
