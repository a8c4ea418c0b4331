package controllers

import (
	"context"
	"encoding/json"
	"go-bookstore/models"
	"go-bookstore/utils"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TicketController handles support ticket requests
type TicketController struct {
	Collection   *mongo.Collection
	EmailService *utils.EmailService
}

// NewTicketController creates a new TicketController
func NewTicketController(client *mongo.Client, emailService *utils.EmailService) *TicketController {
	return &TicketController{
		Collection:   client.Database("bookstore").Collection("tickets"),
		EmailService: emailService,
	}
}

type supportRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

// Submit records a support request and notifies the support inbox
func (tc *TicketController) Submit(w http.ResponseWriter, r *http.Request) {
	var req supportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid input", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Email == "" || !strings.Contains(req.Email, "@") || req.Message == "" {
		writeJSONError(w, "A valid email and a message are required", http.StatusBadRequest)
		return
	}

	ticket := models.Ticket{
		Email:     req.Email,
		Message:   req.Message,
		UserID:    req.UserID,
		Status:    models.TicketStatusOpen,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := tc.Collection.InsertOne(ctx, ticket); err != nil {
		writeJSONError(w, "Failed to submit support request", http.StatusInternalServerError)
		return
	}

	go func(t models.Ticket) {
		if err := tc.EmailService.SendSupportNotification(t); err != nil {
			log.Printf("failed to notify support inbox: %v", err)
		}
	}(ticket)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// ListTickets retrieves tickets, optionally filtered by status (Admin only)
func (tc *TicketController) ListTickets(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if status != models.TicketStatusOpen && status != models.TicketStatusClosed {
			http.Error(w, "Invalid ticket status", http.StatusBadRequest)
			return
		}
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := tc.Collection.Find(ctx, filter)
	if err != nil {
		http.Error(w, "Failed to retrieve tickets", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var tickets []models.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		http.Error(w, "Error reading tickets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tickets)
}

// CloseTicket marks a ticket closed (Admin only)
func (tc *TicketController) CloseTicket(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ticket ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := tc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": models.TicketStatusClosed},
	})
	if err != nil {
		http.Error(w, "Failed to close ticket", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Ticket not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Ticket closed"})
}
