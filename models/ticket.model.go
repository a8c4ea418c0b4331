package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket statuses
const (
	TicketStatusOpen   = "open"
	TicketStatusClosed = "closed"
)

// Ticket represents a customer support request
type Ticket struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Message   string             `bson:"message" json:"message"`
	UserID    string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
