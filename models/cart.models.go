package models

import (
	"time"
)

// CartSchemaVersion is the schema tag written on every persisted cart.
// Older documents are upgraded on read, see store.MigrateCart.
const CartSchemaVersion = 2

// CartItem represents one line in the cart. Name, price, image and the
// processor-side product id are snapshotted from the catalog at add time.
type CartItem struct {
	ProductID       string  `bson:"product_id" json:"product_id"`
	Name            string  `bson:"name" json:"name"`
	Description     string  `bson:"description,omitempty" json:"description,omitempty"`
	Price           float64 `bson:"price" json:"price"`
	Quantity        int     `bson:"quantity" json:"quantity"`
	ImageURL        string  `bson:"image_url,omitempty" json:"image_url,omitempty"`
	StripeProductID string  `bson:"stripe_product_id,omitempty" json:"stripe_product_id,omitempty"`
}

// Cart represents a user's shopping cart. One document per user; at most one
// item per product id, quantities always >= 1.
type Cart struct {
	ID            string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        string     `bson:"user_id" json:"user_id"`
	SchemaVersion int        `bson:"schema_version" json:"schema_version"`
	Items         []CartItem `bson:"items" json:"items"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
}
