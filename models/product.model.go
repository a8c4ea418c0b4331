package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups products for browsing
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

// Product represents a purchasable digital book. FilePath is the object
// storage key of the asset; StripeProductID is the processor-side identifier
// the payment webhook resolves line items with.
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Price           float64            `bson:"price" json:"price"`
	ImageURL        string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	FilePath        string             `bson:"file_path" json:"file_path"`
	CategoryID      primitive.ObjectID `bson:"category_id,omitempty" json:"category_id,omitempty"`
	StripeProductID string             `bson:"stripe_product_id,omitempty" json:"stripe_product_id,omitempty"`
}
