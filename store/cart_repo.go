package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-bookstore/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCartRepository struct {
	collection *mongo.Collection
}

// NewCartRepository creates a Mongo-backed CartRepository on the "carts"
// collection.
func NewCartRepository(client *mongo.Client) CartRepository {
	return &mongoCartRepository{
		collection: client.Database("bookstore").Collection("carts"),
	}
}

// cartUpgrades upgrades a cart document from the keyed version to the next
// one. v1 documents stored item prices in minor currency units.
var cartUpgrades = map[int]func(*models.Cart){
	1: func(c *models.Cart) {
		for i := range c.Items {
			c.Items[i].Price = c.Items[i].Price / 100
		}
	},
}

// MigrateCart brings a cart document up to the current schema version.
// Documents written before versioning carry no tag and are treated as v1.
func MigrateCart(c *models.Cart) {
	if c.SchemaVersion == 0 {
		c.SchemaVersion = 1
	}
	for v := c.SchemaVersion; v < models.CartSchemaVersion; v++ {
		if upgrade, ok := cartUpgrades[v]; ok {
			upgrade(c)
		}
		c.SchemaVersion = v + 1
	}
}

func (r *mongoCartRepository) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	MigrateCart(&cart)
	return &cart, nil
}

func (r *mongoCartRepository) UpsertCart(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	cart.SchemaVersion = models.CartSchemaVersion

	// Only the item collection and schema version are written; transient
	// state never reaches the document.
	update := bson.M{"$set": bson.M{
		"schema_version": cart.SchemaVersion,
		"items":          cart.Items,
		"updated_at":     cart.UpdatedAt,
	}, "$setOnInsert": bson.M{
		"created_at": cart.CreatedAt,
	}}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, bson.M{"user_id": cart.UserID}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

func (r *mongoCartRepository) DeleteCart(ctx context.Context, userID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
