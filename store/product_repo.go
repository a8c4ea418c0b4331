package store

import (
	"context"
	"errors"
	"fmt"

	"go-bookstore/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a Mongo-backed ProductRepository on the
// "products" collection.
func NewProductRepository(client *mongo.Client) ProductRepository {
	return &mongoProductRepository{
		collection: client.Database("bookstore").Collection("products"),
	}
}

func (r *mongoProductRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var product models.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (r *mongoProductRepository) GetProductByStripeID(ctx context.Context, stripeProductID string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"stripe_product_id": stripeProductID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by stripe id: %w", err)
	}
	return &product, nil
}
