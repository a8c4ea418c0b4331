package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-bookstore/middleware"
	"go-bookstore/models"
	"go-bookstore/services"
	"go-bookstore/store"
	"go-bookstore/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCartRepo struct {
	cart *models.Cart
}

func (f *fakeCartRepo) GetCart(context.Context, string) (*models.Cart, error) {
	if f.cart == nil {
		return nil, store.ErrCartNotFound
	}
	return f.cart, nil
}

func (f *fakeCartRepo) UpsertCart(_ context.Context, cart *models.Cart) error {
	f.cart = cart
	return nil
}

func (f *fakeCartRepo) DeleteCart(context.Context, string) error {
	f.cart = nil
	return nil
}

type fakeCartCache struct{}

func (fakeCartCache) Get(context.Context, string) (*models.Cart, error) {
	return nil, store.ErrCacheMiss
}
func (fakeCartCache) Set(context.Context, string, *models.Cart) error { return nil }
func (fakeCartCache) Delete(context.Context, string) error            { return nil }

type fakeProductRepo struct {
	product *models.Product
}

func (f *fakeProductRepo) GetProduct(context.Context, string) (*models.Product, error) {
	if f.product == nil {
		return nil, store.ErrProductNotFound
	}
	return f.product, nil
}

func (f *fakeProductRepo) GetProductByStripeID(context.Context, string) (*models.Product, error) {
	if f.product == nil {
		return nil, store.ErrProductNotFound
	}
	return f.product, nil
}

type fakeUserRepo struct {
	user *models.User
}

func (f *fakeUserRepo) GetByID(context.Context, string) (*models.User, error) {
	if f.user == nil {
		return nil, store.ErrUserNotFound
	}
	return f.user, nil
}

func (f *fakeUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return f.GetByID(context.Background(), "")
}

func authenticatedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	claims := &utils.Claims{Email: "reader@example.com", Role: "user"}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func TestAddToCartSnapshotsCatalogFields(t *testing.T) {
	book := &models.Product{
		ID:              primitive.NewObjectID(),
		Name:            "Go in Practice",
		Description:     "Practical Go patterns",
		Price:           9.99,
		ImageURL:        "https://img.example.com/b1.png",
		StripeProductID: "prod_catalog_b1",
	}
	repo := &fakeCartRepo{}
	cc := NewCartController(
		services.NewCartService(repo, fakeCartCache{}),
		&fakeProductRepo{product: book},
		&fakeUserRepo{user: &models.User{ID: primitive.NewObjectID(), Email: "reader@example.com"}},
	)

	req := authenticatedRequest(http.MethodPost, "/cart", `{"product_id":"`+book.ID.Hex()+`","quantity":2}`)
	rec := httptest.NewRecorder()
	cc.AddToCart(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, repo.cart)
	require.Len(t, repo.cart.Items, 1)
	item := repo.cart.Items[0]
	assert.Equal(t, book.ID.Hex(), item.ProductID)
	assert.Equal(t, "Go in Practice", item.Name)
	assert.InDelta(t, 9.99, item.Price, 0.001)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "prod_catalog_b1", item.StripeProductID)
}

func TestAddToCartUnknownProductRejected(t *testing.T) {
	repo := &fakeCartRepo{}
	cc := NewCartController(
		services.NewCartService(repo, fakeCartCache{}),
		&fakeProductRepo{},
		&fakeUserRepo{user: &models.User{ID: primitive.NewObjectID(), Email: "reader@example.com"}},
	)

	req := authenticatedRequest(http.MethodPost, "/cart", `{"product_id":"missing","quantity":1}`)
	rec := httptest.NewRecorder()
	cc.AddToCart(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Nil(t, repo.cart)
}
