package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-bookstore/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture(items ...models.CartItem) *models.Cart {
	return &models.Cart{
		UserID:        "user-1",
		SchemaVersion: models.CartSchemaVersion,
		Items:         items,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestAddItemMergesQuantities(t *testing.T) {
	repo := &mockCartRepo{}
	svc := NewCartService(repo, &mockCartCache{})
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "user-1", models.CartItem{ProductID: "b1", Name: "Go in Practice", Price: 9.99, Quantity: 1}))
	require.NoError(t, svc.AddItem(ctx, "user-1", models.CartItem{ProductID: "b1", Name: "Go in Practice", Price: 9.99, Quantity: 2}))

	require.Len(t, repo.cart.Items, 1)
	assert.Equal(t, 3, repo.cart.Items[0].Quantity)
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	repo := &mockCartRepo{}
	svc := NewCartService(repo, &mockCartCache{})

	require.NoError(t, svc.AddItem(context.Background(), "user-1", models.CartItem{ProductID: "b1", Price: 4.50}))

	require.Len(t, repo.cart.Items, 1)
	assert.Equal(t, 1, repo.cart.Items[0].Quantity)
}

func TestAddItemAppendsNewProduct(t *testing.T) {
	repo := &mockCartRepo{cart: newCartFixture(models.CartItem{ProductID: "b1", Price: 9.99, Quantity: 2})}
	svc := NewCartService(repo, &mockCartCache{})

	require.NoError(t, svc.AddItem(context.Background(), "user-1", models.CartItem{ProductID: "b2", Price: 4.50, Quantity: 1}))

	require.Len(t, repo.cart.Items, 2)
}

func TestUpdateQuantityZeroRemovesItem(t *testing.T) {
	repo := &mockCartRepo{cart: newCartFixture(
		models.CartItem{ProductID: "b1", Price: 9.99, Quantity: 2},
		models.CartItem{ProductID: "b2", Price: 4.50, Quantity: 1},
	)}
	svc := NewCartService(repo, &mockCartCache{})

	require.NoError(t, svc.UpdateQuantity(context.Background(), "user-1", "b1", 0))

	require.Len(t, repo.cart.Items, 1)
	assert.Equal(t, "b2", repo.cart.Items[0].ProductID)
}

func TestUpdateQuantityNegativeLeavesCartUnchanged(t *testing.T) {
	repo := &mockCartRepo{cart: newCartFixture(models.CartItem{ProductID: "b1", Price: 9.99, Quantity: 2})}
	svc := NewCartService(repo, &mockCartCache{})

	require.NoError(t, svc.UpdateQuantity(context.Background(), "user-1", "b1", -1))

	assert.Equal(t, 0, repo.upsertCalls)
	assert.Equal(t, 2, repo.cart.Items[0].Quantity)
}

func TestUpdateQuantityReplacesValue(t *testing.T) {
	repo := &mockCartRepo{cart: newCartFixture(models.CartItem{ProductID: "b1", Price: 9.99, Quantity: 2})}
	svc := NewCartService(repo, &mockCartCache{})

	require.NoError(t, svc.UpdateQuantity(context.Background(), "user-1", "b1", 5))

	assert.Equal(t, 5, repo.cart.Items[0].Quantity)
}

func TestRemoveItemAbsentIsNoOp(t *testing.T) {
	repo := &mockCartRepo{cart: newCartFixture(models.CartItem{ProductID: "b1", Price: 9.99, Quantity: 2})}
	svc := NewCartService(repo, &mockCartCache{})

	require.NoError(t, svc.RemoveItem(context.Background(), "user-1", "missing"))

	assert.Equal(t, 0, repo.upsertCalls)
	require.Len(t, repo.cart.Items, 1)
}

func TestClearCartEmptiesCollection(t *testing.T) {
	repo := &mockCartRepo{cart: newCartFixture(models.CartItem{ProductID: "b1", Price: 9.99, Quantity: 2})}
	svc := NewCartService(repo, &mockCartCache{})

	require.NoError(t, svc.ClearCart(context.Background(), "user-1"))

	assert.Equal(t, 1, repo.deleteCalls)
	assert.Nil(t, repo.cart)
}

func TestGetCartMissingReadsEmpty(t *testing.T) {
	svc := NewCartService(&mockCartRepo{}, &mockCartCache{})

	cart, err := svc.GetCart(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "user-1", cart.UserID)
}

func TestGetCartFillsCacheBeforeReturning(t *testing.T) {
	repo := &mockCartRepo{cart: newCartFixture(models.CartItem{ProductID: "b1", Price: 9.99, Quantity: 1})}
	cache := &mockCartCache{}
	svc := NewCartService(repo, cache)

	_, err := svc.GetCart(context.Background(), "user-1")

	require.NoError(t, err)
	require.NotNil(t, cache.cart)
	assert.Len(t, cache.cart.Items, 1)
}

func TestRemovedItemNotServedFromCache(t *testing.T) {
	repo := &mockCartRepo{cart: newCartFixture(models.CartItem{ProductID: "b1", Price: 9.99, Quantity: 1})}
	cache := &mockCartCache{}
	svc := NewCartService(repo, cache)
	ctx := context.Background()

	cart, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	require.NoError(t, svc.RemoveItem(ctx, "user-1", "b1"))
	assert.Nil(t, cache.cart)

	cart, err = svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartTotals(t *testing.T) {
	cart := newCartFixture(
		models.CartItem{ProductID: "b1", Price: 9.99, Quantity: 2},
		models.CartItem{ProductID: "b2", Price: 4.50, Quantity: 1},
	)

	assert.Equal(t, "24.48", CartTotal(cart).String())
	assert.Equal(t, 3, CartTotalItems(cart))
}

func TestCartTotalRecomputedAfterMutation(t *testing.T) {
	repo := &mockCartRepo{cart: newCartFixture(
		models.CartItem{ProductID: "b1", Price: 9.99, Quantity: 2},
		models.CartItem{ProductID: "b2", Price: 4.50, Quantity: 1},
	)}
	svc := NewCartService(repo, &mockCartCache{})

	require.NoError(t, svc.RemoveItem(context.Background(), "user-1", "b2"))

	assert.Equal(t, "19.98", CartTotal(repo.cart).String())
}

func TestConcurrentAddsCoalesce(t *testing.T) {
	repo := &mockCartRepo{
		getStarted: make(chan struct{}, 2),
		getProceed: make(chan struct{}),
	}
	svc := NewCartService(repo, &mockCartCache{})
	item := models.CartItem{ProductID: "b1", Price: 9.99, Quantity: 1}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, svc.AddItem(context.Background(), "user-1", item))
	}()

	// Wait until the first add is inside the repository, then fire the
	// overlapping add so it must join the in-flight call.
	<-repo.getStarted
	go func() {
		defer wg.Done()
		assert.NoError(t, svc.AddItem(context.Background(), "user-1", item))
	}()
	time.Sleep(50 * time.Millisecond)
	close(repo.getProceed)
	wg.Wait()

	assert.Equal(t, 1, repo.upsertCalls)
	require.Len(t, repo.cart.Items, 1)
	assert.Equal(t, 1, repo.cart.Items[0].Quantity)
}
