package services

import (
	"context"
	"errors"
	"log"
	"time"

	"go-bookstore/models"
	"go-bookstore/store"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// CartService maintains the shopper's working selection before payment.
// Reads go through the cache; every mutation writes the repository and
// invalidates the cached copy.
type CartService struct {
	repo  store.CartRepository
	cache store.CartCache
	sfg   singleflight.Group // coalesces concurrent cache misses
	addg  singleflight.Group // serializes overlapping adds per user
}

func NewCartService(repo store.CartRepository, cache store.CartCache) *CartService {
	return &CartService{
		repo:  repo,
		cache: cache,
	}
}

// GetCart returns the user's cart, reading an empty cart when none exists.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, store.ErrCacheMiss) {
			log.Printf("cart cache get error: %v", err)
		}

		cart, err = s.repo.GetCart(ctx, userID)
		if errors.Is(err, store.ErrCartNotFound) {
			now := time.Now()
			return &models.Cart{
				UserID:        userID,
				SchemaVersion: models.CartSchemaVersion,
				Items:         nil,
				CreatedAt:     now,
				UpdatedAt:     now,
			}, nil
		}
		if err != nil {
			return nil, err
		}

		// Filled before returning: a mutation's invalidate can then never
		// lose to a detached write still in flight.
		if err := s.cache.Set(ctx, userID, cart); err != nil {
			log.Printf("cart cache set error: %v", err)
		}

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Cart), nil
}

// AddItem merges the incoming item into the cart: an existing line with the
// same product id gains its quantity, otherwise the item is appended. A zero
// quantity defaults to one. Overlapping adds for the same user coalesce into
// the in-flight call instead of racing.
func (s *CartService) AddItem(ctx context.Context, userID string, item models.CartItem) error {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	_, err, _ := s.addg.Do(userID, func() (interface{}, error) {
		cart, err := s.loadOrCreate(ctx, userID)
		if err != nil {
			return nil, err
		}

		merged := false
		for i := range cart.Items {
			if cart.Items[i].ProductID == item.ProductID {
				cart.Items[i].Quantity += item.Quantity
				merged = true
				break
			}
		}
		if !merged {
			cart.Items = append(cart.Items, item)
		}

		if err := s.repo.UpsertCart(ctx, cart); err != nil {
			return nil, err
		}
		s.invalidate(userID)
		return nil, nil
	})
	return err
}

// UpdateQuantity replaces an item's quantity. Negative quantities leave the
// cart unchanged; zero delegates to RemoveItem.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 0 {
		log.Printf("rejected negative quantity %d for product %s", quantity, productID)
		return nil
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := s.repo.GetCart(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	changed := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// RemoveItem removes the line with the given product id; an absent id is a
// no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) error {
	cart, err := s.repo.GetCart(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	kept := cart.Items[:0]
	removed := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil
	}
	cart.Items = kept

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// ClearCart empties the user's cart.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.repo.DeleteCart(ctx, userID); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// CartTotal computes the cart's total price with exact decimal arithmetic.
func CartTotal(cart *models.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart.Items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}

// CartTotalItems counts the units across all lines.
func CartTotalItems(cart *models.Cart) int {
	n := 0
	for _, item := range cart.Items {
		n += item.Quantity
	}
	return n
}

func (s *CartService) loadOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		now := time.Now()
		return &models.Cart{
			UserID:        userID,
			SchemaVersion: models.CartSchemaVersion,
			CreatedAt:     now,
			UpdatedAt:     now,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) invalidate(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cart cache invalidate error: %v", err)
	}
}
