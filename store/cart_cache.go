package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go-bookstore/models"

	"github.com/redis/go-redis/v9"
)

type redisCartCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

// NewCartCache creates a Redis-backed CartCache with a jittered TTL.
func NewCartCache(client *redis.Client) CartCache {
	return &redisCartCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (r *redisCartCache) Get(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, cartCacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

func (r *redisCartCache) Set(ctx context.Context, userID string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// Jitter spreads expiry so a burst of carts does not fall out together.
	ttl := r.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := r.client.Set(ctx, cartCacheKey(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *redisCartCache) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartCacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartCacheKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
