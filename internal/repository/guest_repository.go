package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/foremade/cart-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

type redisGuestRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuestRepository persists anonymous carts as a JSON entry list under
// a well-known key, expiring after ttl of inactivity.
func NewRedisGuestRepository(client *redis.Client, ttl time.Duration) GuestCartRepository {
	return &redisGuestRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *redisGuestRepository) GetCart(ctx context.Context, guestID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, guestCartKey(guestID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guest cart: %w", err)
	}

	var entries []domain.CartEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal guest cart: %w", err)
	}

	return &domain.Cart{OwnerID: guestID, Entries: entries}, nil
}

func (r *redisGuestRepository) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	entries := cart.Entries
	if entries == nil {
		entries = []domain.CartEntry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal guest cart: %w", err)
	}

	if err := r.client.Set(ctx, guestCartKey(cart.OwnerID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set guest cart: %w", err)
	}

	return nil
}

func (r *redisGuestRepository) DeleteCart(ctx context.Context, guestID string) error {
	if err := r.client.Del(ctx, guestCartKey(guestID)).Err(); err != nil {
		return fmt.Errorf("failed to delete guest cart: %w", err)
	}

	return nil
}

func guestCartKey(guestID string) string {
	return fmt.Sprintf("guest_cart:%s", guestID)
}
