package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foremade/cart-service/internal/cache"
	"github.com/foremade/cart-service/internal/domain"
	"github.com/foremade/cart-service/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// EventPublisher broadcasts cart mutations so interested views re-read the
// cart instead of keeping derived copies.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, event domain.CartEvent) error
}

// cartStore is what the service needs from either backing store; user carts
// live in the document store, guest carts in Redis.
type cartStore interface {
	GetCart(ctx context.Context, ownerID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, ownerID string) error
}

type CartService struct {
	userRepo  repository.CartRepository
	guestRepo repository.GuestCartRepository
	cache     cache.CartCache
	events    EventPublisher
	logger    zerolog.Logger
	sfg       singleflight.Group // Prevents cache stampede
}

func NewCartService(
	userRepo repository.CartRepository,
	guestRepo repository.GuestCartRepository,
	cartCache cache.CartCache,
	events EventPublisher,
	logger zerolog.Logger,
) *CartService {
	return &CartService{
		userRepo:  userRepo,
		guestRepo: guestRepo,
		cache:     cartCache,
		events:    events,
		logger:    logger.With().Str("component", "cart_service").Logger(),
	}
}

func (s *CartService) storeFor(id domain.Identity) cartStore {
	if id.IsGuest() {
		return s.guestRepo
	}
	return s.userRepo
}

// GetCart returns the current entries for the identity. A cart that was never
// written reads as empty, not as an error.
func (s *CartService) GetCart(ctx context.Context, id domain.Identity) (*domain.Cart, error) {
	if id.IsGuest() {
		return s.loadCart(ctx, id)
	}

	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(id.Key(), func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, id.Key())
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("cache get error") // log cache error but continue
		}

		cart, errGet := s.loadCart(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			if errSet := s.cache.Set(context.Background(), id.Key(), cart); errSet != nil {
				s.logger.Warn().Err(errSet).Msg("cache set error")
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

func (s *CartService) loadCart(ctx context.Context, id domain.Identity) (*domain.Cart, error) {
	cart, err := s.storeFor(id).GetCart(ctx, id.Key())
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			now := time.Now()
			return &domain.Cart{
				OwnerID:   id.Key(),
				Entries:   nil,
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// AddItem appends a new entry or increments the quantity of an existing one.
func (s *CartService) AddItem(ctx context.Context, id domain.Identity, productID string, quantity int, variant *domain.Variant) error {
	if productID == "" {
		return fmt.Errorf("%w: product id is empty", ErrInvalidInput)
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	cart, err := s.loadCart(ctx, id)
	if err != nil {
		return err
	}

	if entry := cart.Entry(productID); entry != nil {
		entry.Quantity += quantity
		if variant != nil {
			entry.Variant = variant
		}
	} else {
		cart.Entries = append(cart.Entries, domain.CartEntry{
			ProductID: productID,
			Quantity:  quantity,
			Variant:   variant,
			AddedAt:   time.Now(),
		})
	}

	if err := s.storeFor(id).UpsertCart(ctx, cart); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	s.afterMutation(ctx, id, domain.CartActionAdd, productID, quantity)
	return nil
}

// UpdateQuantity overwrites the quantity for productID. Anything below 1
// behaves as RemoveItem. Stock clamping is the caller's job; the store does
// not know stock.
func (s *CartService) UpdateQuantity(ctx context.Context, id domain.Identity, productID string, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, id, productID)
	}

	cart, err := s.loadCart(ctx, id)
	if err != nil {
		return err
	}

	entry := cart.Entry(productID)
	if entry == nil {
		return ErrItemNotFound
	}
	entry.Quantity = quantity

	if err := s.storeFor(id).UpsertCart(ctx, cart); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	s.afterMutation(ctx, id, domain.CartActionUpdate, productID, quantity)
	return nil
}

// RemoveItem is idempotent; removing an entry that is not there is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, id domain.Identity, productID string) error {
	cart, err := s.loadCart(ctx, id)
	if err != nil {
		return err
	}

	kept := cart.Entries[:0]
	removed := false
	for _, entry := range cart.Entries {
		if entry.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	if !removed {
		return nil
	}
	cart.Entries = kept

	if err := s.storeFor(id).UpsertCart(ctx, cart); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	s.afterMutation(ctx, id, domain.CartActionRemove, productID, 0)
	return nil
}

// ClearCart empties all entries for the identity.
func (s *CartService) ClearCart(ctx context.Context, id domain.Identity) error {
	err := s.storeFor(id).DeleteCart(ctx, id.Key())
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.afterMutation(ctx, id, domain.CartActionClear, "", 0)
	return nil
}

// MergeGuestCart folds a guest cart into the signed-in user's cart on
// authentication, summing quantities for entries with the same product. The
// guest cart is cleared afterwards, which makes repeated calls (auth-state
// callbacks fire more than once) no-ops.
func (s *CartService) MergeGuestCart(ctx context.Context, guestID, userID string) error {
	guest := domain.GuestIdentity(guestID)
	user := domain.UserIdentity(userID)

	guestCart, err := s.loadCart(ctx, guest)
	if err != nil {
		return err
	}
	if guestCart.IsEmpty() {
		return nil
	}

	userCart, err := s.loadCart(ctx, user)
	if err != nil {
		return err
	}

	for _, guestEntry := range guestCart.Entries {
		if entry := userCart.Entry(guestEntry.ProductID); entry != nil {
			entry.Quantity += guestEntry.Quantity
		} else {
			userCart.Entries = append(userCart.Entries, guestEntry)
		}
	}

	if err := s.userRepo.UpsertCart(ctx, userCart); err != nil {
		return fmt.Errorf("failed to persist merged cart: %w", err)
	}

	// The guest cart is only cleared once the merged cart is durably written,
	// so a failed merge can be retried without losing entries.
	if err := s.guestRepo.DeleteCart(ctx, guestID); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return fmt.Errorf("failed to clear guest cart after merge: %w", err)
	}

	s.afterMutation(ctx, user, domain.CartActionMerge, "", 0)
	return nil
}

// afterMutation invalidates the cached copy and broadcasts the change. Both
// are best-effort; the write already succeeded.
func (s *CartService) afterMutation(ctx context.Context, id domain.Identity, action domain.CartAction, productID string, quantity int) {
	if !id.IsGuest() {
		invalidateCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.cache.Delete(invalidateCtx, id.Key()); err != nil {
			s.logger.Warn().Err(err).Str("owner_id", id.Key()).Msg("cache invalidate error")
		}
	}

	if s.events == nil {
		return
	}
	event := domain.CartEvent{
		OwnerID:    id.Key(),
		Guest:      id.IsGuest(),
		Action:     action,
		ProductID:  productID,
		Quantity:   quantity,
		OccurredAt: time.Now(),
	}
	if err := s.events.PublishCartUpdated(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("action", string(action)).Msg("failed to publish cart event")
	}
}
