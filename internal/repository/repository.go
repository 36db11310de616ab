package repository

import (
	"context"
	"errors"
	"time"

	"github.com/foremade/cart-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// CartRepository defines the interface for signed-in users' cart persistence.
// Every mutation is a full read-modify-write of the entry list; the service
// layer owns the merge/increment logic.
type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, ownerID string) error
	// CreateIndexes establishes the unique owner constraint and the abandoned
	// cart TTL. Called once at startup before the store takes traffic.
	CreateIndexes(ctx context.Context) error
}

// GuestCartRepository persists anonymous carts. Same contract as
// CartRepository; split so the service can route by identity.
type GuestCartRepository interface {
	GetCart(ctx context.Context, guestID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, guestID string) error
}

// ProductRepository returns raw product documents. Upstream data is
// unvalidated, so callers must pass the result through pricing.ResolveSnapshot
// before using it.
type ProductRepository interface {
	GetRaw(ctx context.Context, productID string) (bson.M, error)
}

// FeeConfigRepository fetches the per-category fee table.
type FeeConfigRepository interface {
	GetFeeTable(ctx context.Context) (map[string]domain.FeeSchedule, error)
}

// PromotionRepository lists daily-deal records for a set of products.
type PromotionRepository interface {
	ListForProducts(ctx context.Context, productIDs []string) ([]domain.Promotion, error)
}

// SettingsRepository reads platform settings owned elsewhere.
type SettingsRepository interface {
	MinimumPurchase(ctx context.Context) (float64, error)
}

// OutboxEvent is one pending message in the checkout outbox.
type OutboxEvent struct {
	ID          string    `bson:"_id"`
	AggregateID string    `bson:"aggregate_id"`
	EventType   string    `bson:"event_type"`
	Payload     []byte    `bson:"payload"`
	Processed   bool      `bson:"processed"`
	CreatedAt   time.Time `bson:"created_at"`
}

// OrderRepository persists orders together with their outbox event so a crash
// between "order recorded" and "cart cleared" cannot lose either side.
type OrderRepository interface {
	CreateOrderWithOutbox(ctx context.Context, order *domain.Order, event *OutboxEvent) error
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	MarkOrderCompleted(ctx context.Context, orderID string) error
	GetUnprocessedEvents(ctx context.Context, limit int64) ([]*OutboxEvent, error)
	MarkEventProcessed(ctx context.Context, eventID string) error
	// CreateIndexes establishes the unique idempotency_key constraint the
	// check-then-insert in checkout relies on, plus the outbox polling index.
	// Called once at startup before the store takes traffic.
	CreateIndexes(ctx context.Context) error
}
