package repository

import (
	"context"
	"testing"
	"time"

	"github.com/foremade/cart-service/internal/config"
	"github.com/foremade/cart-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// Transactions need a replica set, a standalone mongod rejects them.
func setupOrderTestDB(t *testing.T) (OrderRepository, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, config.MongoConfig{
		URI:              uri,
		Database:         "testdb",
		MaxPoolSize:      10,
		MinPoolSize:      1,
		ConnectTimeout:   10 * time.Second,
		SelectionTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	repo := NewMongoOrderRepository(db)
	require.NoError(t, repo.CreateIndexes(ctx))

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func testOrder(id, idempotencyKey string) *domain.Order {
	return &domain.Order{
		ID:             id,
		UserID:         "user123",
		IdempotencyKey: idempotencyKey,
		LineItems: []domain.LineItem{
			{ProductID: "p1", Quantity: 2, UnitPrice: 12500, Total: 28625},
		},
		Subtotal:   28625,
		GrandTotal: 28625,
		Currency:   "NGN",
		Status:     domain.OrderStatusCreated,
		CreatedAt:  time.Now(),
	}
}

func testEvent(id, orderID string) *OutboxEvent {
	return &OutboxEvent{
		ID:          id,
		AggregateID: orderID,
		EventType:   "checkout.completed",
		Payload:     []byte(`{"order_id":"` + orderID + `"}`),
		CreatedAt:   time.Now(),
	}
}

func TestMongoCreateOrderWithOutbox_ThenFindByKey(t *testing.T) {
	repo, cleanup := setupOrderTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.CreateOrderWithOutbox(ctx, testOrder("order-1", "key-1"), testEvent("evt-1", "order-1")))

	got, err := repo.GetOrderByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", got.ID)
	assert.Equal(t, domain.OrderStatusCreated, got.Status)
	assert.Equal(t, 28625.0, got.GrandTotal)

	_, err = repo.GetOrderByIdempotencyKey(ctx, "no-such-key")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMongoCreateOrderWithOutbox_DuplicateKeyRejected(t *testing.T) {
	repo, cleanup := setupOrderTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.CreateOrderWithOutbox(ctx, testOrder("order-1", "key-1"), testEvent("evt-1", "order-1")))

	// A concurrent retry that raced past the idempotency lookup must fail on
	// the unique index instead of recording a second order.
	err := repo.CreateOrderWithOutbox(ctx, testOrder("order-2", "key-1"), testEvent("evt-2", "order-2"))
	assert.Error(t, err)

	got, err := repo.GetOrderByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", got.ID)
}

func TestMongoOutboxEvents_FetchAndMarkProcessed(t *testing.T) {
	repo, cleanup := setupOrderTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.CreateOrderWithOutbox(ctx, testOrder("order-1", "key-1"), testEvent("evt-1", "order-1")))

	events, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "order-1", events[0].AggregateID)

	require.NoError(t, repo.MarkEventProcessed(ctx, "evt-1"))

	events, err = repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMongoMarkOrderCompleted(t *testing.T) {
	repo, cleanup := setupOrderTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.CreateOrderWithOutbox(ctx, testOrder("order-1", "key-1"), testEvent("evt-1", "order-1")))

	require.NoError(t, repo.MarkOrderCompleted(ctx, "order-1"))

	got, err := repo.GetOrderByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, got.Status)

	assert.ErrorIs(t, repo.MarkOrderCompleted(ctx, "no-such-order"), ErrOrderNotFound)
}
