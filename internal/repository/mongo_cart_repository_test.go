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

func setupTestDB(t *testing.T) (CartRepository, func()) {
	ctx := context.Background()

	// Start MongoDB container
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
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

	repo := NewMongoCartRepository(db)
	require.NoError(t, repo.CreateIndexes(ctx))

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func TestMongoGetCart_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart, err := repo.GetCart(ctx, "nonexistent")

	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestMongoUpsertCart_CreatesThenReads(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{
		OwnerID: "user123",
		Entries: []domain.CartEntry{
			{ProductID: "p1", Quantity: 3},
		},
	}

	err := repo.UpsertCart(ctx, cart)
	require.NoError(t, err)
	assert.False(t, cart.CreatedAt.IsZero())

	got, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, "user123", got.OwnerID)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "p1", got.Entries[0].ProductID)
	assert.Equal(t, 3, got.Entries[0].Quantity)
}

func TestMongoUpsertCart_OverwritesEntries(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	first := &domain.Cart{
		OwnerID: "user123",
		Entries: []domain.CartEntry{{ProductID: "p1", Quantity: 2}},
	}
	require.NoError(t, repo.UpsertCart(ctx, first))

	price := 9900.0
	second := &domain.Cart{
		OwnerID: "user123",
		Entries: []domain.CartEntry{
			{ProductID: "p1", Quantity: 5, Variant: &domain.Variant{Price: &price}},
			{ProductID: "p2", Quantity: 1},
		},
	}
	require.NoError(t, repo.UpsertCart(ctx, second))

	got, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, 5, got.Entries[0].Quantity)
	require.NotNil(t, got.Entries[0].Variant)
	assert.Equal(t, 9900.0, *got.Entries[0].Variant.Price)
}

func TestMongoDeleteCart(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{
		OwnerID: "user123",
		Entries: []domain.CartEntry{{ProductID: "p1", Quantity: 1}},
	}
	require.NoError(t, repo.UpsertCart(ctx, cart))

	require.NoError(t, repo.DeleteCart(ctx, "user123"))

	_, err := repo.GetCart(ctx, "user123")
	assert.ErrorIs(t, err, ErrCartNotFound)

	// second delete reports not found
	err = repo.DeleteCart(ctx, "user123")
	assert.ErrorIs(t, err, ErrCartNotFound)
}
