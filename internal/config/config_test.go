package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "foremade", cfg.Mongo.Database)
	assert.Equal(t, uint64(100), cfg.Mongo.MaxPoolSize)
	assert.Equal(t, uint64(10), cfg.Mongo.MinPoolSize)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.Mongo.SelectionTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 25000.0, cfg.MinimumPurchase)
	assert.Equal(t, 20, cfg.BasketCeiling)
	assert.Equal(t, "NGN", cfg.Currency)
	assert.Equal(t, 720*time.Hour, cfg.GuestCartTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MONGO_MAX_POOL_SIZE", "25")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "3s")
	t.Setenv("BASKET_CEILING", "5")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := Load()

	assert.Equal(t, uint64(25), cfg.Mongo.MaxPoolSize)
	assert.Equal(t, 3*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, 5, cfg.BasketCeiling)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}
