package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MongoConfig carries the connection settings the repository layer needs.
type MongoConfig struct {
	URI              string
	Database         string
	MaxPoolSize      uint64
	MinPoolSize      uint64
	ConnectTimeout   time.Duration
	SelectionTimeout time.Duration
}

type Config struct {
	HTTPPort      string
	Mongo         MongoConfig
	RedisAddr     string
	RedisPassword string
	KafkaBrokers  []string

	// Checkout policy. MinimumPurchase is in the configured currency's base
	// unit; BasketCeiling caps the summed quantity across all entries.
	MinimumPurchase float64
	BasketCeiling   int
	Currency        string

	GuestCartTTL    time.Duration
	CacheTTL        time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment with local-dev defaults.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "foremade")
	v.SetDefault("MONGO_MAX_POOL_SIZE", 100)
	v.SetDefault("MONGO_MIN_POOL_SIZE", 10)
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")
	v.SetDefault("MONGO_SELECTION_TIMEOUT", "5s")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("MINIMUM_PURCHASE", 25000.0)
	v.SetDefault("BASKET_CEILING", 20)
	v.SetDefault("CURRENCY", "NGN")
	v.SetDefault("GUEST_CART_TTL", "720h") // 30 days
	v.SetDefault("CACHE_TTL", "15m")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	return &Config{
		HTTPPort: v.GetString("HTTP_PORT"),
		Mongo: MongoConfig{
			URI:              v.GetString("MONGO_URI"),
			Database:         v.GetString("MONGO_DB_NAME"),
			MaxPoolSize:      v.GetUint64("MONGO_MAX_POOL_SIZE"),
			MinPoolSize:      v.GetUint64("MONGO_MIN_POOL_SIZE"),
			ConnectTimeout:   v.GetDuration("MONGO_CONNECT_TIMEOUT"),
			SelectionTimeout: v.GetDuration("MONGO_SELECTION_TIMEOUT"),
		},
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		KafkaBrokers:    strings.Split(v.GetString("KAFKA_BROKERS"), ","),
		MinimumPurchase: v.GetFloat64("MINIMUM_PURCHASE"),
		BasketCeiling:   v.GetInt("BASKET_CEILING"),
		Currency:        v.GetString("CURRENCY"),
		GuestCartTTL:    v.GetDuration("GUEST_CART_TTL"),
		CacheTTL:        v.GetDuration("CACHE_TTL"),
		RequestTimeout:  v.GetDuration("REQUEST_TIMEOUT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
}
