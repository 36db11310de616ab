package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	c "github.com/foremade/cart-service/internal/cache"
	"github.com/foremade/cart-service/internal/config"
	h "github.com/foremade/cart-service/internal/http"
	"github.com/foremade/cart-service/internal/poller"
	"github.com/foremade/cart-service/internal/publisher"
	"github.com/foremade/cart-service/internal/repository"
	s "github.com/foremade/cart-service/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load()

	// Set up MongoDB connection
	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	logger.Info().Str("uri", cfg.Mongo.URI).Msg("connected to MongoDB")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("redis ping succeeded")

	// Repositories
	cartRepo := repository.NewMongoCartRepository(mongoDB)
	guestRepo := repository.NewRedisGuestRepository(redisClient, cfg.GuestCartTTL)
	productRepo := repository.NewMongoProductRepository(mongoDB)
	feeRepo := repository.NewMongoFeeConfigRepository(mongoDB)
	promoRepo := repository.NewMongoPromotionRepository(mongoDB)
	settingsRepo := repository.NewMongoSettingsRepository(mongoDB, cfg.MinimumPurchase)
	orderRepo := repository.NewMongoOrderRepository(mongoDB)

	// The unique owner_id and idempotency_key constraints must exist before
	// any request is served; checkout's duplicate detection depends on them.
	if err := cartRepo.CreateIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to create cart indexes")
	}
	if err := orderRepo.CreateIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to create order indexes")
	}

	cartCache := c.NewRedisCache(redisClient, cfg.CacheTTL)

	cartEvents := publisher.NewCartEventPublisher(cfg.KafkaBrokers...)
	defer cartEvents.Close()

	cartService := s.NewCartService(cartRepo, guestRepo, cartCache, cartEvents, logger)
	checkoutService := s.NewCheckoutService(
		cartService,
		productRepo,
		feeRepo,
		promoRepo,
		settingsRepo,
		orderRepo,
		s.CheckoutPolicy{
			MinimumPurchase: cfg.MinimumPurchase,
			BasketCeiling:   cfg.BasketCeiling,
			Currency:        cfg.Currency,
		},
		logger,
	)

	// Background workers: outbox -> Kafka, Kafka -> cart cleanup.
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	outboxPoller := publisher.NewOutboxPoller(orderRepo, logger, cfg.KafkaBrokers...)
	defer outboxPoller.Close()
	go outboxPoller.Run(workerCtx)

	checkoutConsumer := poller.NewCheckoutConsumer(cartRepo, orderRepo, cartCache, logger, cfg.KafkaBrokers...)
	defer checkoutConsumer.Close()
	go checkoutConsumer.Run(workerCtx)

	cartHandler := h.NewCartHandler(cartService, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutService, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.IdentityMiddleware)
	r.Use(h.LoggerMiddleware(logger))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Post("/merge", cartHandler.MergeGuestCart)
			r.Get("/summary", checkoutHandler.Summary)
		})
		r.Post("/checkout", checkoutHandler.Checkout)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("cart service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down cart service...")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("mongo disconnect error")
	}

	logger.Info().Msg("cart service stopped")
}
