package poller

import (
	"context"
	"encoding/json"
	"errors"

	c "github.com/foremade/cart-service/internal/cache"
	"github.com/foremade/cart-service/internal/domain"
	r "github.com/foremade/cart-service/internal/repository"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// CheckoutConsumer finishes a checkout once its event lands on the bus: the
// buyer's cart is cleared and the order is marked COMPLETED. Both steps are
// idempotent, so redelivery is harmless.
type CheckoutConsumer struct {
	repo   r.CartRepository
	orders r.OrderRepository
	cache  c.CartCache
	reader *kafka.Reader
	logger zerolog.Logger
}

func NewCheckoutConsumer(repo r.CartRepository, orders r.OrderRepository, cartCache c.CartCache, logger zerolog.Logger, brokers ...string) *CheckoutConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "checkout-completed",
		GroupID:  "cart-service-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &CheckoutConsumer{
		repo:   repo,
		orders: orders,
		cache:  cartCache,
		reader: reader,
		logger: logger.With().Str("component", "checkout_consumer").Logger(),
	}
}

func (p *CheckoutConsumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.consumeNext(ctx)
	}
}

func (p *CheckoutConsumer) Close() {
	if err := p.reader.Close(); err != nil {
		p.logger.Warn().Err(err).Msg("error closing kafka reader")
	}
}

func (p *CheckoutConsumer) consumeNext(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error().Err(err).Msg("error reading message")
		}
		return
	}

	var event domain.CheckoutCompletedEvent
	if errUnmarshal := json.Unmarshal(m.Value, &event); errUnmarshal != nil {
		p.logger.Error().Err(errUnmarshal).Msg("error parsing checkout event")
		return
	}

	p.handleCheckoutCompleted(ctx, event)
}

func (p *CheckoutConsumer) handleCheckoutCompleted(ctx context.Context, event domain.CheckoutCompletedEvent) {
	if event.UserID == "" {
		p.logger.Error().Msg("checkout event missing user_id")
		return
	}

	errDelete := p.repo.DeleteCart(ctx, event.UserID)
	if errDelete != nil && !errors.Is(errDelete, r.ErrCartNotFound) {
		p.logger.Error().Err(errDelete).Str("user_id", event.UserID).Msg("failed to delete cart")
		return
	}

	if errCacheDelete := p.cache.Delete(ctx, event.UserID); errCacheDelete != nil {
		p.logger.Warn().Err(errCacheDelete).Str("user_id", event.UserID).Msg("failed to delete cached cart")
	}

	if errComplete := p.orders.MarkOrderCompleted(ctx, event.OrderID); errComplete != nil && !errors.Is(errComplete, r.ErrOrderNotFound) {
		p.logger.Error().Err(errComplete).Str("order_id", event.OrderID).Msg("failed to mark order completed")
		return
	}

	p.logger.Info().
		Str("user_id", event.UserID).
		Str("order_id", event.OrderID).
		Msg("checkout finished, cart cleared")
}
