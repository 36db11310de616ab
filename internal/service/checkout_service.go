package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/foremade/cart-service/internal/domain"
	"github.com/foremade/cart-service/internal/pricing"
	"github.com/foremade/cart-service/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const checkoutCompletedEventType = "checkout.completed"

// CheckoutPolicy holds the basket-level limits the gate enforces.
type CheckoutPolicy struct {
	MinimumPurchase float64
	BasketCeiling   int
	Currency        string
}

type CheckoutService struct {
	carts    *CartService
	products repository.ProductRepository
	fees     repository.FeeConfigRepository
	promos   repository.PromotionRepository
	settings repository.SettingsRepository
	orders   repository.OrderRepository
	policy   CheckoutPolicy
	logger   zerolog.Logger
	now      func() time.Time
}

func NewCheckoutService(
	carts *CartService,
	products repository.ProductRepository,
	fees repository.FeeConfigRepository,
	promos repository.PromotionRepository,
	settings repository.SettingsRepository,
	orders repository.OrderRepository,
	policy CheckoutPolicy,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		products: products,
		fees:     fees,
		promos:   promos,
		settings: settings,
		orders:   orders,
		policy:   policy,
		logger:   logger.With().Str("component", "checkout_service").Logger(),
		now:      time.Now,
	}
}

// pricingInputs is everything the pure pricing layer needs, resolved fresh
// from the backing stores.
type pricingInputs struct {
	snapshots       map[string]domain.ProductSnapshot
	feeTable        pricing.FeeTable
	promotions      []domain.Promotion
	minimumPurchase float64
}

func (s *CheckoutService) resolveInputs(ctx context.Context, entries []domain.CartEntry) (*pricingInputs, error) {
	snapshots := make(map[string]domain.ProductSnapshot, len(entries))
	productIDs := make([]string, 0, len(entries))

	for _, entry := range entries {
		productIDs = append(productIDs, entry.ProductID)

		raw, err := s.products.GetRaw(ctx, entry.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				continue // flagged as unavailable downstream
			}
			return nil, fmt.Errorf("failed to resolve product %s: %w", entry.ProductID, err)
		}

		snap, err := pricing.ResolveSnapshot(entry.ProductID, raw)
		if err != nil {
			continue
		}
		snapshots[entry.ProductID] = snap
	}

	feeTable := pricing.FallbackFeeTable()
	if schedules, err := s.fees.GetFeeTable(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("fee table unavailable, using fallback schedule")
	} else {
		feeTable = pricing.NewFeeTable(schedules)
	}

	promotions, err := s.promos.ListForProducts(ctx, productIDs)
	if err != nil {
		s.logger.Warn().Err(err).Msg("promotions unavailable, pricing without discounts")
		promotions = nil
	}

	minimum, err := s.settings.MinimumPurchase(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("minimum purchase setting unavailable, using configured default")
		minimum = s.policy.MinimumPurchase
	}

	return &pricingInputs{
		snapshots:       snapshots,
		feeTable:        feeTable,
		promotions:      promotions,
		minimumPurchase: minimum,
	}, nil
}

// Summary prices the identity's current cart and evaluates the checkout gate,
// both from the same resolved inputs so the displayed total is the checkout
// total.
func (s *CheckoutService) Summary(ctx context.Context, id domain.Identity) (*domain.OrderSummary, pricing.GateResult, error) {
	cart, err := s.carts.GetCart(ctx, id)
	if err != nil {
		return nil, pricing.GateResult{}, err
	}

	inputs, err := s.resolveInputs(ctx, cart.Entries)
	if err != nil {
		return nil, pricing.GateResult{}, err
	}

	summary := pricing.BuildOrderSummary(cart.Entries, inputs.snapshots, inputs.feeTable, inputs.promotions, s.now())
	gate := pricing.EvaluateGate(cart.Entries, inputs.snapshots, summary.GrandTotal, inputs.minimumPurchase, s.policy.BasketCeiling)

	return &summary, gate, nil
}

// Checkout re-validates the gate against freshly resolved snapshots (never
// client-cached ones), records the order together with its outbox event, and
// leaves cart clearing to the checkout consumer. Retries with the same
// idempotency key return the already-recorded order.
func (s *CheckoutService) Checkout(ctx context.Context, id domain.Identity, idempotencyKey string) (*domain.Order, error) {
	if id.IsGuest() {
		return nil, ErrAuthRequired
	}

	if idempotencyKey != "" {
		existing, err := s.orders.GetOrderByIdempotencyKey(ctx, idempotencyKey)
		if err != nil && !errors.Is(err, repository.ErrOrderNotFound) {
			return nil, fmt.Errorf("failed to check idempotency: %w", err)
		}
		if existing != nil {
			s.logger.Info().
				Str("idempotency_key", idempotencyKey).
				Str("order_id", existing.ID).
				Msg("duplicate checkout request, returning recorded order")
			return existing, nil
		}
	} else {
		idempotencyKey = uuid.NewString()
	}

	cart, err := s.carts.loadCart(ctx, id) // fresh read, bypasses the cache
	if err != nil {
		return nil, err
	}

	inputs, err := s.resolveInputs(ctx, cart.Entries)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := pricing.BuildOrderSummary(cart.Entries, inputs.snapshots, inputs.feeTable, inputs.promotions, now)
	gate := pricing.EvaluateGate(cart.Entries, inputs.snapshots, summary.GrandTotal, inputs.minimumPurchase, s.policy.BasketCeiling)

	if !gate.Allowed {
		// A stock failure here means stock moved between display and submit;
		// it is retriable after the buyer reviews the cart, unlike the other
		// gate reasons.
		if gate.Has(pricing.GateReasonStockExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrStaleStock, gate.StockIssues)
		}
		return nil, &BlockedError{Result: gate}
	}

	order := &domain.Order{
		ID:             uuid.NewString(),
		UserID:         id.Key(),
		IdempotencyKey: idempotencyKey,
		LineItems:      summary.LineItems,
		Subtotal:       summary.Subtotal,
		ShippingFee:    summary.ShippingFee,
		GrandTotal:     summary.GrandTotal,
		Currency:       s.policy.Currency,
		Status:         domain.OrderStatusCreated,
		CreatedAt:      now,
	}

	payload, err := json.Marshal(domain.CheckoutCompletedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		LineItems:   order.LineItems,
		GrandTotal:  order.GrandTotal,
		Currency:    order.Currency,
		CompletedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkout event: %w", err)
	}

	event := &repository.OutboxEvent{
		ID:          uuid.NewString(),
		AggregateID: order.ID,
		EventType:   checkoutCompletedEventType,
		Payload:     payload,
		CreatedAt:   now,
	}

	if err := s.orders.CreateOrderWithOutbox(ctx, order, event); err != nil {
		return nil, fmt.Errorf("failed to record order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Float64("grand_total", order.GrandTotal).
		Msg("order recorded")

	return order, nil
}
