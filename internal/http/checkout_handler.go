package http

import (
	"context"
	"net/http"
	"time"

	"github.com/foremade/cart-service/internal/domain"
	"github.com/foremade/cart-service/internal/pricing"
)

type checkoutAPI interface {
	Summary(ctx context.Context, id domain.Identity) (*domain.OrderSummary, pricing.GateResult, error)
	Checkout(ctx context.Context, id domain.Identity, idempotencyKey string) (*domain.Order, error)
}

type CheckoutHandler struct {
	checkout checkoutAPI
	timeout  time.Duration
}

func NewCheckoutHandler(checkout checkoutAPI, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type SummaryResponseDTO struct {
	Summary *domain.OrderSummary `json:"summary"`
	Gate    pricing.GateResult   `json:"gate"`
}

// Summary returns the priced order summary plus the gate evaluation so the
// client can show exactly why checkout is unavailable.
func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := getIdentity(r.Context())
	if id.IsZero() {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user or guest identity")
		return
	}

	summary, gate, err := h.checkout.Summary(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SummaryResponseDTO{Summary: summary, Gate: gate})
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := getIdentity(r.Context())
	if id.IsZero() {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user or guest identity")
		return
	}

	order, err := h.checkout.Checkout(ctx, id, r.Header.Get("Idempotency-Key"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}
