package service

import (
	"errors"
	"fmt"

	"github.com/foremade/cart-service/internal/pricing"
)

var (
	// ErrInvalidInput marks caller-correctable argument errors (empty product
	// ID, non-positive add quantity). Never retried automatically.
	ErrInvalidInput = errors.New("invalid input")

	// ErrItemNotFound is returned when a quantity update targets a product
	// that is not in the cart.
	ErrItemNotFound = errors.New("item not found in cart")

	// ErrAuthRequired rejects checkout for anonymous identities. The cart is
	// preserved.
	ErrAuthRequired = errors.New("authentication required for checkout")

	// ErrStaleStock means the checkout re-check found a quantity above current
	// stock even though the client-side gate passed. Retriable after the
	// buyer reviews the cart.
	ErrStaleStock = errors.New("stock changed since cart was displayed")
)

// BlockedError carries the full gate result so callers can report every
// failing reason, not just that checkout was blocked.
type BlockedError struct {
	Result pricing.GateResult
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("checkout blocked: %v", e.Result.Reasons)
}
