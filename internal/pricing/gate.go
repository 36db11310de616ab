package pricing

import "github.com/foremade/cart-service/internal/domain"

type GateReason string

const (
	GateReasonEmptyCart      GateReason = "empty_cart"
	GateReasonStockExceeded  GateReason = "stock_exceeded"
	GateReasonBelowMinimum   GateReason = "below_minimum"
	GateReasonBasketTooLarge GateReason = "basket_too_large"
)

// GateResult reports checkout eligibility with every failing reason so the
// caller can render the precise message, not just "blocked".
type GateResult struct {
	Allowed     bool         `json:"allowed"`
	Reasons     []GateReason `json:"reasons,omitempty"`
	StockIssues []string     `json:"stock_issues,omitempty"`
}

func (g GateResult) Has(reason GateReason) bool {
	for _, r := range g.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}

// EvaluateGate runs the basket-level eligibility rules. Entries without a
// snapshot are skipped entirely; they are already excluded from the summary
// and the remaining valid entries are judged on their own.
func EvaluateGate(
	entries []domain.CartEntry,
	snapshots map[string]domain.ProductSnapshot,
	grandTotal float64,
	minimumPurchase float64,
	basketCeiling int,
) GateResult {
	result := GateResult{}

	valid := 0
	totalQuantity := 0
	for _, entry := range entries {
		snap, ok := snapshots[entry.ProductID]
		if !ok {
			continue
		}
		valid++
		totalQuantity += entry.Quantity
		if entry.Quantity > snap.Stock {
			result.StockIssues = append(result.StockIssues, entry.ProductID)
		}
	}

	if valid == 0 {
		result.Reasons = append(result.Reasons, GateReasonEmptyCart)
	}
	if len(result.StockIssues) > 0 {
		result.Reasons = append(result.Reasons, GateReasonStockExceeded)
	}
	if valid > 0 && grandTotal < minimumPurchase {
		result.Reasons = append(result.Reasons, GateReasonBelowMinimum)
	}
	if totalQuantity > basketCeiling {
		result.Reasons = append(result.Reasons, GateReasonBasketTooLarge)
	}

	result.Allowed = len(result.Reasons) == 0
	return result
}
