package pricing

import (
	"time"

	"github.com/foremade/cart-service/internal/domain"
)

// ActiveDiscount returns the discount percentage (0-100) applicable to
// productID at now, or 0 when no deal is running. When promotions overlap
// for the same product the highest discount wins.
func ActiveDiscount(promos []domain.Promotion, productID string, now time.Time) float64 {
	best := 0.0
	for _, p := range promos {
		if p.ProductID != productID || !p.ActiveAt(now) {
			continue
		}
		if p.DiscountPercent > best {
			best = p.DiscountPercent
		}
	}
	if best > 100 {
		return 100
	}
	return best
}
