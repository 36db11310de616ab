package pricing

import (
	"time"

	"github.com/foremade/cart-service/internal/domain"
)

// LineItemTotal computes the priced total for one cart line with the
// canonical formula used everywhere an amount is shown:
//
//	base * (1 - discountPercent/100) * (1 + tax + protection + handling) * qty
//
// The same formula backs the cart display and the checkout summary, so the
// two always agree for identical inputs.
func LineItemTotal(basePrice float64, quantity int, discountPercent float64, fees domain.FeeSchedule) float64 {
	discounted := basePrice - discountAmount(basePrice, discountPercent)
	return discounted * fees.Multiplier() * float64(quantity)
}

func discountAmount(basePrice, discountPercent float64) float64 {
	if discountPercent <= 0 {
		return 0
	}
	return basePrice * discountPercent / 100
}

// BuildOrderSummary prices every cart entry against its snapshot, fee
// schedule and any active deal. Entries whose product no longer resolves are
// excluded from totals and reported in Unavailable; pricing of the remaining
// entries is unaffected.
func BuildOrderSummary(
	entries []domain.CartEntry,
	snapshots map[string]domain.ProductSnapshot,
	fees FeeTable,
	promos []domain.Promotion,
	now time.Time,
) domain.OrderSummary {
	summary := domain.OrderSummary{
		LineItems:   []domain.LineItem{},
		ShippingFee: 0, // flat free-shipping policy
	}

	for _, entry := range entries {
		snap, ok := snapshots[entry.ProductID]
		if !ok {
			summary.Unavailable = append(summary.Unavailable, entry.ProductID)
			continue
		}

		unitPrice := snap.EffectivePrice(entry.Variant)
		discount := ActiveDiscount(promos, entry.ProductID, now)
		schedule := fees.Resolve(snap.Category)
		total := LineItemTotal(unitPrice, entry.Quantity, discount, schedule)

		imageURL := snap.ImageURL
		if entry.Variant != nil && entry.Variant.ImageURL != "" {
			imageURL = entry.Variant.ImageURL
		}

		summary.LineItems = append(summary.LineItems, domain.LineItem{
			ProductID:       entry.ProductID,
			Name:            snap.Name,
			Quantity:        entry.Quantity,
			UnitPrice:       unitPrice,
			DiscountPercent: discount,
			Total:           total,
			ImageURL:        imageURL,
		})

		if discount > 0 {
			summary.DiscountLines = append(summary.DiscountLines, domain.DiscountLine{
				ProductID: entry.ProductID,
				Name:      snap.Name,
				Amount:    discountAmount(unitPrice, discount) * float64(entry.Quantity),
			})
		}

		summary.Subtotal += total
	}

	summary.GrandTotal = summary.Subtotal + summary.ShippingFee
	return summary
}
