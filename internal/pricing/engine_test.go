package pricing

import (
	"testing"
	"time"

	"github.com/foremade/cart-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultFees = domain.FeeSchedule{
	TaxRate:             0.075,
	BuyerProtectionRate: 0.02,
	HandlingRate:        0.05,
}

func feeTableWithDefault() FeeTable {
	return NewFeeTable(map[string]domain.FeeSchedule{"default": defaultFees})
}

func TestLineItemTotal_NoDiscount(t *testing.T) {
	// 5000 * 1.145 * 2 = 11450
	total := LineItemTotal(5000, 2, 0, defaultFees)
	assert.InDelta(t, 11450, total, 0.001)
}

func TestLineItemTotal_WithDiscount(t *testing.T) {
	// 10% off 1000 => 900, then fees and quantity
	total := LineItemTotal(1000, 3, 10, defaultFees)
	assert.InDelta(t, 900*1.145*3, total, 0.001)
}

func TestLineItemTotal_MonotonicInQuantityAndPrice(t *testing.T) {
	prev := 0.0
	for qty := 1; qty <= 10; qty++ {
		total := LineItemTotal(5000, qty, 0, defaultFees)
		assert.Greater(t, total, prev)
		prev = total
	}

	prev = 0.0
	for price := 100.0; price <= 1000; price += 100 {
		total := LineItemTotal(price, 2, 0, defaultFees)
		assert.Greater(t, total, prev)
		prev = total
	}
}

func TestLineItemTotal_DiscountNeverIncreasesTotal(t *testing.T) {
	base := LineItemTotal(5000, 4, 0, defaultFees)
	for pct := 0.0; pct <= 100; pct += 5 {
		discounted := LineItemTotal(5000, 4, pct, defaultFees)
		assert.LessOrEqual(t, discounted, base, "discount %.0f%% raised the total", pct)
	}
}

func snapshotFixture(id string, price float64, stock int) domain.ProductSnapshot {
	return domain.ProductSnapshot{
		ID:       id,
		Name:     "product " + id,
		Price:    price,
		Stock:    stock,
		Category: "default",
	}
}

func TestBuildOrderSummary_SingleEntry(t *testing.T) {
	entries := []domain.CartEntry{{ProductID: "p1", Quantity: 2}}
	snapshots := map[string]domain.ProductSnapshot{
		"p1": snapshotFixture("p1", 5000, 10),
	}

	summary := BuildOrderSummary(entries, snapshots, feeTableWithDefault(), nil, time.Now())

	require.Len(t, summary.LineItems, 1)
	assert.InDelta(t, 11450, summary.LineItems[0].Total, 0.001)
	assert.InDelta(t, 11450, summary.Subtotal, 0.001)
	assert.Equal(t, 0.0, summary.ShippingFee)
	assert.InDelta(t, 11450, summary.GrandTotal, 0.001)
	assert.Empty(t, summary.Unavailable)
	assert.Empty(t, summary.DiscountLines)
}

func TestBuildOrderSummary_GhostProductExcludedAndFlagged(t *testing.T) {
	entries := []domain.CartEntry{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "ghost", Quantity: 1},
	}
	snapshots := map[string]domain.ProductSnapshot{
		"p1": snapshotFixture("p1", 5000, 10),
	}

	summary := BuildOrderSummary(entries, snapshots, feeTableWithDefault(), nil, time.Now())

	require.Len(t, summary.LineItems, 1)
	assert.Equal(t, []string{"ghost"}, summary.Unavailable)
	assert.InDelta(t, 11450, summary.Subtotal, 0.001)
}

func TestBuildOrderSummary_ActivePromotionProducesDiscountLine(t *testing.T) {
	now := time.Now()
	entries := []domain.CartEntry{{ProductID: "p1", Quantity: 2}}
	snapshots := map[string]domain.ProductSnapshot{
		"p1": snapshotFixture("p1", 1000, 10),
	}
	promos := []domain.Promotion{{
		ProductID:       "p1",
		DiscountPercent: 25,
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
	}}

	summary := BuildOrderSummary(entries, snapshots, feeTableWithDefault(), promos, now)

	require.Len(t, summary.LineItems, 1)
	assert.InDelta(t, 750*1.145*2, summary.LineItems[0].Total, 0.001)
	require.Len(t, summary.DiscountLines, 1)
	assert.Equal(t, "p1", summary.DiscountLines[0].ProductID)
	assert.InDelta(t, 250*2, summary.DiscountLines[0].Amount, 0.001)
}

func TestBuildOrderSummary_VariantPriceOverride(t *testing.T) {
	variantPrice := 8000.0
	entries := []domain.CartEntry{{
		ProductID: "p1",
		Quantity:  1,
		Variant:   &domain.Variant{Price: &variantPrice},
	}}
	snapshots := map[string]domain.ProductSnapshot{
		"p1": snapshotFixture("p1", 5000, 10),
	}

	summary := BuildOrderSummary(entries, snapshots, feeTableWithDefault(), nil, time.Now())

	require.Len(t, summary.LineItems, 1)
	assert.InDelta(t, 8000, summary.LineItems[0].UnitPrice, 0.001)
	assert.InDelta(t, 8000*1.145, summary.LineItems[0].Total, 0.001)
}

// The cart display and the checkout summary share one formula, so the same
// inputs must produce the same totals no matter how often they are re-priced.
func TestBuildOrderSummary_Deterministic(t *testing.T) {
	now := time.Now()
	entries := []domain.CartEntry{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	}
	snapshots := map[string]domain.ProductSnapshot{
		"p1": snapshotFixture("p1", 5000, 10),
		"p2": snapshotFixture("p2", 1200, 4),
	}
	promos := []domain.Promotion{{
		ProductID:       "p2",
		DiscountPercent: 10,
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
	}}

	first := BuildOrderSummary(entries, snapshots, feeTableWithDefault(), promos, now)
	second := BuildOrderSummary(entries, snapshots, feeTableWithDefault(), promos, now)

	assert.Equal(t, first.Subtotal, second.Subtotal)
	assert.Equal(t, first.GrandTotal, second.GrandTotal)
	assert.Equal(t, first.LineItems, second.LineItems)
}

func TestBuildOrderSummary_EmptyCart(t *testing.T) {
	summary := BuildOrderSummary(nil, nil, feeTableWithDefault(), nil, time.Now())

	assert.Empty(t, summary.LineItems)
	assert.Equal(t, 0.0, summary.Subtotal)
	assert.Equal(t, 0.0, summary.GrandTotal)
}
