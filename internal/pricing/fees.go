package pricing

import (
	"strings"

	"github.com/foremade/cart-service/internal/domain"
)

// fallbackSchedule is used when the fee configuration cannot be fetched at
// all. One fallback serves both the cart display and the checkout summary so
// the two can never disagree.
var fallbackSchedule = domain.FeeSchedule{
	TaxRate:             0.075,
	BuyerProtectionRate: 0.02,
	HandlingRate:        0.05,
}

// FeeTable resolves fee schedules by product category. Lookups are
// case-insensitive; unconfigured categories fall back to the table's
// "default" entry.
type FeeTable struct {
	schedules map[string]domain.FeeSchedule
}

func NewFeeTable(schedules map[string]domain.FeeSchedule) FeeTable {
	normalized := make(map[string]domain.FeeSchedule, len(schedules))
	for category, schedule := range schedules {
		normalized[strings.ToLower(category)] = schedule
	}
	return FeeTable{schedules: normalized}
}

// FallbackFeeTable is the table used when fee configuration is unavailable.
func FallbackFeeTable() FeeTable {
	return NewFeeTable(map[string]domain.FeeSchedule{"default": fallbackSchedule})
}

func (t FeeTable) Resolve(category string) domain.FeeSchedule {
	if schedule, ok := t.schedules[strings.ToLower(category)]; ok {
		return schedule
	}
	if schedule, ok := t.schedules["default"]; ok {
		return schedule
	}
	return fallbackSchedule
}
