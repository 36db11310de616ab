package domain

// FeeSchedule holds the per-category multipliers applied on top of the base
// price. All rates are fractions in [0, 1).
type FeeSchedule struct {
	TaxRate             float64 `bson:"tax_rate" json:"tax_rate"`
	BuyerProtectionRate float64 `bson:"buyer_protection_rate" json:"buyer_protection_rate"`
	HandlingRate        float64 `bson:"handling_rate" json:"handling_rate"`
}

// Multiplier is the combined fee factor applied to a discounted unit price.
func (f FeeSchedule) Multiplier() float64 {
	return 1 + f.TaxRate + f.BuyerProtectionRate + f.HandlingRate
}
