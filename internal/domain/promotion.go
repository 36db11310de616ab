package domain

import "time"

// Promotion is a time-boxed percentage discount tied to one product
// (a "daily deal"). DiscountPercent is stored as a percentage, 0-100.
type Promotion struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	ProductID       string    `bson:"product_id" json:"product_id"`
	DiscountPercent float64   `bson:"discount_percent" json:"discount_percent"`
	StartDate       time.Time `bson:"start_date" json:"start_date"`
	EndDate         time.Time `bson:"end_date" json:"end_date"`
}

// ActiveAt reports whether the deal window contains now. Both ends of the
// window are inclusive.
func (p Promotion) ActiveAt(now time.Time) bool {
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}
