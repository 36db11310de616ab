package domain

import "time"

type Cart struct {
	ID        string      `bson:"_id,omitempty" json:"-"`
	OwnerID   string      `bson:"owner_id" json:"owner_id"`
	Entries   []CartEntry `bson:"entries" json:"entries"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updated_at"`
}

type CartEntry struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	Variant   *Variant  `bson:"variant,omitempty" json:"variant,omitempty"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// Variant overrides the base product price/image when the buyer picked a
// specific size or color listing.
type Variant struct {
	Price    *float64 `bson:"price,omitempty" json:"price,omitempty"`
	ImageURL string   `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// Entry returns a pointer to the entry for productID, or nil.
func (c *Cart) Entry(productID string) *CartEntry {
	for i := range c.Entries {
		if c.Entries[i].ProductID == productID {
			return &c.Entries[i]
		}
	}
	return nil
}

// TotalQuantity sums quantities across all entries.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, e := range c.Entries {
		total += e.Quantity
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}
