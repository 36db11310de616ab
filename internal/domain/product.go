package domain

// ProductSnapshot is the validated, point-in-time view of a product that
// pricing needs. Raw product documents are untrusted; they only become a
// snapshot through pricing.ResolveSnapshot.
type ProductSnapshot struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Stock     int      `json:"stock"`
	Category  string   `json:"category"`
	ImageURL  string   `json:"image_url"`
	Colors    []string `json:"colors,omitempty"`
	Sizes     []string `json:"sizes,omitempty"`
	Condition string   `json:"condition,omitempty"`
	SellerID  string   `json:"seller_id,omitempty"`
}

// EffectivePrice is the snapshot price unless the cart entry carries a
// variant price override.
func (p ProductSnapshot) EffectivePrice(v *Variant) float64 {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}
