package domain

import "time"

type OrderStatus string

// An order starts CREATED and moves to COMPLETED once the checkout consumer
// has cleared the buyer's cart.
const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

// LineItem is one priced cart entry inside an order summary.
type LineItem struct {
	ProductID       string  `bson:"product_id" json:"product_id"`
	Name            string  `bson:"name" json:"name"`
	Quantity        int     `bson:"quantity" json:"quantity"`
	UnitPrice       float64 `bson:"unit_price" json:"unit_price"`
	DiscountPercent float64 `bson:"discount_percent" json:"discount_percent"`
	Total           float64 `bson:"total" json:"total"`
	ImageURL        string  `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// DiscountLine backs the "Discount on X: -NY" rows in the summary display.
type DiscountLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
}

// OrderSummary is fully derived from cart entries, snapshots, fee schedules
// and promotions; it is never hand-edited.
type OrderSummary struct {
	LineItems     []LineItem     `json:"line_items"`
	Unavailable   []string       `json:"unavailable,omitempty"`
	DiscountLines []DiscountLine `json:"discount_lines,omitempty"`
	Subtotal      float64        `json:"subtotal"`
	ShippingFee   float64        `json:"shipping_fee"`
	GrandTotal    float64        `json:"grand_total"`
}

// Order is the persisted record of a completed checkout.
type Order struct {
	ID             string      `bson:"_id" json:"id"`
	UserID         string      `bson:"user_id" json:"user_id"`
	IdempotencyKey string      `bson:"idempotency_key" json:"-"`
	LineItems      []LineItem  `bson:"line_items" json:"line_items"`
	Subtotal       float64     `bson:"subtotal" json:"subtotal"`
	ShippingFee    float64     `bson:"shipping_fee" json:"shipping_fee"`
	GrandTotal     float64     `bson:"grand_total" json:"grand_total"`
	Currency       string      `bson:"currency" json:"currency"`
	Status         OrderStatus `bson:"status" json:"status"`
	CreatedAt      time.Time   `bson:"created_at" json:"created_at"`
}
