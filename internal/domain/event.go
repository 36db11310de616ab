package domain

import "time"

type CartAction string

const (
	CartActionAdd    CartAction = "add"
	CartActionUpdate CartAction = "update"
	CartActionRemove CartAction = "remove"
	CartActionClear  CartAction = "clear"
	CartActionMerge  CartAction = "merge"
)

// CartEvent is published after every successful cart mutation so interested
// views can re-read instead of keeping derived copies.
type CartEvent struct {
	OwnerID    string     `json:"owner_id"`
	Guest      bool       `json:"guest"`
	Action     CartAction `json:"action"`
	ProductID  string     `json:"product_id,omitempty"`
	Quantity   int        `json:"quantity,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// CheckoutCompletedEvent is the outbox payload emitted once an order has been
// recorded; consumers clear the user's cart on receipt.
type CheckoutCompletedEvent struct {
	OrderID     string     `json:"order_id"`
	UserID      string     `json:"user_id"`
	LineItems   []LineItem `json:"line_items"`
	GrandTotal  float64    `json:"grand_total"`
	Currency    string     `json:"currency"`
	CompletedAt time.Time  `json:"completed_at"`
}
