package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/foremade/cart-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

const cartEventsTopic = "cart-events"

// CartEventPublisher broadcasts cart mutations to the bus; it is the explicit
// replacement for the browser-global "cartUpdated" event of the old front
// end.
type CartEventPublisher struct {
	writer *kafka.Writer
}

func NewCartEventPublisher(brokers ...string) *CartEventPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  cartEventsTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &CartEventPublisher{writer: w}
}

func (p *CartEventPublisher) PublishCartUpdated(ctx context.Context, event domain.CartEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cart event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OwnerID), // per-owner ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(event.Action)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *CartEventPublisher) Close() error {
	return p.writer.Close()
}
