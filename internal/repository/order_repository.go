package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foremade/cart-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoOrderRepository struct {
	orders *mongo.Collection
	outbox *mongo.Collection
	client *mongo.Client
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{
		orders: db.Collection("orders"),
		outbox: db.Collection("outbox_events"),
		client: db.Client(),
	}
}

// CreateOrderWithOutbox writes the order and its outbox event in a single
// transaction. The cart is cleared later by the checkout consumer once the
// event reaches the bus, so neither side can be lost to a crash in between.
func (m *mongoOrderRepository) CreateOrderWithOutbox(ctx context.Context, order *domain.Order, event *OutboxEvent) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, errInsert := m.orders.InsertOne(sc, order); errInsert != nil {
			return nil, fmt.Errorf("failed to insert order: %w", errInsert)
		}
		if _, errInsert := m.outbox.InsertOne(sc, event); errInsert != nil {
			return nil, fmt.Errorf("failed to insert outbox event: %w", errInsert)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to create order with outbox: %w", err)
	}

	return nil
}

func (m *mongoOrderRepository) GetOrderByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	var order domain.Order

	filter := bson.M{"idempotency_key": key}
	err := m.orders.FindOne(ctx, filter).Decode(&order)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by idempotency key: %w", err)
	}

	return &order, nil
}

// MarkOrderCompleted transitions the order out of CREATED once the checkout
// consumer has cleared the buyer's cart.
func (m *mongoOrderRepository) MarkOrderCompleted(ctx context.Context, orderID string) error {
	filter := bson.M{"_id": orderID}
	update := bson.M{"$set": bson.M{"status": domain.OrderStatusCompleted, "completed_at": time.Now()}}

	result, err := m.orders.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark order completed: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (m *mongoOrderRepository) GetUnprocessedEvents(ctx context.Context, limit int64) ([]*OutboxEvent, error) {
	filter := bson.M{"processed": false}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(limit)

	cursor, err := m.outbox.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outbox events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*OutboxEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode outbox events: %w", err)
	}

	return events, nil
}

func (m *mongoOrderRepository) MarkEventProcessed(ctx context.Context, eventID string) error {
	filter := bson.M{"_id": eventID}
	update := bson.M{"$set": bson.M{"processed": true, "processed_at": time.Now()}}

	result, err := m.outbox.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark event as processed: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("outbox event %s not found", eventID)
	}

	return nil
}

func (m *mongoOrderRepository) CreateIndexes(ctx context.Context) error {
	_, err := m.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}

	_, err = m.outbox.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "processed", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create outbox indexes: %w", err)
	}

	return nil
}
