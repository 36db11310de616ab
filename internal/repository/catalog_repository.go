package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/foremade/cart-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection("products"),
	}
}

// GetRaw returns the product document as stored, without validation. Stale
// cart entries can reference deleted products, so not-found is a distinct
// result rather than a generic failure.
func (m *mongoProductRepository) GetRaw(ctx context.Context, productID string) (bson.M, error) {
	var raw bson.M

	filter := bson.M{"_id": productID}
	err := m.collection.FindOne(ctx, filter).Decode(&raw)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return raw, nil
}

type mongoFeeConfigRepository struct {
	collection *mongo.Collection
}

func NewMongoFeeConfigRepository(db *mongo.Database) FeeConfigRepository {
	return &mongoFeeConfigRepository{
		collection: db.Collection("fee_configurations"),
	}
}

type feeConfigDoc struct {
	Schedules map[string]domain.FeeSchedule `bson:"schedules"`
}

func (m *mongoFeeConfigRepository) GetFeeTable(ctx context.Context) (map[string]domain.FeeSchedule, error) {
	var doc feeConfigDoc

	err := m.collection.FindOne(ctx, bson.M{"_id": "current"}).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to get fee table: %w", err)
	}

	return doc.Schedules, nil
}

type mongoPromotionRepository struct {
	collection *mongo.Collection
}

func NewMongoPromotionRepository(db *mongo.Database) PromotionRepository {
	return &mongoPromotionRepository{
		collection: db.Collection("daily_deals"),
	}
}

func (m *mongoPromotionRepository) ListForProducts(ctx context.Context, productIDs []string) ([]domain.Promotion, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	filter := bson.M{"product_id": bson.M{"$in": productIDs}}
	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	defer cursor.Close(ctx)

	var promos []domain.Promotion
	if err := cursor.All(ctx, &promos); err != nil {
		return nil, fmt.Errorf("failed to decode promotions: %w", err)
	}

	return promos, nil
}

type mongoSettingsRepository struct {
	collection *mongo.Collection
	fallback   float64
}

// NewMongoSettingsRepository reads platform settings; fallback is returned
// when the minimum-purchase setting is absent.
func NewMongoSettingsRepository(db *mongo.Database, fallback float64) SettingsRepository {
	return &mongoSettingsRepository{
		collection: db.Collection("settings"),
		fallback:   fallback,
	}
}

func (m *mongoSettingsRepository) MinimumPurchase(ctx context.Context) (float64, error) {
	var doc struct {
		Amount float64 `bson:"amount"`
	}

	err := m.collection.FindOne(ctx, bson.M{"_id": "minimum_purchase"}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return m.fallback, nil
		}
		return 0, fmt.Errorf("failed to get minimum purchase: %w", err)
	}

	if doc.Amount <= 0 {
		return m.fallback, nil
	}
	return doc.Amount, nil
}
