package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-grocery/models"
)

// CartStore persists the one-cart-per-customer singleton documents.
type CartStore struct {
	col *mongo.Collection
}

// NewCartStore creates a CartStore over the carts collection.
func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{col: db.Collection("carts")}
}

// FindByCustomer returns the customer's cart, or nil when none exists yet.
func (s *CartStore) FindByCustomer(ctx context.Context, customerID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.col.FindOne(ctx, bson.M{"customer": customerID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save inserts a new cart or replaces an existing one.
func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	if cart.ID.IsZero() {
		cart.CreatedAt = cart.UpdatedAt
		result, err := s.col.InsertOne(ctx, cart)
		if err != nil {
			return err
		}
		cart.ID = result.InsertedID.(primitive.ObjectID)
		return nil
	}

	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": cart.ID}, cart)
	return err
}
