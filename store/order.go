package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-grocery/models"
)

// OrderStore persists orders. Orders are only ever inserted and replaced;
// there is no delete path.
type OrderStore struct {
	col *mongo.Collection
}

// NewOrderStore creates an OrderStore over the orders collection.
func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{col: db.Collection("orders")}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

// Insert stores a new order and fills in its id.
func (s *OrderStore) Insert(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	result, err := s.col.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID returns the order with the given id, or nil when absent.
func (s *OrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// FindForCustomer returns the order only if it belongs to the customer; the
// ownership check is part of the query predicate.
func (s *OrderStore) FindForCustomer(ctx context.Context, id, customerID primitive.ObjectID) (*models.Order, error) {
	return s.findOne(ctx, bson.M{"_id": id, "customer": customerID})
}

func (s *OrderStore) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	err := s.col.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (s *OrderStore) ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	return s.list(ctx, bson.M{"customer": customerID})
}

// ListAll returns every order, newest first.
func (s *OrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.list(ctx, bson.M{})
}

// Search returns the union of orders owned by any of customerIDs and (when
// orderID is non-nil) the order with that exact id, newest first.
func (s *OrderStore) Search(ctx context.Context, customerIDs []primitive.ObjectID, orderID *primitive.ObjectID) ([]models.Order, error) {
	or := bson.A{bson.M{"customer": bson.M{"$in": customerIDs}}}
	if orderID != nil {
		or = append(or, bson.M{"_id": *orderID})
	}
	return s.list(ctx, bson.M{"$or": or})
}

func (s *OrderStore) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := s.col.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, cursor.Err()
}

// Update replaces the order document, bumping its update time.
func (s *OrderStore) Update(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now()
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	return err
}
