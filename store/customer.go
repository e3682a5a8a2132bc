package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-grocery/models"
)

// CustomerStore reads and updates customers on behalf of the order engine
// and the notification fan-out.
type CustomerStore struct {
	col *mongo.Collection
}

// NewCustomerStore creates a CustomerStore over the customers collection.
func NewCustomerStore(db *mongo.Database) *CustomerStore {
	return &CustomerStore{col: db.Collection("customers")}
}

// FindByID returns the customer with the given id, or nil when absent.
func (s *CustomerStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByIDs returns the customers matching ids, keyed by id.
func (s *CustomerStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Customer, error) {
	out := make(map[primitive.ObjectID]models.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var customer models.Customer
		if err := cursor.Decode(&customer); err != nil {
			return nil, err
		}
		out[customer.ID] = customer
	}
	return out, cursor.Err()
}

// SearchIDs returns the ids of customers whose name or phone contains query,
// case-insensitively.
func (s *CustomerStore) SearchIDs(ctx context.Context, query string) ([]primitive.ObjectID, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"name": bson.M{"$regex": query, "$options": "i"}},
		bson.M{"phone": bson.M{"$regex": query, "$options": "i"}},
	}}

	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

// ListWithTokens returns active customers holding a push token.
func (s *CustomerStore) ListWithTokens(ctx context.Context) ([]models.Customer, error) {
	filter := bson.M{
		"isActive": true,
		"fcmToken": bson.M{"$exists": true, "$nin": bson.A{nil, ""}},
	}

	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var customers []models.Customer
	for cursor.Next(ctx) {
		var customer models.Customer
		if err := cursor.Decode(&customer); err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, cursor.Err()
}

// ClearToken removes a customer's push token after an invalid-token failure.
func (s *CustomerStore) ClearToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"fcmToken": nil}})
	return err
}
