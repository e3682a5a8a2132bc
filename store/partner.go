package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-grocery/models"
)

// PartnerStore reads and updates delivery partners for the notification
// fan-out.
type PartnerStore struct {
	col *mongo.Collection
}

// NewPartnerStore creates a PartnerStore over the deliverypartners collection.
func NewPartnerStore(db *mongo.Database) *PartnerStore {
	return &PartnerStore{col: db.Collection("deliverypartners")}
}

// ListWithTokens returns active partners holding a push token.
func (s *PartnerStore) ListWithTokens(ctx context.Context) ([]models.DeliveryPartner, error) {
	filter := bson.M{
		"isActive": true,
		"fcmToken": bson.M{"$exists": true, "$nin": bson.A{nil, ""}},
	}

	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var partners []models.DeliveryPartner
	for cursor.Next(ctx) {
		var partner models.DeliveryPartner
		if err := cursor.Decode(&partner); err != nil {
			return nil, err
		}
		partners = append(partners, partner)
	}
	return partners, cursor.Err()
}

// ClearToken removes a partner's push token after an invalid-token failure.
func (s *PartnerStore) ClearToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"fcmToken": nil}})
	return err
}
