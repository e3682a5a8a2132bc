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

// NotificationStore persists admin broadcast records.
type NotificationStore struct {
	col *mongo.Collection
}

// NewNotificationStore creates a NotificationStore over the
// adminnotifications collection.
func NewNotificationStore(db *mongo.Database) *NotificationStore {
	return &NotificationStore{col: db.Collection("adminnotifications")}
}

// Insert stores a new broadcast record and fills in its id.
func (s *NotificationStore) Insert(ctx context.Context, n *models.AdminNotification) error {
	n.CreatedAt = time.Now()
	result, err := s.col.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	n.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Update replaces the broadcast record with its final status and metrics.
func (s *NotificationStore) Update(ctx context.Context, n *models.AdminNotification) error {
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": n.ID}, n)
	return err
}

// FindByID returns the broadcast record with the given id, or nil.
func (s *NotificationStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminNotification, error) {
	var n models.AdminNotification
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns one page of broadcast records, newest first, plus the total
// record count.
func (s *NotificationStore) List(ctx context.Context, page, limit int) ([]models.AdminNotification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "sentAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	notifications := []models.AdminNotification{}
	for cursor.Next(ctx) {
		var n models.AdminNotification
		if err := cursor.Decode(&n); err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}
	return notifications, total, cursor.Err()
}
