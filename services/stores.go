// Package services holds the business engines: cart rules, the order
// lifecycle and the broadcast fan-out. Engines depend on narrow store
// interfaces so tests run against in-memory fakes; the mongo-backed
// implementations live in the store package.
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-grocery/models"
)

// ProductReader loads products for cart pricing and order snapshots.
type ProductReader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
}

// CartStore loads and saves the per-customer cart singleton.
type CartStore interface {
	FindByCustomer(ctx context.Context, customerID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

// OrderStore persists orders and runs the admin queries.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindForCustomer(ctx context.Context, id, customerID primitive.ObjectID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	Search(ctx context.Context, customerIDs []primitive.ObjectID, orderID *primitive.ObjectID) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
}

// CustomerStore exposes the customer reads and token cleanup the engines
// need.
type CustomerStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Customer, error)
	SearchIDs(ctx context.Context, query string) ([]primitive.ObjectID, error)
	ListWithTokens(ctx context.Context) ([]models.Customer, error)
	ClearToken(ctx context.Context, id primitive.ObjectID) error
}

// PartnerStore exposes the delivery partner reads and token cleanup the
// fan-out needs.
type PartnerStore interface {
	ListWithTokens(ctx context.Context) ([]models.DeliveryPartner, error)
	ClearToken(ctx context.Context, id primitive.ObjectID) error
}

// NotificationStore persists broadcast records.
type NotificationStore interface {
	Insert(ctx context.Context, n *models.AdminNotification) error
	Update(ctx context.Context, n *models.AdminNotification) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminNotification, error)
	List(ctx context.Context, page, limit int) ([]models.AdminNotification, int64, error)
}

// PushSender delivers a push notification to one device token. Invalid-token
// failures wrap utils.ErrInvalidToken.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// Mailer sends the order confirmation email.
type Mailer interface {
	SendOrderConfirmation(toEmail, toName, orderID string, totalAmount float64) error
}
