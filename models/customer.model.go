package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a customer delivery address
type Address struct {
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Zip       string `bson:"zip" json:"zip"`
	Type      string `bson:"type" json:"type"` // "Home", "Work" or "Other"
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

// Customer represents a registered shopper
type Customer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone" json:"phone"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Addresses []Address          `bson:"addresses" json:"addresses"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	FCMToken  string             `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CustomerSummary is the shape joined into admin order views.
type CustomerSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Phone string             `json:"phone"`
	Email string             `json:"email"`
}

// Summary projects a customer into its order-view shape.
func (c *Customer) Summary() CustomerSummary {
	return CustomerSummary{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email}
}
