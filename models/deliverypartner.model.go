package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Delivery partner vehicle types
var VehicleTypes = []string{"Bike", "Scooter", "Car", "Van", "Truck"}

// Delivery partner availability states
const (
	PartnerAvailable = "Available"
	PartnerBusy      = "Busy"
	PartnerOffline   = "Offline"
)

// DeliveryPartner represents a delivery rider/driver
type DeliveryPartner struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Phone         string             `bson:"phone" json:"phone"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password,omitempty" json:"-"`
	VehicleType   string             `bson:"vehicleType" json:"vehicleType"`
	VehicleNumber string             `bson:"vehicleNumber" json:"vehicleNumber"`
	LicenseNumber string             `bson:"licenseNumber" json:"licenseNumber"`
	Status        string             `bson:"status" json:"status"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	FCMToken      string             `bson:"fcmToken,omitempty" json:"-"`
	CreatedBy     primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsValidVehicleType reports whether v is one of the supported vehicle types.
func IsValidVehicleType(v string) bool {
	for _, t := range VehicleTypes {
		if t == v {
			return true
		}
	}
	return false
}
