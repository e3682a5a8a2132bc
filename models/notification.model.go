package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Broadcast audiences
const (
	AudienceAll       = "all"
	AudienceCustomers = "customers"
	AudiencePartners  = "delivery_partners"
)

// Broadcast lifecycle. "sent" means the fan-out finished, regardless of how
// many individual deliveries succeeded.
const (
	NotificationSending = "sending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// IsValidAudience reports whether a is a supported broadcast audience.
func IsValidAudience(a string) bool {
	return a == AudienceAll || a == AudienceCustomers || a == AudiencePartners
}

// NotificationMetrics are the final fan-out counters.
type NotificationMetrics struct {
	TotalTarget int `bson:"totalTarget" json:"totalTarget"`
	Delivered   int `bson:"delivered" json:"delivered"`
	Failed      int `bson:"failed" json:"failed"`
}

// AdminNotification records one admin broadcast. Created with status
// "sending" before the fan-out starts so a record exists even if the process
// dies mid-send, then updated exactly once with the final metrics.
type AdminNotification struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Title          string              `bson:"title" json:"title"`
	Message        string              `bson:"message" json:"message"`
	TargetAudience string              `bson:"targetAudience" json:"targetAudience"`
	Status         string              `bson:"status" json:"status"`
	Metrics        NotificationMetrics `bson:"metrics" json:"metrics"`
	SentAt         time.Time           `bson:"sentAt" json:"sentAt"`
	CreatedBy      primitive.ObjectID  `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}
