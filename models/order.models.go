package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle statuses
const (
	StatusPlaced         = "Placed"
	StatusPacked         = "Packed"
	StatusShipped        = "Shipped"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

// Payment methods
const (
	PaymentCOD    = "COD"
	PaymentOnline = "Online"
)

// Payment statuses
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
)

// OrderStatuses is the closed set of valid order statuses.
var OrderStatuses = []string{
	StatusPlaced,
	StatusPacked,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// orderTransitions is the allow-list of status transitions. Every transition
// is currently permitted, including backward ones; tightening the workflow
// later is a data change here, not a code change.
var orderTransitions = func() map[string][]string {
	t := make(map[string][]string, len(OrderStatuses))
	for _, from := range OrderStatuses {
		t[from] = append([]string(nil), OrderStatuses...)
	}
	return t
}()

// IsValidOrderStatus reports whether s belongs to the closed status set.
func IsValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, v := range orderTransitions[from] {
		if v == to {
			return true
		}
	}
	return false
}

// OrderItem is an immutable snapshot of a cart line captured at checkout.
// Name, price and image are frozen; the product reference is kept for
// traceability only.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
}

// TrackingEntry is one step in an order's append-only status history.
type TrackingEntry struct {
	Status      string    `bson:"status" json:"status"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
	Description string    `bson:"description" json:"description"`
}

// Order represents a placed order. The item list never changes after
// creation; only status transitions mutate the record, each one appending a
// tracking entry. Invariant: the last tracking entry's status equals
// OrderStatus.
type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Customer        primitive.ObjectID  `bson:"customer" json:"customer"`
	DeliveryPartner *primitive.ObjectID `bson:"deliveryPartner,omitempty" json:"deliveryPartner,omitempty"`
	Items           []OrderItem         `bson:"items" json:"items"`
	ShippingAddress Address             `bson:"shippingAddress" json:"shippingAddress"`
	TotalAmount     float64             `bson:"totalAmount" json:"totalAmount"`
	PaymentMethod   string              `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus   string              `bson:"paymentStatus" json:"paymentStatus"`
	OrderStatus     string              `bson:"orderStatus" json:"orderStatus"`
	TrackingHistory []TrackingEntry     `bson:"trackingHistory" json:"trackingHistory"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ShortID returns the last six characters of the order id, used in customer
// facing notification text.
func (o *Order) ShortID() string {
	hex := o.ID.Hex()
	if len(hex) <= 6 {
		return hex
	}
	return hex[len(hex)-6:]
}

// OrderAdminView is an order joined with its customer summary for admin
// listings and search results.
type OrderAdminView struct {
	Order
	CustomerInfo *CustomerSummary `json:"customerInfo,omitempty"`
}
