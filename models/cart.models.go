package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one product line within a customer's cart. Price tracks the
// product's current effective price and is refreshed on every mutation.
type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

// Cart is a customer's shopping cart. One cart per customer; created lazily
// on first add and emptied, not deleted, at checkout.
type Cart struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Customer    primitive.ObjectID `bson:"customer" json:"customer"`
	Items       []CartItem         `bson:"items" json:"items"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Recalculate recomputes the derived total from the line items.
func (c *Cart) Recalculate() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.TotalAmount = total
}

// FindItem returns the index of the line holding productID, or -1.
func (c *Cart) FindItem(productID primitive.ObjectID) int {
	for i, item := range c.Items {
		if item.Product == productID {
			return i
		}
	}
	return -1
}

// RemoveItem drops the line at index i.
func (c *Cart) RemoveItem(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// CartLineView is a cart line joined with its live product summary.
type CartLineView struct {
	Product  ProductSummary `json:"product"`
	Quantity int            `json:"quantity"`
	Price    float64        `json:"price"`
}

// CartView is the customer-facing cart shape with products populated. A
// customer with no cart gets the empty shape, never a not-found error.
type CartView struct {
	ID          primitive.ObjectID `json:"id,omitempty"`
	Customer    primitive.ObjectID `json:"customer,omitempty"`
	Items       []CartLineView     `json:"items"`
	TotalAmount float64            `json:"totalAmount"`
}
