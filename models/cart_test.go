package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecalculate(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Product: primitive.NewObjectID(), Quantity: 2, Price: 50},
		{Product: primitive.NewObjectID(), Quantity: 3, Price: 10.5},
	}}
	cart.Recalculate()
	assert.Equal(t, 131.5, cart.TotalAmount)

	cart.Items = nil
	cart.Recalculate()
	assert.Equal(t, 0.0, cart.TotalAmount)
}

func TestFindAndRemoveItem(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	cart := Cart{Items: []CartItem{
		{Product: first, Quantity: 1, Price: 10},
		{Product: second, Quantity: 2, Price: 20},
	}}

	assert.Equal(t, 0, cart.FindItem(first))
	assert.Equal(t, 1, cart.FindItem(second))
	assert.Equal(t, -1, cart.FindItem(primitive.NewObjectID()))

	cart.RemoveItem(0)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, second, cart.Items[0].Product)
}
