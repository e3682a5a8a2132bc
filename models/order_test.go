package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsValidOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, IsValidOrderStatus(s), s)
	}
	assert.False(t, IsValidOrderStatus("placed"))
	assert.False(t, IsValidOrderStatus("Returned"))
	assert.False(t, IsValidOrderStatus(""))
}

func TestCanTransitionAllowsEveryPair(t *testing.T) {
	for _, from := range OrderStatuses {
		for _, to := range OrderStatuses {
			assert.True(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransition("Returned", StatusPlaced))
	assert.False(t, CanTransition(StatusPlaced, "Returned"))
}

func TestShortID(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("64f1c2d3e4a5b6c7d8e9f0ab")
	assert.NoError(t, err)
	order := Order{ID: id}
	assert.Equal(t, "e9f0ab", order.ShortID())
	assert.True(t, strings.HasSuffix(id.Hex(), order.ShortID()))
}
