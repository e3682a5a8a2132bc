package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	p := Product{OfferPrice: 80, SingleUnitPrice: 100}
	assert.Equal(t, 80.0, p.EffectivePrice())

	p.OfferPrice = 0
	assert.Equal(t, 100.0, p.EffectivePrice())
}

func TestMinQuantity(t *testing.T) {
	assert.Equal(t, 5, (&Product{MinimumQuantity: 5}).MinQuantity())
	assert.Equal(t, 1, (&Product{MinimumQuantity: 0}).MinQuantity())
	assert.Equal(t, 1, (&Product{MinimumQuantity: -2}).MinQuantity())
}

func TestFirstImage(t *testing.T) {
	assert.Empty(t, (&Product{}).FirstImage())
	p := Product{Images: []string{"a.jpg", "b.jpg"}}
	assert.Equal(t, "a.jpg", p.FirstImage())
}
