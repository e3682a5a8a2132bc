package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a grocery product managed by admins
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Brand       string             `bson:"brand" json:"brand"`
	Category    string             `bson:"category" json:"category"`

	// Packaging information, e.g. a "Box" of 12 units of "500g" each
	UnitType            string `bson:"unitType" json:"unitType"`
	PerUnitWeightVolume string `bson:"perUnitWeightVolume" json:"perUnitWeightVolume"`
	UnitsPerUnitType    int    `bson:"unitsPerUnitType" json:"unitsPerUnitType"`

	// Pricing. Invariant: OfferPrice <= MRP
	MRP             float64 `bson:"mrp" json:"mrp"`
	OfferPrice      float64 `bson:"offerPrice" json:"offerPrice"`
	SingleUnitPrice float64 `bson:"singleUnitPrice" json:"singleUnitPrice"`

	// Stock is advisory only; nothing decrements it at checkout
	Stock           int `bson:"stock" json:"stock"`
	MinimumQuantity int `bson:"minimumQuantity" json:"minimumQuantity"`

	ManfDate   *time.Time `bson:"manfDate,omitempty" json:"manfDate,omitempty"`
	ExpiryDate *time.Time `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`

	Images []string `bson:"images" json:"images"`

	NotifyCustomers bool `bson:"notifyCustomers" json:"notifyCustomers"`
	IsOffer         bool `bson:"isOffer" json:"isOffer"`
	IsActive        bool `bson:"isActive" json:"isActive"`

	CreatedBy primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EffectivePrice is the price charged per package: the offer price when one
// is set, otherwise the single unit price.
func (p *Product) EffectivePrice() float64 {
	if p.OfferPrice > 0 {
		return p.OfferPrice
	}
	return p.SingleUnitPrice
}

// MinQuantity returns the per-product cart floor, treating legacy zero
// values as 1.
func (p *Product) MinQuantity() int {
	if p.MinimumQuantity < 1 {
		return 1
	}
	return p.MinimumQuantity
}

// FirstImage returns the lead product image, or "" when none is set.
func (p *Product) FirstImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// ProductSummary is the trimmed product shape joined into cart views.
type ProductSummary struct {
	ID                  primitive.ObjectID `json:"id"`
	Name                string             `json:"name"`
	Brand               string             `json:"brand"`
	Images              []string           `json:"images"`
	UnitType            string             `json:"unitType"`
	PerUnitWeightVolume string             `json:"perUnitWeightVolume"`
	MRP                 float64            `json:"mrp"`
	OfferPrice          float64            `json:"offerPrice"`
	SingleUnitPrice     float64            `json:"singleUnitPrice"`
	Stock               int                `json:"stock"`
	MinimumQuantity     int                `json:"minimumQuantity"`
	IsActive            bool               `json:"isActive"`
}

// Summary projects a product into its cart-view shape.
func (p *Product) Summary() ProductSummary {
	return ProductSummary{
		ID:                  p.ID,
		Name:                p.Name,
		Brand:               p.Brand,
		Images:              p.Images,
		UnitType:            p.UnitType,
		PerUnitWeightVolume: p.PerUnitWeightVolume,
		MRP:                 p.MRP,
		OfferPrice:          p.OfferPrice,
		SingleUnitPrice:     p.SingleUnitPrice,
		Stock:               p.Stock,
		MinimumQuantity:     p.MinQuantity(),
		IsActive:            p.IsActive,
	}
}
