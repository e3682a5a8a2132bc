package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-grocery/models"
	"go-grocery/utils"
)

// CategoryController derives categories from the product catalog; there is
// no separate categories collection.
type CategoryController struct {
	Collection *mongo.Collection
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(db *mongo.Database) *CategoryController {
	return &CategoryController{Collection: db.Collection("products")}
}

// Category is one distinct product category with a representative image.
type Category struct {
	Name         string `bson:"_id" json:"name"`
	Image        string `bson:"image" json:"image"`
	ProductCount int    `bson:"productCount" json:"productCount"`
}

// GetAllCategories groups active products by category
func (cc *CategoryController) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$category",
			"image":        bson.M{"$first": bson.M{"$arrayElemAt": bson.A{"$images", 0}}},
			"productCount": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := cc.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	defer cursor.Close(ctx)

	categories := []Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OKCount(w, "Categories retrieved successfully", categories, len(categories))
}

// GetProductsByCategory lists active products in a category, matched
// case-insensitively on the exact name
func (cc *CategoryController) GetProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	if category == "" {
		utils.Fail(w, utils.ValidationError("Category is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"isActive": true,
		"category": bson.M{"$regex": "^" + category + "$", "$options": "i"},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := cc.Collection.Find(ctx, filter, opts)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OKCount(w, "Products retrieved successfully", products, len(products))
}
