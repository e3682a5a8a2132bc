package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-grocery/middleware"
	"go-grocery/models"
	"go-grocery/utils"
)

// maxUploadSize caps multipart product payloads at 10MB
const maxUploadSize = 10 << 20

// ImageStorage stores product images and serves public URLs.
type ImageStorage interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error)
	UploadMany(ctx context.Context, files []*multipart.FileHeader, folder string) ([]string, error)
	Delete(ctx context.Context, imageURL string) error
}

// ProductController handles the product catalog
type ProductController struct {
	Collection *mongo.Collection
	Storage    ImageStorage
}

// NewProductController creates a new ProductController
func NewProductController(db *mongo.Database, storage ImageStorage) *ProductController {
	return &ProductController{Collection: db.Collection("products"), Storage: storage}
}

func parseFloatField(r *http.Request, name string) (float64, bool, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, utils.ValidationError(fmt.Sprintf("%s must be a valid number", name))
	}
	return v, true, nil
}

func parseIntField(r *http.Request, name string) (int, bool, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, utils.ValidationError(fmt.Sprintf("%s must be a valid number", name))
	}
	return v, true, nil
}

func parseBoolField(r *http.Request, name string) (bool, bool) {
	raw := r.FormValue(name)
	if raw == "" {
		return false, false
	}
	return raw == "true", true
}

func parseDateField(r *http.Request, name string) (*time.Time, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, utils.ValidationError(fmt.Sprintf("%s must be a valid date", name))
}

// CreateProduct adds a new product with its images (admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.SubjectID(r)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.Fail(w, utils.ValidationError("Failed to parse multipart form"))
		return
	}

	product := models.Product{
		Name:                r.FormValue("name"),
		Description:         r.FormValue("description"),
		Brand:               r.FormValue("brand"),
		Category:            r.FormValue("category"),
		UnitType:            r.FormValue("unitType"),
		PerUnitWeightVolume: r.FormValue("perUnitWeightVolume"),
		UnitsPerUnitType:    1,
		MinimumQuantity:     1,
		IsActive:            true,
		CreatedBy:           adminID,
	}

	if product.Name == "" || product.Description == "" || product.Brand == "" || product.Category == "" {
		utils.Fail(w, utils.ValidationError("Name, description, brand, and category are required"))
		return
	}
	if product.UnitType == "" || product.PerUnitWeightVolume == "" {
		utils.Fail(w, utils.ValidationError("Packaging type and unit weight/volume are required"))
		return
	}

	if v, ok, err := parseIntField(r, "unitsPerUnitType"); err != nil {
		utils.Fail(w, err)
		return
	} else if ok {
		if v < 1 {
			utils.Fail(w, utils.ValidationError("Units per package must be at least 1"))
			return
		}
		product.UnitsPerUnitType = v
	}

	mrp, hasMRP, err := parseFloatField(r, "mrp")
	if err != nil {
		utils.Fail(w, err)
		return
	}
	offerPrice, hasOffer, err := parseFloatField(r, "offerPrice")
	if err != nil {
		utils.Fail(w, err)
		return
	}
	singleUnitPrice, hasSingle, err := parseFloatField(r, "singleUnitPrice")
	if err != nil {
		utils.Fail(w, err)
		return
	}
	if !hasMRP || !hasOffer {
		utils.Fail(w, utils.ValidationError("Package MRP and offer price are required"))
		return
	}
	if !hasSingle {
		utils.Fail(w, utils.ValidationError("Single unit price is required"))
		return
	}
	if mrp < 0 || offerPrice < 0 || singleUnitPrice < 0 {
		utils.Fail(w, utils.ValidationError("Prices must be positive numbers"))
		return
	}
	if offerPrice > mrp {
		utils.Fail(w, utils.ValidationError("Package offer price cannot be greater than MRP"))
		return
	}
	product.MRP = mrp
	product.OfferPrice = offerPrice
	product.SingleUnitPrice = singleUnitPrice

	if v, ok, err := parseIntField(r, "stock"); err != nil {
		utils.Fail(w, err)
		return
	} else if ok {
		if v < 0 {
			utils.Fail(w, utils.ValidationError("Stock must be a positive number"))
			return
		}
		product.Stock = v
	}
	if v, ok, err := parseIntField(r, "minimumQuantity"); err != nil {
		utils.Fail(w, err)
		return
	} else if ok {
		if v < 1 {
			utils.Fail(w, utils.ValidationError("Minimum quantity must be at least 1"))
			return
		}
		product.MinimumQuantity = v
	}

	if product.ManfDate, err = parseDateField(r, "manfDate"); err != nil {
		utils.Fail(w, err)
		return
	}
	if product.ExpiryDate, err = parseDateField(r, "expiryDate"); err != nil {
		utils.Fail(w, err)
		return
	}
	if v, ok := parseBoolField(r, "notifyCustomers"); ok {
		product.NotifyCustomers = v
	}
	if v, ok := parseBoolField(r, "isOffer"); ok {
		product.IsOffer = v
	}
	if v, ok := parseBoolField(r, "isActive"); ok {
		product.IsActive = v
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := pc.Collection.CountDocuments(ctx, bson.M{"name": product.Name})
	if err != nil {
		utils.Fail(w, err)
		return
	}
	if count > 0 {
		utils.Fail(w, utils.ConflictError("Product with this name already exists"))
		return
	}

	product.Images = []string{}
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["images"]; len(files) > 0 {
			urls, err := pc.Storage.UploadMany(ctx, files, "products")
			if err != nil {
				utils.Fail(w, err)
				return
			}
			product.Images = urls
		}
	}

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	result, err := pc.Collection.InsertOne(ctx, product)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	product.ID = result.InsertedID.(primitive.ObjectID)

	utils.Created(w, "Product created successfully", product)
}

// GetAllProducts lists active products for the storefront
func (pc *ProductController) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	pc.listProducts(w, bson.M{"isActive": true})
}

// GetAllProductsForAdmin lists every product, active or not
func (pc *ProductController) GetAllProductsForAdmin(w http.ResponseWriter, r *http.Request) {
	pc.listProducts(w, bson.M{})
}

func (pc *ProductController) listProducts(w http.ResponseWriter, filter bson.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := pc.Collection.Find(ctx, filter, opts)
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

// GetProductByID retrieves one active product for the storefront
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	pc.getProduct(w, r, bson.M{"isActive": true})
}

// GetProductByIDForAdmin retrieves one product regardless of state
func (pc *ProductController) GetProductByIDForAdmin(w http.ResponseWriter, r *http.Request) {
	pc.getProduct(w, r, bson.M{})
}

func (pc *ProductController) getProduct(w http.ResponseWriter, r *http.Request, extra bson.M) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid ID format"))
		return
	}

	filter := bson.M{"_id": id}
	for k, v := range extra {
		filter[k] = v
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	err = pc.Collection.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		utils.Fail(w, utils.NotFoundError("Product not found"))
		return
	}

	utils.OK(w, "Product retrieved successfully", product)
}

// SearchProducts matches active products by name/brand/description substring
// and optional category filter
func (pc *ProductController) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	category := r.URL.Query().Get("category")

	filter := bson.M{"isActive": true}
	if query != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": query, "$options": "i"}},
			bson.M{"brand": bson.M{"$regex": query, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": query, "$options": "i"}},
		}
	}
	if category != "" {
		filter["category"] = bson.M{"$regex": category, "$options": "i"}
	}

	pc.listProducts(w, filter)
}

// GetSuggestedProducts returns up to ten active products sharing the given
// product's category
func (pc *ProductController) GetSuggestedProducts(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid ID format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var current models.Product
	err = pc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&current)
	if err != nil {
		utils.Fail(w, utils.NotFoundError("Product not found"))
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(10)
	cursor, err := pc.Collection.Find(ctx, bson.M{
		"category": current.Category,
		"_id":      bson.M{"$ne": id},
		"isActive": true,
	}, opts)
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

	utils.OKCount(w, "Suggested products retrieved successfully", products, len(products))
}

// UpdateProduct mutates a product, optionally replacing and extending its
// image list (admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid ID format"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.Fail(w, utils.ValidationError("Failed to parse multipart form"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var product models.Product
	err = pc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.Fail(w, utils.NotFoundError("Product not found"))
		return
	}
	if err != nil {
		utils.Fail(w, err)
		return
	}

	set := bson.M{"updatedAt": time.Now()}

	if name := r.FormValue("name"); name != "" && name != product.Name {
		count, err := pc.Collection.CountDocuments(ctx, bson.M{"name": name, "_id": bson.M{"$ne": id}})
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if count > 0 {
			utils.Fail(w, utils.ConflictError("Product with this name already exists"))
			return
		}
		set["name"] = name
	}
	for _, field := range []string{"description", "brand", "category", "unitType", "perUnitWeightVolume"} {
		if v := r.FormValue(field); v != "" {
			set[field] = v
		}
	}

	if v, ok, err := parseIntField(r, "unitsPerUnitType"); err != nil {
		utils.Fail(w, err)
		return
	} else if ok {
		if v < 1 {
			utils.Fail(w, utils.ValidationError("Units per package must be at least 1"))
			return
		}
		set["unitsPerUnitType"] = v
	}

	// Price invariant is checked against the merged document, so a partial
	// update cannot push offerPrice above mrp
	mrp, offerPrice := product.MRP, product.OfferPrice
	if v, ok, err := parseFloatField(r, "mrp"); err != nil {
		utils.Fail(w, err)
		return
	} else if ok {
		if v < 0 {
			utils.Fail(w, utils.ValidationError("Package MRP must be a valid positive number"))
			return
		}
		mrp = v
		set["mrp"] = v
	}
	if v, ok, err := parseFloatField(r, "offerPrice"); err != nil {
		utils.Fail(w, err)
		return
	} else if ok {
		if v < 0 {
			utils.Fail(w, utils.ValidationError("Package offer price must be a valid positive number"))
			return
		}
		offerPrice = v
		set["offerPrice"] = v
	}
	if offerPrice > mrp {
		utils.Fail(w, utils.ValidationError("Package offer price cannot be greater than MRP"))
		return
	}
	if v, ok, err := parseFloatField(r, "singleUnitPrice"); err != nil {
		utils.Fail(w, err)
		return
	} else if ok {
		if v < 0 {
			utils.Fail(w, utils.ValidationError("Single unit price must be a valid positive number"))
			return
		}
		set["singleUnitPrice"] = v
	}
	if v, ok, err := parseIntField(r, "stock"); err != nil {
		utils.Fail(w, err)
		return
	} else if ok {
		if v < 0 {
			utils.Fail(w, utils.ValidationError("Stock must be a valid positive number"))
			return
		}
		set["stock"] = v
	}
	if v, ok, err := parseIntField(r, "minimumQuantity"); err != nil {
		utils.Fail(w, err)
		return
	} else if ok {
		if v < 1 {
			utils.Fail(w, utils.ValidationError("Minimum quantity must be at least 1"))
			return
		}
		set["minimumQuantity"] = v
	}
	if t, err := parseDateField(r, "manfDate"); err != nil {
		utils.Fail(w, err)
		return
	} else if t != nil {
		set["manfDate"] = *t
	}
	if t, err := parseDateField(r, "expiryDate"); err != nil {
		utils.Fail(w, err)
		return
	} else if t != nil {
		set["expiryDate"] = *t
	}
	if v, ok := parseBoolField(r, "notifyCustomers"); ok {
		set["notifyCustomers"] = v
	}
	if v, ok := parseBoolField(r, "isOffer"); ok {
		set["isOffer"] = v
	}
	if v, ok := parseBoolField(r, "isActive"); ok {
		set["isActive"] = v
	}

	// existingImages, when sent, replaces the kept image list; new uploads
	// are appended after it
	images := product.Images
	if r.MultipartForm != nil {
		if kept, ok := r.MultipartForm.Value["existingImages"]; ok {
			images = kept
		}
		if files := r.MultipartForm.File["images"]; len(files) > 0 {
			urls, err := pc.Storage.UploadMany(ctx, files, "products")
			if err != nil {
				utils.Fail(w, err)
				return
			}
			images = append(images, urls...)
		}
	}
	set["images"] = images

	var updated models.Product
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = pc.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Product updated successfully", updated)
}

// DeleteProduct removes a product and its stored images (admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid ID format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var product models.Product
	err = pc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.Fail(w, utils.NotFoundError("Product not found"))
		return
	}
	if err != nil {
		utils.Fail(w, err)
		return
	}

	// Image cleanup failures never block the delete
	for _, imageURL := range product.Images {
		if err := pc.Storage.Delete(ctx, imageURL); err != nil {
			log.Printf("Failed to delete image %s: %v", imageURL, err)
		}
	}

	if _, err := pc.Collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Product deleted successfully", nil)
}

// DeleteProductImage removes one image from a product and from storage
// (admin only)
func (pc *ProductController) DeleteProductImage(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid ID format"))
		return
	}

	var input struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ImageURL == "" {
		utils.Fail(w, utils.ValidationError("Image URL is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var product models.Product
	err = pc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.Fail(w, utils.NotFoundError("Product not found"))
		return
	}
	if err != nil {
		utils.Fail(w, err)
		return
	}

	kept := make([]string, 0, len(product.Images))
	for _, img := range product.Images {
		if img != input.ImageURL {
			kept = append(kept, img)
		}
	}

	var updated models.Product
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = pc.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"images": kept, "updatedAt": time.Now()}}, opts).Decode(&updated)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	if err := pc.Storage.Delete(ctx, input.ImageURL); err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Product image deleted successfully", updated)
}
