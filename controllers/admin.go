package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-grocery/models"
	"go-grocery/utils"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// AdminController handles back-office account management
type AdminController struct {
	Collection *mongo.Collection
}

// NewAdminController creates a new AdminController
func NewAdminController(db *mongo.Database) *AdminController {
	return &AdminController{Collection: db.Collection("admins")}
}

// LoginAdmin authenticates an admin and issues a token
func (ac *AdminController) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.Fail(w, utils.ValidationError("Invalid request body"))
		return
	}
	if creds.Email == "" || creds.Password == "" {
		utils.Fail(w, utils.ValidationError("Email and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var admin models.Admin
	err := ac.Collection.FindOne(ctx, bson.M{"email": creds.Email}).Decode(&admin)
	if err != nil {
		utils.Fail(w, utils.UnauthorizedError("Invalid email or password"))
		return
	}
	if !admin.IsActive {
		utils.Fail(w, utils.UnauthorizedError("Admin account is inactive"))
		return
	}
	if !utils.CheckPassword(admin.Password, creds.Password) {
		utils.Fail(w, utils.UnauthorizedError("Invalid email or password"))
		return
	}

	token, err := utils.GenerateJWT(admin.ID.Hex(), utils.RoleAdmin)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	admin.Password = ""
	utils.OK(w, "Login successful", map[string]interface{}{"token": token, "admin": admin})
}

// CreateAdmin registers a new admin account (admin only)
func (ac *AdminController) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, utils.ValidationError("Invalid request body"))
		return
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		utils.Fail(w, utils.ValidationError("Name, email, and password are required"))
		return
	}
	if !emailPattern.MatchString(input.Email) {
		utils.Fail(w, utils.ValidationError("Please provide a valid email address"))
		return
	}
	if len(input.Password) < 6 {
		utils.Fail(w, utils.ValidationError("Password must be at least 6 characters long"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := ac.Collection.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		utils.Fail(w, err)
		return
	}
	if count > 0 {
		utils.Fail(w, utils.ConflictError("Admin with this email already exists"))
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	role := input.Role
	if role == "" {
		role = "admin"
	}
	now := time.Now()
	admin := models.Admin{
		Name:      input.Name,
		Email:     input.Email,
		Password:  hash,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := ac.Collection.InsertOne(ctx, admin)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	admin.ID = result.InsertedID.(primitive.ObjectID)
	admin.Password = ""

	utils.Created(w, "Admin created successfully", admin)
}

// GetAllAdmins lists every admin, newest first
func (ac *AdminController) GetAllAdmins(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ac.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	defer cursor.Close(ctx)

	admins := []models.Admin{}
	if err := cursor.All(ctx, &admins); err != nil {
		utils.Fail(w, err)
		return
	}
	for i := range admins {
		admins[i].Password = ""
	}

	utils.OKCount(w, "Admins retrieved successfully", admins, len(admins))
}

// GetAdminByID retrieves a single admin
func (ac *AdminController) GetAdminByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid ID format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var admin models.Admin
	err = ac.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.Fail(w, utils.NotFoundError("Admin not found"))
		return
	}
	if err != nil {
		utils.Fail(w, err)
		return
	}
	admin.Password = ""

	utils.OK(w, "Admin retrieved successfully", admin)
}

// UpdateAdmin mutates name/email/role/isActive on an admin
func (ac *AdminController) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid ID format"))
		return
	}

	var input struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, utils.ValidationError("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if input.Email != nil {
		count, err := ac.Collection.CountDocuments(ctx, bson.M{"email": *input.Email, "_id": bson.M{"$ne": id}})
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if count > 0 {
			utils.Fail(w, utils.ConflictError("Email already in use by another admin"))
			return
		}
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Email != nil {
		set["email"] = *input.Email
	}
	if input.Role != nil {
		set["role"] = *input.Role
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}

	var admin models.Admin
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = ac.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.Fail(w, utils.NotFoundError("Admin not found"))
		return
	}
	if err != nil {
		utils.Fail(w, err)
		return
	}
	admin.Password = ""

	utils.OK(w, "Admin updated successfully", admin)
}

// DeleteAdmin removes an admin account
func (ac *AdminController) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid ID format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := ac.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.Fail(w, err)
		return
	}
	if result.DeletedCount == 0 {
		utils.Fail(w, utils.NotFoundError("Admin not found"))
		return
	}

	utils.OK(w, "Admin deleted successfully", nil)
}
