package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
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

// CustomerController handles registration, login and profile management
type CustomerController struct {
	Collection *mongo.Collection
}

// NewCustomerController creates a new CustomerController
func NewCustomerController(db *mongo.Database) *CustomerController {
	return &CustomerController{Collection: db.Collection("customers")}
}

// Register creates a new customer account
func (cc *CustomerController) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, utils.ValidationError("Invalid request body"))
		return
	}
	if input.Name == "" || input.Phone == "" || input.Email == "" || input.Password == "" {
		utils.Fail(w, utils.ValidationError("Name, phone, email, and password are required"))
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

	var existing models.Customer
	err := cc.Collection.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": input.Email},
		bson.M{"phone": input.Phone},
	}}).Decode(&existing)
	if err == nil {
		if existing.Email == input.Email {
			utils.Fail(w, utils.ConflictError("Email already registered"))
		} else {
			utils.Fail(w, utils.ConflictError("Phone number already registered"))
		}
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		utils.Fail(w, err)
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	now := time.Now()
	customer := models.Customer{
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
		Password:  hash,
		Addresses: []models.Address{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	result, err := cc.Collection.InsertOne(ctx, customer)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	customer.ID = result.InsertedID.(primitive.ObjectID)
	customer.Password = ""

	utils.Created(w, "Customer registered successfully", customer)
}

// Login authenticates a customer by email or phone and issues a token
func (cc *CustomerController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.Fail(w, utils.ValidationError("Invalid request body"))
		return
	}
	if (creds.Email == "" && creds.Phone == "") || creds.Password == "" {
		utils.Fail(w, utils.ValidationError("Email or phone, and password are required"))
		return
	}

	filter := bson.M{"email": creds.Email}
	if creds.Email == "" {
		filter = bson.M{"phone": creds.Phone}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var customer models.Customer
	err := cc.Collection.FindOne(ctx, filter).Decode(&customer)
	if err != nil {
		utils.Fail(w, utils.NotFoundError("Customer not found"))
		return
	}
	if !customer.IsActive {
		utils.Fail(w, utils.UnauthorizedError("Account is inactive. Please contact support."))
		return
	}
	if !utils.CheckPassword(customer.Password, creds.Password) {
		utils.Fail(w, utils.UnauthorizedError("Invalid credentials"))
		return
	}

	token, err := utils.GenerateJWT(customer.ID.Hex(), utils.RoleCustomer)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	customer.Password = ""

	utils.OK(w, "Login successful", map[string]interface{}{"token": token, "customer": customer})
}

// Logout clears the customer's push token so a signed-out device stops
// receiving notifications. The JWT itself is stateless.
func (cc *CustomerController) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.SubjectID(r)
	if !ok {
		utils.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := cc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"fcmToken": nil}})
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Logged out successfully", nil)
}

// GetProfile returns the authenticated customer's profile, or any customer
// by id when called through the admin route
func (cc *CustomerController) GetProfile(w http.ResponseWriter, r *http.Request) {
	var id primitive.ObjectID
	if hex, ok := mux.Vars(r)["id"]; ok {
		parsed, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			utils.Fail(w, utils.ValidationError("Invalid ID format"))
			return
		}
		id = parsed
	} else {
		subject, ok := middleware.SubjectID(r)
		if !ok {
			utils.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id = subject
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var customer models.Customer
	err := cc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if err != nil {
		utils.Fail(w, utils.NotFoundError("Customer not found"))
		return
	}
	customer.Password = ""

	utils.OK(w, "Customer retrieved successfully", customer)
}

// UpdateProfile mutates name/phone/email/addresses on the caller's profile
func (cc *CustomerController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.SubjectID(r)
	if !ok {
		utils.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Name      *string           `json:"name"`
		Phone     *string           `json:"phone"`
		Email     *string           `json:"email"`
		Addresses *[]models.Address `json:"addresses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, utils.ValidationError("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if input.Email != nil {
		count, err := cc.Collection.CountDocuments(ctx, bson.M{"email": *input.Email, "_id": bson.M{"$ne": id}})
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if count > 0 {
			utils.Fail(w, utils.ConflictError("Email already in use"))
			return
		}
	}
	if input.Phone != nil {
		count, err := cc.Collection.CountDocuments(ctx, bson.M{"phone": *input.Phone, "_id": bson.M{"$ne": id}})
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if count > 0 {
			utils.Fail(w, utils.ConflictError("Phone number already in use"))
			return
		}
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Phone != nil {
		set["phone"] = *input.Phone
	}
	if input.Email != nil {
		set["email"] = *input.Email
	}
	if input.Addresses != nil {
		set["addresses"] = *input.Addresses
	}

	var customer models.Customer
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := cc.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.Fail(w, utils.NotFoundError("Customer not found"))
		return
	}
	if err != nil {
		utils.Fail(w, err)
		return
	}
	customer.Password = ""

	utils.OK(w, "Customer updated successfully", customer)
}

// UpdateFCMToken registers the caller's device token for push notifications
func (cc *CustomerController) UpdateFCMToken(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.SubjectID(r)
	if !ok {
		utils.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		FCMToken string `json:"fcmToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.FCMToken == "" {
		utils.Fail(w, utils.ValidationError("FCM token is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := cc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"fcmToken": input.FCMToken}})
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "FCM token updated successfully", nil)
}

// GetAllCustomers lists every customer (admin only)
func (cc *CustomerController) GetAllCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := cc.Collection.Find(ctx, bson.M{})
	if err != nil {
		utils.Fail(w, err)
		return
	}
	defer cursor.Close(ctx)

	customers := []models.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		utils.Fail(w, err)
		return
	}
	for i := range customers {
		customers[i].Password = ""
	}

	utils.OKCount(w, "Customers retrieved successfully", customers, len(customers))
}

// SearchCustomers matches customers by name or phone substring (admin only)
func (cc *CustomerController) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	filter := bson.M{}
	if query != "" {
		filter = bson.M{"$or": bson.A{
			bson.M{"name": bson.M{"$regex": query, "$options": "i"}},
			bson.M{"phone": bson.M{"$regex": query, "$options": "i"}},
		}}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := cc.Collection.Find(ctx, filter)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	defer cursor.Close(ctx)

	customers := []models.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		utils.Fail(w, err)
		return
	}
	for i := range customers {
		customers[i].Password = ""
	}

	utils.OKCount(w, "Customers retrieved successfully", customers, len(customers))
}

// DeleteCustomer removes a customer account (admin only)
func (cc *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid ID format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := cc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.Fail(w, err)
		return
	}
	if result.DeletedCount == 0 {
		utils.Fail(w, utils.NotFoundError("Customer not found"))
		return
	}

	utils.OK(w, "Customer deleted successfully", nil)
}
