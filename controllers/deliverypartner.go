package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
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

// DeliveryPartnerController handles delivery partner accounts
type DeliveryPartnerController struct {
	Collection *mongo.Collection
}

// NewDeliveryPartnerController creates a new DeliveryPartnerController
func NewDeliveryPartnerController(db *mongo.Database) *DeliveryPartnerController {
	return &DeliveryPartnerController{Collection: db.Collection("deliverypartners")}
}

// Login authenticates a delivery partner and issues a token
func (dc *DeliveryPartnerController) Login(w http.ResponseWriter, r *http.Request) {
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

	var partner models.DeliveryPartner
	err := dc.Collection.FindOne(ctx, filter).Decode(&partner)
	if err != nil {
		utils.Fail(w, utils.NotFoundError("Delivery partner not found"))
		return
	}
	if !partner.IsActive {
		utils.Fail(w, utils.UnauthorizedError("Account is inactive. Please contact support."))
		return
	}
	if !utils.CheckPassword(partner.Password, creds.Password) {
		utils.Fail(w, utils.UnauthorizedError("Invalid credentials"))
		return
	}

	token, err := utils.GenerateJWT(partner.ID.Hex(), utils.RolePartner)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	partner.Password = ""

	utils.OK(w, "Login successful", map[string]interface{}{"token": token, "deliveryPartner": partner})
}

// Create registers a delivery partner (admin only)
func (dc *DeliveryPartnerController) Create(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.SubjectID(r)

	var input struct {
		Name          string `json:"name"`
		Phone         string `json:"phone"`
		Email         string `json:"email"`
		Password      string `json:"password"`
		VehicleType   string `json:"vehicleType"`
		VehicleNumber string `json:"vehicleNumber"`
		LicenseNumber string `json:"licenseNumber"`
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
	if input.VehicleNumber == "" || input.LicenseNumber == "" {
		utils.Fail(w, utils.ValidationError("Vehicle number and license number are required"))
		return
	}
	vehicleType := input.VehicleType
	if vehicleType == "" {
		vehicleType = "Bike"
	}
	if !models.IsValidVehicleType(vehicleType) {
		utils.Fail(w, utils.ValidationError("Invalid vehicle type"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := dc.Collection.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"email": input.Email},
		bson.M{"phone": input.Phone},
		bson.M{"licenseNumber": strings.ToUpper(input.LicenseNumber)},
	}})
	if err != nil {
		utils.Fail(w, err)
		return
	}
	if count > 0 {
		utils.Fail(w, utils.ConflictError("Delivery partner with this email, phone, or license already exists"))
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	now := time.Now()
	partner := models.DeliveryPartner{
		Name:          input.Name,
		Phone:         input.Phone,
		Email:         input.Email,
		Password:      hash,
		VehicleType:   vehicleType,
		VehicleNumber: strings.ToUpper(input.VehicleNumber),
		LicenseNumber: strings.ToUpper(input.LicenseNumber),
		Status:        models.PartnerOffline,
		IsActive:      true,
		CreatedBy:     adminID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	result, err := dc.Collection.InsertOne(ctx, partner)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	partner.ID = result.InsertedID.(primitive.ObjectID)
	partner.Password = ""

	utils.Created(w, "Delivery partner created successfully", partner)
}

// GetAll lists every delivery partner (admin only)
func (dc *DeliveryPartnerController) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := dc.Collection.Find(ctx, bson.M{})
	if err != nil {
		utils.Fail(w, err)
		return
	}
	defer cursor.Close(ctx)

	partners := []models.DeliveryPartner{}
	if err := cursor.All(ctx, &partners); err != nil {
		utils.Fail(w, err)
		return
	}
	for i := range partners {
		partners[i].Password = ""
	}

	utils.OKCount(w, "Delivery partners retrieved successfully", partners, len(partners))
}

// GetByID retrieves a single delivery partner (admin only)
func (dc *DeliveryPartnerController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid ID format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var partner models.DeliveryPartner
	err = dc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&partner)
	if err != nil {
		utils.Fail(w, utils.NotFoundError("Delivery partner not found"))
		return
	}
	partner.Password = ""

	utils.OK(w, "Delivery partner retrieved successfully", partner)
}

// Update mutates a delivery partner's profile and flags (admin only)
func (dc *DeliveryPartnerController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid ID format"))
		return
	}

	var input struct {
		Name          *string `json:"name"`
		Phone         *string `json:"phone"`
		Email         *string `json:"email"`
		VehicleType   *string `json:"vehicleType"`
		VehicleNumber *string `json:"vehicleNumber"`
		Status        *string `json:"status"`
		IsActive      *bool   `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, utils.ValidationError("Invalid request body"))
		return
	}
	if input.VehicleType != nil && !models.IsValidVehicleType(*input.VehicleType) {
		utils.Fail(w, utils.ValidationError("Invalid vehicle type"))
		return
	}
	if input.Status != nil {
		switch *input.Status {
		case models.PartnerAvailable, models.PartnerBusy, models.PartnerOffline:
		default:
			utils.Fail(w, utils.ValidationError("Invalid status"))
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
	if input.VehicleType != nil {
		set["vehicleType"] = *input.VehicleType
	}
	if input.VehicleNumber != nil {
		set["vehicleNumber"] = strings.ToUpper(*input.VehicleNumber)
	}
	if input.Status != nil {
		set["status"] = *input.Status
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var partner models.DeliveryPartner
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = dc.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&partner)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.Fail(w, utils.NotFoundError("Delivery partner not found"))
		return
	}
	if err != nil {
		utils.Fail(w, err)
		return
	}
	partner.Password = ""

	utils.OK(w, "Delivery partner updated successfully", partner)
}

// Delete removes a delivery partner (admin only)
func (dc *DeliveryPartnerController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid ID format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := dc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.Fail(w, err)
		return
	}
	if result.DeletedCount == 0 {
		utils.Fail(w, utils.NotFoundError("Delivery partner not found"))
		return
	}

	utils.OK(w, "Delivery partner deleted successfully", nil)
}

// UpdateFCMToken registers the caller's device token for push notifications
func (dc *DeliveryPartnerController) UpdateFCMToken(w http.ResponseWriter, r *http.Request) {
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

	_, err := dc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"fcmToken": input.FCMToken}})
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "FCM token updated successfully", nil)
}
