package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-grocery/middleware"
	"go-grocery/services"
	"go-grocery/utils"
)

// NotificationController handles admin broadcast notifications
type NotificationController struct {
	Notifications *services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

// Send broadcasts a push notification to the chosen audience
func (nc *NotificationController) Send(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.SubjectID(r)
	if !ok {
		utils.Fail(w, utils.UnauthorizedError("Unauthorized"))
		return
	}

	var req services.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, utils.ValidationError("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	notification, err := nc.Notifications.Send(ctx, adminID, req)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Notification sent successfully", notification)
}

// GetAll lists sent notifications, newest first, paginated via ?page= and
// ?limit=
func (nc *NotificationController) GetAll(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notifications, total, err := nc.Notifications.History(ctx, page, limit)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OKCount(w, "Notifications retrieved successfully", map[string]interface{}{
		"notifications": notifications,
		"total":         total,
		"page":          page,
		"limit":         limit,
	}, len(notifications))
}

// GetByID returns one notification with its delivery metrics
func (nc *NotificationController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid notification ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notification, err := nc.Notifications.Get(ctx, id)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Notification retrieved successfully", notification)
}
