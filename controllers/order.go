package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-grocery/middleware"
	"go-grocery/services"
	"go-grocery/utils"
)

// OrderController handles customer-facing order endpoints
type OrderController struct {
	Orders *services.OrderService
}

// NewOrderController creates a new OrderController
func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// PlaceOrder converts the caller's cart into an order
func (oc *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.SubjectID(r)
	if !ok {
		utils.Fail(w, utils.UnauthorizedError("Unauthorized"))
		return
	}

	var req services.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, utils.ValidationError("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	order, err := oc.Orders.PlaceOrder(ctx, customerID, req)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.Created(w, "Order placed successfully", order)
}

// GetMyOrders lists the caller's orders, newest first
func (oc *OrderController) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.SubjectID(r)
	if !ok {
		utils.Fail(w, utils.UnauthorizedError("Unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := oc.Orders.MyOrders(ctx, customerID)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OKCount(w, "Orders retrieved successfully", orders, len(orders))
}

// GetOrderByID returns one of the caller's orders
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.SubjectID(r)
	if !ok {
		utils.Fail(w, utils.UnauthorizedError("Unauthorized"))
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid order ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := oc.Orders.GetOrder(ctx, orderID, customerID)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Order retrieved successfully", order)
}

// TrackOrder returns the status and tracking history of a caller's order
func (oc *OrderController) TrackOrder(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.SubjectID(r)
	if !ok {
		utils.Fail(w, utils.UnauthorizedError("Unauthorized"))
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid order ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracking, err := oc.Orders.TrackOrder(ctx, orderID, customerID)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Tracking details retrieved successfully", tracking)
}
