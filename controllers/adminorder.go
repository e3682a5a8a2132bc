package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-grocery/services"
	"go-grocery/utils"
)

// AdminOrderController handles admin-facing order management
type AdminOrderController struct {
	Orders *services.OrderService
}

// NewAdminOrderController creates a new AdminOrderController
func NewAdminOrderController(orders *services.OrderService) *AdminOrderController {
	return &AdminOrderController{Orders: orders}
}

// GetAllOrders lists every order with customer details attached
func (ac *AdminOrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orders, err := ac.Orders.AllOrders(ctx)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OKCount(w, "Orders retrieved successfully", orders, len(orders))
}

// SearchOrders matches orders by customer name, phone, or order ID
func (ac *AdminOrderController) SearchOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orders, err := ac.Orders.SearchOrders(ctx, query)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OKCount(w, "Orders retrieved successfully", orders, len(orders))
}

// GetOrderByID returns any order with customer details attached
func (ac *AdminOrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid order ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := ac.Orders.GetOrderAdmin(ctx, orderID)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Order retrieved successfully", order)
}

// UpdateStatus moves an order to a new status and notifies the customer
func (ac *AdminOrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid order ID"))
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, utils.ValidationError("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	order, err := ac.Orders.UpdateStatus(ctx, orderID, input.Status)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Order status updated successfully", order)
}
