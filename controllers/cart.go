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

// CartController handles the customer's cart
type CartController struct {
	Carts *services.CartService
}

// NewCartController creates a new CartController
func NewCartController(carts *services.CartService) *CartController {
	return &CartController{Carts: carts}
}

// AddToCart adds a product or adjusts an existing line's quantity
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.SubjectID(r)
	if !ok {
		utils.Fail(w, utils.UnauthorizedError("Unauthorized"))
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, utils.ValidationError("Invalid request body"))
		return
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid product ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := cc.Carts.AddItem(ctx, customerID, productID, input.Quantity)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Cart updated successfully", cart)
}

// GetCart returns the cart joined with current product details
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.SubjectID(r)
	if !ok {
		utils.Fail(w, utils.UnauthorizedError("Unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := cc.Carts.GetCart(ctx, customerID)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Cart retrieved successfully", cart)
}

// RemoveFromCart drops a product line from the cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.SubjectID(r)
	if !ok {
		utils.Fail(w, utils.UnauthorizedError("Unauthorized"))
		return
	}

	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["productId"])
	if err != nil {
		utils.Fail(w, utils.ValidationError("Invalid product ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := cc.Carts.RemoveItem(ctx, customerID, productID)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Item removed from cart", cart)
}
