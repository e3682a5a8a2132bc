package services

import (
	"fmt"

	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-grocery/models"
	"go-grocery/utils"
)

// CartService enforces the cart rules: one cart per customer, per-product
// minimum quantities, signed-delta edits and a derived total recomputed on
// every mutation.
type CartService struct {
	products ProductReader
	carts    CartStore
}

// NewCartService creates a CartService.
func NewCartService(products ProductReader, carts CartStore) *CartService {
	return &CartService{products: products, carts: carts}
}

// AddItem adds a product to the customer's cart or edits an existing line.
// For a product not yet in the cart, quantity is the absolute initial
// quantity. For an existing line it is a signed delta: a result of zero or
// less removes the line, a result below the product minimum is rejected, and
// any surviving line has its price refreshed to the product's current
// effective price.
func (s *CartService) AddItem(ctx context.Context, customerID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, utils.NotFoundError("Product not found")
	}

	price := product.EffectivePrice()
	minQty := product.MinQuantity()

	cart, err := s.carts.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{Customer: customerID, Items: []models.CartItem{}}
	}

	if idx := cart.FindItem(productID); idx >= 0 {
		newQuantity := cart.Items[idx].Quantity + quantity
		switch {
		case newQuantity <= 0:
			// Decrementing to zero or below is a removal, not an error
			cart.RemoveItem(idx)
		case newQuantity < minQty:
			return nil, utils.ValidationError(fmt.Sprintf("Minimum order quantity for this product is %d", minQty))
		default:
			cart.Items[idx].Quantity = newQuantity
			cart.Items[idx].Price = price
		}
	} else {
		if quantity < minQty {
			return nil, utils.ValidationError(fmt.Sprintf("Minimum order quantity for this product is %d", minQty))
		}
		cart.Items = append(cart.Items, models.CartItem{Product: productID, Quantity: quantity, Price: price})
	}

	cart.Recalculate()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCart returns the customer's cart joined with live product summaries. A
// customer with no cart gets the empty shape, never a not-found error.
func (s *CartService) GetCart(ctx context.Context, customerID primitive.ObjectID) (*models.CartView, error) {
	cart, err := s.carts.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &models.CartView{Items: []models.CartLineView{}, TotalAmount: 0}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.Product)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &models.CartView{
		ID:          cart.ID,
		Customer:    cart.Customer,
		Items:       make([]models.CartLineView, 0, len(cart.Items)),
		TotalAmount: cart.TotalAmount,
	}
	for _, item := range cart.Items {
		summary := models.ProductSummary{ID: item.Product}
		if product, ok := products[item.Product]; ok {
			summary = product.Summary()
		}
		view.Items = append(view.Items, models.CartLineView{
			Product:  summary,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return view, nil
}

// RemoveItem drops the matching line from the customer's cart. Explicit
// removal skips the minimum-quantity check.
func (s *CartService) RemoveItem(ctx context.Context, customerID, productID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, utils.NotFoundError("Cart not found")
	}

	if idx := cart.FindItem(productID); idx >= 0 {
		cart.RemoveItem(idx)
	}

	cart.Recalculate()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
