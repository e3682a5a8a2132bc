package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-grocery/models"
	"go-grocery/utils"
)

func testProduct(minQty int, offerPrice, singlePrice float64) models.Product {
	return models.Product{
		ID:              primitive.NewObjectID(),
		Name:            "Basmati Rice 5kg",
		MRP:             600,
		OfferPrice:      offerPrice,
		SingleUnitPrice: singlePrice,
		MinimumQuantity: minQty,
		IsActive:        true,
	}
}

func TestAddItemNewLineBelowMinimum(t *testing.T) {
	product := testProduct(5, 100, 120)
	svc := NewCartService(newFakeProducts(product), newFakeCarts())
	customerID := primitive.NewObjectID()

	_, err := svc.AddItem(context.Background(), customerID, product.ID, 3)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Minimum order quantity for this product is 5", appErr.Message)
}

func TestAddItemNewLineUsesOfferPrice(t *testing.T) {
	product := testProduct(2, 100, 120)
	carts := newFakeCarts()
	svc := NewCartService(newFakeProducts(product), carts)
	customerID := primitive.NewObjectID()

	cart, err := svc.AddItem(context.Background(), customerID, product.ID, 3)

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 100.0, cart.Items[0].Price)
	assert.Equal(t, 300.0, cart.TotalAmount)
	assert.Equal(t, 1, carts.saves)
}

func TestAddItemFallsBackToSingleUnitPrice(t *testing.T) {
	product := testProduct(1, 0, 120)
	svc := NewCartService(newFakeProducts(product), newFakeCarts())

	cart, err := svc.AddItem(context.Background(), primitive.NewObjectID(), product.ID, 2)

	require.NoError(t, err)
	assert.Equal(t, 120.0, cart.Items[0].Price)
	assert.Equal(t, 240.0, cart.TotalAmount)
}

func TestAddItemDeltaToZeroRemovesLine(t *testing.T) {
	product := testProduct(10, 50, 60)
	svc := NewCartService(newFakeProducts(product), newFakeCarts())
	customerID := primitive.NewObjectID()

	_, err := svc.AddItem(context.Background(), customerID, product.ID, 10)
	require.NoError(t, err)

	cart, err := svc.AddItem(context.Background(), customerID, product.ID, -10)

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.TotalAmount)
}

func TestAddItemDeltaBelowMinimumRejected(t *testing.T) {
	product := testProduct(10, 50, 60)
	svc := NewCartService(newFakeProducts(product), newFakeCarts())
	customerID := primitive.NewObjectID()

	_, err := svc.AddItem(context.Background(), customerID, product.ID, 10)
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), customerID, product.ID, -5)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Minimum order quantity for this product is 10", appErr.Message)

	// The rejected edit leaves the stored cart untouched
	view, err := svc.GetCart(context.Background(), customerID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 10, view.Items[0].Quantity)
}

func TestAddItemRefreshesPriceOnEdit(t *testing.T) {
	product := testProduct(1, 100, 120)
	products := newFakeProducts(product)
	carts := newFakeCarts()
	svc := NewCartService(products, carts)
	customerID := primitive.NewObjectID()

	_, err := svc.AddItem(context.Background(), customerID, product.ID, 2)
	require.NoError(t, err)

	// Price drops between the two edits
	product.OfferPrice = 80
	products.products[product.ID] = product

	cart, err := svc.AddItem(context.Background(), customerID, product.ID, 1)

	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 80.0, cart.Items[0].Price)
	assert.Equal(t, 240.0, cart.TotalAmount)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := NewCartService(newFakeProducts(), newFakeCarts())

	_, err := svc.AddItem(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 1)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Product not found", appErr.Message)
}

func TestAddItemZeroMinimumTreatedAsOne(t *testing.T) {
	product := testProduct(0, 50, 60)
	svc := NewCartService(newFakeProducts(product), newFakeCarts())

	cart, err := svc.AddItem(context.Background(), primitive.NewObjectID(), product.ID, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestGetCartWithoutCartReturnsEmptyShape(t *testing.T) {
	svc := NewCartService(newFakeProducts(), newFakeCarts())

	view, err := svc.GetCart(context.Background(), primitive.NewObjectID())

	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0.0, view.TotalAmount)
}

func TestGetCartJoinsProductDetails(t *testing.T) {
	product := testProduct(1, 100, 120)
	svc := NewCartService(newFakeProducts(product), newFakeCarts())
	customerID := primitive.NewObjectID()

	_, err := svc.AddItem(context.Background(), customerID, product.ID, 2)
	require.NoError(t, err)

	view, err := svc.GetCart(context.Background(), customerID)

	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Basmati Rice 5kg", view.Items[0].Product.Name)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 200.0, view.TotalAmount)
}

func TestGetCartToleratesDeletedProduct(t *testing.T) {
	product := testProduct(1, 100, 120)
	products := newFakeProducts(product)
	svc := NewCartService(products, newFakeCarts())
	customerID := primitive.NewObjectID()

	_, err := svc.AddItem(context.Background(), customerID, product.ID, 2)
	require.NoError(t, err)

	delete(products.products, product.ID)

	view, err := svc.GetCart(context.Background(), customerID)

	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, product.ID, view.Items[0].Product.ID)
	assert.Empty(t, view.Items[0].Product.Name)
}

func TestRemoveItemWithoutCart(t *testing.T) {
	svc := NewCartService(newFakeProducts(), newFakeCarts())

	_, err := svc.RemoveItem(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Cart not found", appErr.Message)
}

func TestRemoveItemIgnoresMinimum(t *testing.T) {
	product := testProduct(10, 50, 60)
	svc := NewCartService(newFakeProducts(product), newFakeCarts())
	customerID := primitive.NewObjectID()

	_, err := svc.AddItem(context.Background(), customerID, product.ID, 10)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(context.Background(), customerID, product.ID)

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.TotalAmount)
}
