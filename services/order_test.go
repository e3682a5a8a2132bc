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

func seedCart(t *testing.T, carts *fakeCarts, customerID primitive.ObjectID, items ...models.CartItem) {
	t.Helper()
	cart := &models.Cart{Customer: customerID, Items: items}
	cart.Recalculate()
	require.NoError(t, carts.Save(context.Background(), cart))
}

func TestPlaceOrderSnapshotsCartAndClearsIt(t *testing.T) {
	product := testProduct(1, 50, 60)
	products := newFakeProducts(product)
	carts := newFakeCarts()
	orders := &fakeOrders{}
	customerID := primitive.NewObjectID()
	customers := newFakeCustomers(models.Customer{ID: customerID, Name: "Asha", IsActive: true})

	seedCart(t, carts, customerID, models.CartItem{Product: product.ID, Quantity: 5, Price: 50})

	svc := NewOrderService(orders, carts, products, customers, nil, nil)
	order, err := svc.PlaceOrder(context.Background(), customerID, PlaceOrderRequest{
		ShippingAddress: models.Address{Street: "12 Main St", City: "Pune"},
	})

	require.NoError(t, err)
	assert.False(t, order.ID.IsZero())
	assert.Equal(t, models.StatusPlaced, order.OrderStatus)
	assert.Equal(t, models.PaymentCOD, order.PaymentMethod)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, 250.0, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Basmati Rice 5kg", order.Items[0].Name)
	assert.Equal(t, 50.0, order.Items[0].Price)
	require.Len(t, order.TrackingHistory, 1)
	assert.Equal(t, "Order placed successfully", order.TrackingHistory[0].Description)

	stored, err := carts.FindByCustomer(context.Background(), customerID)
	require.NoError(t, err)
	assert.Empty(t, stored.Items)
	assert.Equal(t, 0.0, stored.TotalAmount)
}

func TestPlaceOrderSnapshotUsesCartPriceNotCurrent(t *testing.T) {
	product := testProduct(1, 80, 90)
	products := newFakeProducts(product)
	carts := newFakeCarts()
	customerID := primitive.NewObjectID()
	customers := newFakeCustomers()

	// The cart line was priced before the product price changed
	seedCart(t, carts, customerID, models.CartItem{Product: product.ID, Quantity: 2, Price: 100})

	svc := NewOrderService(&fakeOrders{}, carts, products, customers, nil, nil)
	order, err := svc.PlaceOrder(context.Background(), customerID, PlaceOrderRequest{})

	require.NoError(t, err)
	assert.Equal(t, 100.0, order.Items[0].Price)
	assert.Equal(t, 200.0, order.TotalAmount)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	orders := &fakeOrders{}
	svc := NewOrderService(orders, newFakeCarts(), newFakeProducts(), newFakeCustomers(), nil, nil)

	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderRequest{})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Cart is empty", appErr.Message)
	assert.Empty(t, orders.orders)
}

func TestPlaceOrderInvalidPaymentMethod(t *testing.T) {
	svc := NewOrderService(&fakeOrders{}, newFakeCarts(), newFakeProducts(), newFakeCustomers(), nil, nil)

	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderRequest{PaymentMethod: "CRYPTO"})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invalid payment method", appErr.Message)
}

func TestPlaceOrderVanishedProduct(t *testing.T) {
	carts := newFakeCarts()
	customerID := primitive.NewObjectID()
	seedCart(t, carts, customerID, models.CartItem{Product: primitive.NewObjectID(), Quantity: 1, Price: 10})

	orders := &fakeOrders{}
	svc := NewOrderService(orders, carts, newFakeProducts(), newFakeCustomers(), nil, nil)

	_, err := svc.PlaceOrder(context.Background(), customerID, PlaceOrderRequest{})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Product in cart not found", appErr.Message)
	assert.Empty(t, orders.orders)
}

func TestUpdateStatusAppendsTracking(t *testing.T) {
	customerID := primitive.NewObjectID()
	orders := &fakeOrders{}
	order := &models.Order{
		Customer:    customerID,
		OrderStatus: models.StatusPlaced,
		TrackingHistory: []models.TrackingEntry{
			{Status: models.StatusPlaced, Description: "Order placed successfully"},
		},
	}
	require.NoError(t, orders.Insert(context.Background(), order))

	push := &fakePush{}
	customers := newFakeCustomers(models.Customer{ID: customerID, Name: "Asha", IsActive: true, FCMToken: "tok-1"})
	svc := NewOrderService(orders, newFakeCarts(), newFakeProducts(), customers, push, nil)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusShipped)

	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.OrderStatus)
	require.Len(t, updated.TrackingHistory, 2)
	assert.Equal(t, "Order placed successfully", updated.TrackingHistory[0].Description)
	assert.Equal(t, "Order status updated to Shipped", updated.TrackingHistory[1].Description)
	assert.Equal(t, []string{"tok-1"}, push.sent)
}

func TestUpdateStatusInvalidStatus(t *testing.T) {
	svc := NewOrderService(&fakeOrders{}, newFakeCarts(), newFakeProducts(), newFakeCustomers(), nil, nil)

	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID(), "Teleported")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invalid order status", appErr.Message)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc := NewOrderService(&fakeOrders{}, newFakeCarts(), newFakeProducts(), newFakeCustomers(), nil, nil)

	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID(), models.StatusPacked)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestUpdateStatusPushFailureDoesNotFailUpdate(t *testing.T) {
	customerID := primitive.NewObjectID()
	orders := &fakeOrders{}
	order := &models.Order{Customer: customerID, OrderStatus: models.StatusPlaced}
	require.NoError(t, orders.Insert(context.Background(), order))

	push := &fakePush{failTokens: map[string]bool{"tok-1": true}}
	customers := newFakeCustomers(models.Customer{ID: customerID, IsActive: true, FCMToken: "tok-1"})
	svc := NewOrderService(orders, newFakeCarts(), newFakeProducts(), customers, push, nil)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusDelivered)

	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.OrderStatus)
}

func TestTrackOrderScopedToOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	orders := &fakeOrders{}
	order := &models.Order{
		Customer:    owner,
		OrderStatus: models.StatusPacked,
		TrackingHistory: []models.TrackingEntry{
			{Status: models.StatusPlaced, Description: "Order placed successfully"},
			{Status: models.StatusPacked, Description: "Order status updated to Packed"},
		},
	}
	require.NoError(t, orders.Insert(context.Background(), order))

	svc := NewOrderService(orders, newFakeCarts(), newFakeProducts(), newFakeCustomers(), nil, nil)

	tracking, err := svc.TrackOrder(context.Background(), order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPacked, tracking.OrderStatus)
	assert.Len(t, tracking.TrackingHistory, 2)

	// Another customer's ID gets not-found, not someone else's order
	_, err = svc.TrackOrder(context.Background(), order.ID, primitive.NewObjectID())
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestSearchOrdersByOrderID(t *testing.T) {
	customerID := primitive.NewObjectID()
	orders := &fakeOrders{}
	order := &models.Order{Customer: customerID, OrderStatus: models.StatusPlaced}
	require.NoError(t, orders.Insert(context.Background(), order))

	customers := newFakeCustomers(models.Customer{ID: customerID, Name: "Asha", Phone: "9876543210"})
	svc := NewOrderService(orders, newFakeCarts(), newFakeProducts(), customers, nil, nil)

	results, err := svc.SearchOrders(context.Background(), order.ID.Hex())

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, order.ID, results[0].ID)
	require.NotNil(t, results[0].CustomerInfo)
	assert.Equal(t, "Asha", results[0].CustomerInfo.Name)
}

func TestSearchOrdersByCustomerName(t *testing.T) {
	customerID := primitive.NewObjectID()
	orders := &fakeOrders{}
	require.NoError(t, orders.Insert(context.Background(), &models.Order{Customer: customerID}))
	require.NoError(t, orders.Insert(context.Background(), &models.Order{Customer: primitive.NewObjectID()}))

	customers := newFakeCustomers(models.Customer{ID: customerID, Name: "Asha Patel", Phone: "9876543210"})
	svc := NewOrderService(orders, newFakeCarts(), newFakeProducts(), customers, nil, nil)

	results, err := svc.SearchOrders(context.Background(), "asha")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, customerID, results[0].Customer)
}

func TestSearchOrdersNoMatches(t *testing.T) {
	svc := NewOrderService(&fakeOrders{}, newFakeCarts(), newFakeProducts(), newFakeCustomers(), nil, nil)

	results, err := svc.SearchOrders(context.Background(), "nobody")

	require.NoError(t, err)
	assert.Empty(t, results)
}
