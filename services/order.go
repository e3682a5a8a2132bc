package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-grocery/models"
	"go-grocery/utils"
)

// OrderService owns the order lifecycle: the cart-to-order transition, status
// updates with their append-only tracking history, and the customer-facing
// queries.
type OrderService struct {
	orders    OrderStore
	carts     CartStore
	products  ProductReader
	customers CustomerStore
	push      PushSender
	mail      Mailer
}

// NewOrderService creates an OrderService. mail may be nil to skip
// confirmation emails.
func NewOrderService(orders OrderStore, carts CartStore, products ProductReader, customers CustomerStore, push PushSender, mail Mailer) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		products:  products,
		customers: customers,
		push:      push,
		mail:      mail,
	}
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	ShippingAddress models.Address `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
}

// PlaceOrder converts the customer's cart into an immutable order snapshot
// and empties the cart. The two writes are separate persistence calls, not a
// transaction: an order can exist with the cart still full after a crash in
// between. Stock is not decremented.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID primitive.ObjectID, req PlaceOrderRequest) (*models.Order, error) {
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentCOD
	}
	if paymentMethod != models.PaymentCOD && paymentMethod != models.PaymentOnline {
		return nil, utils.ValidationError("Invalid payment method")
	}

	cart, err := s.carts.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, utils.ValidationError("Cart is empty")
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.Product)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	total := 0.0
	for _, item := range cart.Items {
		product, ok := products[item.Product]
		if !ok {
			return nil, utils.NotFoundError("Product in cart not found")
		}
		items = append(items, models.OrderItem{
			Product:  product.ID,
			Name:     product.Name,
			Quantity: item.Quantity,
			Price:    item.Price, // the cart line's price, not re-read from the product
			Image:    product.FirstImage(),
		})
		total += item.Price * float64(item.Quantity)
	}

	order := &models.Order{
		Customer:        customerID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		TotalAmount:     total,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.StatusPlaced,
		TrackingHistory: []models.TrackingEntry{{
			Status:      models.StatusPlaced,
			Timestamp:   time.Now(),
			Description: "Order placed successfully",
		}},
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}

	// Clearing the cart after the order write is best-effort
	cart.Items = []models.CartItem{}
	cart.TotalAmount = 0
	if err := s.carts.Save(ctx, cart); err != nil {
		log.Printf("Failed to clear cart for customer %s after order %s: %v", customerID.Hex(), order.ID.Hex(), err)
	}

	if s.mail != nil {
		if customer, err := s.customers.FindByID(ctx, customerID); err == nil && customer != nil {
			go func(email, name, orderID string, amount float64) {
				if err := s.mail.SendOrderConfirmation(email, name, orderID, amount); err != nil {
					log.Printf("Failed to send order confirmation to %s: %v", email, err)
				}
			}(customer.Email, customer.Name, order.ID.Hex(), order.TotalAmount)
		}
	}

	return order, nil
}

// MyOrders returns the customer's orders, newest first.
func (s *OrderService) MyOrders(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

// GetOrder returns one order scoped to its owner.
func (s *OrderService) GetOrder(ctx context.Context, orderID, customerID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindForCustomer(ctx, orderID, customerID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, utils.NotFoundError("Order not found")
	}
	return order, nil
}

// TrackingView is the tracking endpoint's shape.
type TrackingView struct {
	OrderStatus     string                 `json:"orderStatus"`
	TrackingHistory []models.TrackingEntry `json:"trackingHistory"`
}

// TrackOrder returns the status and tracking history of an order scoped to
// its owner. Ownership is enforced by the query predicate, not a separate
// authorization pass.
func (s *OrderService) TrackOrder(ctx context.Context, orderID, customerID primitive.ObjectID) (*TrackingView, error) {
	order, err := s.orders.FindForCustomer(ctx, orderID, customerID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, utils.NotFoundError("Order not found")
	}
	return &TrackingView{OrderStatus: order.OrderStatus, TrackingHistory: order.TrackingHistory}, nil
}

// AllOrders returns every order with customer summaries attached, newest
// first.
func (s *OrderService) AllOrders(ctx context.Context) ([]models.OrderAdminView, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.attachCustomers(ctx, orders)
}

// GetOrderAdmin returns one order with its customer summary attached.
func (s *OrderService) GetOrderAdmin(ctx context.Context, orderID primitive.ObjectID) (*models.OrderAdminView, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, utils.NotFoundError("Order not found")
	}
	views, err := s.attachCustomers(ctx, []models.Order{*order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// UpdateStatus moves an order to newStatus, appending a tracking entry. The
// status must belong to the closed set and the transition must be allowed by
// the transition table. If the customer holds a push token a best-effort
// notification is fired; its failure never fails the update.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, newStatus string) (*models.Order, error) {
	if !models.IsValidOrderStatus(newStatus) {
		return nil, utils.ValidationError("Invalid order status")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, utils.NotFoundError("Order not found")
	}

	if !models.CanTransition(order.OrderStatus, newStatus) {
		return nil, utils.ValidationError(fmt.Sprintf("Order cannot move from %s to %s", order.OrderStatus, newStatus))
	}

	order.OrderStatus = newStatus
	order.TrackingHistory = append(order.TrackingHistory, models.TrackingEntry{
		Status:      newStatus,
		Timestamp:   time.Now(),
		Description: fmt.Sprintf("Order status updated to %s", newStatus),
	})
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, order)
	return order, nil
}

func (s *OrderService) notifyStatusChange(ctx context.Context, order *models.Order) {
	if s.push == nil {
		return
	}
	customer, err := s.customers.FindByID(ctx, order.Customer)
	if err != nil || customer == nil || customer.FCMToken == "" {
		log.Printf("No push token for customer %s on order %s", order.Customer.Hex(), order.ID.Hex())
		return
	}

	body := fmt.Sprintf("Your order #%s is now %s", order.ShortID(), order.OrderStatus)
	data := map[string]string{"orderId": order.ID.Hex()}
	if err := s.push.Send(ctx, customer.FCMToken, "Order Update", body, data); err != nil {
		log.Printf("Failed to push order update for %s: %v", order.ID.Hex(), err)
	}
}

// SearchOrders matches orders by exact 24-hex id or by case-insensitive
// customer name/phone substring, returning the union newest first. An empty
// query returns all orders.
func (s *OrderService) SearchOrders(ctx context.Context, query string) ([]models.OrderAdminView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.AllOrders(ctx)
	}

	customerIDs, err := s.customers.SearchIDs(ctx, query)
	if err != nil {
		return nil, err
	}

	var orderID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(query); err == nil {
		orderID = &oid
	}

	if len(customerIDs) == 0 && orderID == nil {
		return []models.OrderAdminView{}, nil
	}

	orders, err := s.orders.Search(ctx, customerIDs, orderID)
	if err != nil {
		return nil, err
	}
	return s.attachCustomers(ctx, orders)
}

func (s *OrderService) attachCustomers(ctx context.Context, orders []models.Order) ([]models.OrderAdminView, error) {
	ids := make([]primitive.ObjectID, 0, len(orders))
	seen := make(map[primitive.ObjectID]bool, len(orders))
	for _, order := range orders {
		if !seen[order.Customer] {
			seen[order.Customer] = true
			ids = append(ids, order.Customer)
		}
	}

	customers, err := s.customers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.OrderAdminView, 0, len(orders))
	for _, order := range orders {
		view := models.OrderAdminView{Order: order}
		if customer, ok := customers[order.Customer]; ok {
			summary := customer.Summary()
			view.CustomerInfo = &summary
		}
		views = append(views, view)
	}
	return views, nil
}
