package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-grocery/models"
	"go-grocery/utils"
)

type fakeProducts struct {
	products map[primitive.ObjectID]models.Product
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{products: map[primitive.ObjectID]models.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := map[primitive.ObjectID]models.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeCarts struct {
	carts   map[primitive.ObjectID]*models.Cart
	saveErr error
	saves   int
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: map[primitive.ObjectID]*models.Cart{}}
}

func (f *fakeCarts) FindByCustomer(_ context.Context, customerID primitive.ObjectID) (*models.Cart, error) {
	if c, ok := f.carts[customerID]; ok {
		copied := *c
		copied.Items = append([]models.CartItem{}, c.Items...)
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeCarts) Save(_ context.Context, cart *models.Cart) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	copied := *cart
	copied.Items = append([]models.CartItem{}, cart.Items...)
	f.carts[cart.Customer] = &copied
	return nil
}

type fakeOrders struct {
	orders []*models.Order
}

func (f *fakeOrders) Insert(_ context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	copied := *order
	f.orders = append(f.orders, &copied)
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) FindForCustomer(_ context.Context, id, customerID primitive.ObjectID) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == id && o.Customer == customerID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) ListByCustomer(_ context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		if o.Customer == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) ListAll(_ context.Context) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrders) Search(_ context.Context, customerIDs []primitive.ObjectID, orderID *primitive.ObjectID) ([]models.Order, error) {
	byCustomer := map[primitive.ObjectID]bool{}
	for _, id := range customerIDs {
		byCustomer[id] = true
	}
	out := []models.Order{}
	for _, o := range f.orders {
		if byCustomer[o.Customer] || (orderID != nil && o.ID == *orderID) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) Update(_ context.Context, order *models.Order) error {
	for i, o := range f.orders {
		if o.ID == order.ID {
			copied := *order
			f.orders[i] = &copied
			return nil
		}
	}
	return fmt.Errorf("order %s not found", order.ID.Hex())
}

type fakeCustomers struct {
	mu        sync.Mutex
	customers map[primitive.ObjectID]models.Customer
	cleared   []primitive.ObjectID
}

func newFakeCustomers(customers ...models.Customer) *fakeCustomers {
	f := &fakeCustomers{customers: map[primitive.ObjectID]models.Customer{}}
	for _, c := range customers {
		f.customers[c.ID] = c
	}
	return f
}

func (f *fakeCustomers) FindByID(_ context.Context, id primitive.ObjectID) (*models.Customer, error) {
	if c, ok := f.customers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeCustomers) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Customer, error) {
	out := map[primitive.ObjectID]models.Customer{}
	for _, id := range ids {
		if c, ok := f.customers[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (f *fakeCustomers) SearchIDs(_ context.Context, query string) ([]primitive.ObjectID, error) {
	query = strings.ToLower(query)
	ids := []primitive.ObjectID{}
	for _, c := range f.customers {
		if strings.Contains(strings.ToLower(c.Name), query) || strings.Contains(c.Phone, query) {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (f *fakeCustomers) ListWithTokens(_ context.Context) ([]models.Customer, error) {
	out := []models.Customer{}
	for _, c := range f.customers {
		if c.IsActive && c.FCMToken != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCustomers) ClearToken(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, id)
	return nil
}

type fakePartners struct {
	mu       sync.Mutex
	partners []models.DeliveryPartner
	cleared  []primitive.ObjectID
}

func (f *fakePartners) ListWithTokens(_ context.Context) ([]models.DeliveryPartner, error) {
	out := []models.DeliveryPartner{}
	for _, p := range f.partners {
		if p.IsActive && p.FCMToken != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePartners) ClearToken(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, id)
	return nil
}

type fakeNotifications struct {
	records map[primitive.ObjectID]models.AdminNotification
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{records: map[primitive.ObjectID]models.AdminNotification{}}
}

func (f *fakeNotifications) Insert(_ context.Context, n *models.AdminNotification) error {
	n.ID = primitive.NewObjectID()
	f.records[n.ID] = *n
	return nil
}

func (f *fakeNotifications) Update(_ context.Context, n *models.AdminNotification) error {
	f.records[n.ID] = *n
	return nil
}

func (f *fakeNotifications) FindByID(_ context.Context, id primitive.ObjectID) (*models.AdminNotification, error) {
	if n, ok := f.records[id]; ok {
		return &n, nil
	}
	return nil, nil
}

func (f *fakeNotifications) List(_ context.Context, page, limit int) ([]models.AdminNotification, int64, error) {
	out := []models.AdminNotification{}
	for _, n := range f.records {
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

// fakePush records every send; it is safe for the concurrent fan-out.
type fakePush struct {
	mu            sync.Mutex
	sent          []string
	failTokens    map[string]bool
	invalidTokens map[string]bool
}

func (f *fakePush) Send(_ context.Context, token, title, body string, data map[string]string) error {
	f.mu.Lock()
	f.sent = append(f.sent, token)
	f.mu.Unlock()
	if f.invalidTokens[token] {
		return fmt.Errorf("%w: unregistered", utils.ErrInvalidToken)
	}
	if f.failTokens[token] {
		return fmt.Errorf("fcm unavailable")
	}
	return nil
}
