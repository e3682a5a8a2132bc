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

func tokenCustomer(name, token string) models.Customer {
	return models.Customer{ID: primitive.NewObjectID(), Name: name, IsActive: true, FCMToken: token}
}

func tokenPartner(name, token string) models.DeliveryPartner {
	return models.DeliveryPartner{ID: primitive.NewObjectID(), Name: name, IsActive: true, FCMToken: token}
}

func TestSendRequiresTitleAndMessage(t *testing.T) {
	svc := NewNotificationService(newFakeNotifications(), newFakeCustomers(), &fakePartners{}, &fakePush{})

	_, err := svc.Send(context.Background(), primitive.NewObjectID(), SendRequest{Title: "Hello"})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Title and Message are required", appErr.Message)
}

func TestSendRejectsUnknownAudience(t *testing.T) {
	svc := NewNotificationService(newFakeNotifications(), newFakeCustomers(), &fakePartners{}, &fakePush{})

	_, err := svc.Send(context.Background(), primitive.NewObjectID(), SendRequest{
		Title: "Sale", Message: "20% off", Target: "robots",
	})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invalid target audience", appErr.Message)
}

func TestSendToAllCountsEveryRecipient(t *testing.T) {
	customers := newFakeCustomers(
		tokenCustomer("A", "c1"),
		tokenCustomer("B", "c2"),
		tokenCustomer("C", "c3"),
	)
	partners := &fakePartners{partners: []models.DeliveryPartner{
		tokenPartner("P1", "p1"),
		tokenPartner("P2", "p2"),
	}}
	push := &fakePush{}
	svc := NewNotificationService(newFakeNotifications(), customers, partners, push)

	record, err := svc.Send(context.Background(), primitive.NewObjectID(), SendRequest{
		Title: "Sale", Message: "20% off", Target: models.AudienceAll,
	})

	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, record.Status)
	assert.Equal(t, 5, record.Metrics.TotalTarget)
	assert.Equal(t, 5, record.Metrics.Delivered)
	assert.Equal(t, 0, record.Metrics.Failed)
	assert.Len(t, push.sent, 5)
}

func TestSendDefaultsToCustomers(t *testing.T) {
	customers := newFakeCustomers(tokenCustomer("A", "c1"))
	partners := &fakePartners{partners: []models.DeliveryPartner{tokenPartner("P1", "p1")}}
	push := &fakePush{}
	svc := NewNotificationService(newFakeNotifications(), customers, partners, push)

	record, err := svc.Send(context.Background(), primitive.NewObjectID(), SendRequest{
		Title: "Sale", Message: "20% off",
	})

	require.NoError(t, err)
	assert.Equal(t, models.AudienceCustomers, record.TargetAudience)
	assert.Equal(t, []string{"c1"}, push.sent)
}

func TestSendSkipsTokenlessAndInactive(t *testing.T) {
	inactive := tokenCustomer("B", "c2")
	inactive.IsActive = false
	noToken := tokenCustomer("C", "")
	customers := newFakeCustomers(tokenCustomer("A", "c1"), inactive, noToken)
	push := &fakePush{}
	svc := NewNotificationService(newFakeNotifications(), customers, &fakePartners{}, push)

	record, err := svc.Send(context.Background(), primitive.NewObjectID(), SendRequest{
		Title: "Sale", Message: "20% off", Target: models.AudienceCustomers,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, record.Metrics.TotalTarget)
	assert.Equal(t, []string{"c1"}, push.sent)
}

func TestSendAllSettleWithFailures(t *testing.T) {
	customers := newFakeCustomers(
		tokenCustomer("A", "c1"),
		tokenCustomer("B", "c2"),
		tokenCustomer("C", "c3"),
	)
	push := &fakePush{failTokens: map[string]bool{"c2": true}}
	svc := NewNotificationService(newFakeNotifications(), customers, &fakePartners{}, push)

	record, err := svc.Send(context.Background(), primitive.NewObjectID(), SendRequest{
		Title: "Sale", Message: "20% off", Target: models.AudienceCustomers,
	})

	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, record.Status)
	assert.Equal(t, 3, record.Metrics.TotalTarget)
	assert.Equal(t, 2, record.Metrics.Delivered)
	assert.Equal(t, 1, record.Metrics.Failed)
}

func TestSendFinalizesAsSentWhenEveryDeliveryFails(t *testing.T) {
	customers := newFakeCustomers(tokenCustomer("A", "c1"))
	push := &fakePush{failTokens: map[string]bool{"c1": true}}
	store := newFakeNotifications()
	svc := NewNotificationService(store, customers, &fakePartners{}, push)

	record, err := svc.Send(context.Background(), primitive.NewObjectID(), SendRequest{
		Title: "Sale", Message: "20% off",
	})

	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, record.Status)
	assert.Equal(t, 0, record.Metrics.Delivered)
	assert.Equal(t, 1, record.Metrics.Failed)

	stored, err := store.FindByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, stored.Status)
}

func TestSendClearsInvalidTokensPerKind(t *testing.T) {
	badCustomer := tokenCustomer("A", "bad-customer")
	goodCustomer := tokenCustomer("B", "c2")
	customers := newFakeCustomers(badCustomer, goodCustomer)

	badPartner := tokenPartner("P1", "bad-partner")
	partners := &fakePartners{partners: []models.DeliveryPartner{badPartner, tokenPartner("P2", "p2")}}

	push := &fakePush{invalidTokens: map[string]bool{"bad-customer": true, "bad-partner": true}}
	svc := NewNotificationService(newFakeNotifications(), customers, partners, push)

	record, err := svc.Send(context.Background(), primitive.NewObjectID(), SendRequest{
		Title: "Sale", Message: "20% off", Target: models.AudienceAll,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, record.Metrics.TotalTarget)
	assert.Equal(t, 2, record.Metrics.Delivered)
	assert.Equal(t, 2, record.Metrics.Failed)
	assert.Equal(t, []primitive.ObjectID{badCustomer.ID}, customers.cleared)
	assert.Equal(t, []primitive.ObjectID{badPartner.ID}, partners.cleared)
}

func TestGetUnknownNotification(t *testing.T) {
	svc := NewNotificationService(newFakeNotifications(), newFakeCustomers(), &fakePartners{}, &fakePush{})

	_, err := svc.Get(context.Background(), primitive.NewObjectID())

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}
