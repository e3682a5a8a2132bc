package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-grocery/models"
	"go-grocery/utils"
)

// RecipientKind tags which collection a broadcast recipient came from, so
// invalid-token cleanup addresses only that collection.
type RecipientKind int

const (
	KindCustomer RecipientKind = iota
	KindPartner
)

// Recipient is one device the fan-out will target.
type Recipient struct {
	Kind  RecipientKind
	ID    primitive.ObjectID
	Token string
}

// NotificationService runs admin broadcasts: it records the send, fans out
// to every eligible device concurrently with all-settle semantics, cleans up
// invalid tokens, and writes the final metrics exactly once.
type NotificationService struct {
	notifications NotificationStore
	customers     CustomerStore
	partners      PartnerStore
	push          PushSender
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(notifications NotificationStore, customers CustomerStore, partners PartnerStore, push PushSender) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		customers:     customers,
		partners:      partners,
		push:          push,
	}
}

// SendRequest is the broadcast payload. Target and Audience are accepted as
// synonyms; Target wins when both are set.
type SendRequest struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Target   string `json:"target"`
	Audience string `json:"audience"`
}

func (r *SendRequest) audience() string {
	if r.Target != "" {
		return r.Target
	}
	if r.Audience != "" {
		return r.Audience
	}
	return models.AudienceCustomers
}

// Send broadcasts a notification to the chosen audience. The record is
// created with status "sending" before any delivery is attempted, and
// finalized as "sent" with the counters once every attempt settles, even
// when all deliveries failed.
func (s *NotificationService) Send(ctx context.Context, adminID primitive.ObjectID, req SendRequest) (*models.AdminNotification, error) {
	if req.Title == "" || req.Message == "" {
		return nil, utils.ValidationError("Title and Message are required")
	}
	audience := req.audience()
	if !models.IsValidAudience(audience) {
		return nil, utils.ValidationError("Invalid target audience")
	}

	record := &models.AdminNotification{
		Title:          req.Title,
		Message:        req.Message,
		TargetAudience: audience,
		Status:         models.NotificationSending,
		SentAt:         time.Now(),
		CreatedBy:      adminID,
	}
	if err := s.notifications.Insert(ctx, record); err != nil {
		return nil, err
	}

	recipients, err := s.resolveRecipients(ctx, audience)
	if err != nil {
		return nil, err
	}

	delivered, failed := s.fanOut(ctx, recipients, req.Title, req.Message)

	record.Status = models.NotificationSent
	record.Metrics = models.NotificationMetrics{
		TotalTarget: len(recipients),
		Delivered:   delivered,
		Failed:      failed,
	}
	if err := s.notifications.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *NotificationService) resolveRecipients(ctx context.Context, audience string) ([]Recipient, error) {
	var recipients []Recipient

	if audience == models.AudienceCustomers || audience == models.AudienceAll {
		customers, err := s.customers.ListWithTokens(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range customers {
			recipients = append(recipients, Recipient{Kind: KindCustomer, ID: c.ID, Token: c.FCMToken})
		}
	}

	if audience == models.AudiencePartners || audience == models.AudienceAll {
		partners, err := s.partners.ListWithTokens(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range partners {
			recipients = append(recipients, Recipient{Kind: KindPartner, ID: p.ID, Token: p.FCMToken})
		}
	}

	return recipients, nil
}

// fanOut attempts delivery to every recipient concurrently and waits for all
// attempts to finish, successful or not, before returning the counters.
func (s *NotificationService) fanOut(ctx context.Context, recipients []Recipient, title, message string) (delivered, failed int) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	data := map[string]string{"type": "admin_broadcast"}
	for _, recipient := range recipients {
		wg.Add(1)
		go func(r Recipient) {
			defer wg.Done()
			err := s.push.Send(ctx, r.Token, title, message, data)
			mu.Lock()
			if err != nil {
				failed++
			} else {
				delivered++
			}
			mu.Unlock()

			if errors.Is(err, utils.ErrInvalidToken) {
				s.clearToken(ctx, r)
			}
		}(recipient)
	}
	wg.Wait()
	return delivered, failed
}

func (s *NotificationService) clearToken(ctx context.Context, r Recipient) {
	var err error
	switch r.Kind {
	case KindCustomer:
		err = s.customers.ClearToken(ctx, r.ID)
	case KindPartner:
		err = s.partners.ClearToken(ctx, r.ID)
	}
	if err != nil {
		log.Printf("Failed to clear invalid token for %s: %v", r.ID.Hex(), err)
	}
}

// History returns one page of broadcast records, newest first.
func (s *NotificationService) History(ctx context.Context, page, limit int) ([]models.AdminNotification, int64, error) {
	return s.notifications.List(ctx, page, limit)
}

// Get returns one broadcast record.
func (s *NotificationService) Get(ctx context.Context, id primitive.ObjectID) (*models.AdminNotification, error) {
	record, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, utils.NotFoundError("Notification not found")
	}
	return record, nil
}
