package utils

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService delivers push notifications through Firebase Cloud Messaging.
// When no credentials are configured the client stays nil and sends are
// logged instead of delivered, so local setups keep working.
type FCMService struct {
	client *messaging.Client
}

// NewFCMService initializes the FCM client from the FIREBASE_CREDENTIALS
// environment variable (service account JSON).
func NewFCMService(ctx context.Context) *FCMService {
	creds := os.Getenv("FIREBASE_CREDENTIALS")
	if creds == "" {
		log.Println("FIREBASE_CREDENTIALS not set. Push notifications will be mocked.")
		return &FCMService{}
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON([]byte(creds)))
	if err != nil {
		log.Printf("Error initializing Firebase app: %v. Push notifications will be mocked.", err)
		return &FCMService{}
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("Error initializing FCM client: %v. Push notifications will be mocked.", err)
		return &FCMService{}
	}
	return &FCMService{client: client}
}

// Send delivers a title/body/data payload to one device token. Failures
// caused by an invalid or unregistered token wrap ErrInvalidToken so the
// caller can clear the token.
func (f *FCMService) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if f.client == nil {
		log.Printf("[MOCK NOTIFICATION] To: %s | Title: %s | Body: %s", token, title, body)
		return nil
	}

	msg := &messaging.Message{
		Token: token,
		Data:  data,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}

	_, err := f.client.Send(ctx, msg)
	if err != nil {
		if messaging.IsRegistrationTokenNotRegistered(err) || messaging.IsInvalidArgument(err) {
			return fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return err
	}
	return nil
}
