package utils

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService handles sending transactional email through SendGrid
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, toName, subject, content string) error {
	from := mail.NewEmail("Grocery Delivery", es.sender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, content, content)

	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: status %d", resp.StatusCode)
	}
	return nil
}

// SendOrderConfirmation sends an order confirmation email to a customer.
func (es *EmailService) SendOrderConfirmation(toEmail, toName, orderID string, totalAmount float64) error {
	subject := "Order Confirmation - Grocery Delivery"
	content := fmt.Sprintf(
		"Dear %s,\n\nThank you for your purchase! Your order (ID: %s) has been placed successfully.\n\nTotal Amount: %.2f\n\nThank you for shopping with us!\n",
		toName, orderID, totalAmount,
	)
	return es.SendEmail(toEmail, toName, subject, content)
}
