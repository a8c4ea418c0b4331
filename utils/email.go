// utils/email.go
package utils

import (
	"fmt"
	"go-bookstore/models"
	"os"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		panic("POSTMARK_API_TOKEN is not set in environment variables")
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerificationEmail sends an email verification link to the user
func (es *EmailService) SendVerificationEmail(toEmail, token string) error {
	subject := "Verify Your Email"
	verificationLink := fmt.Sprintf("%s/verify?token=%s", os.Getenv("BASE_URL"), token)
	htmlContent := fmt.Sprintf(
		"<strong>Please verify your email by clicking on the following link:</strong> <a href=\"%s\">Verify Email</a>",
		verificationLink,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOrderConfirmationEmail sends an order confirmation to the customer
// once the payment webhook has marked the order paid.
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Order Confirmation - Bookstore"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your payment for order <strong>%s</strong> has been received.<br><br>Items: <strong>%s</strong><br>Total Amount: <strong>$%.2f</strong><br><br>Your books are now available for download from your order history.",
		order.ID,
		order.Name,
		order.AmountTotal,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendSupportNotification forwards a new support ticket to the support inbox.
func (es *EmailService) SendSupportNotification(ticket models.Ticket) error {
	supportEmail := os.Getenv("SUPPORT_EMAIL")
	if supportEmail == "" {
		supportEmail = es.sender
	}
	subject := fmt.Sprintf("New support ticket from %s", ticket.Email)
	htmlContent := fmt.Sprintf(
		"<strong>From:</strong> %s<br><strong>User ID:</strong> %s<br><br>%s",
		ticket.Email,
		ticket.UserID,
		ticket.Message,
	)
	return es.SendEmail(supportEmail, subject, htmlContent)
}
