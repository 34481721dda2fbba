// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"
	"os"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/infrastructure/email/templates"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendMenuPublishedEmail(toEmail, menuTitle string, appliedCount, failedCount int) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("PUBLISH_EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "noreply@menustack.app"
	}

	fromName := os.Getenv("PUBLISH_EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "MenuStack"
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendMenuPublishedEmail notifies the restaurant owner that their menu was
// saved from the front-end editor.
func (c *ResendClient) SendMenuPublishedEmail(toEmail, menuTitle string, appliedCount, failedCount int) error {
	subject := fmt.Sprintf("Your menu %q was updated", menuTitle)

	content := templates.GetMenuPublishedContent(templates.MenuPublishedProps{
		MenuTitle:    menuTitle,
		AppliedCount: appliedCount,
		FailedCount:  failedCount,
		SavedAt:      time.Now().UTC().Format(time.RFC1123),
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: subject,
		Content:   content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send menu published email via Resend: %w", err)
	}

	return nil
}
