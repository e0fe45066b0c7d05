package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	appName   string
	appURL    string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appName, appURL string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		appName:   appName,
		appURL:    appURL,
		isDev:     isDev,
	}
}

// SendWelcomeEmail greets a freshly registered business. Registration does
// not depend on it; callers log failures and move on.
func (s *EmailService) SendWelcomeEmail(email, businessName string) error {
	subject := fmt.Sprintf("Welcome to %s", s.appName)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour account is ready. Sign in at %s and start generating marketing copy for your business.\n\n— The %s team\n",
		businessName, s.appURL, s.appName,
	)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "welcome", "to", email, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", "welcome", "to", email)
	}
	return err
}
