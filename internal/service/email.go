package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// ResetMailer delivers password-reset links. Failures are non-fatal to the
// reset flow; callers log and continue.
type ResetMailer interface {
	SendPasswordResetEmail(email, resetURL string) error
}

type EmailService struct {
	client    *resend.Client
	fromEmail string
	appName   string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		appName:   appName,
		isDev:     isDev,
	}
}

func (s *EmailService) SendPasswordResetEmail(email, resetURL string) error {
	subject := fmt.Sprintf("Reset your %s password", s.appName)
	body := fmt.Sprintf(
		"You requested to reset your password.\n\n"+
			"Use the link below to set a new one. It expires in 1 hour.\n\n%s\n\n"+
			"If you did not request this, you can safely ignore this email.",
		resetURL)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "password_reset", "to", email, "subject", subject, "url", resetURL)
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
		slog.Info("email sent", "type", "password_reset", "to", email)
	}
	return err
}
