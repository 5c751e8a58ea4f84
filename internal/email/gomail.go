package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/hms-api/internal/config"
)

type gomailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailService creates an SMTP-backed email service.
func NewGomailService(cfg config.SMTPConfig) Service {
	return &gomailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *gomailService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your account has been created successfully.</p>", name)
	return s.send(ctx, to, "Welcome", body)
}

func (s *gomailService) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	body := fmt.Sprintf("<p>To reset your password, follow this link within 10 minutes:</p><p><a href=%q>%s</a></p>", resetURL, resetURL)
	return s.send(ctx, to, "Password Reset", body)
}

func (s *gomailService) SendGeneratedCredentials(ctx context.Context, to, password string) error {
	body := fmt.Sprintf("<p>Your temporary password is <b>%s</b>. Please change it after your first login.</p>", password)
	return s.send(ctx, to, "Your Account Credentials", body)
}

func (s *gomailService) send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
