package email

import (
	"context"
)

// Service sends transactional account emails.
type Service interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
	SendGeneratedCredentials(ctx context.Context, to, password string) error
}
