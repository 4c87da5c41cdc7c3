package service

import "context"

// MailSender defines the transactional mail the application sends.
type MailSender interface {
	// SendPasswordReset delivers a reset link containing the raw token.
	SendPasswordReset(ctx context.Context, to, token string) error

	// SendPasswordChanged notifies the account that its password changed.
	SendPasswordChanged(ctx context.Context, to string) error
}
