package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/dabinj96/Peaberry-sub000/config"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// smtpSender implements the MailSender interface over plain SMTP with a
// per-recipient rate limiter in front of the wire.
type smtpSender struct {
	addr     string
	auth     smtp.Auth
	from     string
	baseURL  string
	limiter  *RecipientLimiter
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	logger   *slog.Logger
}

// SenderParams holds dependencies for smtpSender, injected by Fx.
type SenderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewSMTPSender is the constructor for smtpSender.
func NewSMTPSender(params SenderParams) (service.MailSender, error) {
	cfg := params.Config.Mailer
	if cfg == nil {
		return nil, errors.New("mailer configuration is required")
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &smtpSender{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:     auth,
		from:     cfg.From,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		limiter:  NewRecipientLimiter(cfg.RateLimit.MaxPerWindow, cfg.RateLimit.Window, cfg.RateLimit.Lockout, nil),
		sendMail: smtp.SendMail,
		logger:   params.Logger,
	}, nil
}

// SendPasswordReset delivers a reset link containing the raw token.
func (s *smtpSender) SendPasswordReset(ctx context.Context, to, token string) error {
	body := fmt.Sprintf(
		"A password reset was requested for your account.\r\n\r\n"+
			"Open the link below to choose a new password:\r\n%s/reset-password?token=%s\r\n\r\n"+
			"If you did not request this, you can ignore this message.\r\n",
		s.baseURL, token,
	)

	return s.send(ctx, to, "Reset your password", body)
}

// SendPasswordChanged notifies the account that its password changed.
func (s *smtpSender) SendPasswordChanged(ctx context.Context, to string) error {
	body := "The password on your account was just changed.\r\n\r\n" +
		"If this was not you, request a password reset immediately.\r\n"

	return s.send(ctx, to, "Your password was changed", body)
}

func (s *smtpSender) send(ctx context.Context, to, subject, body string) error {
	if !s.limiter.Allow(to) {
		s.logger.Warn("Mail rate limit hit", slog.String("subject", subject))

		return errors.New("recipient is rate limited")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.from, to, subject, body)

	// net/smtp has no context support; run the dial in a goroutine so a
	// cancelled request is not stuck behind a slow SMTP server.
	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg))
	}()

	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "mail send cancelled")
	case err := <-done:
		if err != nil {
			return errors.Wrap(err, "smtp send failed")
		}

		return nil
	}
}
