// Package mailer delivers login codes over SMTP. Sending is best-effort:
// callers must treat an undelivered result as non-fatal.
package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"dashfinance/internal/config"
	"dashfinance/internal/logger"
)

// Result reports the outcome of a delivery attempt.
type Result struct {
	Delivered bool
}

// Sender delivers one-time login codes to users.
type Sender interface {
	SendLoginCode(to, code string, expiresIn time.Duration) Result
}

// SMTPSender sends login-code emails through the configured SMTP transport.
// When the transport is not configured it reports every delivery as not
// delivered without attempting a connection.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// New creates an SMTPSender from the mail transport configuration.
func New(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// SendLoginCode emails the raw login code to the user.
func (s *SMTPSender) SendLoginCode(to, code string, expiresIn time.Duration) Result {
	if !s.cfg.Configured() {
		return Result{Delivered: false}
	}

	minutes := int(expiresIn.Minutes())

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your access code - Dash Finance")
	msg.SetBody("text/plain", fmt.Sprintf("Your access code is %s. It expires in %d minutes.", code, minutes))
	msg.AddAlternative("text/html", fmt.Sprintf(
		"<p>Your access code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>", code, minutes))

	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Pass)
	dialer.SSL = s.cfg.Secure

	if err := dialer.DialAndSend(msg); err != nil {
		logger.Get().Warnw("login code email failed",
			"to", to,
			"error", err.Error(),
		)
		return Result{Delivered: false}
	}

	return Result{Delivered: true}
}
