// Package mail implements the contact-form relay: a single plain-text email
// sent to the operator's inbox over an authenticated SMTP connection.
package mail

import (
	"context"
	"fmt"
	"go-blog-app/internal/config"
	"time"

	gomail "github.com/wneessen/go-mail"
)

const contactSubject = "A Blog User Contacted"

// Mailer sends contact-form messages to the site operator.
type Mailer interface {
	SendContactMessage(ctx context.Context, name, email, phone, message string) error
}

// SMTPMailer delivers mail synchronously over SMTP with implicit TLS.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a new SMTPMailer from the relay configuration.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendContactMessage composes and sends the contact email. Any failure is
// returned to the caller so the handler can degrade to a user-visible notice
// instead of an error page.
func (m *SMTPMailer) SendContactMessage(ctx context.Context, name, email, phone, message string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.fromAddress()); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(m.cfg.Recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(contactSubject)
	msg.SetBodyString(gomail.TypeTextPlain, FormatContactBody(name, email, phone, message))

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithTimeout(time.Duration(m.cfg.Timeout)*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send contact message: %w", err)
	}
	return nil
}

// fromAddress returns the configured sender address, falling back to the
// relay account's username when no explicit sender is set.
func (m *SMTPMailer) fromAddress() string {
	if m.cfg.From != "" {
		return m.cfg.From
	}
	return m.cfg.Username
}

// FormatContactBody renders the plain-text body of the contact email.
func FormatContactBody(name, email, phone, message string) string {
	return fmt.Sprintf("Name: %s\n Email: %s\n Phone Number: %s\n message: %s", name, email, phone, message)
}
