// Package email delivers the rendered report over SMTP.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"TVPriceScanner/internal/config"
	"TVPriceScanner/internal/ports"
)

// Notifier sends the HTML report to a single recipient.
type Notifier struct {
	host      string
	port      int
	sender    string
	recipient string
	password  string
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier builds a notifier from email configuration.
func NewNotifier(cfg config.EmailConfig) *Notifier {
	return &Notifier{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		sender:    cfg.Sender,
		recipient: cfg.Recipient,
		password:  cfg.Password,
	}
}

// Send posts the report. Callers treat a failure as log-worthy only; the
// run's history and export have already committed by the time this runs.
func (n *Notifier) Send(ctx context.Context, subject, htmlBody string) error {
	if n.sender == "" || n.recipient == "" || n.password == "" || n.host == "" {
		return fmt.Errorf("email notifier misconfigured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.sender)
	m.SetHeader("To", n.recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(n.host, n.port, n.sender, n.password)
	d.SSL = n.port == 465

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send report email: %w", err)
	}
	return nil
}
