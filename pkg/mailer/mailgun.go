package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const mailgunTimeout = 10 * time.Second

// Mailgun is the direct Sender used by the email worker and by MAIL_TRANSPORT=mailgun.
type Mailgun struct {
	from   string
	tags   []string
	client *mg.MailgunImpl
}

// NewMailgun builds a sender for domain. Every message is tagged with tags.
func NewMailgun(domain, apiKey, from string, tags ...string) *Mailgun {
	return &Mailgun{from: from, tags: tags, client: mg.NewMailgun(domain, apiKey)}
}

func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if m.from == "" {
		return errors.New("mailgun sender address not configured")
	}
	msg := m.client.NewMessage(m.from, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	if len(m.tags) > 0 {
		if err := msg.AddTag(m.tags...); err != nil {
			return fmt.Errorf("tag message: %w", err)
		}
	}
	c, cancel := context.WithTimeout(ctx, mailgunTimeout)
	defer cancel()
	if _, _, err := m.client.Send(c, msg); err != nil {
		return fmt.Errorf("mailgun send to %s: %w", to, err)
	}
	return nil
}
