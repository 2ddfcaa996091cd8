package mailer

import (
	"context"
	"net/url"
	"time"

	"github.com/oksasatya/go-account-service/config"
	mailtpl "github.com/oksasatya/go-account-service/pkg/mailer/templates"
)

// Dispatcher composes transactional mails and hands them to a Sender.
type Dispatcher struct {
	cfg    *config.Config
	sender Sender
}

func NewDispatcher(cfg *config.Config, sender Sender) *Dispatcher {
	return &Dispatcher{cfg: cfg, sender: sender}
}

// VerifyURL is the frontend link carrying the verification token.
func VerifyURL(frontend, token string) string {
	return frontend + "/confirm-email?hash=" + url.QueryEscape(token)
}

// SendVerification renders the verify_email templates and sends them to email.
func (d *Dispatcher) SendVerification(ctx context.Context, email, token string, expiresAt time.Time) error {
	data := mailtpl.NewVerifyEmailData(d.cfg, email, VerifyURL(d.cfg.FrontendDomain, token), mailtpl.WithExpiresAt(expiresAt))
	job, err := RenderJob(EmailJob{To: email, Template: mailtpl.VerifyEmail, Data: data})
	if err != nil {
		return err
	}
	return d.sender.Send(ctx, job.To, job.Subject, job.Text, job.HTML)
}
