package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/go-account-service/pkg/mailer/templates"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueSender hands messages to the email worker through RabbitMQ.
type QueueSender struct {
	pub Publisher
}

func NewQueueSender(pub Publisher) *QueueSender { return &QueueSender{pub: pub} }

func (q *QueueSender) Send(ctx context.Context, to, subject, text, html string) error {
	if q.pub == nil {
		return errors.New("mail queue not configured")
	}
	return q.pub.PublishJSON(ctx, EmailJob{To: to, Subject: subject, Text: text, HTML: html})
}

// LogSender writes messages to the log instead of sending them. Development only.
type LogSender struct {
	logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) *LogSender { return &LogSender{logger: logger} }

func (l *LogSender) Send(_ context.Context, to, subject, text, _ string) error {
	l.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info(text)
	return nil
}

// RenderJob fills Subject/Text/HTML of a template job. Already rendered jobs are returned as is.
func RenderJob(job EmailJob) (EmailJob, error) {
	if job.Template == "" {
		if !job.Rendered() {
			return job, errors.New("email job has neither subject nor template")
		}
		return job, nil
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
	s, t, h, err := mailtpl.Render(strings.ToLower(job.Template), job.Data)
	if err != nil {
		return job, err
	}
	job.Subject, job.Text, job.HTML = s, t, h
	return job, nil
}
