package mailer

// EmailJob is the message body on the mail queue. A job either carries the
// rendered Subject/Text/HTML, or a Template name plus Data that the worker renders.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Rendered reports whether the job can be sent without a template pass.
func (j EmailJob) Rendered() bool { return j.Template == "" && j.Subject != "" }
