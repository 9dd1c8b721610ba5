package mail

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/visahub/lead-intake/internal/infra/queue"
)

const newLeadTemplate = `A new visa-assistance lead just came in.

Name:      {{.Name}}
Email:     {{.Email}}
LinkedIn:  {{.LinkedIn}}
Visas:     {{.Visas}}
Submitted: {{.CreatedAt}}
`

func newLeadEmailData(payload queue.LeadCreatedPayload) NewLeadEmailData {
	return NewLeadEmailData{
		Name:      payload.FirstName + " " + payload.LastName,
		Email:     payload.Email,
		LinkedIn:  payload.LinkedIn,
		Visas:     strings.Join(payload.Visas, ", "),
		CreatedAt: payload.CreatedAt,
	}
}

func renderNewLeadBody(data NewLeadEmailData) (string, error) {
	t, err := template.New("new-lead").Parse(newLeadTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}

	return body.String(), nil
}

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

// NotifyNewLead emails the configured sales inbox about a fresh submission.
func (s *EmailSender) NotifyNewLead(ctx context.Context, payload queue.LeadCreatedPayload) error {
	data := newLeadEmailData(payload)

	body, err := renderNewLeadBody(data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s", data.Name))
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}

	return nil
}
