package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/xavierca1/lead-funnel/internal/infra/queue"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var newLeadTemplate = template.Must(template.ParseFS(templateFS, "templates/new_lead.html"))

// Dialer é satisfeito por *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

func (s *EmailSender) Dialer() *gomail.Dialer {
	return gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
}

// Notifier manda o alerta de novo lead para a caixa do time comercial.
type Notifier struct {
	Dialer Dialer
	From   string
	To     []string
}

func NewNotifier(dialer Dialer, from string, to []string) *Notifier {
	return &Notifier{Dialer: dialer, From: from, To: to}
}

func (n *Notifier) NotifyNewLead(ctx context.Context, payload queue.LeadCapturedPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := n.BuildNewLeadMessage(payload)
	if err != nil {
		return err
	}

	if err := n.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func (n *Notifier) BuildNewLeadMessage(payload queue.LeadCapturedPayload) (*gomail.Message, error) {
	if len(n.To) == 0 {
		return nil, fmt.Errorf("nenhum destinatário configurado")
	}

	data := NewLeadEmailData{
		LeadID:      payload.LeadID,
		Name:        payload.Name,
		Email:       payload.Email,
		Phone:       payload.Phone,
		Company:     payload.Company,
		Message:     payload.Message,
		SubmittedAt: payload.SubmittedAt,
		InSheets:    payload.AddedToSheets,
	}

	body, err := RenderNewLead(data)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.From)
	m.SetHeader("To", n.To...)
	m.SetHeader("Reply-To", payload.Email)
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s", payload.Name))
	m.SetBody("text/html", body)
	return m, nil
}

func RenderNewLead(data NewLeadEmailData) (string, error) {
	var body bytes.Buffer
	if err := newLeadTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}
