package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"refereehub/internal/domain"
)

// sendGridClient is the subset of *sendgrid.Client used by sendGridMailer.
type sendGridClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

type sendGridMailer struct {
	client sendGridClient
	from   *sgmail.Email
	logger *slog.Logger
}

func newSendGridMailer(apiKey string, from mail.Address, logger *slog.Logger) *sendGridMailer {
	return &sendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(from.Name, from.Address),
		logger: logger,
	}
}

func (s *sendGridMailer) prepare(msg *domain.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.Subject = msg.Subject
	m.AddPersonalizations(p)
	// SendGrid requires text/plain before text/html.
	if msg.Text != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	for _, a := range msg.Attachments {
		att := sgmail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		att.SetType(a.ContentType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		m.AddAttachment(att)
	}
	return m
}

func (s *sendGridMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	res, err := s.client.SendWithContext(ctx, s.prepare(msg))
	if err != nil {
		return fmt.Errorf("send email via SendGrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("send email via SendGrid: status %d: %s", res.StatusCode, res.Body)
	}
	s.logger.Debug("email sent via SendGrid", "to", msg.To, "status", res.StatusCode)
	return nil
}
