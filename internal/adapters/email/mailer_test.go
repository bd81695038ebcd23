package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/mail"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/sendgrid/rest"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refereehub/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSES struct {
	plain []*ses.SendEmailInput
	raw   []*ses.SendRawEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.plain = append(f.plain, in)
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func (f *fakeSES) SendRawEmail(_ context.Context, in *ses.SendRawEmailInput, _ ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.raw = append(f.raw, in)
	return &ses.SendRawEmailOutput{MessageId: aws.String("msg-2")}, nil
}

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name     string
		config   MailerConfig
		wantType any
		wantErr  bool
	}{
		{name: "empty provider is noop", config: MailerConfig{}, wantType: &noopMailer{}},
		{name: "noop", config: MailerConfig{Provider: "noop"}, wantType: &noopMailer{}},
		{name: "unknown provider falls back to noop", config: MailerConfig{Provider: "smtp"}, wantType: &noopMailer{}},
		{
			name:     "ses",
			config:   MailerConfig{Provider: "ses", FromAddress: "noreply@example.com", SES: SESConfig{Region: "eu-west-1"}},
			wantType: &sesMailer{},
		},
		{name: "ses without from address", config: MailerConfig{Provider: "ses"}, wantErr: true},
		{
			name:     "sendgrid",
			config:   MailerConfig{Provider: "sendgrid", FromAddress: "noreply@example.com", SendGridAPIKey: "key"},
			wantType: &sendGridMailer{},
		},
		{name: "sendgrid without key", config: MailerConfig{Provider: "sendgrid", FromAddress: "noreply@example.com"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMailer(tt.config, testLogger())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, m)
		})
	}
}

func TestSESMailer_Send(t *testing.T) {
	from := mail.Address{Name: "Comitato Regole", Address: "noreply@example.com"}

	t.Run("without attachments uses SendEmail", func(t *testing.T) {
		client := &fakeSES{}
		m := &sesMailer{client: client, from: from, logger: testLogger()}
		err := m.Send(context.Background(), &domain.EmailMessage{
			To: "arbitro@example.com", ToName: "Mario Rossi",
			Subject: "Convocazione", HTML: "<p>Ciao</p>", Text: "Ciao",
		})
		require.NoError(t, err)
		require.Len(t, client.plain, 1)
		assert.Empty(t, client.raw)
		in := client.plain[0]
		assert.Equal(t, []string{`"Mario Rossi" <arbitro@example.com>`}, in.Destination.ToAddresses)
		assert.Equal(t, "Convocazione", aws.ToString(in.Message.Subject.Data))
		assert.Equal(t, "<p>Ciao</p>", aws.ToString(in.Message.Body.Html.Data))
		assert.Equal(t, "Ciao", aws.ToString(in.Message.Body.Text.Data))
	})

	t.Run("with attachments uses SendRawEmail", func(t *testing.T) {
		client := &fakeSES{}
		m := &sesMailer{client: client, from: from, logger: testLogger()}
		err := m.Send(context.Background(), &domain.EmailMessage{
			To: "arbitro@example.com", Subject: "Convocazione", Text: "Ciao",
			Attachments: []domain.Attachment{{Filename: "convocazione.pdf", ContentType: "application/pdf", Content: []byte("%PDF")}},
		})
		require.NoError(t, err)
		assert.Empty(t, client.plain)
		require.Len(t, client.raw, 1)
		assert.Equal(t, []string{"arbitro@example.com"}, client.raw[0].Destinations)
		assert.Contains(t, string(client.raw[0].RawMessage.Data), "convocazione.pdf")
	})

	t.Run("client error is wrapped", func(t *testing.T) {
		boom := errors.New("throttled")
		m := &sesMailer{client: &fakeSES{err: boom}, from: from, logger: testLogger()}
		err := m.Send(context.Background(), &domain.EmailMessage{To: "a@example.com", Subject: "s", Text: "t"})
		require.ErrorIs(t, err, boom)
	})
}

type fakeSendGrid struct {
	sent   []*sgmail.SGMailV3
	status int
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, m *sgmail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, m)
	return &rest.Response{StatusCode: f.status, Body: "{}"}, nil
}

func TestSendGridMailer_Send(t *testing.T) {
	msg := &domain.EmailMessage{
		To: "circolo@example.com", ToName: "Golf Club Stresa",
		Subject: "Designazione", HTML: "<p>Ciao</p>", Text: "Ciao",
		Attachments: []domain.Attachment{{Filename: "lettera.html", ContentType: "text/html", Content: []byte("<p>x</p>")}},
	}

	t.Run("accepted", func(t *testing.T) {
		client := &fakeSendGrid{status: http.StatusAccepted}
		m := &sendGridMailer{client: client, from: sgmail.NewEmail("Comitato", "noreply@example.com"), logger: testLogger()}
		require.NoError(t, m.Send(context.Background(), msg))
		require.Len(t, client.sent, 1)
		sent := client.sent[0]
		assert.Equal(t, "Designazione", sent.Subject)
		require.Len(t, sent.Personalizations, 1)
		assert.Equal(t, "circolo@example.com", sent.Personalizations[0].To[0].Address)
		require.Len(t, sent.Content, 2)
		assert.Equal(t, "text/plain", sent.Content[0].Type)
		assert.Equal(t, "text/html", sent.Content[1].Type)
		require.Len(t, sent.Attachments, 1)
		assert.Equal(t, "PHA+eDwvcD4=", sent.Attachments[0].Content)
	})

	t.Run("rejected", func(t *testing.T) {
		client := &fakeSendGrid{status: http.StatusUnauthorized}
		m := &sendGridMailer{client: client, from: sgmail.NewEmail("Comitato", "noreply@example.com"), logger: testLogger()}
		err := m.Send(context.Background(), msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	})
}

func TestNoopMailer_Send(t *testing.T) {
	m := &noopMailer{logger: testLogger()}
	require.NoError(t, m.Send(context.Background(), &domain.EmailMessage{To: "a@example.com"}))
}
