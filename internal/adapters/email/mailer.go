package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"refereehub/internal/domain"
)

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider       string
	FromAddress    string
	FromName       string
	SES            SESConfig
	SendGridAPIKey string
}

// NewMailer creates a mailer from config. Provider "ses" uses AWS SES, "sendgrid" the SendGrid
// v3 API; "noop" or an unknown provider logs messages without sending them.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	from := mail.Address{Name: config.FromName, Address: config.FromAddress}
	switch config.Provider {
	case "ses":
		if config.FromAddress == "" {
			return nil, fmt.Errorf("ses mailer: from address is required")
		}
		if config.SES.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for SES, use only in development")
		}
		httpClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: config.SES.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
		awsCfg := aws.Config{
			Region: config.SES.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(config.SES.AccessKeyID, config.SES.SecretAccessKey, ""),
			),
			HTTPClient: httpClient,
		}
		return &sesMailer{client: ses.NewFromConfig(awsCfg), from: from, logger: logger}, nil
	case "sendgrid":
		if config.SendGridAPIKey == "" || config.FromAddress == "" {
			return nil, fmt.Errorf("sendgrid mailer: api key and from address are required")
		}
		return newSendGridMailer(config.SendGridAPIKey, from, logger), nil
	case "noop", "":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, using noop", "provider", config.Provider)
		return &noopMailer{logger: logger}, nil
	}
}

// sesAPI is the subset of the SES client used by sesMailer.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

type sesMailer struct {
	client sesAPI
	from   mail.Address
	logger *slog.Logger
}

func utf8Content(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}

// Send uses SendEmail for plain messages and SendRawEmail when attachments are present.
func (s *sesMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	if len(msg.Attachments) > 0 {
		return s.sendRaw(ctx, msg)
	}
	input := &ses.SendEmailInput{
		Source:      aws.String(s.from.String()),
		Destination: &types.Destination{ToAddresses: []string{recipientAddress(msg)}},
		Message: &types.Message{
			Subject: utf8Content(msg.Subject),
			Body:    &types.Body{},
		},
	}
	if msg.HTML != "" {
		input.Message.Body.Html = utf8Content(msg.HTML)
	}
	if msg.Text != "" {
		input.Message.Body.Text = utf8Content(msg.Text)
	}
	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("send email via SES: %w", err)
	}
	s.logger.Debug("email sent via SES", "to", msg.To, "message_id", aws.ToString(result.MessageId))
	return nil
}

func (s *sesMailer) sendRaw(ctx context.Context, msg *domain.EmailMessage) error {
	raw, err := buildMIMEMessage(s.from, msg)
	if err != nil {
		return fmt.Errorf("build MIME message: %w", err)
	}
	result, err := s.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(s.from.String()),
		Destinations: []string{msg.To},
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return fmt.Errorf("send raw email via SES: %w", err)
	}
	s.logger.Debug("email sent via SES", "to", msg.To, "attachments", len(msg.Attachments), "message_id", aws.ToString(result.MessageId))
	return nil
}

// recipientAddress formats the To header value, with the display name when known.
func recipientAddress(msg *domain.EmailMessage) string {
	if msg.ToName == "" || msg.ToName == msg.To {
		return msg.To
	}
	return (&mail.Address{Name: msg.ToName, Address: msg.To}).String()
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(_ context.Context, msg *domain.EmailMessage) error {
	n.logger.Info("email would be sent (noop)", "to", msg.To, "subject", msg.Subject, "attachments", len(msg.Attachments))
	return nil
}
