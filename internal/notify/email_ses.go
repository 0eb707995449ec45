package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESEmailSender sends email via Amazon SES. When no from-address is
// configured the sender is disabled and silently skips all sends.
type SESEmailSender struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
}

// NewSESEmailSender creates an SES-backed email sender
func NewSESEmailSender(awsRegion, fromEmail, fromName string) (*SESEmailSender, error) {
	if fromEmail == "" {
		slog.Info("email sending disabled: SES_FROM_EMAIL not configured")
		return &SESEmailSender{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	slog.Info("email sending enabled", "from", fromEmail, "region", awsRegion)

	return &SESEmailSender{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether the sender will actually deliver email
func (s *SESEmailSender) IsEnabled() bool {
	return s.enabled
}

// SendEmail sends a single email through SES
func (s *SESEmailSender) SendEmail(ctx context.Context, to, subject, text, html string) error {
	if !s.enabled {
		slog.Debug("skipping email send (disabled)", "to", to, "subject", subject)
		return nil
	}

	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	body := &types.Body{
		Text: &types.Content{
			Data:    aws.String(text),
			Charset: aws.String("UTF-8"),
		},
	}
	if html != "" {
		body.Html = &types.Content{
			Data:    aws.String(html),
			Charset: aws.String("UTF-8"),
		}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: body,
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	slog.Info("email sent", "to", to, "subject", subject)
	return nil
}
