package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/dmitrijs2005/mentormatch/internal/logging"
)

// Mailer sends one plain text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}

// SESConfig holds configuration for AWS SES. Empty keys fall back to the
// default credential chain.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// sesAPI is the subset of *ses.Client used by sesMailer.
type sesAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// NewMailer creates a mailer from cfg. Provider "ses" uses AWS SES; "noop"
// or an unknown provider only logs the messages.
func NewMailer(ctx context.Context, cfg MailerConfig, log logging.Logger) (Mailer, error) {
	switch cfg.Provider {
	case "ses":
		if cfg.FromAddress == "" {
			return nil, fmt.Errorf("ses mailer needs a from address")
		}
		loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.SES.Region)}
		if cfg.SES.AccessKeyID != "" && cfg.SES.SecretAccessKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.SES.AccessKeyID, cfg.SES.SecretAccessKey, "")))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return newSESMailer(ses.NewFromConfig(awsCfg), cfg, log), nil
	case "noop":
		return &noopMailer{log: log}, nil
	default:
		log.Warn(ctx, "unknown email provider, using noop", "provider", cfg.Provider)
		return &noopMailer{log: log}, nil
	}
}

type sesMailer struct {
	client      sesAPI
	fromAddress string
	fromName    string
	log         logging.Logger
}

func newSESMailer(client sesAPI, cfg MailerConfig, log logging.Logger) *sesMailer {
	return &sesMailer{client: client, fromAddress: cfg.FromAddress, fromName: cfg.FromName, log: log}
}

func (s *sesMailer) Send(ctx context.Context, to, subject, text string) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}
	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(text),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}
	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.log.Debug(ctx, "email sent via SES", "to", to, "message_id", aws.ToString(result.MessageId))
	return nil
}

type noopMailer struct {
	log logging.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, _ string) error {
	n.log.Info(ctx, "email would be sent (noop)", "to", to, "subject", subject)
	return nil
}
