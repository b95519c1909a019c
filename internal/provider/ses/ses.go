// Package ses implements a Provider that sends emails via AWS SES v2.
package ses

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/shineum/mailsend-lite/internal/email"
	"github.com/shineum/mailsend-lite/internal/provider"
)

// Name is the provider tag and configuration name.
const Name = "ses"

// charset is declared on every content block sent to SES.
const charset = "UTF-8"

// SESProviderConfig holds the configuration for creating a SESProvider.
// When AccessKeyID and SecretAccessKey are empty the default AWS credential
// chain (environment, shared config, instance role) is used.
type SESProviderConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Sender          string
}

// SESProvider sends emails via the AWS SES v2 API.
type SESProvider struct {
	sender string
	client SendEmailAPI
}

// SendEmailAPI is the interface for the SES v2 SendEmail operation.
// Used for testing with mock implementations.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// New creates a new SESProvider with the given configuration.
// The SDK's own retryer is disabled so each Send is a single attempt.
func New(ctx context.Context, cfg SESProviderConfig) (*SESProvider, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryMaxAttempts(1),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESProvider{
		sender: cfg.Sender,
		client: sesv2.NewFromConfig(awsCfg),
	}, nil
}

// NewWithClient creates a SESProvider with a custom client, used for testing.
func NewWithClient(sender string, client SendEmailAPI) *SESProvider {
	return &SESProvider{
		sender: sender,
		client: client,
	}
}

// Send delivers msg with a single SES SendEmail call and returns the SES
// message id tagged with "ses:".
func (s *SESProvider) Send(ctx context.Context, msg *email.Message) (string, error) {
	out, err := s.client.SendEmail(ctx, buildInput(s.sender, msg))
	if err != nil {
		slog.Error("SES API error", "provider", Name, "error", err)
		return "", &provider.Error{Provider: Name, Description: err.Error()}
	}

	id := aws.ToString(out.MessageId)
	if id == "" {
		slog.Error("SES API returned no message id", "provider", Name)
		return "", provider.Errorf(Name, "response carried no message id")
	}

	return provider.MessageID(Name, id), nil
}

// Name returns the provider name.
func (s *SESProvider) Name() string {
	return Name
}

// buildInput creates the SES SendEmailInput for msg. Cc addresses and the
// HTML part are only attached when present.
func buildInput(sender string, msg *email.Message) *sesv2.SendEmailInput {
	dest := &types.Destination{
		ToAddresses: []string{msg.To},
	}
	if len(msg.Cc) > 0 {
		dest.CcAddresses = msg.Cc
	}

	body := &types.Body{
		Text: content(msg.TextBody),
	}
	if msg.HasHTML() {
		body.Html = content(msg.HTMLBody)
	}

	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(sender),
		Destination:      dest,
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: content(msg.Subject),
				Body:    body,
			},
		},
	}
}

func content(data string) *types.Content {
	return &types.Content{
		Data:    aws.String(data),
		Charset: aws.String(charset),
	}
}
