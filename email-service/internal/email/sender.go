/**
 * @description
 * This file implements the email delivery adapter. The worker depends only on
 * the Sender interface; the concrete implementation sends through AWS SES v2.
 * Failure is reported synchronously via the returned error and nothing is
 * retried here: the message handler decides what a failed send means.
 *
 * @dependencies
 * - github.com/aws/aws-sdk-go-v2/config, credentials: AWS client setup.
 * - github.com/aws/aws-sdk-go-v2/service/sesv2: The SES v2 API client.
 */
package email

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Message is a fully-formed email ready for delivery.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers one email. Implementations must report failure synchronously
// and must not fail asynchronously after returning.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// sendTimeout bounds a single delivery attempt so a wedged endpoint cannot
// stall a consumer binding forever.
const sendTimeout = 30 * time.Second

// SESSender sends emails via AWS SES using the SDK v2.
type SESSender struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
}

// NewSESSender builds the SES client with static credentials.
func NewSESSender(ctx context.Context, region, accessKey, secretKey, fromEmail, fromName string) (*SESSender, error) {
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESSender{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// Send delivers a single email through AWS SES.
func (s *SESSender) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("sending email to %s: %w", msg.To, err)
	}
	return nil
}
