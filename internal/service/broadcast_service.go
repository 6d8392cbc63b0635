package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"disasterprep/internal/models"
)

// emailSender is the part of the SES client the broadcaster uses
type emailSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// BroadcastService e-mails urgent alerts to staff via Amazon SES
type BroadcastService struct {
	client     emailSender
	fromEmail  string
	fromName   string
	recipients []string
	enabled    bool
	debug      bool
}

// NewBroadcastService creates a broadcaster. Without a sender address or any
// recipients the service is disabled and every broadcast is a no-op.
func NewBroadcastService(awsRegion, fromEmail, fromName string, recipients []string, debug bool) (*BroadcastService, error) {
	if fromEmail == "" || len(recipients) == 0 {
		if debug {
			log.Println("[DEBUG] Alert broadcast disabled: SES_FROM_EMAIL or ALERT_BROADCAST_TO not configured")
		}
		return &BroadcastService{enabled: false, debug: debug}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing alert broadcast with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From Email: %s", fromEmail)
		log.Printf("[DEBUG] Recipients: %d", len(recipients))
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newBroadcastService(sesv2.NewFromConfig(cfg), fromEmail, fromName, recipients, debug), nil
}

func newBroadcastService(client emailSender, fromEmail, fromName string, recipients []string, debug bool) *BroadcastService {
	return &BroadcastService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		recipients: recipients,
		enabled:    true,
		debug:      debug,
	}
}

// IsEnabled returns whether broadcasts are sent
func (s *BroadcastService) IsEnabled() bool {
	return s.enabled
}

// BroadcastAlert e-mails alert to every configured recipient
func (s *BroadcastService) BroadcastAlert(ctx context.Context, alert models.Alert) error {
	if !s.enabled {
		if s.debug {
			log.Printf("[DEBUG] Skipping alert broadcast (service disabled): %s", alert.Title)
		}
		return nil
	}

	subject := fmt.Sprintf("[%s] %s", strings.ToUpper(string(alert.Severity)), alert.Title)
	typeLabel := strings.ReplaceAll(string(alert.AlertType), "_", " ")

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #c0392b; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
			<p><strong>Severity:</strong> %s</p>
			<p><strong>Type:</strong> %s</p>
			<p>%s</p>
		</div>
		<div class="footer">
			<p>This is an automated safety alert. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(alert.Title), alert.Severity, typeLabel, html.EscapeString(alert.Message))

	textBody := fmt.Sprintf(`%s

Severity: %s
Type: %s

%s

---
This is an automated safety alert. Please do not reply.
`, alert.Title, alert.Severity, typeLabel, alert.Message)

	return s.sendEmail(ctx, subject, htmlBody, textBody)
}

// sendEmail sends one message to all recipients using Amazon SES
func (s *BroadcastService) sendEmail(ctx context.Context, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] From address: %s", fromAddress)
		log.Printf("[DEBUG] Subject: %s", subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			BccAddresses: s.recipients,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		if s.debug {
			log.Printf("[DEBUG] SES SendEmail failed: %v", err)
		}
		return fmt.Errorf("failed to send alert broadcast: %w", err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
	}

	log.Printf("Alert broadcast sent: recipients=%d, subject=%s", len(s.recipients), subject)
	return nil
}
