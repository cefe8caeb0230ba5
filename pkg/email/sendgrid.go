package email

import (
	"context"
	"fmt"

	sendgridgo "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type Service interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

type sendGridClient struct {
	client     *sendgridgo.Client
	sender     string
	senderName string
	logger     *zap.Logger
}

func NewSendGridClient(apiKey, sender, senderName string, logger *zap.Logger) Service {
	return sendGridClient{
		client:     sendgridgo.NewSendClient(apiKey),
		sender:     sender,
		senderName: senderName,
		logger:     logger.Named("sendgrid"),
	}
}

func (c sendGridClient) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	from := mail.NewEmail(c.senderName, c.sender)
	recipient := mail.NewEmail(to, to)

	message := mail.NewSingleEmail(from, subject, recipient, "", htmlBody)
	resp, err := c.client.SendWithContext(ctx, message)
	if err != nil {
		c.logger.Error("send email error",
			zap.Error(err))
		return err
	}

	statusOK := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !statusOK {
		c.logger.Error("send email error",
			zap.String("recipient", to),
			zap.Int("status", resp.StatusCode),
			zap.String("response", resp.Body),
		)
		return fmt.Errorf("sendgrid responded with status %d", resp.StatusCode)
	}

	c.logger.Info("Letter sent",
		zap.String("recipient", to),
		zap.String("subject", subject))
	return nil
}

// NopService drops every message. It is used when no email provider is configured.
type NopService struct {
	Logger *zap.Logger
}

func (s NopService) SendEmail(_ context.Context, to, subject, _ string) error {
	if s.Logger != nil {
		s.Logger.Warn("email provider not configured, dropping letter",
			zap.String("recipient", to),
			zap.String("subject", subject))
	}
	return nil
}
