package notifier

import (
	"StockSniper/pkg/config"
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGrid sends restock mails through the SendGrid v3 API.
type SendGrid struct {
	APIKey     string
	From       string
	Recipients []string
}

func NewSendGrid(conf config.NotifyConfig) *SendGrid {
	return &SendGrid{
		APIKey:     conf.SendGridAPIKey,
		From:       conf.From,
		Recipients: conf.Recipients,
	}
}

func (s *SendGrid) Notify(ctx context.Context, productURL, productName string) error {
	if s.APIKey == "" {
		return errors.New("SENDGRID_API_KEY is not set")
	}
	if len(s.Recipients) == 0 {
		return errors.New("no recipients configured")
	}

	m := RestockMessage(productURL, productName)
	msg := buildSendGridMail(s.From, s.Recipients, m)

	resp, err := sendgrid.NewSendClient(s.APIKey).SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func buildSendGridMail(from string, recipients []string, m Message) *sgmail.SGMailV3 {
	msg := sgmail.NewV3Mail()
	msg.SetFrom(sgmail.NewEmail("StockSniper", from))
	msg.Subject = m.Subject

	p := sgmail.NewPersonalization()
	for _, to := range recipients {
		p.AddTos(sgmail.NewEmail("", to))
	}
	msg.AddPersonalizations(p)
	msg.AddContent(sgmail.NewContent("text/plain", m.Body))
	return msg
}
