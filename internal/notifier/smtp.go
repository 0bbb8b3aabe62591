package notifier

import (
	"StockSniper/pkg/config"
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTP sends restock mails over an SMTP submission port with mandatory STARTTLS.
type SMTP struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
}

func NewSMTP(conf config.NotifyConfig) *SMTP {
	return &SMTP{
		Host:       conf.SMTPServer,
		Port:       conf.SMTPPort,
		Username:   conf.From,
		Password:   conf.Password,
		From:       conf.From,
		Recipients: conf.Recipients,
	}
}

func (s *SMTP) Notify(ctx context.Context, productURL, productName string) error {
	msg, err := s.buildMessage(RestockMessage(productURL, productName))
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.Username),
		mail.WithPassword(s.Password),
	}
	if s.Port > 0 {
		opts = append(opts, mail.WithPort(s.Port))
	}
	client, err := mail.NewClient(s.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending mail via %s: %w", s.Host, err)
	}
	return nil
}

func (s *SMTP) buildMessage(m Message) (*mail.Msg, error) {
	if len(s.Recipients) == 0 {
		return nil, errors.New("no recipients configured")
	}
	msg := mail.NewMsg()
	if err := msg.From(s.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", s.From, err)
	}
	if err := msg.To(s.Recipients...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	return msg, nil
}
