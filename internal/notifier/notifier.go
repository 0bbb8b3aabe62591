package notifier

import (
	"StockSniper/pkg/config"
	"context"
	"fmt"
	"log"
)

// Notifier announces that a product is back in stock.
type Notifier interface {
	Notify(ctx context.Context, productURL, productName string) error
}

// Message is the restock mail shared by every backend.
type Message struct {
	Subject string
	Body    string
}

// RestockMessage builds the plain-text restock announcement.
func RestockMessage(productURL, productName string) Message {
	return Message{
		Subject: fmt.Sprintf("%s is now in stock!", productName),
		Body:    fmt.Sprintf("The %s is now in stock: %s", productName, productURL),
	}
}

// Safe logs the outcome of every notification and never returns an error.
type Safe struct {
	Backend Notifier
}

func (s Safe) Notify(ctx context.Context, productURL, productName string) error {
	if err := s.Backend.Notify(ctx, productURL, productName); err != nil {
		log.Printf("ERROR: Failed to send email: %v", err)
		return nil
	}
	log.Printf("Email sent for %s.", productName)
	return nil
}

// New returns the configured backend wrapped in Safe, or nil when
// notifications are disabled.
func New(conf config.NotifyConfig) (Notifier, error) {
	if !conf.Enabled {
		return nil, nil
	}
	switch conf.Backend {
	case "", "smtp":
		return Safe{Backend: NewSMTP(conf)}, nil
	case "sendgrid":
		return Safe{Backend: NewSendGrid(conf)}, nil
	default:
		return nil, fmt.Errorf("unknown notify backend %q", conf.Backend)
	}
}
