// Package notify delivers short messages to clients and staff by e-mail, SMS or WhatsApp.
package notify

import (
	"context"
	"errors"
	"log"
	"strings"
)

var ErrUnsupportedRecipient = errors.New("no channel configured for recipient")

// Notifier sends one message. Callers treat failures as non-fatal.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// IsEmail reports whether recipient looks like an e-mail address.
func IsEmail(recipient string) bool {
	at := strings.LastIndex(recipient, "@")
	return at > 0 && at < len(recipient)-1
}

// IsPhone reports whether recipient is a phone number, optionally "whatsapp:" prefixed.
func IsPhone(recipient string) bool {
	number := strings.TrimPrefix(recipient, WhatsAppPrefix)
	number = strings.TrimPrefix(number, "+")
	if len(number) < 6 {
		return false
	}
	for _, r := range number {
		if (r < '0' || r > '9') && r != ' ' && r != '-' {
			return false
		}
	}
	return true
}

// Router dispatches by recipient shape. A nil channel falls back to Fallback.
type Router struct {
	Email    Notifier
	Phone    Notifier
	Fallback Notifier
}

func (r *Router) Send(ctx context.Context, recipient, subject, body string) error {
	var target Notifier
	switch {
	case IsEmail(recipient):
		target = r.Email
	case IsPhone(recipient):
		target = r.Phone
	}
	if target == nil {
		target = r.Fallback
	}
	if target == nil {
		return ErrUnsupportedRecipient
	}
	return target.Send(ctx, recipient, subject, body)
}

// LogNotifier writes messages to the process log. Used when no real channel is configured.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, recipient, subject, body string) error {
	log.Printf("notify: to=%s subject=%q body=%q", recipient, subject, body)
	return nil
}
