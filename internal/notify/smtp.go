package notify

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/wneessen/go-mail"
)

// DefaultSMTPTimeout bounds one delivery, dial included.
const DefaultSMTPTimeout = 10 * time.Second

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPNotifier sends plain-text e-mail. Every delivery is bounded by the configured timeout and
// by the caller's context, so a stalled server cannot hold a request open.
type SMTPNotifier struct {
	cfg    SMTPConfig
	client mailSender
}

func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSMTPTimeout
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithDialContextFunc(deadlineDialer(cfg.Timeout)),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPNotifier{cfg: cfg, client: client}, nil
}

func (n *SMTPNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := buildMessage(n.cfg.From, recipient, subject, body, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()
	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", recipient, err)
	}
	return nil
}

// deadlineDialer puts an absolute deadline on the connection, covering the server greeting and
// every later command, not just the TCP handshake.
func deadlineDialer(timeout time.Duration) mail.DialContextFunc {
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		deadline := time.Now().Add(timeout)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}

		dialer := net.Dialer{Deadline: deadline}
		conn, err := dialer.DialContext(ctx, network, address)
		if err != nil {
			return nil, err
		}
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

func buildMessage(from, to, subject, body string, date time.Time) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetDateWithValue(date)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}
