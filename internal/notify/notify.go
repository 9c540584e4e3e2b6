package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"
)

// Message is a plain-text email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender delivers messages to applicants and tenants.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Mailer sends messages through an SMTP relay.
type Mailer struct {
	client   *mail.Client
	from     string
	fromName string
}

func NewMailer(cfg Config) (*Mailer, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return &Mailer{client: client, from: cfg.From, fromName: cfg.FromName}, nil
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("sending %q: no recipients", msg.Subject)
	}

	out := mail.NewMsg()
	if err := out.FromFormat(m.fromName, m.from); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}

	if err := out.To(msg.To...); err != nil {
		return fmt.Errorf("setting recipients: %w", err)
	}

	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("sending %q: %w", msg.Subject, err)
	}

	return nil
}

// Log writes messages to the structured log instead of sending them. It is used
// when no SMTP relay is configured.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Send(ctx context.Context, msg Message) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "email not sent, no smtp relay configured",
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
	)

	return nil
}
