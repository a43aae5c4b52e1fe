package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	mail "gopkg.in/mail.v2"

	"github.com/nexhub-community/nexhub-api/internal/submission"
)

// dialer is the part of *mail.Dialer the notifier needs.
type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPNotifier delivers messages through an authenticated SMTP relay (STARTTLS).
type SMTPNotifier struct {
	from     string
	fromName string
	timeout  time.Duration
	dial     func(timeout time.Duration) dialer
}

// SMTPOptions configures an SMTPNotifier.
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	Timeout  time.Duration
}

// NewSMTPNotifier creates a notifier sending as opts.Username.
func NewSMTPNotifier(opts SMTPOptions) (*SMTPNotifier, error) {
	if opts.Host == "" || opts.Username == "" {
		return nil, errors.New("smtp host and account are required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = submission.DefaultSinkTimeout
	}

	return &SMTPNotifier{
		from:     opts.Username,
		fromName: opts.FromName,
		timeout:  opts.Timeout,
		dial: func(timeout time.Duration) dialer {
			d := mail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password)
			d.StartTLSPolicy = mail.MandatoryStartTLS
			d.Timeout = timeout
			return d
		},
	}, nil
}

func (s *SMTPNotifier) Name() string {
	return "smtp"
}

// Notify sends msg and returns the Message-ID it was stamped with.
func (s *SMTPNotifier) Notify(ctx context.Context, msg submission.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if msg.To == "" {
		return "", errors.New("message has no recipient")
	}

	id := newMessageID(s.from)
	m := s.build(msg, id)

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	if err := s.dial(timeout).DialAndSend(m); err != nil {
		return "", fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return id, nil
}

func (s *SMTPNotifier) build(msg submission.Message, id string) *mail.Message {
	m := mail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", id)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}
	return m
}

// newMessageID builds an RFC 5322 Message-ID under the sender's domain.
func newMessageID(from string) string {
	domain := "nexhub.local"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.New().String(), domain)
}
