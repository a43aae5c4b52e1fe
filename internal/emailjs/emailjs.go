// Package emailjs delivers contact-form messages through the EmailJS REST API, the
// same account the site's contact widget uses.
package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nexhub-community/nexhub-api/internal/submission"
)

// Options identifies the EmailJS service, template and keys.
type Options struct {
	URL        string
	ServiceID  string
	TemplateID string
	PublicKey  string
	// PrivateKey is sent as accessToken; EmailJS requires it for server-side calls
	// when "Use Private Key" is enabled on the account.
	PrivateKey string
	Timeout    time.Duration
}

// Notifier sends messages by asking EmailJS to render its stored template.
type Notifier struct {
	opts   Options
	client *http.Client
}

// ErrNotConfigured is returned when service, template or public key are missing.
var ErrNotConfigured = errors.New("emailjs service, template and public key are required")

func NewNotifier(opts Options) *Notifier {
	return &Notifier{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

func (n *Notifier) Name() string {
	return "emailjs"
}

func (n *Notifier) Endpoint() string {
	return n.opts.URL
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Notify asks EmailJS to send msg.Params through the configured template. EmailJS
// does not return a message id, so one is generated for the logs.
func (n *Notifier) Notify(ctx context.Context, msg submission.Message) (string, error) {
	if n.opts.ServiceID == "" || n.opts.TemplateID == "" || n.opts.PublicKey == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(sendRequest{
		ServiceID:      n.opts.ServiceID,
		TemplateID:     n.opts.TemplateID,
		UserID:         n.opts.PublicKey,
		AccessToken:    n.opts.PrivateKey,
		TemplateParams: msg.Params,
	})
	if err != nil {
		return "", fmt.Errorf("marshal emailjs payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.opts.URL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create emailjs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send emailjs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("emailjs returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return uuid.New().String(), nil
}

// ComposeContact maps a contact record onto the widget template's variables.
func ComposeContact(rec submission.Record) (submission.Message, error) {
	subject := rec.Field("subject")
	if subject == "" {
		subject = "New contact message from " + rec.Field("name")
	}

	return submission.Message{
		ReplyTo: rec.Field("email"),
		Subject: subject,
		Params: map[string]string{
			"name":       rec.Field("name"),
			"email":      rec.Field("email"),
			"from_name":  rec.Field("name"),
			"from_email": rec.Field("email"),
			"reply_to":   rec.Field("email"),
			"subject":    subject,
			"message":    rec.Field("message"),
			"message_id": rec.ID,
		},
	}, nil
}
