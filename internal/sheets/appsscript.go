// Package sheets appends submissions to a Google Sheet through an Apps Script web app.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nexhub-community/nexhub-api/internal/submission"
)

// ErrNotConfigured is returned by every Persist call when no script URL is set.
var ErrNotConfigured = errors.New("GOOGLE_SCRIPT_URL is not configured")

const maxRedirects = 5

// StatusError is a non-2xx answer from the script.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apps script returned status %d: %s", e.StatusCode, e.Body)
}

// Persister posts records to the Apps Script endpoint.
//
// The whole record travels as one JSON string in the form field "data". The script
// parses e.parameter.data itself, which sidesteps its unreliable handling of JSON
// request bodies.
type Persister struct {
	URL    string
	client *http.Client
}

// NewPersister creates a Persister. An empty scriptURL yields a Persister whose
// calls fail immediately with ErrNotConfigured.
func NewPersister(scriptURL string, timeout time.Duration) *Persister {
	return &Persister{
		URL: scriptURL,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

func (p *Persister) Name() string {
	return "sheets"
}

// Endpoint is the script URL, reported in failure logs.
func (p *Persister) Endpoint() string {
	return p.URL
}

// scriptReply is what the script answers; HTML pages (login walls, errors) do not
// decode and are judged by status code alone.
type scriptReply struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (p *Persister) Persist(ctx context.Context, rec submission.Record) error {
	if p.URL == "" {
		return ErrNotConfigured
	}

	data, err := json.Marshal(rec.Document())
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	form := url.Values{}
	form.Set("data", string(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create apps script request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to apps script: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: excerpt(body)}
	}

	var reply scriptReply
	if json.Unmarshal(body, &reply) == nil && reply.Success != nil && !*reply.Success {
		return fmt.Errorf("apps script rejected record: %s", reply.Message)
	}
	return nil
}

const maxExcerpt = 200

// excerpt shortens a reply body for errors and logs without splitting a rune.
func excerpt(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= maxExcerpt {
		return s
	}
	cut := maxExcerpt
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
