package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nexhub-community/nexhub-api/internal/logging"
)

// Persister appends a record to row-oriented storage. Failures are returned, never
// panicked; the pipeline treats them as best-effort.
type Persister interface {
	Persist(ctx context.Context, rec Record) error
	Name() string
}

// Message is a rendered notification.
type Message struct {
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
	// Params carries template variables for providers that render server-side.
	Params map[string]string
	// Warnings are problems hit while composing that did not stop the message.
	Warnings []error
}

// Notifier attempts delivery of a message and returns the provider's message id.
type Notifier interface {
	Notify(ctx context.Context, msg Message) (messageID string, err error)
	Name() string
}

// Composer renders the notification for a record.
type Composer func(rec Record) (Message, error)

// Endpointer is implemented by sinks that talk to a remote URL.
type Endpointer interface {
	Endpoint() string
}

// sinkAttrs names a sink, and its endpoint when it has one, for log lines.
func sinkAttrs(sink interface{ Name() string }) []any {
	attrs := []any{logging.Sink(sink.Name())}
	if e, ok := sink.(Endpointer); ok && e.Endpoint() != "" {
		attrs = append(attrs, logging.Endpoint(e.Endpoint()))
	}
	return attrs
}

// MultiPersister writes to every configured store. It succeeds when at least one store
// accepted the record.
type MultiPersister struct {
	persisters []Persister
	logger     *logging.Logger
	timeout    time.Duration
}

// NewMultiPersister fans a record out to the given persisters in order. Each store
// gets its own timeout budget, so a hung store cannot starve the ones after it.
// Partial failures are logged; only a total failure is returned.
func NewMultiPersister(logger *logging.Logger, timeout time.Duration, persisters ...Persister) *MultiPersister {
	if logger == nil {
		logger = logging.Discard()
	}
	if timeout <= 0 {
		timeout = DefaultSinkTimeout
	}
	return &MultiPersister{persisters: persisters, logger: logger, timeout: timeout}
}

func (m *MultiPersister) Name() string {
	return "multi"
}

func (m *MultiPersister) Persist(ctx context.Context, rec Record) error {
	var errs []error
	for _, p := range m.persisters {
		if err := m.persistOne(ctx, p, rec); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			attrs := append(sinkAttrs(p), logging.SubmissionID(rec.ID), logging.Error(err))
			m.logger.WarnContext(ctx, "persister failed", attrs...)
		}
	}

	if len(errs) == len(m.persisters) && len(errs) > 0 {
		return fmt.Errorf("all persisters failed: %w", errors.Join(errs...))
	}
	return nil
}

func (m *MultiPersister) persistOne(ctx context.Context, p Persister, rec Record) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()
	return p.Persist(ctx, rec)
}

// Outcome is the transient result of one sink call.
type Outcome struct {
	Attempted bool
	OK        bool
	Err       error
	// Fault is set when the sink panicked rather than returning an error.
	Fault     bool
	MessageID string
}
