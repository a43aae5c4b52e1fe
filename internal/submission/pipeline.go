package submission

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nexhub-community/nexhub-api/internal/logging"
	"github.com/nexhub-community/nexhub-api/internal/metrics"
	"github.com/nexhub-community/nexhub-api/internal/models"
)

// DefaultSinkTimeout bounds each sink call when no timeout is configured.
const DefaultSinkTimeout = 15 * time.Second

// Pipeline handles one category of submission:
// validate -> build record -> persist -> notify -> respond.
//
// Persistence and notification are best-effort. Once the input is valid the caller is
// told the submission was accepted; sink failures only soften the message and flags.
type Pipeline struct {
	category  Category
	kind      kind
	persister Persister
	notifier  Notifier
	compose   Composer
	notice    Composer
	logger    *logging.Logger
	timeout   time.Duration
	strict    bool
	now       func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithPersister sets the store records are appended to. Without one the persist step
// is skipped.
func WithPersister(p Persister) Option {
	return func(pl *Pipeline) { pl.persister = p }
}

// WithTeamNotice enables the internal notice sent after the confirmation. Its outcome
// is logged and never reflected in the response.
func WithTeamNotice(c Composer) Option {
	return func(pl *Pipeline) { pl.notice = c }
}

func WithLogger(l *logging.Logger) Option {
	return func(pl *Pipeline) {
		if l != nil {
			pl.logger = l
		}
	}
}

// WithSinkTimeout bounds every sink call; a timeout counts as a sink failure.
func WithSinkTimeout(d time.Duration) Option {
	return func(pl *Pipeline) {
		if d > 0 {
			pl.timeout = d
		}
	}
}

// WithStrictSinks answers 502 when every attempted sink failed.
func WithStrictSinks(strict bool) Option {
	return func(pl *Pipeline) { pl.strict = strict }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) { pl.now = now }
}

// NewPipeline builds the pipeline for category. notifier and compose produce the
// confirmation message sent to the submitter.
func NewPipeline(category Category, notifier Notifier, compose Composer, opts ...Option) (*Pipeline, error) {
	k, ok := kinds[category]
	if !ok {
		return nil, fmt.Errorf("unknown submission category %q", category)
	}
	if notifier == nil || compose == nil {
		return nil, errors.New("notifier and composer are required")
	}

	pl := &Pipeline{
		category: category,
		kind:     k,
		notifier: notifier,
		compose:  compose,
		logger:   logging.Discard(),
		timeout:  DefaultSinkTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(pl)
	}
	return pl, nil
}

// Category reports which submissions this pipeline handles.
func (p *Pipeline) Category() Category {
	return p.category
}

// Handle runs the pipeline for one request and returns the response body and status.
func (p *Pipeline) Handle(ctx context.Context, raw map[string]string) (models.SubmissionResponse, int) {
	log := p.logger.With(logging.Category(string(p.category)))

	if err := Validate(p.category, raw); err != nil {
		log.InfoContext(ctx, "submission rejected", logging.Error(err))
		metrics.SubmissionsTotal.WithLabelValues(string(p.category), "invalid").Inc()
		return models.SubmissionResponse{Success: false, Message: err.Error()}, http.StatusBadRequest
	}

	rec := NewRecord(p.category, raw, p.now())
	log = log.With(logging.SubmissionID(rec.ID))
	log.InfoContext(ctx, "submission accepted")

	// The caller going away must not cut the side effects short.
	ctx = context.WithoutCancel(ctx)

	persisted := p.persist(ctx, log, rec)
	notified := p.notify(ctx, log, rec)
	if p.notice != nil {
		p.sendNotice(ctx, log, rec)
	}

	return p.respond(rec, persisted, notified)
}

func (p *Pipeline) persist(ctx context.Context, log *logging.Logger, rec Record) (out Outcome) {
	if p.persister == nil {
		log.DebugContext(ctx, "no persister configured, skipping")
		return Outcome{}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out.Attempted = true
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Attempted: true, Fault: true, Err: fmt.Errorf("persister panicked: %v", r)}
		}
		p.observe("persist", start, out)
		if out.OK {
			log.InfoContext(ctx, "submission persisted", logging.Sink(p.persister.Name()),
				logging.Duration(time.Since(start)))
			return
		}
		attrs := append(sinkAttrs(p.persister), logging.Error(out.Err))
		log.WarnContext(ctx, "persist failed, continuing with notification", attrs...)
	}()

	if err := p.persister.Persist(ctx, rec); err != nil {
		out.Err = err
		return out
	}
	out.OK = true
	return out
}

func (p *Pipeline) notify(ctx context.Context, log *logging.Logger, rec Record) Outcome {
	start := time.Now()
	out := p.deliver(ctx, log, p.compose, rec)
	p.observe("notify", start, out)

	if out.OK {
		log.InfoContext(ctx, "confirmation sent", logging.Sink(p.notifier.Name()),
			logging.MessageID(out.MessageID))
	} else {
		attrs := append(sinkAttrs(p.notifier), logging.Error(out.Err))
		log.WarnContext(ctx, "confirmation failed", attrs...)
	}
	return out
}

func (p *Pipeline) sendNotice(ctx context.Context, log *logging.Logger, rec Record) {
	out := p.deliver(ctx, log, p.notice, rec)
	metrics.SinkCallsTotal.WithLabelValues("team_notice", string(p.category), metrics.Result(out.OK)).Inc()

	if out.OK {
		log.InfoContext(ctx, "team notice sent", logging.MessageID(out.MessageID))
	} else {
		log.WarnContext(ctx, "team notice failed", logging.Error(out.Err))
	}
}

// deliver composes and sends one message. A panic in either step becomes a failed
// outcome with Fault set.
func (p *Pipeline) deliver(ctx context.Context, log *logging.Logger, compose Composer, rec Record) (out Outcome) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out.Attempted = true
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Attempted: true, Fault: true, Err: fmt.Errorf("notification panicked: %v", r)}
		}
	}()

	msg, err := compose(rec)
	if err != nil {
		out.Err = fmt.Errorf("compose message: %w", err)
		return out
	}
	for _, w := range msg.Warnings {
		log.WarnContext(ctx, "message composed with warning", logging.Error(w))
	}

	id, err := p.notifier.Notify(ctx, msg)
	if err != nil {
		out.Err = err
		return out
	}
	out.OK = true
	out.MessageID = id
	return out
}

func (p *Pipeline) observe(sink string, start time.Time, out Outcome) {
	metrics.SinkCallsTotal.WithLabelValues(sink, string(p.category), metrics.Result(out.OK)).Inc()
	metrics.SinkDuration.WithLabelValues(sink).Observe(time.Since(start).Seconds())
}

// respond derives the single response from both sink outcomes. Validation has passed,
// so the status is 200 unless strict mode is on and nothing downstream succeeded.
func (p *Pipeline) respond(rec Record, persisted, notified Outcome) (models.SubmissionResponse, int) {
	resp := models.SubmissionResponse{
		Success: true,
		IDKey:   p.kind.idKey,
		ID:      rec.ID,
	}

	if notified.OK {
		resp.Message = p.kind.successMessage
		if p.kind.alwaysReportEmail {
			resp.EmailSent = models.Bool(true)
		}
		metrics.SubmissionsTotal.WithLabelValues(string(p.category), "accepted").Inc()
		return resp, http.StatusOK
	}

	resp.Message = p.kind.degradedMessage
	resp.EmailSent = models.Bool(false)
	if notified.Err != nil && (p.kind.alwaysReportEmail || notified.Fault) {
		resp.EmailError = notified.Err.Error()
	}

	// A skipped persist counts as failed here.
	if p.strict && !persisted.OK {
		resp.Success = false
		resp.Message = "Submission could not be recorded or confirmed. Please try again later."
		metrics.SubmissionsTotal.WithLabelValues(string(p.category), "fault").Inc()
		return resp, http.StatusBadGateway
	}

	metrics.SubmissionsTotal.WithLabelValues(string(p.category), "degraded").Inc()
	return resp, http.StatusOK
}
