// Package compliance provides a fail-closed audit publisher.
//
// Emit writes synchronously through the audit store. When the store is the
// Postgres outbox and ctx carries a transaction, the event commits or rolls
// back together with the state change it describes. A failed write returns an
// error and the calling operation must fail.
package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	audit "memento/pkg/platform/audit"
	"memento/pkg/requestcontext"
)

// Publisher emits audit events with fail-closed semantics.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// New creates a compliance publisher.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit writes event through the store. Fields the caller left blank are taken
// from ctx: the pinned request time, request id and device label.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	start := time.Now()
	event = enrich(ctx, event)

	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.IncPersistFailures()
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "audit event not persisted",
				"action", event.Action,
				"category", event.Category,
				"account_id", event.AccountID,
				"error", err,
			)
		}
		return fmt.Errorf("persist audit event %s: %w", event.Action, err)
	}

	p.metrics.ObservePersistDuration(time.Since(start))
	p.metrics.IncEventsEmitted(event.Category)
	return nil
}

func enrich(ctx context.Context, event audit.Event) audit.Event {
	event.Category = audit.AuditEvent(event.Action).Category()
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Device == "" {
		event.Device = requestcontext.Device(ctx)
	}
	return event
}
