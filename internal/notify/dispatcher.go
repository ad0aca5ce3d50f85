package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	id "memento/pkg/domain"
	"memento/pkg/requestcontext"
)

// LogStore persists delivery attempts.
type LogStore interface {
	Append(ctx context.Context, entry LogEntry) error
}

// Dispatcher sends through a Sender and logs every attempt, successful or not.
type Dispatcher struct {
	sender  Sender
	log     LogStore
	logger  *slog.Logger
	counter *prometheus.CounterVec
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithCounter counts attempts by type and outcome.
func WithCounter(c *prometheus.CounterVec) Option {
	return func(d *Dispatcher) {
		d.counter = c
	}
}

// NewAttemptCounter registers the counter WithCounter expects.
func NewAttemptCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memento_notifications_total",
		Help: "Notification delivery attempts by type and outcome",
	}, []string{"type", "outcome"})
}

func NewDispatcher(sender Sender, log LogStore, opts ...Option) *Dispatcher {
	d := &Dispatcher{sender: sender, log: log, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends msg and records the outcome. The send error is returned so
// callers can count failures; a failure to write the log entry is only logged.
func (d *Dispatcher) Dispatch(ctx context.Context, typ Type, accountID id.AccountID, msg Message) error {
	sendErr := d.sender.Send(ctx, msg)

	entry := LogEntry{
		ID:        uuid.New(),
		Type:      typ,
		Recipient: msg.To,
		AccountID: accountID,
		Subject:   msg.Subject,
		Outcome:   OutcomeSuccess,
		SentAt:    requestcontext.Now(ctx),
	}
	if sendErr != nil {
		entry.Outcome = OutcomeFailed
		entry.ErrorDetail = sendErr.Error()
		d.logger.WarnContext(ctx, "notification delivery failed",
			"type", typ,
			"account_id", accountID,
			"error", sendErr,
		)
	}
	if d.counter != nil {
		d.counter.WithLabelValues(string(typ), string(entry.Outcome)).Inc()
	}

	if err := d.log.Append(context.WithoutCancel(ctx), entry); err != nil {
		d.logger.ErrorContext(ctx, "failed to record notification attempt",
			"type", typ,
			"error", err,
		)
	}
	return sendErr
}
