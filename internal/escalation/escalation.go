// Package escalation finalizes confirmed death reports once the owner's dwell
// window has elapsed without a cancellation.
package escalation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"memento/internal/platform/scheduler"
	"memento/internal/verification/models"
	"memento/pkg/attrs"
	id "memento/pkg/domain"
	"memento/pkg/platform/audit"
	"memento/pkg/platform/sentinel"
	"memento/pkg/platform/tx"
	"memento/pkg/requestcontext"
)

const (
	// JobName is the scheduler and lease name of the sweep.
	JobName = "escalation"

	DefaultDwell = 72 * time.Hour

	finalizeNote = "[auto] finalized after dwell elapsed"
)

type ReportStore interface {
	ListConfirmedBefore(ctx context.Context, cutoff time.Time) ([]*models.Report, error)
	FinalizeIfConfirmed(ctx context.Context, reportID id.ReportID, note string, now time.Time) (bool, error)
}

// AccountDirectory records death on the account. MarkDeceased must be a
// conditional write that returns true for exactly one caller per account.
type AccountDirectory interface {
	MarkDeceased(ctx context.Context, accountID id.AccountID, at time.Time) (bool, error)
}

// FinalityHook runs after an account's first report becomes final.
type FinalityHook interface {
	OnFinalized(ctx context.Context, accountID id.AccountID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Result summarizes one sweep.
type Result struct {
	Examined  int
	Finalized int
	Failed    int
}

type Sweeper struct {
	reports        ReportStore
	accounts       AccountDirectory
	tx             tx.Runner
	dwell          time.Duration
	hooks          []FinalityHook
	logger         *slog.Logger
	metrics        *Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

type Option func(*Sweeper)

func WithDwell(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.dwell = d
		}
	}
}

// WithFinalityHook appends a hook. Hooks run in registration order.
func WithFinalityHook(h FinalityHook) Option {
	return func(s *Sweeper) {
		s.hooks = append(s.hooks, h)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Sweeper) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Sweeper) {
		s.auditPublisher = publisher
	}
}

func New(reports ReportStore, accounts AccountDirectory, runner tx.Runner, opts ...Option) (*Sweeper, error) {
	if reports == nil || accounts == nil {
		return nil, errors.New("report store and account directory are required")
	}
	if runner == nil {
		return nil, errors.New("tx runner is required")
	}
	s := &Sweeper{
		reports:  reports,
		accounts: accounts,
		tx:       runner,
		dwell:    DefaultDwell,
		logger:   slog.Default(),
		tracer:   otel.Tracer("memento/escalation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Job adapts the sweep to the scheduler.
func (s *Sweeper) Job(interval time.Duration) scheduler.Job {
	return scheduler.Job{
		Name:     JobName,
		Interval: interval,
		Run: func(ctx context.Context) error {
			_, err := s.Run(ctx)
			return err
		},
	}
}

// Run finalizes every CONFIRMED report whose confirmation is at least one
// dwell old. A failed select abandons the run. A failed finalization only
// skips that report; the next run picks it up again.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "escalation.Run")
	defer span.End()

	now := requestcontext.Now(ctx)
	cutoff := now.Add(-s.dwell)
	span.SetAttributes(attribute.String("cutoff", cutoff.Format(time.RFC3339)))

	due, err := s.reports.ListConfirmedBefore(ctx, cutoff)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return Result{}, fmt.Errorf("list confirmed reports: %w", err)
	}

	res := Result{Examined: len(due)}
	var newlyDeceased []id.AccountID
	for _, report := range due {
		applied, firstFinal, err := s.finalize(ctx, report, now)
		if err != nil {
			res.Failed++
			s.logger.ErrorContext(ctx, "failed to finalize report",
				"report_id", report.ID,
				"account_id", report.TargetAccountID,
				"error", err,
			)
			continue
		}
		if !applied {
			// Canceled or finalized by someone else since the select.
			continue
		}
		res.Finalized++
		s.metrics.incFinalized()
		if firstFinal {
			newlyDeceased = append(newlyDeceased, report.TargetAccountID)
		}
	}

	for _, accountID := range newlyDeceased {
		s.runHooks(ctx, accountID)
	}

	span.SetAttributes(
		attribute.Int("examined", res.Examined),
		attribute.Int("finalized", res.Finalized),
		attribute.Int("failed", res.Failed),
	)
	if res.Finalized > 0 || res.Failed > 0 {
		s.logger.InfoContext(ctx, "escalation sweep finished",
			"examined", res.Examined,
			"finalized", res.Finalized,
			"failed", res.Failed,
		)
	}
	return res, nil
}

// finalize applies one status-guarded transition together with the deceased
// marker and its audit records. firstFinal is true only for the transition
// whose MarkDeceased write applied.
func (s *Sweeper) finalize(ctx context.Context, report *models.Report, now time.Time) (applied, firstFinal bool, err error) {
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ok, err := s.reports.FinalizeIfConfirmed(ctx, report.ID, finalizeNote, now)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		applied = true

		marked, err := s.accounts.MarkDeceased(ctx, report.TargetAccountID, now)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			// The directory lost the account; the report is still final.
			s.logger.WarnContext(ctx, "finalized report targets unknown account",
				"report_id", report.ID,
				"account_id", report.TargetAccountID,
			)
		case err != nil:
			return fmt.Errorf("mark deceased: %w", err)
		default:
			firstFinal = marked
		}

		s.logAudit(ctx, audit.EventReportFinalized,
			"report_id", report.ID,
			"account_id", report.TargetAccountID,
			"actor", "system",
		)
		if firstFinal {
			s.logAudit(ctx, audit.EventAccountDeceased,
				"report_id", report.ID,
				"account_id", report.TargetAccountID,
				"actor", "system",
			)
		}
		return nil
	})
	if err != nil {
		return false, false, err
	}
	return applied, firstFinal, nil
}

func (s *Sweeper) runHooks(ctx context.Context, accountID id.AccountID) {
	for _, h := range s.hooks {
		if err := h.OnFinalized(ctx, accountID); err != nil {
			s.metrics.incHookFailure()
			s.logger.ErrorContext(ctx, "finality hook failed",
				"account_id", accountID,
				"error", err,
			)
		}
	}
}

func (s *Sweeper) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	args := append(attributes, "event", string(event), "log_type", "audit")
	s.logger.InfoContext(ctx, string(event), args...)
	if s.auditPublisher == nil {
		return
	}
	accountID, _ := id.ParseAccountID(attrs.ExtractString(attributes, "account_id"))
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		AccountID: accountID,
		Subject:   attrs.ExtractString(attributes, "report_id"),
		Action:    string(event),
		ActorID:   attrs.ExtractString(attributes, "actor"),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}
