// Package service owns scheduled deliverables: owner CRUD, inline IMMEDIATE
// release and the ON_DEATH and ON_DATE release sweeps.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"memento/internal/directory"
	"memento/internal/notify"
	"memento/internal/release/metrics"
	"memento/internal/release/models"
	"memento/pkg/attrs"
	id "memento/pkg/domain"
	"memento/pkg/platform/audit"
	"memento/pkg/platform/tx"
	"memento/pkg/requestcontext"
)

type DeliverableStore interface {
	Create(ctx context.Context, d *models.Deliverable) error
	FindByID(ctx context.Context, deliverableID id.DeliverableID) (*models.Deliverable, error)
	ListByOwner(ctx context.Context, owner id.AccountID) ([]*models.Deliverable, error)
	UpdateIfUnreleased(ctx context.Context, d *models.Deliverable) error
	DeleteIfUnreleased(ctx context.Context, deliverableID id.DeliverableID) error
	ListUnreleasedOnDeath(ctx context.Context, owners []id.AccountID) ([]*models.Deliverable, error)
	ListDueOnDate(ctx context.Context, now time.Time) ([]*models.Deliverable, error)
	ReleaseIfUnreleased(ctx context.Context, deliverableID id.DeliverableID, now time.Time) (bool, error)
	AppendLedger(ctx context.Context, entry models.LedgerEntry) error
}

// FinalizedTargets lists accounts with at least one FINAL_CONFIRMED report.
type FinalizedTargets interface {
	ListFinalizedTargets(ctx context.Context) ([]id.AccountID, error)
}

type AccountDirectory interface {
	FindByID(ctx context.Context, accountID id.AccountID) (*directory.Account, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, typ notify.Type, accountID id.AccountID, msg notify.Message) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	deliverables   DeliverableStore
	finalized      FinalizedTargets
	accounts       AccountDirectory
	tx             tx.Runner
	notifier       Notifier
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func New(deliverables DeliverableStore, finalized FinalizedTargets, accounts AccountDirectory, runner tx.Runner, opts ...Option) (*Service, error) {
	if deliverables == nil {
		return nil, errors.New("deliverable store is required")
	}
	if finalized == nil || accounts == nil {
		return nil, errors.New("report and account lookups are required")
	}
	if runner == nil {
		return nil, errors.New("tx runner is required")
	}
	s := &Service{
		deliverables: deliverables,
		finalized:    finalized,
		accounts:     accounts,
		tx:           runner,
		logger:       slog.Default(),
		tracer:       otel.Tracer("memento/release"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	s.logger.InfoContext(ctx, string(event), args...)
	if s.auditPublisher == nil {
		return
	}
	accountID, _ := id.ParseAccountID(attrs.ExtractString(attributes, "account_id"))
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		AccountID: accountID,
		Subject:   attrs.ExtractString(attributes, "deliverable_id"),
		Action:    string(event),
		Decision:  attrs.ExtractString(attributes, "policy"),
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   attrs.ExtractString(attributes, "actor"),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}
