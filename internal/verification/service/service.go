// Package service implements the verification ledger: report intake,
// attestation decisions with synchronous consensus, owner cancellation and
// operator overrides.
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
	"memento/internal/verification/metrics"
	"memento/internal/verification/models"
	"memento/pkg/attrs"
	id "memento/pkg/domain"
	"memento/pkg/platform/audit"
	"memento/pkg/platform/tx"
	"memento/pkg/requestcontext"
)

type ReportStore interface {
	CreateWithAttestations(ctx context.Context, report *models.Report, attestations []*models.Attestation) error
	FindReport(ctx context.Context, reportID id.ReportID) (*models.Report, error)
	ListReports(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error)
	ListByTarget(ctx context.Context, accountID id.AccountID) ([]*models.Report, error)
	ListAttestations(ctx context.Context, reportID id.ReportID) ([]*models.Attestation, error)
	DecideAttestation(ctx context.Context, hash []byte, status models.AttestationStatus, now time.Time) (*models.Attestation, error)
	LockReport(ctx context.Context, reportID id.ReportID) error
	CountConfirmed(ctx context.Context, reportID id.ReportID) (int, error)
	ConfirmIfPending(ctx context.Context, reportID id.ReportID, now time.Time) (bool, error)
	CancelActiveForTarget(ctx context.Context, accountID id.AccountID, note string, now time.Time) (int, error)
	Execute(ctx context.Context, reportID id.ReportID, validate func(*models.Report) error, mutate func(*models.Report)) (*models.Report, error)
	CountByStatus(ctx context.Context) (map[models.ReportStatus]int, error)
}

type AccountDirectory interface {
	FindByID(ctx context.Context, accountID id.AccountID) (*directory.Account, error)
	FindByUsername(ctx context.Context, username string) (*directory.Account, error)
}

type ContactDirectory interface {
	ListByAccount(ctx context.Context, accountID id.AccountID) ([]directory.TrustedContact, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, typ notify.Type, accountID id.AccountID, msg notify.Message) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Config holds the ledger's tunables.
type Config struct {
	// ContactsPerReport is both the number of contacts asked to attest and the
	// minimum the target must have registered.
	ContactsPerReport int
	// Threshold is the number of confirmations that closes a report.
	Threshold int
	// VerifyURL is the page contacts open; the token is appended as ?token=.
	VerifyURL string
	// Dwell is only used in the owner alert text.
	Dwell time.Duration
}

// Service owns every write to death reports and attestation tokens.
type Service struct {
	reports        ReportStore
	accounts       AccountDirectory
	contacts       ContactDirectory
	tx             tx.Runner
	cfg            Config
	selector       ContactSelector
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

// WithNotifier enables contact and owner emails. Without it the ledger still
// works; nobody is told.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithContactSelector replaces the default FirstRegistered policy.
func WithContactSelector(sel ContactSelector) Option {
	return func(s *Service) {
		s.selector = sel
	}
}

func New(reports ReportStore, accounts AccountDirectory, contacts ContactDirectory, runner tx.Runner, cfg Config, opts ...Option) (*Service, error) {
	if reports == nil {
		return nil, errors.New("report store is required")
	}
	if accounts == nil || contacts == nil {
		return nil, errors.New("account and contact directories are required")
	}
	if runner == nil {
		return nil, errors.New("tx runner is required")
	}
	if cfg.ContactsPerReport < 2 {
		cfg.ContactsPerReport = 2
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 2
	}
	if cfg.Threshold > cfg.ContactsPerReport {
		return nil, errors.New("attestation threshold cannot exceed contacts per report")
	}

	s := &Service{
		reports:  reports,
		accounts: accounts,
		contacts: contacts,
		tx:       runner,
		cfg:      cfg,
		logger:   slog.Default(),
		tracer:   otel.Tracer("memento/verification"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.selector == nil {
		s.selector = FirstRegistered(cfg.ContactsPerReport)
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
		Subject:   attrs.ExtractString(attributes, "report_id"),
		Action:    string(event),
		Decision:  attrs.ExtractString(attributes, "decision"),
		Reason:    attrs.ExtractString(attributes, "reason"),
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   attrs.ExtractString(attributes, "actor"),
		Device:    requestcontext.Device(ctx),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

func (s *Service) notify(ctx context.Context, typ notify.Type, accountID id.AccountID, msg notify.Message) {
	if s.notifier == nil || msg.To == "" {
		return
	}
	// Failures are already logged by the dispatcher.
	_ = s.notifier.Dispatch(ctx, typ, accountID, msg)
}
