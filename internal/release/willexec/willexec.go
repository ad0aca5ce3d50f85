// Package willexec sends each beneficiary a guide for the digital assets the
// deceased assigned to them, and tells them where the will is kept.
package willexec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"memento/internal/content"
	"memento/internal/directory"
	"memento/internal/notify"
	"memento/internal/release/metrics"
	id "memento/pkg/domain"
	"memento/pkg/platform/audit"
	"memento/pkg/platform/sentinel"
	"memento/pkg/requestcontext"
)

const defaultConcurrency = 4

type DirectiveDirectory interface {
	ListDirectives(ctx context.Context, accountID id.AccountID) ([]directory.AssetDirective, error)
	FindWillDocument(ctx context.Context, accountID id.AccountID) (*directory.WillDocument, error)
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

// Result counts execution guides. Skipped directives lack an action or a
// beneficiary address.
type Result struct {
	Sent             int
	Failed           int
	Skipped          int
	WillLocationSent bool
}

type Executor struct {
	directives     DirectiveDirectory
	accounts       AccountDirectory
	notifier       Notifier
	generator      content.Generator
	concurrency    int
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type Option func(*Executor)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(e *Executor) {
		e.auditPublisher = publisher
	}
}

// WithGenerator sets the text generator for guide bodies. Without one, the
// built-in category templates are used.
func WithGenerator(g content.Generator) Option {
	return func(e *Executor) {
		e.generator = g
	}
}

// WithConcurrency bounds how many guides are sent at once.
func WithConcurrency(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func New(directives DirectiveDirectory, accounts AccountDirectory, notifier Notifier, opts ...Option) (*Executor, error) {
	if directives == nil || accounts == nil {
		return nil, errors.New("directive and account directories are required")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}
	e := &Executor{
		directives:  directives,
		accounts:    accounts,
		notifier:    notifier,
		concurrency: defaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.generator = content.WithFallback(e.generator, guideFallback, e.logger)
	return e, nil
}

// OnFinalized runs the fan-out for a newly deceased account.
func (e *Executor) OnFinalized(ctx context.Context, accountID id.AccountID) error {
	res, err := e.RunForAccount(ctx, accountID)
	if err != nil {
		return err
	}
	e.logger.InfoContext(ctx, string(audit.EventWillExecuted),
		"account_id", accountID,
		"sent", res.Sent,
		"failed", res.Failed,
		"skipped", res.Skipped,
		"will_location_sent", res.WillLocationSent,
		"event", string(audit.EventWillExecuted),
		"log_type", "audit",
	)
	if e.auditPublisher != nil {
		if err := e.auditPublisher.Emit(ctx, audit.Event{
			Timestamp: requestcontext.Now(ctx),
			AccountID: accountID,
			Action:    string(audit.EventWillExecuted),
			Decision:  fmt.Sprintf("sent=%d failed=%d skipped=%d", res.Sent, res.Failed, res.Skipped),
			ActorID:   "system",
		}); err != nil {
			e.logger.ErrorContext(ctx, "failed to emit audit event", "event", string(audit.EventWillExecuted), "error", err)
		}
	}
	return nil
}

// RunForAccount sends one EXECUTION_GUIDE per actionable directive. A failed
// send only counts against that directive. The error is reserved for failing
// to read the directives at all.
func (e *Executor) RunForAccount(ctx context.Context, accountID id.AccountID) (Result, error) {
	directives, err := e.directives.ListDirectives(ctx, accountID)
	if err != nil {
		return Result{}, fmt.Errorf("list directives: %w", err)
	}
	deceased := e.deceasedName(ctx, accountID)

	var (
		mu  sync.Mutex
		res Result
	)
	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)
	for _, d := range directives {
		if !d.Actionable() {
			res.Skipped++
			continue
		}
		d := d
		g.Go(func() error {
			err := e.sendGuide(ctx, accountID, deceased, d)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				e.logger.WarnContext(ctx, "execution guide not delivered",
					"account_id", accountID,
					"asset_id", d.AssetID,
					"error", err,
				)
				return nil
			}
			res.Sent++
			return nil
		})
	}
	_ = g.Wait()

	res.WillLocationSent = e.sendWillLocation(ctx, accountID, deceased, directives)

	e.metrics.AddGuides("sent", res.Sent)
	e.metrics.AddGuides("failed", res.Failed)
	e.metrics.AddGuides("skipped", res.Skipped)
	return res, nil
}

func (e *Executor) sendGuide(ctx context.Context, accountID id.AccountID, deceased string, d directory.AssetDirective) error {
	body, _ := e.generator.Generate(ctx, guidePrompt(deceased, d))
	return e.notifier.Dispatch(ctx, notify.TypeExecutionGuide, accountID, notify.Message{
		To:      d.BeneficiaryEmail,
		Subject: fmt.Sprintf("[Memento] Instructions for %q", serviceName(d)),
		Body:    body,
	})
}

// sendWillLocation tells the first beneficiary with an address where the will
// is kept. Nothing is sent when no will document is registered.
func (e *Executor) sendWillLocation(ctx context.Context, accountID id.AccountID, deceased string, directives []directory.AssetDirective) bool {
	will, err := e.directives.FindWillDocument(ctx, accountID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			e.logger.WarnContext(ctx, "will document lookup failed", "account_id", accountID, "error", err)
		}
		return false
	}
	if will.StorageLocation == "" && will.FileURL == "" {
		return false
	}
	var to string
	for _, d := range directives {
		if d.BeneficiaryEmail != "" {
			to = d.BeneficiaryEmail
			break
		}
	}
	if to == "" {
		return false
	}
	err = e.notifier.Dispatch(ctx, notify.TypeWillLocation, accountID, notify.Message{
		To:      to,
		Subject: fmt.Sprintf("[Memento] Where to find %s's will", deceased),
		Body:    willLocationBody(deceased, will),
	})
	return err == nil
}

func (e *Executor) deceasedName(ctx context.Context, accountID id.AccountID) string {
	account, err := e.accounts.FindByID(ctx, accountID)
	if err != nil {
		return "the deceased"
	}
	if account.DisplayName != "" {
		return account.DisplayName
	}
	return account.Username
}
