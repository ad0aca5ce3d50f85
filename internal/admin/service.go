// Package admin serves the read-only operator dashboard: report counts by
// status, release totals and the recent notification and release logs.
package admin

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"memento/internal/notify"
	releasemodels "memento/internal/release/models"
	verificationmodels "memento/internal/verification/models"
	dErrors "memento/pkg/domain-errors"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type ReportCounter interface {
	CountByStatus(ctx context.Context) (map[verificationmodels.ReportStatus]int, error)
}

type ReleaseLedger interface {
	CountReleased(ctx context.Context) (int, error)
	CountLedger(ctx context.Context) (int, error)
	ListLedger(ctx context.Context, limit int) ([]releasemodels.LedgerEntry, error)
}

type NotificationLog interface {
	Count(ctx context.Context) (int, error)
	ListRecent(ctx context.Context, limit int) ([]notify.LogEntry, error)
}

// Dashboard is a point-in-time snapshot. The counts are read independently,
// so they may straddle a concurrent sweep.
type Dashboard struct {
	ReportsByStatus      map[verificationmodels.ReportStatus]int
	DeliverablesReleased int
	NotificationsLogged  int
	LedgerEntries        int
}

type Service struct {
	reports       ReportCounter
	ledger        ReleaseLedger
	notifications NotificationLog
}

func NewService(reports ReportCounter, ledger ReleaseLedger, notifications NotificationLog) (*Service, error) {
	if reports == nil || ledger == nil || notifications == nil {
		return nil, errors.New("admin: report counter, release ledger and notification log are required")
	}
	return &Service{reports: reports, ledger: ledger, notifications: notifications}, nil
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.reports.CountByStatus(gctx)
		if err != nil {
			return err
		}
		d.ReportsByStatus = withAllStatuses(counts)
		return nil
	})
	g.Go(func() (err error) {
		d.DeliverablesReleased, err = s.ledger.CountReleased(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.LedgerEntries, err = s.ledger.CountLedger(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.NotificationsLogged, err = s.notifications.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load dashboard")
	}
	return d, nil
}

func (s *Service) RecentNotifications(ctx context.Context, limit int) ([]notify.LogEntry, error) {
	entries, err := s.notifications.ListRecent(ctx, clampLimit(limit))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return entries, nil
}

func (s *Service) ReleaseLedger(ctx context.Context, limit int) ([]releasemodels.LedgerEntry, error) {
	entries, err := s.ledger.ListLedger(ctx, clampLimit(limit))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list release ledger")
	}
	return entries, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

// withAllStatuses reports zero for statuses that have no rows.
func withAllStatuses(counts map[verificationmodels.ReportStatus]int) map[verificationmodels.ReportStatus]int {
	out := map[verificationmodels.ReportStatus]int{
		verificationmodels.StatusPending:         0,
		verificationmodels.StatusConfirmed:       0,
		verificationmodels.StatusFinalConfirmed:  0,
		verificationmodels.StatusRejected:        0,
		verificationmodels.StatusCanceled:        0,
		verificationmodels.StatusCanceledByOwner: 0,
	}
	for status, n := range counts {
		out[status] = n
	}
	return out
}
