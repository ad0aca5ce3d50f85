package service

import (
	"context"

	"memento/internal/verification/models"
	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/audit"
	"memento/pkg/requestcontext"
)

const defaultCancelReason = "canceled by owner login"

// CancelAllMyReports cancels every active report targeting the caller's own
// account, including FINAL_CONFIRMED ones. Releases that already went out stay
// released; the cancellation only stops future sweeps from acting.
func (s *Service) CancelAllMyReports(ctx context.Context, accountID id.AccountID, reason string) (int, error) {
	if accountID.IsNil() {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if reason == "" {
		reason = defaultCancelReason
	}
	now := requestcontext.Now(ctx)

	var canceled int
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.reports.CancelActiveForTarget(ctx, accountID, "[owner] "+reason, now)
		if err != nil {
			return err
		}
		canceled = n
		if n > 0 {
			s.logAudit(ctx, audit.EventReportsCanceled,
				"account_id", accountID,
				"reason", reason,
				"canceled", n,
			)
		}
		return nil
	})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to cancel reports")
	}
	if canceled == 0 {
		return 0, dErrors.New(dErrors.CodeNoReportToCancel, "there is no active report about you")
	}
	if s.metrics != nil {
		s.metrics.OwnerCancellations.Inc()
	}
	return canceled, nil
}

// ListMyReports returns reports targeting the caller, newest first.
func (s *Service) ListMyReports(ctx context.Context, accountID id.AccountID) ([]*models.Report, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	reports, err := s.reports.ListByTarget(ctx, accountID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reports")
	}
	return reports, nil
}
