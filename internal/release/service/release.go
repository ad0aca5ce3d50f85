package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"memento/internal/notify"
	"memento/internal/platform/scheduler"
	"memento/internal/release/models"
	"memento/pkg/platform/audit"
	"memento/pkg/platform/sentinel"
	"memento/pkg/requestcontext"
)

const (
	OnDeathJobName = "release_on_death"
	OnDateJobName  = "release_on_date"
)

// SweepOnDeath releases the unreleased ON_DEATH deliverables of every account
// with a FINAL_CONFIRMED report.
func (s *Service) SweepOnDeath(ctx context.Context) (models.ReleaseResult, error) {
	ctx, span := s.tracer.Start(ctx, "release.SweepOnDeath")
	defer span.End()

	targets, err := s.finalized.ListFinalizedTargets(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return models.ReleaseResult{}, fmt.Errorf("list finalized accounts: %w", err)
	}
	if len(targets) == 0 {
		return models.ReleaseResult{}, nil
	}
	due, err := s.deliverables.ListUnreleasedOnDeath(ctx, targets)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return models.ReleaseResult{}, fmt.Errorf("list on-death deliverables: %w", err)
	}
	res := s.releaseAll(ctx, due)
	span.SetAttributes(attribute.Int("accounts", len(targets)), attribute.Int("released", res.Released))
	return res, nil
}

// SweepOnDate releases unreleased ON_DATE deliverables whose time has come.
func (s *Service) SweepOnDate(ctx context.Context) (models.ReleaseResult, error) {
	ctx, span := s.tracer.Start(ctx, "release.SweepOnDate")
	defer span.End()

	due, err := s.deliverables.ListDueOnDate(ctx, requestcontext.Now(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return models.ReleaseResult{}, fmt.Errorf("list due deliverables: %w", err)
	}
	res := s.releaseAll(ctx, due)
	span.SetAttributes(attribute.Int("released", res.Released))
	return res, nil
}

func (s *Service) OnDeathJob(interval time.Duration) scheduler.Job {
	return scheduler.Job{
		Name:     OnDeathJobName,
		Interval: interval,
		Run: func(ctx context.Context) error {
			_, err := s.SweepOnDeath(ctx)
			return err
		},
	}
}

func (s *Service) OnDateJob(interval time.Duration) scheduler.Job {
	return scheduler.Job{
		Name:     OnDateJobName,
		Interval: interval,
		Run: func(ctx context.Context) error {
			_, err := s.SweepOnDate(ctx)
			return err
		},
	}
}

func (s *Service) releaseAll(ctx context.Context, due []*models.Deliverable) models.ReleaseResult {
	now := requestcontext.Now(ctx)
	res := models.ReleaseResult{Examined: len(due)}
	for _, d := range due {
		var applied bool
		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			applied, err = s.releaseInTx(ctx, d, now)
			return err
		})
		if err != nil {
			res.Failed++
			s.metrics.IncReleaseFailure(string(d.Policy))
			s.logger.ErrorContext(ctx, "failed to release deliverable",
				"deliverable_id", d.ID,
				"account_id", d.OwnerAccountID,
				"error", err,
			)
			continue
		}
		if !applied {
			continue
		}
		res.Released++
		s.metrics.IncReleased(string(d.Policy))
		s.notifyRelease(ctx, d)
	}
	if res.Released > 0 || res.Failed > 0 {
		s.logger.InfoContext(ctx, "release sweep finished",
			"examined", res.Examined,
			"released", res.Released,
			"failed", res.Failed,
		)
	}
	return res
}

// releaseInTx flips the released flag and appends the ledger entry. It must
// run inside a unit of work; a false result means someone else released d
// first and nothing was written.
func (s *Service) releaseInTx(ctx context.Context, d *models.Deliverable, now time.Time) (bool, error) {
	applied, err := s.deliverables.ReleaseIfUnreleased(ctx, d.ID, now)
	if err != nil || !applied {
		return false, err
	}
	if err := s.deliverables.AppendLedger(ctx, models.NewLedgerEntry(d, now)); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return false, fmt.Errorf("ledger already records deliverable %s: %w", d.ID, err)
		}
		return false, err
	}
	s.logAudit(ctx, audit.EventDeliverableReleased,
		"account_id", d.OwnerAccountID,
		"deliverable_id", d.ID,
		"policy", d.Policy,
		"actor", "system",
	)
	return true, nil
}

// notifyRelease tells the beneficiary, if any. Failures are logged by the
// dispatcher and never undo the release.
func (s *Service) notifyRelease(ctx context.Context, d *models.Deliverable) {
	if s.notifier == nil || d.BeneficiaryEmail == "" {
		return
	}
	from := "Someone"
	if account, err := s.accounts.FindByID(ctx, d.OwnerAccountID); err == nil {
		if account.DisplayName != "" {
			from = account.DisplayName
		} else {
			from = account.Username
		}
	}
	recipient := d.RecipientName
	if recipient == "" {
		recipient = "there"
	}
	title := d.Title
	if title == "" {
		title = "Untitled"
	}
	body := fmt.Sprintf(`Hello %s,

%s left a message for you on Memento: "%s".

Sign in to Memento to read it.
`, recipient, from, title)

	_ = s.notifier.Dispatch(ctx, notify.TypeDeliverableReleased, d.OwnerAccountID, notify.Message{
		To:      d.BeneficiaryEmail,
		Subject: fmt.Sprintf("[Memento] A message from %s", from),
		Body:    body,
	})
}
