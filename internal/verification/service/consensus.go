package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memento/internal/notify"
	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/sentinel"
)

type consensusOutcome struct {
	targetID     id.AccountID
	confirmed    int
	transitioned bool
}

// evaluateConsensus runs inside the decision's unit of work. The report row is
// locked before counting so concurrent decisions on one report are counted in
// order; ConfirmIfPending only applies while the report is still PENDING, so at
// most one caller observes the transition. Rejections are counted as nothing:
// they never close a report.
func (s *Service) evaluateConsensus(ctx context.Context, reportID id.ReportID, now time.Time) (consensusOutcome, error) {
	if err := s.reports.LockReport(ctx, reportID); err != nil {
		return consensusOutcome{}, fmt.Errorf("lock report: %w", err)
	}
	report, err := s.reports.FindReport(ctx, reportID)
	if err != nil {
		return consensusOutcome{}, fmt.Errorf("load report: %w", err)
	}
	confirmed, err := s.reports.CountConfirmed(ctx, reportID)
	if err != nil {
		return consensusOutcome{}, fmt.Errorf("count confirmations: %w", err)
	}

	out := consensusOutcome{targetID: report.TargetAccountID, confirmed: confirmed}
	if confirmed < s.cfg.Threshold {
		return out, nil
	}
	out.transitioned, err = s.reports.ConfirmIfPending(ctx, reportID, now)
	if err != nil {
		return consensusOutcome{}, fmt.Errorf("confirm report: %w", err)
	}
	return out, nil
}

// alertOwner tells the account owner that a report was confirmed so that a
// living owner can cancel it before it becomes final.
func (s *Service) alertOwner(ctx context.Context, accountID id.AccountID, reportID id.ReportID) {
	if s.notifier == nil {
		return
	}
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "owner alert skipped: account lookup failed",
				"account_id", accountID,
				"error", err,
			)
		}
		return
	}
	hours := int(s.cfg.Dwell.Hours())
	if hours <= 0 {
		hours = 72
	}
	body := fmt.Sprintf(`Hello %s,

Your trusted contacts have confirmed a report that you have passed away (report %s).

If this is a mistake, sign in to Memento within %d hours and cancel the report.
After that, the messages and instructions you prepared will be released.
`, displayName(account.DisplayName, account.Username), reportID, hours)

	s.notify(ctx, notify.TypeOwnerAlert, accountID, notify.Message{
		To:      account.Email,
		Subject: "[Memento] A death report about you was confirmed",
		Body:    body,
	})
}

func displayName(display, username string) string {
	if display != "" {
		return display
	}
	return username
}

// translateStoreErr maps store sentinels onto domain errors for read paths.
func translateStoreErr(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}
