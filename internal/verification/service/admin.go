package service

import (
	"context"

	"memento/internal/verification/models"
	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/audit"
	"memento/pkg/requestcontext"
)

// UpdateStatus applies an operator decision. Setting CONFIRMED starts the
// dwell exactly as consensus would; FINAL reports cannot be touched.
func (s *Service) UpdateStatus(ctx context.Context, reportID id.ReportID, req *models.UpdateStatusRequest) (*models.Report, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	to, err := models.ParseReportStatus(req.Status)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	note := ""
	if req.Note != "" {
		note = "[admin] " + req.Note
	}

	var (
		updated *models.Report
		from    models.ReportStatus
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := s.reports.Execute(ctx, reportID,
			func(r *models.Report) error {
				from = r.Status
				return r.CanSetStatus(to)
			},
			func(r *models.Report) {
				r.ApplyStatus(to, note, now)
			},
		)
		if err != nil {
			return err
		}
		updated = r
		s.logAudit(ctx, audit.EventReportStatusSet,
			"account_id", r.TargetAccountID,
			"report_id", r.ID,
			"decision", string(to),
			"reason", req.Note,
			"actor", "admin",
		)
		return nil
	})
	if err != nil {
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		return nil, translateStoreErr(err, "report not found", "failed to update report")
	}

	s.logger.InfoContext(ctx, "report status set by operator",
		"report_id", reportID,
		"from", from,
		"to", to,
	)
	if to == models.StatusConfirmed {
		if s.metrics != nil {
			s.metrics.ReportsConfirmed.Inc()
		}
		s.alertOwner(ctx, updated.TargetAccountID, updated.ID)
	}
	return updated, nil
}

// GetReport returns a report and its attestation statuses. Token hashes are
// left in the model; handlers never render them.
func (s *Service) GetReport(ctx context.Context, reportID id.ReportID) (*models.ReportDetails, error) {
	r, err := s.reports.FindReport(ctx, reportID)
	if err != nil {
		return nil, translateStoreErr(err, "report not found", "failed to load report")
	}
	attestations, err := s.reports.ListAttestations(ctx, reportID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attestations")
	}
	return &models.ReportDetails{Report: r, Attestations: attestations}, nil
}

func (s *Service) ListReports(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	reports, err := s.reports.ListReports(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reports")
	}
	return reports, nil
}

func (s *Service) CountByStatus(ctx context.Context) (map[models.ReportStatus]int, error) {
	counts, err := s.reports.CountByStatus(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count reports")
	}
	return counts, nil
}
