package models

import (
	"time"

	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
)

type ReportStatus string

const (
	StatusPending         ReportStatus = "PENDING"
	StatusConfirmed       ReportStatus = "CONFIRMED"
	StatusFinalConfirmed  ReportStatus = "FINAL_CONFIRMED"
	StatusRejected        ReportStatus = "REJECTED"
	StatusCanceled        ReportStatus = "CANCELED"
	StatusCanceledByOwner ReportStatus = "CANCELED_BY_OWNER"
)

// ActiveStatuses are the statuses an owner cancellation applies to.
var ActiveStatuses = []ReportStatus{StatusPending, StatusConfirmed, StatusFinalConfirmed}

func ParseReportStatus(s string) (ReportStatus, error) {
	switch st := ReportStatus(s); st {
	case StatusPending, StatusConfirmed, StatusFinalConfirmed,
		StatusRejected, StatusCanceled, StatusCanceledByOwner:
		return st, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown report status")
}

func (s ReportStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusFinalConfirmed
}

// Report is a claim that an account owner has died.
//
// Invariants:
//   - ResolvedAt is nil iff Status is PENDING
//   - FINAL_CONFIRMED is only reached from CONFIRMED
//   - AdminNote is append-only
//   - reports are never deleted
type Report struct {
	ID               id.ReportID
	TargetAccountID  id.AccountID
	ReporterName     string
	ReporterContact  string
	RelationToTarget string
	Message          string
	Status           ReportStatus
	AdminNote        string
	CreatedAt        time.Time
	ResolvedAt       *time.Time
}

func NewReport(reportID id.ReportID, target id.AccountID, req *CreateReportRequest, now time.Time) (*Report, error) {
	if target.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "report target is required")
	}
	if req.ReporterName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reporter name is required")
	}
	return &Report{
		ID:               reportID,
		TargetAccountID:  target,
		ReporterName:     req.ReporterName,
		ReporterContact:  req.ReporterContact,
		RelationToTarget: req.RelationToTarget,
		Message:          req.Message,
		Status:           StatusPending,
		CreatedAt:        now,
	}, nil
}

// AppendNote adds a line to the admin note.
func (r *Report) AppendNote(note string) {
	r.AdminNote = AppendNote(r.AdminNote, note)
}

// AppendNote joins note onto existing with a newline.
func AppendNote(existing, note string) string {
	if note == "" {
		return existing
	}
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}

// CanSetStatus checks an operator-requested transition.
// Use with ApplyStatus in Execute callbacks.
func (r *Report) CanSetStatus(to ReportStatus) error {
	if r.Status == StatusFinalConfirmed {
		return dErrors.New(dErrors.CodeReportAlreadyFinal, "report is already final")
	}
	switch to {
	case StatusPending:
		return dErrors.New(dErrors.CodeValidation, "a report cannot be returned to PENDING")
	case StatusFinalConfirmed:
		return dErrors.New(dErrors.CodeValidation, "FINAL_CONFIRMED is only reached after the dwell period")
	case StatusCanceledByOwner:
		return dErrors.New(dErrors.CodeValidation, "only the owner can cancel their own reports")
	}
	if r.Status != StatusPending && r.Status != StatusConfirmed {
		return dErrors.New(dErrors.CodeConflict, "report is already closed")
	}
	if to == StatusConfirmed && r.Status != StatusPending {
		return dErrors.New(dErrors.CodeConflict, "report is already confirmed")
	}
	return nil
}

// ApplyStatus moves the report to a resolved status. ResolvedAt is stamped on
// every transition out of PENDING; a CONFIRMED report moving to REJECTED or
// CANCELED keeps its original resolution time.
func (r *Report) ApplyStatus(to ReportStatus, note string, now time.Time) {
	if r.ResolvedAt == nil {
		t := now
		r.ResolvedAt = &t
	}
	r.Status = to
	r.AppendNote(note)
}
