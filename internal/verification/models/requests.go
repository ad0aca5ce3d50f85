package models

import (
	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/httputil"
)

// CreateReportRequest identifies the target by username or by account id.
type CreateReportRequest struct {
	TargetUsername   string `json:"target_username"`
	TargetAccountID  string `json:"target_account_id"`
	ReporterName     string `json:"reporter_name"`
	ReporterContact  string `json:"reporter_contact"`
	RelationToTarget string `json:"relation_to_target"`
	Message          string `json:"message"`
}

func (r *CreateReportRequest) Normalize() {
	httputil.TrimAll(&r.TargetUsername, &r.TargetAccountID, &r.ReporterName,
		&r.ReporterContact, &r.RelationToTarget, &r.Message)
}

func (r *CreateReportRequest) Validate() error {
	if r.TargetUsername == "" && r.TargetAccountID == "" {
		return dErrors.New(dErrors.CodeValidation, "target_username or target_account_id is required")
	}
	if r.ReporterName == "" {
		return dErrors.New(dErrors.CodeValidation, "reporter_name is required")
	}
	if len(r.ReporterName) > 200 || len(r.ReporterContact) > 200 || len(r.RelationToTarget) > 100 {
		return dErrors.New(dErrors.CodeValidation, "reporter fields are too long")
	}
	if len(r.Message) > 5000 {
		return dErrors.New(dErrors.CodeValidation, "message must be 5000 characters or less")
	}
	return nil
}

type DecisionRequest struct {
	Token    string `json:"token"`
	Decision string `json:"decision"`
}

func (r *DecisionRequest) Normalize() {
	httputil.TrimAll(&r.Token, &r.Decision)
}

func (r *DecisionRequest) Validate() error {
	if r.Token == "" {
		return dErrors.New(dErrors.CodeTokenNotFound, "token is required")
	}
	_, err := ParseDecision(r.Decision)
	return err
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

func (r *CancelRequest) Normalize() { httputil.TrimAll(&r.Reason) }

func (r *CancelRequest) Validate() error {
	if len(r.Reason) > 500 {
		return dErrors.New(dErrors.CodeValidation, "reason must be 500 characters or less")
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (r *UpdateStatusRequest) Normalize() { httputil.TrimAll(&r.Status, &r.Note) }

func (r *UpdateStatusRequest) Validate() error {
	if r.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "status is required")
	}
	_, err := ParseReportStatus(r.Status)
	return err
}

// IssuedToken is returned once at report creation. The raw token is never
// stored.
type IssuedToken struct {
	AttestationID id.AttestationID
	ContactID     id.ContactID
	ContactName   string
	ContactEmail  string
	Token         string
}

type DecisionResult struct {
	ReportID        id.ReportID
	Decision        Decision
	ConfirmedCount  int
	ReportConfirmed bool
}

type ReportFilter struct {
	Status ReportStatus
	Limit  int
}

// ReportDetails is a report with its attestation statuses.
type ReportDetails struct {
	Report       *Report
	Attestations []*Attestation
}
