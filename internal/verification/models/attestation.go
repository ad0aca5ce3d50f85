package models

import (
	"strings"
	"time"

	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
)

type AttestationStatus string

const (
	AttestationPending   AttestationStatus = "PENDING"
	AttestationConfirmed AttestationStatus = "CONFIRMED"
	AttestationRejected  AttestationStatus = "REJECTED"
)

// Attestation is one trusted contact's single-use vote on a report. Only the
// hash of the token is kept.
type Attestation struct {
	ID           id.AttestationID
	ReportID     id.ReportID
	ContactID    id.ContactID
	ContactName  string
	ContactEmail string
	TokenHash    []byte
	Status       AttestationStatus
	DecidedAt    *time.Time
	CreatedAt    time.Time
}

type Decision string

const (
	DecisionConfirm Decision = "CONFIRM"
	DecisionReject  Decision = "REJECT"
)

// ParseDecision accepts CONFIRM or REJECT in any case. An empty value means
// CONFIRM, which is what the emailed link submits.
func ParseDecision(s string) (Decision, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(DecisionConfirm):
		return DecisionConfirm, nil
	case string(DecisionReject):
		return DecisionReject, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "decision must be CONFIRM or REJECT")
}

func (d Decision) AttestationStatus() AttestationStatus {
	if d == DecisionReject {
		return AttestationRejected
	}
	return AttestationConfirmed
}
