// Package models defines scheduled deliverables and the release ledger.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
	"memento/pkg/email"
)

type Policy string

const (
	PolicyImmediate Policy = "IMMEDIATE"
	PolicyOnDate    Policy = "ON_DATE"
	PolicyOnDeath   Policy = "ON_DEATH"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToUpper(strings.TrimSpace(s))); p {
	case PolicyImmediate, PolicyOnDate, PolicyOnDeath:
		return p, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "release_policy must be IMMEDIATE, ON_DATE or ON_DEATH")
}

// Deliverable is a message the owner prepared for someone, released under a
// policy. Once Released is set the deliverable never changes again.
type Deliverable struct {
	ID               id.DeliverableID
	OwnerAccountID   id.AccountID
	Title            string
	Message          string
	Policy           Policy
	ReleaseAt        *time.Time
	RecipientName    string
	BeneficiaryEmail string
	Released         bool
	ReleasedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewDeliverable(deliverableID id.DeliverableID, owner id.AccountID, req *CreateDeliverableRequest, now time.Time) (*Deliverable, error) {
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "deliverable owner is required")
	}
	policy, err := ParsePolicy(req.ReleasePolicy)
	if err != nil {
		return nil, err
	}
	d := &Deliverable{
		ID:               deliverableID,
		OwnerAccountID:   owner,
		Title:            req.Title,
		Message:          req.Message,
		Policy:           policy,
		ReleaseAt:        req.ReleaseAt,
		RecipientName:    req.RecipientName,
		BeneficiaryEmail: req.BeneficiaryEmail,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if d.RecipientName == "" && d.BeneficiaryEmail != "" {
		d.RecipientName = email.NameFromAddress(d.BeneficiaryEmail)
	}
	if err := d.checkSchedule(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Deliverable) checkSchedule() error {
	if d.Policy == PolicyOnDate && d.ReleaseAt == nil {
		return dErrors.New(dErrors.CodeValidation, "release_at is required for ON_DATE")
	}
	return nil
}

// CanEdit rejects any change to a released deliverable.
func (d *Deliverable) CanEdit() error {
	if d.Released {
		return dErrors.New(dErrors.CodeDeliverableReleased, "deliverable has already been released")
	}
	return nil
}

// ApplyUpdate merges the fields present in req. The result is checked before
// anything is written back.
func (d *Deliverable) ApplyUpdate(req *UpdateDeliverableRequest, now time.Time) error {
	next := *d
	if req.Title != nil {
		next.Title = *req.Title
	}
	if req.Message != nil {
		next.Message = *req.Message
	}
	if req.ReleasePolicy != nil {
		policy, err := ParsePolicy(*req.ReleasePolicy)
		if err != nil {
			return err
		}
		next.Policy = policy
	}
	if req.ReleaseAt != nil {
		t := *req.ReleaseAt
		next.ReleaseAt = &t
	}
	if req.RecipientName != nil {
		next.RecipientName = *req.RecipientName
	}
	if req.BeneficiaryEmail != nil {
		next.BeneficiaryEmail = *req.BeneficiaryEmail
	}
	if err := next.checkSchedule(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*d = next
	return nil
}

// DueOn reports whether an ON_DATE deliverable is due at now.
func (d *Deliverable) DueOn(now time.Time) bool {
	return !d.Released && d.Policy == PolicyOnDate && d.ReleaseAt != nil && !d.ReleaseAt.After(now)
}

// LedgerEntry is the append-only record of one release.
type LedgerEntry struct {
	ID                     uuid.UUID
	DeliverableID          id.DeliverableID
	OwnerAccountID         id.AccountID
	Policy                 Policy
	ReleasedAt             time.Time
	NotificationDispatched bool
}

// NewLedgerEntry records d's release. NotificationDispatched reflects whether
// a beneficiary address was known at release time.
func NewLedgerEntry(d *Deliverable, releasedAt time.Time) LedgerEntry {
	return LedgerEntry{
		ID:                     uuid.New(),
		DeliverableID:          d.ID,
		OwnerAccountID:         d.OwnerAccountID,
		Policy:                 d.Policy,
		ReleasedAt:             releasedAt,
		NotificationDispatched: d.BeneficiaryEmail != "",
	}
}
