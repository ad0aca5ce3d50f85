// Package domain holds typed identifiers shared across bounded contexts.
// Each identifier wraps a UUID so an AccountID can never be passed where a
// ReportID is expected.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "memento/pkg/domain-errors"
)

type (
	AccountID     uuid.UUID
	ReportID      uuid.UUID
	AttestationID uuid.UUID
	ContactID     uuid.UUID
	DeliverableID uuid.UUID
	AssetID       uuid.UUID
)

func (id AccountID) String() string     { return uuid.UUID(id).String() }
func (id ReportID) String() string      { return uuid.UUID(id).String() }
func (id AttestationID) String() string { return uuid.UUID(id).String() }
func (id ContactID) String() string     { return uuid.UUID(id).String() }
func (id DeliverableID) String() string { return uuid.UUID(id).String() }
func (id AssetID) String() string       { return uuid.UUID(id).String() }

func (id AccountID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ReportID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id AttestationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ContactID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DeliverableID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AssetID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID(s, "account id")
	return AccountID(u), err
}

func ParseReportID(s string) (ReportID, error) {
	u, err := parseUUID(s, "report id")
	return ReportID(u), err
}

func ParseContactID(s string) (ContactID, error) {
	u, err := parseUUID(s, "contact id")
	return ContactID(u), err
}

func ParseDeliverableID(s string) (DeliverableID, error) {
	u, err := parseUUID(s, "deliverable id")
	return DeliverableID(u), err
}

func ParseAssetID(s string) (AssetID, error) {
	u, err := parseUUID(s, "asset id")
	return AssetID(u), err
}

// parseUUID is the single trust-boundary parser: empty, malformed, and nil
// UUIDs are all rejected with CodeInvalidInput.
func parseUUID(s, label string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
