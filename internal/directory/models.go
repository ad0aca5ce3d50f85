// Package directory is the orchestrator's read side of data owned by other
// services: accounts, trusted contacts, asset directives and will documents.
// Only Account.DeceasedOn is written from here.
package directory

import (
	"time"

	id "memento/pkg/domain"
)

type Account struct {
	ID          id.AccountID
	Username    string
	DisplayName string
	Email       string
	DeceasedOn  *time.Time
	CreatedAt   time.Time
}

// TrustedContact is a person the owner designated to attest to their death.
// Contacts are returned in registration order.
type TrustedContact struct {
	ID        id.ContactID
	AccountID id.AccountID
	Name      string
	Email     string
	Phone     string
	Relation  string
	CreatedAt time.Time
}

type AssetAction string

const (
	ActionDelete      AssetAction = "DELETE"
	ActionTransfer    AssetAction = "TRANSFER"
	ActionKeep        AssetAction = "KEEP"
	ActionMemorialize AssetAction = "MEMORIALIZE"
	ActionOther       AssetAction = "OTHER"
)

// AssetDirective is the owner's instruction for one digital asset.
type AssetDirective struct {
	AssetID          id.AssetID
	AccountID        id.AccountID
	ServiceName      string
	Category         string
	LoginHint        string
	Action           AssetAction
	BeneficiaryName  string
	BeneficiaryEmail string
	Note             string
}

// Actionable reports whether the directive carries both an action and
// someone to send it to.
func (d AssetDirective) Actionable() bool {
	return d.Action != "" && d.BeneficiaryEmail != ""
}

// WillDocument points at where the owner's will is kept.
type WillDocument struct {
	AccountID       id.AccountID
	StorageLocation string
	FileURL         string
	UpdatedAt       time.Time
}
