// Package notify sends outbound messages and keeps a log of every attempt.
// Callers treat delivery as best effort: a failed send is recorded and
// returned, but never undoes the state transition that triggered it.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "memento/pkg/domain"
)

type Type string

const (
	TypeVerificationRequest Type = "VERIFICATION_REQUEST"
	TypeOwnerAlert          Type = "OWNER_ALERT"
	TypeDeliverableReleased Type = "DELIVERABLE_RELEASED"
	TypeExecutionGuide      Type = "EXECUTION_GUIDE"
	TypeWillLocation        Type = "WILL_LOCATION"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailed  Outcome = "FAILED"
)

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogEntry records one delivery attempt.
type LogEntry struct {
	ID          uuid.UUID
	Type        Type
	Recipient   string
	AccountID   id.AccountID
	Subject     string
	Outcome     Outcome
	ErrorDetail string
	SentAt      time.Time
}
