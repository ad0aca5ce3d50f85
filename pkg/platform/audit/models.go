package audit

import (
	"context"
	"time"

	id "memento/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal significance for the estate:
	// death confirmations, finalization, owner cancellations, releases.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to abuse monitoring, such as
	// reused attestation tokens or rate limited report submissions.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity that can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	AccountID id.AccountID
	Subject   string
	Action    string
	Decision  string
	Reason    string
	RequestID string
	// ActorID identifies who performed the action when it is not the account
	// owner: "system" for sweepers, "admin" for operator overrides.
	ActorID string
	Device  string
}

type AuditEvent string

const (
	// Verification ledger
	EventReportCreated      AuditEvent = "death_report_created"
	EventAttestationDecided AuditEvent = "attestation_decided"
	EventTokenReuseAttempt  AuditEvent = "attestation_token_reused"
	EventReportConfirmed    AuditEvent = "death_report_confirmed"
	EventReportFinalized    AuditEvent = "death_report_finalized"
	EventReportsCanceled    AuditEvent = "death_reports_canceled_by_owner"
	EventReportStatusSet    AuditEvent = "death_report_status_set"
	EventAccountDeceased    AuditEvent = "account_marked_deceased"

	// Release
	EventDeliverableCreated  AuditEvent = "deliverable_created"
	EventDeliverableUpdated  AuditEvent = "deliverable_updated"
	EventDeliverableDeleted  AuditEvent = "deliverable_deleted"
	EventDeliverableReleased AuditEvent = "deliverable_released"
	EventWillExecuted        AuditEvent = "will_executed"

	EventRateLimitExceeded AuditEvent = "rate_limit_exceeded"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventReportConfirmed:     CategoryCompliance,
	EventReportFinalized:     CategoryCompliance,
	EventReportsCanceled:     CategoryCompliance,
	EventReportStatusSet:     CategoryCompliance,
	EventAccountDeceased:     CategoryCompliance,
	EventDeliverableReleased: CategoryCompliance,
	EventWillExecuted:        CategoryCompliance,

	EventTokenReuseAttempt: CategorySecurity,
	EventRateLimitExceeded: CategorySecurity,

	EventReportCreated:      CategoryOperations,
	EventAttestationDecided: CategoryOperations,
	EventDeliverableCreated: CategoryOperations,
	EventDeliverableUpdated: CategoryOperations,
	EventDeliverableDeleted: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
