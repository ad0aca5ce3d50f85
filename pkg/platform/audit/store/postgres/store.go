package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "memento/pkg/domain"
	audit "memento/pkg/platform/audit"
	txcontext "memento/pkg/platform/tx"
)

// Store implements audit.Store using the transactional outbox pattern.
// Events are written to the outbox table, in the caller's transaction when one
// is present, and published to Kafka by the outbox relay.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store that writes to the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Payload is the JSON structure published to Kafka.
type Payload struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	AccountID string `json:"account_id,omitempty"`
	Subject   string `json:"subject"`
	Action    string `json:"action"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ActorID   string `json:"actor_id,omitempty"`
	Device    string `json:"device,omitempty"`
}

// Append writes an audit event to the outbox table for Kafka publishing.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()

	// Category is always derived from the action so producers cannot mislabel.
	category := audit.AuditEvent(event.Action).Category()

	payload := Payload{
		ID:        eventID.String(),
		Category:  string(category),
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		Subject:   event.Subject,
		Action:    event.Action,
		Decision:  event.Decision,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ActorID:   event.ActorID,
		Device:    event.Device,
	}
	aggregateType := "audit"
	aggregateID := eventID.String()
	if !event.AccountID.IsNil() {
		payload.AccountID = event.AccountID.String()
		aggregateType = "account"
		aggregateID = event.AccountID.String()
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.New(),
		aggregateType,
		aggregateID,
		event.Action,
		payloadBytes,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// ListByAccount returns the outbox history for one account, newest first.
func (s *Store) ListByAccount(ctx context.Context, accountID id.AccountID) ([]audit.Event, error) {
	query := `
		SELECT payload
		FROM outbox
		WHERE aggregate_type = 'account' AND aggregate_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, accountID.String())
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan outbox payload: %w", err)
		}
		var p Payload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode outbox payload: %w", err)
		}
		ts, _ := time.Parse(time.RFC3339Nano, p.Timestamp)
		events = append(events, audit.Event{
			Category:  audit.EventCategory(p.Category),
			Timestamp: ts,
			AccountID: accountID,
			Subject:   p.Subject,
			Action:    p.Action,
			Decision:  p.Decision,
			Reason:    p.Reason,
			RequestID: p.RequestID,
			ActorID:   p.ActorID,
			Device:    p.Device,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return events, nil
}
