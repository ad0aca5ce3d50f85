package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"memento/internal/notify"
	id "memento/pkg/domain"
	txcontext "memento/pkg/platform/tx"
)

type PostgresLog struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresLog {
	return &PostgresLog{db: db}
}

func (s *PostgresLog) Append(ctx context.Context, e notify.LogEntry) error {
	var accountID *uuid.UUID
	if !e.AccountID.IsNil() {
		u := uuid.UUID(e.AccountID)
		accountID = &u
	}
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO notification_log (id, type, recipient, account_id, subject, outcome, error_detail, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, string(e.Type), e.Recipient, accountID, e.Subject, string(e.Outcome), e.ErrorDetail, e.SentAt)
	if err != nil {
		return fmt.Errorf("insert notification log: %w", err)
	}
	return nil
}

func (s *PostgresLog) ListRecent(ctx context.Context, limit int) ([]notify.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, recipient, account_id, subject, outcome, error_detail, sent_at
		FROM notification_log
		ORDER BY sent_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query notification log: %w", err)
	}
	defer rows.Close()

	var out []notify.LogEntry
	for rows.Next() {
		var (
			e         notify.LogEntry
			typ, oc   string
			accountID *uuid.UUID
		)
		if err := rows.Scan(&e.ID, &typ, &e.Recipient, &accountID, &e.Subject, &oc, &e.ErrorDetail, &e.SentAt); err != nil {
			return nil, fmt.Errorf("scan notification log: %w", err)
		}
		e.Type = notify.Type(typ)
		e.Outcome = notify.Outcome(oc)
		if accountID != nil {
			e.AccountID = id.AccountID(*accountID)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresLog) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM notification_log`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notification log: %w", err)
	}
	return n, nil
}
