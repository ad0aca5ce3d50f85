package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"memento/internal/platform/postgres"
	"memento/internal/release/models"
	id "memento/pkg/domain"
	"memento/pkg/platform/sentinel"
	txcontext "memento/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const deliverableColumns = `id, owner_account_id, title, message, release_policy, release_at,
	recipient_name, beneficiary_email, released, released_at, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, d *models.Deliverable) error {
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO scheduled_deliverables (`+deliverableColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		uuid.UUID(d.ID),
		uuid.UUID(d.OwnerAccountID),
		d.Title,
		d.Message,
		string(d.Policy),
		d.ReleaseAt,
		d.RecipientName,
		d.BeneficiaryEmail,
		d.Released,
		d.ReleasedAt,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert deliverable: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, deliverableID id.DeliverableID) (*models.Deliverable, error) {
	d, err := scanDeliverable(txcontext.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+deliverableColumns+` FROM scheduled_deliverables WHERE id = $1`, uuid.UUID(deliverableID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find deliverable: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, owner id.AccountID) ([]*models.Deliverable, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+deliverableColumns+`
		FROM scheduled_deliverables
		WHERE owner_account_id = $1
		ORDER BY created_at DESC
	`, uuid.UUID(owner))
	if err != nil {
		return nil, fmt.Errorf("list deliverables: %w", err)
	}
	return collect(rows)
}

func (s *PostgresStore) UpdateIfUnreleased(ctx context.Context, d *models.Deliverable) error {
	result, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE scheduled_deliverables
		SET title = $2, message = $3, release_policy = $4, release_at = $5,
		    recipient_name = $6, beneficiary_email = $7, updated_at = $8
		WHERE id = $1 AND released = FALSE
	`,
		uuid.UUID(d.ID),
		d.Title,
		d.Message,
		string(d.Policy),
		d.ReleaseAt,
		d.RecipientName,
		d.BeneficiaryEmail,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update deliverable: %w", err)
	}
	return s.explainMiss(ctx, result, d.ID)
}

func (s *PostgresStore) DeleteIfUnreleased(ctx context.Context, deliverableID id.DeliverableID) error {
	result, err := txcontext.Executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM scheduled_deliverables WHERE id = $1 AND released = FALSE`, uuid.UUID(deliverableID))
	if err != nil {
		return fmt.Errorf("delete deliverable: %w", err)
	}
	return s.explainMiss(ctx, result, deliverableID)
}

// explainMiss turns a zero-row conditional write into ErrNotFound or
// ErrInvalidState.
func (s *PostgresStore) explainMiss(ctx context.Context, result sql.Result, deliverableID id.DeliverableID) error {
	ok, err := applied(result)
	if err != nil || ok {
		return err
	}
	var exists bool
	if err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM scheduled_deliverables WHERE id = $1)`, uuid.UUID(deliverableID)).Scan(&exists); err != nil {
		return fmt.Errorf("check deliverable: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrInvalidState
}

func (s *PostgresStore) ListUnreleasedOnDeath(ctx context.Context, owners []id.AccountID) ([]*models.Deliverable, error) {
	if len(owners) == 0 {
		return nil, nil
	}
	ids := make([]string, len(owners))
	for i, o := range owners {
		ids[i] = o.String()
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+deliverableColumns+`
		FROM scheduled_deliverables
		WHERE release_policy = 'ON_DEATH' AND released = FALSE AND owner_account_id = ANY($1::uuid[])
		ORDER BY created_at
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list on-death deliverables: %w", err)
	}
	return collect(rows)
}

func (s *PostgresStore) ListDueOnDate(ctx context.Context, now time.Time) ([]*models.Deliverable, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+deliverableColumns+`
		FROM scheduled_deliverables
		WHERE release_policy = 'ON_DATE' AND released = FALSE AND release_at <= $1
		ORDER BY release_at
	`, now)
	if err != nil {
		return nil, fmt.Errorf("list due deliverables: %w", err)
	}
	return collect(rows)
}

func (s *PostgresStore) ReleaseIfUnreleased(ctx context.Context, deliverableID id.DeliverableID, now time.Time) (bool, error) {
	result, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE scheduled_deliverables
		SET released = TRUE, released_at = $2, updated_at = $2
		WHERE id = $1 AND released = FALSE
	`, uuid.UUID(deliverableID), now)
	if err != nil {
		return false, fmt.Errorf("release deliverable: %w", err)
	}
	return applied(result)
}

func (s *PostgresStore) AppendLedger(ctx context.Context, e models.LedgerEntry) error {
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO release_ledger (id, deliverable_id, owner_account_id, release_policy, released_at, notification_dispatched)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, uuid.UUID(e.DeliverableID), uuid.UUID(e.OwnerAccountID), string(e.Policy), e.ReleasedAt, e.NotificationDispatched)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("append release ledger: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListLedger(ctx context.Context, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, deliverable_id, owner_account_id, release_policy, released_at, notification_dispatched
		FROM release_ledger
		ORDER BY released_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list release ledger: %w", err)
	}
	defer rows.Close()

	var out []models.LedgerEntry
	for rows.Next() {
		var (
			e             models.LedgerEntry
			deliverableID uuid.UUID
			owner         uuid.UUID
			policy        string
		)
		if err := rows.Scan(&e.ID, &deliverableID, &owner, &policy, &e.ReleasedAt, &e.NotificationDispatched); err != nil {
			return nil, fmt.Errorf("scan release ledger: %w", err)
		}
		e.DeliverableID = id.DeliverableID(deliverableID)
		e.OwnerAccountID = id.AccountID(owner)
		e.Policy = models.Policy(policy)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountLedger(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM release_ledger`)
}

func (s *PostgresStore) CountReleased(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM scheduled_deliverables WHERE released`)
}

func (s *PostgresStore) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeliverable(row rowScanner) (*models.Deliverable, error) {
	var (
		d             models.Deliverable
		deliverableID uuid.UUID
		owner         uuid.UUID
		policy        string
		releaseAt     sql.NullTime
		releasedAt    sql.NullTime
	)
	if err := row.Scan(&deliverableID, &owner, &d.Title, &d.Message, &policy, &releaseAt,
		&d.RecipientName, &d.BeneficiaryEmail, &d.Released, &releasedAt, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.ID = id.DeliverableID(deliverableID)
	d.OwnerAccountID = id.AccountID(owner)
	d.Policy = models.Policy(policy)
	if releaseAt.Valid {
		t := releaseAt.Time
		d.ReleaseAt = &t
	}
	if releasedAt.Valid {
		t := releasedAt.Time
		d.ReleasedAt = &t
	}
	return &d, nil
}

func collect(rows *sql.Rows) ([]*models.Deliverable, error) {
	defer rows.Close()
	var out []*models.Deliverable
	for rows.Next() {
		d, err := scanDeliverable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deliverable: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func applied(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
