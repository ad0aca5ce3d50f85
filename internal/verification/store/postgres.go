package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"memento/internal/platform/postgres"
	"memento/internal/verification/models"
	id "memento/pkg/domain"
	"memento/pkg/platform/sentinel"
	txcontext "memento/pkg/platform/tx"
)

// PostgresStore persists reports and attestations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const reportColumns = `id, target_account_id, reporter_name, reporter_contact, relation_to_target,
	message, status, admin_note, created_at, resolved_at`

const attestationColumns = `id, report_id, contact_id, contact_name, contact_email,
	token_hash, status, decided_at, created_at`

// appendNoteSQL appends $n to admin_note on a new line.
func appendNoteSQL(param string) string {
	return `CASE WHEN ` + param + ` = '' THEN admin_note
		WHEN admin_note = '' THEN ` + param + `
		ELSE admin_note || E'\n' || ` + param + ` END`
}

// CreateWithAttestations inserts the report and every attestation in one
// transaction. Nothing is written when any insert fails.
func (s *PostgresStore) CreateWithAttestations(ctx context.Context, report *models.Report, attestations []*models.Attestation) error {
	return s.inTx(ctx, func(ctx context.Context, exec txcontext.DBTX) error {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO death_reports (`+reportColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			uuid.UUID(report.ID),
			uuid.UUID(report.TargetAccountID),
			report.ReporterName,
			report.ReporterContact,
			report.RelationToTarget,
			report.Message,
			string(report.Status),
			report.AdminNote,
			report.CreatedAt,
			report.ResolvedAt,
		)
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert death report: %w", err)
		}
		for _, a := range attestations {
			_, err := exec.ExecContext(ctx, `
				INSERT INTO attestation_tokens (`+attestationColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`,
				uuid.UUID(a.ID),
				uuid.UUID(a.ReportID),
				uuid.UUID(a.ContactID),
				a.ContactName,
				a.ContactEmail,
				a.TokenHash,
				string(a.Status),
				a.DecidedAt,
				a.CreatedAt,
			)
			if err != nil {
				if postgres.IsUniqueViolation(err) {
					return sentinel.ErrConflict
				}
				return fmt.Errorf("insert attestation token: %w", err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) FindReport(ctx context.Context, reportID id.ReportID) (*models.Report, error) {
	row := txcontext.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM death_reports WHERE id = $1`, uuid.UUID(reportID))
	r, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find death report: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) ListReports(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reportColumns+`
		FROM death_reports
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, string(filter.Status), limit)
	if err != nil {
		return nil, fmt.Errorf("list death reports: %w", err)
	}
	return collectReports(rows)
}

func (s *PostgresStore) ListByTarget(ctx context.Context, accountID id.AccountID) ([]*models.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reportColumns+`
		FROM death_reports
		WHERE target_account_id = $1
		ORDER BY created_at DESC
	`, uuid.UUID(accountID))
	if err != nil {
		return nil, fmt.Errorf("list reports by target: %w", err)
	}
	return collectReports(rows)
}

func (s *PostgresStore) ListAttestations(ctx context.Context, reportID id.ReportID) ([]*models.Attestation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+attestationColumns+`
		FROM attestation_tokens
		WHERE report_id = $1
		ORDER BY created_at, contact_name
	`, uuid.UUID(reportID))
	if err != nil {
		return nil, fmt.Errorf("list attestations: %w", err)
	}
	defer rows.Close()

	var out []*models.Attestation
	for rows.Next() {
		a, err := scanAttestation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attestation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DecideAttestation uses UPDATE ... WHERE status = 'PENDING' so that two
// requests holding the same token cannot both decide it.
func (s *PostgresStore) DecideAttestation(ctx context.Context, hash []byte, status models.AttestationStatus, now time.Time) (*models.Attestation, error) {
	exec := txcontext.Executor(ctx, s.db)
	row := exec.QueryRowContext(ctx, `
		UPDATE attestation_tokens
		SET status = $2, decided_at = $3
		WHERE token_hash = $1 AND status = 'PENDING'
		RETURNING `+attestationColumns,
		hash, string(status), now)
	a, err := scanAttestation(row)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("decide attestation: %w", err)
	}

	// Nothing updated: either the token does not exist or it was used.
	existing, err := scanAttestation(exec.QueryRowContext(ctx,
		`SELECT `+attestationColumns+` FROM attestation_tokens WHERE token_hash = $1`, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load attestation: %w", err)
	}
	return existing, sentinel.ErrAlreadyUsed
}

// LockReport takes a row lock on the report for the rest of the transaction.
// Decisions on the same report serialize here, so the count that follows sees
// every decision committed before it.
func (s *PostgresStore) LockReport(ctx context.Context, reportID id.ReportID) error {
	var locked uuid.UUID
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT id FROM death_reports WHERE id = $1 FOR UPDATE`, uuid.UUID(reportID)).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("lock death report: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountConfirmed(ctx context.Context, reportID id.ReportID) (int, error) {
	var n int
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, `
		SELECT count(*) FROM attestation_tokens WHERE report_id = $1 AND status = 'CONFIRMED'
	`, uuid.UUID(reportID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count confirmations: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) ConfirmIfPending(ctx context.Context, reportID id.ReportID, now time.Time) (bool, error) {
	result, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE death_reports
		SET status = 'CONFIRMED', resolved_at = $2
		WHERE id = $1 AND status = 'PENDING'
	`, uuid.UUID(reportID), now)
	if err != nil {
		return false, fmt.Errorf("confirm death report: %w", err)
	}
	return applied(result)
}

func (s *PostgresStore) CancelActiveForTarget(ctx context.Context, accountID id.AccountID, note string, now time.Time) (int, error) {
	result, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE death_reports
		SET status = 'CANCELED_BY_OWNER',
		    resolved_at = $2,
		    admin_note = `+appendNoteSQL("$3")+`
		WHERE target_account_id = $1
		  AND status IN ('PENDING', 'CONFIRMED', 'FINAL_CONFIRMED')
	`, uuid.UUID(accountID), now, note)
	if err != nil {
		return 0, fmt.Errorf("cancel reports: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cancel reports rows affected: %w", err)
	}
	return int(n), nil
}

// Execute locks the report row with FOR UPDATE, validates, mutates and writes
// it back in one transaction.
func (s *PostgresStore) Execute(ctx context.Context, reportID id.ReportID, validate func(*models.Report) error, mutate func(*models.Report)) (*models.Report, error) {
	var out *models.Report
	err := s.inTx(ctx, func(ctx context.Context, exec txcontext.DBTX) error {
		r, err := scanReport(exec.QueryRowContext(ctx,
			`SELECT `+reportColumns+` FROM death_reports WHERE id = $1 FOR UPDATE`, uuid.UUID(reportID)))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("lock death report: %w", err)
		}
		if err := validate(r); err != nil {
			return err
		}
		mutate(r)
		_, err = exec.ExecContext(ctx, `
			UPDATE death_reports
			SET status = $2, admin_note = $3, resolved_at = $4
			WHERE id = $1
		`, uuid.UUID(r.ID), string(r.Status), r.AdminNote, r.ResolvedAt)
		if err != nil {
			return fmt.Errorf("update death report: %w", err)
		}
		out = r
		return nil
	})
	return out, err
}

func (s *PostgresStore) ListConfirmedBefore(ctx context.Context, cutoff time.Time) ([]*models.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reportColumns+`
		FROM death_reports
		WHERE status = 'CONFIRMED' AND resolved_at <= $1
		ORDER BY resolved_at
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list confirmed reports: %w", err)
	}
	return collectReports(rows)
}

func (s *PostgresStore) FinalizeIfConfirmed(ctx context.Context, reportID id.ReportID, note string, _ time.Time) (bool, error) {
	result, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE death_reports
		SET status = 'FINAL_CONFIRMED',
		    admin_note = `+appendNoteSQL("$2")+`
		WHERE id = $1 AND status = 'CONFIRMED'
	`, uuid.UUID(reportID), note)
	if err != nil {
		return false, fmt.Errorf("finalize death report: %w", err)
	}
	return applied(result)
}

func (s *PostgresStore) ListFinalizedTargets(ctx context.Context) ([]id.AccountID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT target_account_id FROM death_reports WHERE status = 'FINAL_CONFIRMED'
	`)
	if err != nil {
		return nil, fmt.Errorf("list finalized targets: %w", err)
	}
	defer rows.Close()

	var out []id.AccountID
	for rows.Next() {
		var u uuid.UUID
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan finalized target: %w", err)
		}
		out = append(out, id.AccountID(u))
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (map[models.ReportStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, count(*) FROM death_reports GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count reports by status: %w", err)
	}
	defer rows.Close()

	out := make(map[models.ReportStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan report count: %w", err)
		}
		out[models.ReportStatus(status)] = n
	}
	return out, rows.Err()
}

// inTx joins the transaction carried by ctx or opens a new one.
func (s *PostgresStore) inTx(ctx context.Context, fn func(ctx context.Context, exec txcontext.DBTX) error) error {
	if tx, ok := txcontext.From(ctx); ok {
		return fn(ctx, tx)
	}
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()
	if err := fn(txcontext.WithTx(ctx, sqlTx), sqlTx); err != nil {
		return err
	}
	return sqlTx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*models.Report, error) {
	var (
		r          models.Report
		reportID   uuid.UUID
		target     uuid.UUID
		status     string
		resolvedAt sql.NullTime
	)
	if err := row.Scan(&reportID, &target, &r.ReporterName, &r.ReporterContact, &r.RelationToTarget,
		&r.Message, &status, &r.AdminNote, &r.CreatedAt, &resolvedAt); err != nil {
		return nil, err
	}
	r.ID = id.ReportID(reportID)
	r.TargetAccountID = id.AccountID(target)
	r.Status = models.ReportStatus(status)
	if resolvedAt.Valid {
		t := resolvedAt.Time
		r.ResolvedAt = &t
	}
	return &r, nil
}

func scanAttestation(row rowScanner) (*models.Attestation, error) {
	var (
		a         models.Attestation
		aid       uuid.UUID
		reportID  uuid.UUID
		contactID uuid.UUID
		status    string
		decidedAt sql.NullTime
	)
	if err := row.Scan(&aid, &reportID, &contactID, &a.ContactName, &a.ContactEmail,
		&a.TokenHash, &status, &decidedAt, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.ID = id.AttestationID(aid)
	a.ReportID = id.ReportID(reportID)
	a.ContactID = id.ContactID(contactID)
	a.Status = models.AttestationStatus(status)
	if decidedAt.Valid {
		t := decidedAt.Time
		a.DecidedAt = &t
	}
	return &a, nil
}

func collectReports(rows *sql.Rows) ([]*models.Report, error) {
	defer rows.Close()
	var out []*models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan death report: %w", err)
		}
		out = append(out, r)
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
