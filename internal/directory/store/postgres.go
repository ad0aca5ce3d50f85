package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"memento/internal/directory"
	id "memento/pkg/domain"
	"memento/pkg/platform/sentinel"
	txcontext "memento/pkg/platform/tx"
)

// PostgresDirectory reads collaborator tables owned by the registration and
// asset services.
type PostgresDirectory struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

const accountColumns = `id, username, display_name, email, deceased_on, created_at`

func (s *PostgresDirectory) FindByID(ctx context.Context, accountID id.AccountID) (*directory.Account, error) {
	row := txcontext.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, uuid.UUID(accountID))
	return scanAccount(row)
}

func (s *PostgresDirectory) FindByUsername(ctx context.Context, username string) (*directory.Account, error) {
	row := txcontext.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE lower(username) = lower($1)`, username)
	return scanAccount(row)
}

// MarkDeceased sets deceased_on once and reports whether this call set it.
// A concurrent caller blocks on the row lock, re-checks the predicate after
// the first commit and matches nothing.
func (s *PostgresDirectory) MarkDeceased(ctx context.Context, accountID id.AccountID, at time.Time) (bool, error) {
	exec := txcontext.Executor(ctx, s.db)
	res, err := exec.ExecContext(ctx, `
		UPDATE accounts SET deceased_on = $2 WHERE id = $1 AND deceased_on IS NULL
	`, uuid.UUID(accountID), at)
	if err != nil {
		return false, fmt.Errorf("mark account deceased: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark account deceased rows: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	var exists bool
	if err := exec.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, uuid.UUID(accountID)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check account exists: %w", err)
	}
	if !exists {
		return false, sentinel.ErrNotFound
	}
	return false, nil
}

func (s *PostgresDirectory) ListByAccount(ctx context.Context, accountID id.AccountID) ([]directory.TrustedContact, error) {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT id, account_id, name, email, phone, relation, created_at
		FROM trusted_contacts
		WHERE account_id = $1
		ORDER BY created_at, id
	`, uuid.UUID(accountID))
	if err != nil {
		return nil, fmt.Errorf("query trusted contacts: %w", err)
	}
	defer rows.Close()

	var out []directory.TrustedContact
	for rows.Next() {
		var (
			c          directory.TrustedContact
			cid, accID uuid.UUID
		)
		if err := rows.Scan(&cid, &accID, &c.Name, &c.Email, &c.Phone, &c.Relation, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trusted contact: %w", err)
		}
		c.ID = id.ContactID(cid)
		c.AccountID = id.AccountID(accID)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresDirectory) ListDirectives(ctx context.Context, accountID id.AccountID) ([]directory.AssetDirective, error) {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT asset_id, account_id, service_name, category, login_hint, action,
		       beneficiary_name, beneficiary_email, note
		FROM asset_directives
		WHERE account_id = $1
		ORDER BY service_name, asset_id
	`, uuid.UUID(accountID))
	if err != nil {
		return nil, fmt.Errorf("query asset directives: %w", err)
	}
	defer rows.Close()

	var out []directory.AssetDirective
	for rows.Next() {
		var (
			d            directory.AssetDirective
			assetID, acc uuid.UUID
			action       string
		)
		if err := rows.Scan(&assetID, &acc, &d.ServiceName, &d.Category, &d.LoginHint, &action,
			&d.BeneficiaryName, &d.BeneficiaryEmail, &d.Note); err != nil {
			return nil, fmt.Errorf("scan asset directive: %w", err)
		}
		d.AssetID = id.AssetID(assetID)
		d.AccountID = id.AccountID(acc)
		d.Action = directory.AssetAction(action)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresDirectory) FindWillDocument(ctx context.Context, accountID id.AccountID) (*directory.WillDocument, error) {
	var w directory.WillDocument
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, `
		SELECT storage_location, file_url, updated_at FROM will_documents WHERE account_id = $1
	`, uuid.UUID(accountID)).Scan(&w.StorageLocation, &w.FileURL, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query will document: %w", err)
	}
	w.AccountID = accountID
	return &w, nil
}

func scanAccount(row *sql.Row) (*directory.Account, error) {
	var (
		a   directory.Account
		aid uuid.UUID
	)
	err := row.Scan(&aid, &a.Username, &a.DisplayName, &a.Email, &a.DeceasedOn, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.ID = id.AccountID(aid)
	return &a, nil
}
