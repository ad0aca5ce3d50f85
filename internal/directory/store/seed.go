package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"memento/internal/directory"
	id "memento/pkg/domain"
)

// Seeder writes collaborator rows. Only demo mode and tests use it; in
// production these tables are filled by the registration and asset services.
type Seeder interface {
	SeedAccount(ctx context.Context, a directory.Account) error
	SeedContact(ctx context.Context, c directory.TrustedContact) error
	SeedDirective(ctx context.Context, d directory.AssetDirective) error
	SeedWillDocument(ctx context.Context, w directory.WillDocument) error
}

// DemoEstate is what SeedDemo created.
type DemoEstate struct {
	Account    directory.Account
	Contacts   []directory.TrustedContact
	Directives []directory.AssetDirective
}

// SeedDemo creates the "demo" account with three trusted contacts, a handful
// of asset directives and a will document.
func SeedDemo(ctx context.Context, s Seeder, now time.Time) (*DemoEstate, error) {
	account := directory.Account{
		ID:          id.AccountID(uuid.New()),
		Username:    "demo",
		DisplayName: "Demo Owner",
		Email:       "demo.owner@memento.local",
		CreatedAt:   now,
	}
	if err := s.SeedAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("seed account: %w", err)
	}

	estate := &DemoEstate{Account: account}
	for i, c := range []struct{ name, email, relation string }{
		{"Alice Demo", "alice@memento.local", "sister"},
		{"Bob Demo", "bob@memento.local", "friend"},
		{"Carol Demo", "", "neighbour"},
	} {
		contact := directory.TrustedContact{
			ID:        id.ContactID(uuid.New()),
			AccountID: account.ID,
			Name:      c.name,
			Email:     c.email,
			Relation:  c.relation,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}
		if err := s.SeedContact(ctx, contact); err != nil {
			return nil, fmt.Errorf("seed contact: %w", err)
		}
		estate.Contacts = append(estate.Contacts, contact)
	}

	for _, d := range []directory.AssetDirective{
		{ServiceName: "Netflix", Category: "subscription", Action: directory.ActionDelete, BeneficiaryName: "Alice Demo", BeneficiaryEmail: "alice@memento.local"},
		{ServiceName: "Instagram", Category: "sns", Action: directory.ActionMemorialize, BeneficiaryName: "Bob Demo", BeneficiaryEmail: "bob@memento.local"},
		{ServiceName: "Google", Category: "cloud", Action: directory.ActionTransfer, BeneficiaryName: "Alice Demo", BeneficiaryEmail: "alice@memento.local", LoginHint: "demo.owner@gmail.com"},
		{ServiceName: "Old forum", Category: "other", Action: directory.ActionKeep},
	} {
		d.AssetID = id.AssetID(uuid.New())
		d.AccountID = account.ID
		if err := s.SeedDirective(ctx, d); err != nil {
			return nil, fmt.Errorf("seed directive: %w", err)
		}
		estate.Directives = append(estate.Directives, d)
	}

	will := directory.WillDocument{
		AccountID:       account.ID,
		StorageLocation: "Top drawer of the study desk",
		UpdatedAt:       now,
	}
	if err := s.SeedWillDocument(ctx, will); err != nil {
		return nil, fmt.Errorf("seed will document: %w", err)
	}
	return estate, nil
}

func (s *InMemoryDirectory) SeedAccount(_ context.Context, a directory.Account) error {
	s.PutAccount(a)
	return nil
}

func (s *InMemoryDirectory) SeedContact(_ context.Context, c directory.TrustedContact) error {
	s.AddContact(c)
	return nil
}

func (s *InMemoryDirectory) SeedDirective(_ context.Context, d directory.AssetDirective) error {
	s.AddDirective(d)
	return nil
}

func (s *InMemoryDirectory) SeedWillDocument(_ context.Context, w directory.WillDocument) error {
	s.PutWillDocument(w)
	return nil
}

func (s *PostgresDirectory) SeedAccount(ctx context.Context, a directory.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, username, display_name, email, deceased_on, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
	`, uuid.UUID(a.ID), a.Username, a.DisplayName, a.Email, a.DeceasedOn, a.CreatedAt)
	return err
}

func (s *PostgresDirectory) SeedContact(ctx context.Context, c directory.TrustedContact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trusted_contacts (id, account_id, name, email, phone, relation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, uuid.UUID(c.ID), uuid.UUID(c.AccountID), c.Name, c.Email, c.Phone, c.Relation, c.CreatedAt)
	return err
}

func (s *PostgresDirectory) SeedDirective(ctx context.Context, d directory.AssetDirective) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO asset_directives (asset_id, account_id, service_name, category, login_hint,
			action, beneficiary_name, beneficiary_email, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (asset_id) DO NOTHING
	`, uuid.UUID(d.AssetID), uuid.UUID(d.AccountID), d.ServiceName, d.Category, d.LoginHint,
		string(d.Action), d.BeneficiaryName, d.BeneficiaryEmail, d.Note)
	return err
}

func (s *PostgresDirectory) SeedWillDocument(ctx context.Context, w directory.WillDocument) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO will_documents (account_id, storage_location, file_url, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO UPDATE SET
			storage_location = EXCLUDED.storage_location,
			file_url = EXCLUDED.file_url,
			updated_at = EXCLUDED.updated_at
	`, uuid.UUID(w.AccountID), w.StorageLocation, w.FileURL, w.UpdatedAt)
	return err
}
