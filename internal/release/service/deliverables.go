package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"memento/internal/release/models"
	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/audit"
	"memento/pkg/platform/sentinel"
	"memento/pkg/requestcontext"
)

// Create stores a deliverable. IMMEDIATE deliverables are released in the same
// unit of work and their beneficiary is notified after commit.
func (s *Service) Create(ctx context.Context, owner id.AccountID, req *models.CreateDeliverableRequest) (*models.Deliverable, error) {
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	now := requestcontext.Now(ctx)
	d, err := models.NewDeliverable(id.DeliverableID(uuid.New()), owner, req, now)
	if err != nil {
		return nil, err
	}

	var released bool
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.deliverables.Create(ctx, d); err != nil {
			return err
		}
		s.logAudit(ctx, audit.EventDeliverableCreated,
			"account_id", owner,
			"deliverable_id", d.ID,
			"policy", d.Policy,
		)
		if d.Policy != models.PolicyImmediate {
			return nil
		}
		released, err = s.releaseInTx(ctx, d, now)
		return err
	})
	if err != nil {
		return nil, translateStoreErr(err, "failed to create deliverable")
	}
	if released {
		d.Released = true
		d.ReleasedAt = &now
		s.metrics.IncReleased(string(d.Policy))
		s.notifyRelease(ctx, d)
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, owner id.AccountID, deliverableID id.DeliverableID) (*models.Deliverable, error) {
	return s.findOwned(ctx, owner, deliverableID)
}

// List returns the owner's deliverables, newest first.
func (s *Service) List(ctx context.Context, owner id.AccountID) ([]*models.Deliverable, error) {
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	out, err := s.deliverables.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list deliverables")
	}
	return out, nil
}

// Update applies a partial edit. Released deliverables are locked. Switching
// an unreleased deliverable to IMMEDIATE releases it at once.
func (s *Service) Update(ctx context.Context, owner id.AccountID, deliverableID id.DeliverableID, req *models.UpdateDeliverableRequest) (*models.Deliverable, error) {
	now := requestcontext.Now(ctx)

	var (
		updated  *models.Deliverable
		released bool
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := s.findOwned(ctx, owner, deliverableID)
		if err != nil {
			return err
		}
		if err := d.CanEdit(); err != nil {
			return err
		}
		if err := d.ApplyUpdate(req, now); err != nil {
			return err
		}
		if err := s.deliverables.UpdateIfUnreleased(ctx, d); err != nil {
			return err
		}
		s.logAudit(ctx, audit.EventDeliverableUpdated,
			"account_id", owner,
			"deliverable_id", d.ID,
			"policy", d.Policy,
		)
		updated = d
		if d.Policy != models.PolicyImmediate {
			return nil
		}
		released, err = s.releaseInTx(ctx, d, now)
		return err
	})
	if err != nil {
		return nil, translateStoreErr(err, "failed to update deliverable")
	}
	if released {
		updated.Released = true
		updated.ReleasedAt = &now
		s.metrics.IncReleased(string(updated.Policy))
		s.notifyRelease(ctx, updated)
	}
	return updated, nil
}

// Delete removes an unreleased deliverable. Released ones stay, like the
// ledger entry that records them.
func (s *Service) Delete(ctx context.Context, owner id.AccountID, deliverableID id.DeliverableID) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := s.findOwned(ctx, owner, deliverableID)
		if err != nil {
			return err
		}
		if err := d.CanEdit(); err != nil {
			return err
		}
		if err := s.deliverables.DeleteIfUnreleased(ctx, deliverableID); err != nil {
			return err
		}
		s.logAudit(ctx, audit.EventDeliverableDeleted,
			"account_id", owner,
			"deliverable_id", deliverableID,
		)
		return nil
	})
	return translateStoreErr(err, "failed to delete deliverable")
}

// findOwned hides other owners' deliverables behind not found.
func (s *Service) findOwned(ctx context.Context, owner id.AccountID, deliverableID id.DeliverableID) (*models.Deliverable, error) {
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	d, err := s.deliverables.FindByID(ctx, deliverableID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to load deliverable")
	}
	if d.OwnerAccountID != owner {
		return nil, dErrors.New(dErrors.CodeNotFound, "deliverable not found")
	}
	return d, nil
}

func translateStoreErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "deliverable not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeDeliverableReleased, "deliverable has already been released")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
