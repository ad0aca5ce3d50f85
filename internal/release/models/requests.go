package models

import (
	"net/mail"
	"time"

	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/httputil"
)

type CreateDeliverableRequest struct {
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	ReleasePolicy    string     `json:"release_policy"`
	ReleaseAt        *time.Time `json:"release_at"`
	RecipientName    string     `json:"recipient_name"`
	BeneficiaryEmail string     `json:"beneficiary_email"`
}

func (r *CreateDeliverableRequest) Normalize() {
	httputil.TrimAll(&r.Title, &r.ReleasePolicy, &r.RecipientName, &r.BeneficiaryEmail)
}

func (r *CreateDeliverableRequest) Validate() error {
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if len(r.Title) > 200 {
		return dErrors.New(dErrors.CodeValidation, "title must be 200 characters or less")
	}
	policy, err := ParsePolicy(r.ReleasePolicy)
	if err != nil {
		return err
	}
	if policy == PolicyOnDate && r.ReleaseAt == nil {
		return dErrors.New(dErrors.CodeValidation, "release_at is required for ON_DATE")
	}
	return validateEmail(r.BeneficiaryEmail)
}

// UpdateDeliverableRequest carries only the fields being changed.
type UpdateDeliverableRequest struct {
	Title            *string    `json:"title"`
	Message          *string    `json:"message"`
	ReleasePolicy    *string    `json:"release_policy"`
	ReleaseAt        *time.Time `json:"release_at"`
	RecipientName    *string    `json:"recipient_name"`
	BeneficiaryEmail *string    `json:"beneficiary_email"`
}

func (r *UpdateDeliverableRequest) Normalize() {
	for _, f := range []*string{r.Title, r.ReleasePolicy, r.RecipientName, r.BeneficiaryEmail} {
		if f != nil {
			httputil.TrimAll(f)
		}
	}
}

func (r *UpdateDeliverableRequest) Validate() error {
	if r.Title != nil && (*r.Title == "" || len(*r.Title) > 200) {
		return dErrors.New(dErrors.CodeValidation, "title must be between 1 and 200 characters")
	}
	if r.ReleasePolicy != nil {
		if _, err := ParsePolicy(*r.ReleasePolicy); err != nil {
			return err
		}
	}
	if r.BeneficiaryEmail != nil {
		return validateEmail(*r.BeneficiaryEmail)
	}
	return nil
}

func validateEmail(s string) error {
	if s == "" {
		return nil
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return dErrors.New(dErrors.CodeValidation, "beneficiary_email is not a valid address")
	}
	return nil
}

// ReleaseResult summarizes one sweep.
type ReleaseResult struct {
	Examined int
	Released int
	Failed   int
}
