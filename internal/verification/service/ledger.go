package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"memento/internal/directory"
	"memento/internal/notify"
	"memento/internal/verification/models"
	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/audit"
	"memento/pkg/platform/sentinel"
	"memento/pkg/requestcontext"
)

// CreateReport records a death report for the target and issues one
// attestation token per selected trusted contact. The report and its tokens
// are persisted together before any contact is notified; raw tokens are only
// returned here.
func (s *Service) CreateReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, []models.IssuedToken, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "verification.CreateReport")
	defer span.End()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveCreateReport(start)
		}
	}()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	target, err := s.resolveTarget(ctx, req)
	if err != nil {
		s.refused(string(dErrors.CodeOf(err)))
		return nil, nil, err
	}
	span.SetAttributes(attribute.String("account_id", target.ID.String()))

	contacts, err := s.contacts.ListByAccount(ctx, target.ID)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load trusted contacts")
	}
	selected := s.selector(contacts)
	if len(selected) < s.cfg.ContactsPerReport {
		s.refused(string(dErrors.CodeInsufficientTrustedContacts))
		return nil, nil, dErrors.New(dErrors.CodeInsufficientTrustedContacts,
			fmt.Sprintf("at least %d trusted contacts are required", s.cfg.ContactsPerReport))
	}

	now := requestcontext.Now(ctx)
	report, err := models.NewReport(id.ReportID(uuid.New()), target.ID, req, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, nil, err
	}

	attestations := make([]*models.Attestation, 0, len(selected))
	issued := make([]models.IssuedToken, 0, len(selected))
	for _, c := range selected {
		token, hash, err := newToken()
		if err != nil {
			return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate attestation token")
		}
		a := &models.Attestation{
			ID:           id.AttestationID(uuid.New()),
			ReportID:     report.ID,
			ContactID:    c.ID,
			ContactName:  c.Name,
			ContactEmail: c.Email,
			TokenHash:    hash,
			Status:       models.AttestationPending,
			CreatedAt:    now,
		}
		attestations = append(attestations, a)
		issued = append(issued, models.IssuedToken{
			AttestationID: a.ID,
			ContactID:     c.ID,
			ContactName:   c.Name,
			ContactEmail:  c.Email,
			Token:         token,
		})
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.reports.CreateWithAttestations(ctx, report, attestations); err != nil {
			return err
		}
		s.logAudit(ctx, audit.EventReportCreated,
			"account_id", target.ID,
			"report_id", report.ID,
			"contacts", len(attestations),
		)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist report")
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create death report")
	}
	if s.metrics != nil {
		s.metrics.ReportsCreated.Inc()
	}

	for _, t := range issued {
		s.notify(ctx, notify.TypeVerificationRequest, target.ID, s.verificationRequest(target, report, t))
	}
	return report, issued, nil
}

func (s *Service) resolveTarget(ctx context.Context, req *models.CreateReportRequest) (*directory.Account, error) {
	var (
		account *directory.Account
		err     error
	)
	if req.TargetAccountID != "" {
		accountID, parseErr := id.ParseAccountID(req.TargetAccountID)
		if parseErr != nil {
			return nil, dErrors.New(dErrors.CodeTargetNotFound, "target account not found")
		}
		account, err = s.accounts.FindByID(ctx, accountID)
	} else {
		account, err = s.accounts.FindByUsername(ctx, req.TargetUsername)
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeTargetNotFound, "target account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load target account")
	}
	return account, nil
}

// RecordDecision spends a token and, for confirmations, evaluates consensus in
// the same unit of work.
func (s *Service) RecordDecision(ctx context.Context, token string, decision string) (*models.DecisionResult, error) {
	ctx, span := s.tracer.Start(ctx, "verification.RecordDecision")
	defer span.End()

	d, err := models.ParseDecision(decision)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, dErrors.New(dErrors.CodeTokenNotFound, "token not found")
	}
	hash := hashToken(token)
	now := requestcontext.Now(ctx)

	var (
		result   *models.DecisionResult
		targetID id.AccountID
		decided  *models.Attestation
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.reports.DecideAttestation(ctx, hash, d.AttestationStatus(), now)
		decided = a
		if err != nil {
			return err
		}
		outcome, err := s.evaluateConsensus(ctx, a.ReportID, now)
		if err != nil {
			return err
		}
		targetID = outcome.targetID
		result = &models.DecisionResult{
			ReportID:        a.ReportID,
			Decision:        d,
			ConfirmedCount:  outcome.confirmed,
			ReportConfirmed: outcome.transitioned,
		}
		s.logAudit(ctx, audit.EventAttestationDecided,
			"account_id", targetID,
			"report_id", a.ReportID,
			"decision", string(d),
		)
		if outcome.transitioned {
			s.logAudit(ctx, audit.EventReportConfirmed,
				"account_id", targetID,
				"report_id", a.ReportID,
				"actor", "system",
			)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, s.decisionError(ctx, err, decided)
	}

	if s.metrics != nil {
		s.metrics.IncDecision(string(d))
		if result.ReportConfirmed {
			s.metrics.ReportsConfirmed.Inc()
		}
	}
	span.SetAttributes(
		attribute.String("report_id", result.ReportID.String()),
		attribute.Int("confirmed", result.ConfirmedCount),
		attribute.Bool("report_confirmed", result.ReportConfirmed),
	)
	if result.ReportConfirmed {
		s.alertOwner(ctx, targetID, result.ReportID)
	}
	return result, nil
}

func (s *Service) decisionError(ctx context.Context, err error, a *models.Attestation) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		if s.metrics != nil {
			s.metrics.IncDecision("token_not_found")
		}
		return dErrors.New(dErrors.CodeTokenNotFound, "token not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		if s.metrics != nil {
			s.metrics.IncDecision("already_decided")
		}
		attributes := []any{"decision", "reused"}
		if a != nil {
			attributes = append(attributes, "report_id", a.ReportID)
		}
		s.logAudit(ctx, audit.EventTokenReuseAttempt, attributes...)
		return dErrors.New(dErrors.CodeAlreadyDecided, "this token has already been used")
	}
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record decision")
}

func (s *Service) refused(reason string) {
	if s.metrics != nil {
		s.metrics.IncRefused(reason)
	}
}

func (s *Service) verificationRequest(target *directory.Account, report *models.Report, t models.IssuedToken) notify.Message {
	link := s.cfg.VerifyURL
	if u, err := url.Parse(s.cfg.VerifyURL); err == nil {
		q := u.Query()
		q.Set("token", t.Token)
		u.RawQuery = q.Encode()
		link = u.String()
	}
	name := displayName(target.DisplayName, target.Username)
	body := fmt.Sprintf(`Hello %s,

%s (%s) has reported that %s has passed away.
You are registered as one of %s's trusted contacts and are asked to confirm or reject this report.

Message from the reporter:
%s

Confirm or reject here (this link can be used once):
%s

If you did not expect this email, you can ignore it.
`, t.ContactName, report.ReporterName, orDash(report.RelationToTarget), name, name, orDash(report.Message), link)

	return notify.Message{
		To:      t.ContactEmail,
		Subject: fmt.Sprintf("[Memento] Please verify a report about %s", name),
		Body:    body,
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
