package handler

import (
	"time"

	"memento/internal/verification/models"
)

type ReportResponse struct {
	ID               string     `json:"id"`
	TargetAccountID  string     `json:"target_account_id"`
	ReporterName     string     `json:"reporter_name"`
	ReporterContact  string     `json:"reporter_contact,omitempty"`
	RelationToTarget string     `json:"relation_to_target,omitempty"`
	Message          string     `json:"message,omitempty"`
	Status           string     `json:"status"`
	AdminNote        string     `json:"admin_note,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
}

type IssuedTokenResponse struct {
	AttestationID string `json:"attestation_id"`
	ContactName   string `json:"contact_name"`
	Notified      bool   `json:"notified"`
	Token         string `json:"token,omitempty"`
}

type CreateReportResponse struct {
	Report   ReportResponse        `json:"report"`
	Contacts []IssuedTokenResponse `json:"contacts"`
}

type DecisionResponse struct {
	ReportID        string `json:"report_id"`
	Decision        string `json:"decision"`
	ConfirmedCount  int    `json:"confirmed_count"`
	ReportConfirmed bool   `json:"report_confirmed"`
}

type CancelResponse struct {
	Canceled int `json:"canceled"`
}

type AttestationResponse struct {
	ID          string     `json:"id"`
	ContactID   string     `json:"contact_id"`
	ContactName string     `json:"contact_name"`
	Status      string     `json:"status"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

type ReportDetailsResponse struct {
	Report       ReportResponse        `json:"report"`
	Attestations []AttestationResponse `json:"attestations"`
}

type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int              `json:"total"`
}

func toReportResponse(r *models.Report) ReportResponse {
	return ReportResponse{
		ID:               r.ID.String(),
		TargetAccountID:  r.TargetAccountID.String(),
		ReporterName:     r.ReporterName,
		ReporterContact:  r.ReporterContact,
		RelationToTarget: r.RelationToTarget,
		Message:          r.Message,
		Status:           string(r.Status),
		AdminNote:        r.AdminNote,
		CreatedAt:        r.CreatedAt,
		ResolvedAt:       r.ResolvedAt,
	}
}

func toCreateReportResponse(r *models.Report, tokens []models.IssuedToken, exposeTokens bool) CreateReportResponse {
	contacts := make([]IssuedTokenResponse, 0, len(tokens))
	for _, t := range tokens {
		c := IssuedTokenResponse{
			AttestationID: t.AttestationID.String(),
			ContactName:   t.ContactName,
			Notified:      t.ContactEmail != "",
		}
		if exposeTokens {
			c.Token = t.Token
		}
		contacts = append(contacts, c)
	}
	return CreateReportResponse{Report: toReportResponse(r), Contacts: contacts}
}

func toDecisionResponse(d *models.DecisionResult) DecisionResponse {
	return DecisionResponse{
		ReportID:        d.ReportID.String(),
		Decision:        string(d.Decision),
		ConfirmedCount:  d.ConfirmedCount,
		ReportConfirmed: d.ReportConfirmed,
	}
}

func toReportList(reports []*models.Report) ReportListResponse {
	out := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, toReportResponse(r))
	}
	return ReportListResponse{Reports: out, Total: len(out)}
}

func toReportDetails(d *models.ReportDetails) ReportDetailsResponse {
	attestations := make([]AttestationResponse, 0, len(d.Attestations))
	for _, a := range d.Attestations {
		attestations = append(attestations, AttestationResponse{
			ID:          a.ID.String(),
			ContactID:   a.ContactID.String(),
			ContactName: a.ContactName,
			Status:      string(a.Status),
			DecidedAt:   a.DecidedAt,
		})
	}
	return ReportDetailsResponse{Report: toReportResponse(d.Report), Attestations: attestations}
}
