package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"memento/internal/verification/models"
	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/httputil"
	"memento/pkg/requestcontext"
)

// Service is the verification ledger as seen from HTTP.
type Service interface {
	CreateReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, []models.IssuedToken, error)
	RecordDecision(ctx context.Context, token string, decision string) (*models.DecisionResult, error)
	CancelAllMyReports(ctx context.Context, accountID id.AccountID, reason string) (int, error)
	ListMyReports(ctx context.Context, accountID id.AccountID) ([]*models.Report, error)
	UpdateStatus(ctx context.Context, reportID id.ReportID, req *models.UpdateStatusRequest) (*models.Report, error)
	GetReport(ctx context.Context, reportID id.ReportID) (*models.ReportDetails, error)
	ListReports(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error)
}

// Handler exposes report intake, token decisions, owner cancellation and the
// operator endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
	// exposeTokens returns raw attestation tokens in the create response.
	// Only demo mode turns this on; otherwise tokens only travel by email.
	exposeTokens bool
}

func New(service Service, logger *slog.Logger, exposeTokens bool) *Handler {
	return &Handler{service: service, logger: logger, exposeTokens: exposeTokens}
}

// PublicLimits wraps the public endpoints with per-route middleware, normally
// rate limiters. A nil entry leaves that route unwrapped.
type PublicLimits struct {
	Create func(http.Handler) http.Handler
	Verify func(http.Handler) http.Handler
}

// Register mounts the public endpoints.
func (h *Handler) Register(r chi.Router, limits PublicLimits) {
	with(r, limits.Create).Post("/death-reports", h.HandleCreateReport)
	with(r, limits.Verify).Post("/death-reports/verify", h.HandleVerify)
}

func with(r chi.Router, mw func(http.Handler) http.Handler) chi.Router {
	if mw == nil {
		return r
	}
	return r.With(mw)
}

// RegisterOwner mounts endpoints for the authenticated account owner.
func (h *Handler) RegisterOwner(r chi.Router) {
	r.Get("/me/death-reports", h.HandleListMine)
	r.Post("/me/death-reports/cancel", h.HandleCancelMine)
}

// RegisterAdmin mounts the operator endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/death-reports", h.HandleAdminList)
	r.Get("/admin/death-reports/{id}", h.HandleAdminGet)
	r.Patch("/admin/death-reports/{id}", h.HandleAdminUpdate)
}

// HandleCreateReport handles POST /death-reports.
func (h *Handler) HandleCreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, err := httputil.DecodeAndPrepare[models.CreateReportRequest](r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid death report request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	report, tokens, err := h.service.CreateReport(ctx, req)
	if err != nil {
		h.logFailure(ctx, "failed to create death report", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "death report created",
		"request_id", requestID,
		"report_id", report.ID,
		"contacts", len(tokens),
	)
	httputil.WriteJSON(w, http.StatusCreated, toCreateReportResponse(report, tokens, h.exposeTokens))
}

// HandleVerify handles POST /death-reports/verify. GET links from emails are
// served by the frontend, which posts the token here.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httputil.DecodeAndPrepare[models.DecisionRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.RecordDecision(ctx, req.Token, req.Decision)
	if err != nil {
		h.logFailure(ctx, "attestation decision failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDecisionResponse(result))
}

// HandleListMine handles GET /me/death-reports.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := requestcontext.AccountID(ctx)
	if accountID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	reports, err := h.service.ListMyReports(ctx, accountID)
	if err != nil {
		h.logFailure(ctx, "failed to list own reports", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toReportList(reports))
}

// HandleCancelMine handles POST /me/death-reports/cancel. The body is optional.
func (h *Handler) HandleCancelMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := requestcontext.AccountID(ctx)
	if accountID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	reason := ""
	if r.ContentLength != 0 {
		req, err := httputil.DecodeAndPrepare[models.CancelRequest](r)
		if err != nil && !isEmptyBody(err) {
			httputil.WriteError(w, err)
			return
		}
		if req != nil {
			reason = req.Reason
		}
	}

	n, err := h.service.CancelAllMyReports(ctx, accountID, reason)
	if err != nil {
		h.logFailure(ctx, "owner cancellation failed", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "owner canceled reports",
		"request_id", requestcontext.RequestID(ctx),
		"account_id", accountID,
		"canceled", n,
	)
	httputil.WriteJSON(w, http.StatusOK, CancelResponse{Canceled: n})
}

// HandleAdminList handles GET /admin/death-reports?status=...
func (h *Handler) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := models.ReportFilter{}
	if s := strings.TrimSpace(r.URL.Query().Get("status")); s != "" {
		status, err := models.ParseReportStatus(strings.ToUpper(s))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Status = status
	}

	reports, err := h.service.ListReports(ctx, filter)
	if err != nil {
		h.logFailure(ctx, "failed to list reports", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toReportList(reports))
}

// HandleAdminGet handles GET /admin/death-reports/{id}.
func (h *Handler) HandleAdminGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID, err := id.ParseReportID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	details, err := h.service.GetReport(ctx, reportID)
	if err != nil {
		h.logFailure(ctx, "failed to load report", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toReportDetails(details))
}

// HandleAdminUpdate handles PATCH /admin/death-reports/{id}.
func (h *Handler) HandleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID, err := id.ParseReportID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.DecodeAndPrepare[models.UpdateStatusRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.UpdateStatus(ctx, reportID, req)
	if err != nil {
		h.logFailure(ctx, "failed to update report status", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toReportResponse(report))
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	if dErrors.HTTPStatus(dErrors.CodeOf(err)) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}

func isEmptyBody(err error) bool {
	de, ok := dErrors.As(err)
	return ok && de.Code == dErrors.CodeBadRequest && de.Message == "request body is required"
}
