package admin

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/httputil"
	"memento/pkg/requestcontext"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterAdmin mounts the dashboard endpoints. Callers wrap r with the
// admin token check.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/dashboard", h.HandleDashboard)
	r.Get("/admin/notifications", h.HandleNotifications)
	r.Get("/admin/release-ledger", h.HandleReleaseLedger)
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.service.Dashboard(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDashboardResponse(d))
}

// HandleNotifications handles GET /admin/notifications?limit=N.
func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := parseLimit(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.service.RecentNotifications(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list notifications",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toNotificationsList(entries))
}

// HandleReleaseLedger handles GET /admin/release-ledger?limit=N.
func (h *Handler) HandleReleaseLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := parseLimit(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.service.ReleaseLedger(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list release ledger",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLedgerList(entries))
}

func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "limit must be a positive integer")
	}
	return n, nil
}
