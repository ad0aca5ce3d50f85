package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"memento/internal/release/models"
	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/httputil"
	"memento/pkg/requestcontext"
)

// Service is the deliverable API as seen from HTTP.
type Service interface {
	Create(ctx context.Context, owner id.AccountID, req *models.CreateDeliverableRequest) (*models.Deliverable, error)
	Get(ctx context.Context, owner id.AccountID, deliverableID id.DeliverableID) (*models.Deliverable, error)
	List(ctx context.Context, owner id.AccountID) ([]*models.Deliverable, error)
	Update(ctx context.Context, owner id.AccountID, deliverableID id.DeliverableID, req *models.UpdateDeliverableRequest) (*models.Deliverable, error)
	Delete(ctx context.Context, owner id.AccountID, deliverableID id.DeliverableID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterOwner mounts the owner's deliverable endpoints.
func (h *Handler) RegisterOwner(r chi.Router) {
	r.Get("/me/deliverables", h.HandleList)
	r.Post("/me/deliverables", h.HandleCreate)
	r.Get("/me/deliverables/{id}", h.HandleGet)
	r.Put("/me/deliverables/{id}", h.HandleUpdate)
	r.Delete("/me/deliverables/{id}", h.HandleDelete)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.requireOwner(ctx, w)
	if !ok {
		return
	}
	req, err := httputil.DecodeAndPrepare[models.CreateDeliverableRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := h.service.Create(ctx, owner, req)
	if err != nil {
		h.logFailure(ctx, "failed to create deliverable", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toDeliverableResponse(d))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.requireOwner(ctx, w)
	if !ok {
		return
	}
	list, err := h.service.List(ctx, owner)
	if err != nil {
		h.logFailure(ctx, "failed to list deliverables", err)
		httputil.WriteError(w, err)
		return
	}
	out := make([]DeliverableResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDeliverableResponse(d))
	}
	httputil.WriteJSON(w, http.StatusOK, DeliverableListResponse{Deliverables: out, Total: len(out)})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, deliverableID, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}
	d, err := h.service.Get(ctx, owner, deliverableID)
	if err != nil {
		h.logFailure(ctx, "failed to load deliverable", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDeliverableResponse(d))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, deliverableID, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}
	req, err := httputil.DecodeAndPrepare[models.UpdateDeliverableRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := h.service.Update(ctx, owner, deliverableID, req)
	if err != nil {
		h.logFailure(ctx, "failed to update deliverable", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDeliverableResponse(d))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, deliverableID, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, owner, deliverableID); err != nil {
		h.logFailure(ctx, "failed to delete deliverable", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requireOwner(ctx context.Context, w http.ResponseWriter) (id.AccountID, bool) {
	owner := requestcontext.AccountID(ctx)
	if owner.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.AccountID{}, false
	}
	return owner, true
}

func (h *Handler) ownerAndID(w http.ResponseWriter, r *http.Request) (id.AccountID, id.DeliverableID, bool) {
	owner, ok := h.requireOwner(r.Context(), w)
	if !ok {
		return id.AccountID{}, id.DeliverableID{}, false
	}
	deliverableID, err := id.ParseDeliverableID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.AccountID{}, id.DeliverableID{}, false
	}
	return owner, deliverableID, true
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	level := slog.LevelWarn
	if dErrors.HTTPStatus(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}

type DeliverableResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	ReleasePolicy    string     `json:"release_policy"`
	ReleaseAt        *time.Time `json:"release_at,omitempty"`
	RecipientName    string     `json:"recipient_name,omitempty"`
	BeneficiaryEmail string     `json:"beneficiary_email,omitempty"`
	Released         bool       `json:"released"`
	ReleasedAt       *time.Time `json:"released_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type DeliverableListResponse struct {
	Deliverables []DeliverableResponse `json:"deliverables"`
	Total        int                   `json:"total"`
}

func toDeliverableResponse(d *models.Deliverable) DeliverableResponse {
	return DeliverableResponse{
		ID:               d.ID.String(),
		Title:            d.Title,
		Message:          d.Message,
		ReleasePolicy:    string(d.Policy),
		ReleaseAt:        d.ReleaseAt,
		RecipientName:    d.RecipientName,
		BeneficiaryEmail: d.BeneficiaryEmail,
		Released:         d.Released,
		ReleasedAt:       d.ReleasedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}
