// Package httptransport assembles the HTTP surface: middleware chain, the
// module handlers and the operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"memento/internal/admin"
	"memento/internal/platform/metrics"
	releasehandler "memento/internal/release/handler"
	verificationhandler "memento/internal/verification/handler"
	"memento/pkg/platform/httputil"
	adminmw "memento/pkg/platform/middleware/admin"
	authmw "memento/pkg/platform/middleware/auth"
	"memento/pkg/platform/middleware/metadata"
	request "memento/pkg/platform/middleware/request"
	"memento/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterDeps is everything NewRouter mounts.
type RouterDeps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Verification *verificationhandler.Handler
	Release      *releasehandler.Handler
	Admin        *admin.Handler

	// CreateLimit and VerifyLimit wrap the two public endpoints.
	CreateLimit func(http.Handler) http.Handler
	VerifyLimit func(http.Handler) http.Handler

	JWTValidator authmw.JWTValidator
	AdminToken   string

	HealthChecks map[string]HealthCheck
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(d.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(d.Logger, d.Metrics))

	r.Get("/health", healthHandler(d.HealthChecks))
	r.Handle("/metrics", metrics.Handler())

	d.Verification.Register(r, verificationhandler.PublicLimits{
		Create: d.CreateLimit,
		Verify: d.VerifyLimit,
	})

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(d.JWTValidator, d.Logger))
		d.Verification.RegisterOwner(r)
		d.Release.RegisterOwner(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(d.AdminToken, d.Logger))
		d.Verification.RegisterAdmin(r)
		d.Admin.RegisterAdmin(r)
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler returns 503 when any dependency check fails.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
