package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"memento/internal/ratelimit/metrics"
	"memento/internal/ratelimit/models"
	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/audit"
	"memento/pkg/platform/httputil"
	"memento/pkg/platform/middleware/metadata"
	"memento/pkg/requestcontext"
)

// BucketStore is implemented by the in-memory and Redis sliding windows.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Middleware struct {
	store          BucketStore
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	disabled       bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(mw *Middleware) {
		mw.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(m *Middleware) {
		m.auditPublisher = p
	}
}

func New(store BucketStore, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Limit applies rule per client IP. A failing store lets the request through.
func (m *Middleware) Limit(rule models.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)
			if ip == "" {
				ip = metadata.ClientIPFromRequest(r)
			}

			result, err := m.store.Allow(ctx, rule.Key(ip), rule.Limit, rule.Window)
			if err != nil {
				m.metrics.IncCheckError(rule.Name)
				m.logger.ErrorContext(ctx, "failed to check rate limit",
					"rule", rule.Name,
					"ip_prefix", anonymizeIP(ip),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)

			if !result.Allowed {
				m.metrics.IncRejected(rule.Name)
				m.logAudit(ctx, rule, ip)
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) logAudit(ctx context.Context, rule models.Rule, ip string) {
	event := audit.EventRateLimitExceeded
	prefix := anonymizeIP(ip)
	m.logger.WarnContext(ctx, string(event),
		"rule", rule.Name,
		"ip_prefix", prefix,
		"request_id", requestcontext.RequestID(ctx),
		"event", string(event),
		"log_type", "audit",
	)
	if m.auditPublisher == nil {
		return
	}
	err := m.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Subject:   prefix,
		Action:    string(event),
		Reason:    rule.Name,
		RequestID: requestcontext.RequestID(ctx),
		Device:    requestcontext.Device(ctx),
	})
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

// anonymizeIP keeps the /24 of an IPv4 address or the /48 of an IPv6 one.
func anonymizeIP(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ""
	}
	bits := 48
	if addr.Is4() || addr.Is4In6() {
		addr = addr.Unmap()
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return ""
	}
	return prefix.String()
}
