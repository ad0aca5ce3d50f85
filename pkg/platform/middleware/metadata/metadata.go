package metadata

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"memento/pkg/requestcontext"
)

// ClientMetadata extracts client IP address and User-Agent from the request
// and adds them, plus a parsed device label, to the context.
// This middleware should be applied early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := r.Header.Get("User-Agent")

		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), ua)
		ctx = requestcontext.WithDevice(ctx, DeviceLabel(ua))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DeviceLabel renders a User-Agent as "Browser Version on OS". Bots are
// labelled as such; unparseable agents yield "".
func DeviceLabel(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return ""
	}
	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	if ua.Bot() {
		return "bot: " + name
	}
	label := strings.TrimSpace(name + " " + majorVersion(version))
	if os := ua.OS(); os != "" {
		if label == "" {
			return os
		}
		label += " on " + os
	}
	return label
}

func majorVersion(v string) string {
	if i := strings.IndexByte(v, '.'); i > 0 {
		return v[:i]
	}
	return v
}

// ClientIPFromRequest extracts the real client IP from the request, handling proxies and load balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs (client, proxy1, proxy2, ...);
	// the first is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" or "[::1]:port".
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return strings.Trim(addr[:idx], "[]")
		}
		return addr
	}

	return "unknown"
}
