// Package content is the boundary to an external text-generation service.
// Generated text is decoration: every caller goes through WithFallback so a
// slow or failing generator never blocks a release.
package content

import (
	"context"
	"log/slog"
)

// Prompt describes the text a caller wants.
type Prompt struct {
	Purpose string // e.g. "execution_guide"
	Locale  string
	Facts   map[string]string
}

type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// FallbackFunc produces text locally when the generator fails.
type FallbackFunc func(p Prompt) string

type fallbackGenerator struct {
	next     Generator
	fallback FallbackFunc
	logger   *slog.Logger
}

// WithFallback wraps g so that Generate never returns an error. A nil g is
// allowed and always uses the fallback.
func WithFallback(g Generator, fallback FallbackFunc, logger *slog.Logger) Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &fallbackGenerator{next: g, fallback: fallback, logger: logger}
}

func (f *fallbackGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	if f.next == nil {
		return f.fallback(p), nil
	}
	text, err := f.next.Generate(ctx, p)
	if err != nil || text == "" {
		f.logger.WarnContext(ctx, "content generation failed, using fallback",
			"purpose", p.Purpose,
			"error", err,
		)
		return f.fallback(p), nil
	}
	return text, nil
}
