package content

import (
	"context"
	"errors"
	"log/slog"

	"memento/pkg/platform/circuit"
)

// ErrCircuitOpen is returned instead of calling a generator that keeps failing.
var ErrCircuitOpen = errors.New("content generator circuit open")

type breakerGenerator struct {
	next    Generator
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// WithBreaker stops calling g after repeated failures. Pair it with
// WithFallback so callers still get text while the circuit is open.
func WithBreaker(g Generator, b *circuit.Breaker, logger *slog.Logger) Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &breakerGenerator{next: g, breaker: b, logger: logger}
}

func (g *breakerGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	if !g.breaker.Allow() {
		return "", ErrCircuitOpen
	}
	text, err := g.next.Generate(ctx, p)
	if err != nil {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "content generator circuit opened",
				"breaker", g.breaker.Name(),
				"error", err,
			)
		}
		return "", err
	}
	usePrimary, change := g.breaker.RecordSuccess()
	if change.Closed {
		g.logger.InfoContext(ctx, "content generator circuit closed", "breaker", g.breaker.Name())
	}
	if !usePrimary {
		return "", ErrCircuitOpen
	}
	return text, nil
}
