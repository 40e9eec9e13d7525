package digest

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Tier is one strategy in a fallback chain.
type Tier[T any] struct {
	Name string
	Try  func(ctx context.Context) (T, error)
}

// Chain runs tiers in order and returns the first result accepted by usable.
// A tier that errors or yields an unusable result is logged and skipped.
// Returns EUNAVAILABLE when no tier yields a usable result, or the context
// error if ctx is done before a tier starts.
func Chain[T any](ctx context.Context, logger *slog.Logger, usable func(T) bool, tiers ...Tier[T]) (T, error) {
	var zero T
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for _, tier := range tiers {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		begin := time.Now()
		v, err := tier.Try(ctx)
		if err != nil {
			logger.Debug("tier failed",
				"tier", tier.Name,
				"duration", time.Since(begin),
				"err", err,
			)
			continue
		}
		if !usable(v) {
			logger.Debug("tier empty", "tier", tier.Name, "duration", time.Since(begin))
			continue
		}
		logger.Debug("tier succeeded", "tier", tier.Name, "duration", time.Since(begin))
		return v, nil
	}

	return zero, Errorf(EUNAVAILABLE, "no usable signal after %d tiers", len(tiers))
}

// NonEmpty reports whether s contains non-whitespace text.
func NonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// FirstNonEmpty evaluates candidates in order and returns the first
// non-empty trimmed result, or fallback if all are empty.
func FirstNonEmpty(fallback string, candidates ...func() string) string {
	for _, c := range candidates {
		if v := strings.TrimSpace(c()); v != "" {
			return v
		}
	}
	return fallback
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
