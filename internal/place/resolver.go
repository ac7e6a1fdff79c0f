package place

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Resolver runs one resolution attempt: sequential keyword search over the
// strategy list, then the address-geocoding fallback. Provider calls are
// strictly sequential — the next strategy is only issued after the previous
// result has been observed — so candidate evaluation order is deterministic.
type Resolver struct {
	provider    Provider
	heuristics  Heuristics
	callTimeout time.Duration
	logger      *slog.Logger
}

// NewResolver creates a Resolver. callTimeout bounds each provider call;
// expiry is treated like a non-OK provider status and the chain advances.
// A zero callTimeout disables the per-call bound.
func NewResolver(provider Provider, heuristics Heuristics, callTimeout time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		provider:    provider,
		heuristics:  heuristics,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// Strategies exposes the keyword list the resolver would try for an input
// pair, for debugging and the CLI.
func (r *Resolver) Strategies(address, name string) []string {
	return BuildStrategies(address, name, r.heuristics)
}

// Resolve determines the best map point and display label for the input
// pair. It returns ErrUnresolved when every strategy and the address
// fallback are exhausted, ErrUnavailable when the provider cannot be
// reached, and ctx.Err() when the attempt is cancelled. Per-strategy
// failures are absorbed and never surfaced.
func (r *Resolver) Resolve(ctx context.Context, address, name string) (ResolvedLocation, error) {
	address = strings.TrimSpace(address)
	strategies := BuildStrategies(address, name, r.heuristics)
	if len(strategies) == 0 {
		// Nothing to search; no provider call is made.
		return ResolvedLocation{}, ErrUnresolved
	}

	attempts := 0
	for _, keyword := range strategies {
		if err := ctx.Err(); err != nil {
			return ResolvedLocation{}, err
		}
		if strings.TrimSpace(keyword) == "" {
			continue
		}

		candidates, err := r.keywordSearch(ctx, keyword)
		attempts++
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				return ResolvedLocation{}, err
			}
			if ctx.Err() != nil {
				return ResolvedLocation{}, ctx.Err()
			}
			r.logger.Warn("keyword search failed, trying next strategy",
				"keyword", keyword,
				"error", err,
			)
			continue
		}
		if len(candidates) == 0 {
			r.logger.Debug("keyword search empty", "keyword", keyword)
			continue
		}

		best := bestCandidate(candidates, name)
		return ResolvedLocation{
			DisplayAddress: keywordDisplayAddress(best, keyword),
			Coord:          best.Coord,
			Source:         SourceKeyword,
			Keyword:        keyword,
			Attempts:       attempts,
			ResolvedAt:     clock.Now(),
		}, nil
	}

	return r.addressFallback(ctx, address, attempts)
}

// addressFallback geocodes the raw address after all keyword strategies are
// exhausted. It is never attempted before or concurrently with them.
func (r *Resolver) addressFallback(ctx context.Context, address string, attempts int) (ResolvedLocation, error) {
	if address == "" {
		return ResolvedLocation{}, ErrUnresolved
	}

	matches, err := r.addressSearch(ctx, address)
	attempts++
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return ResolvedLocation{}, err
		}
		if ctx.Err() != nil {
			return ResolvedLocation{}, ctx.Err()
		}
		r.logger.Warn("address fallback failed", "address", address, "error", err)
		return ResolvedLocation{}, ErrUnresolved
	}
	if len(matches) == 0 {
		return ResolvedLocation{}, ErrUnresolved
	}

	m := matches[0]
	return ResolvedLocation{
		DisplayAddress: fallbackDisplayAddress(m, address),
		Coord:          m.Coord,
		Source:         SourceAddress,
		Attempts:       attempts,
		ResolvedAt:     clock.Now(),
	}, nil
}

func (r *Resolver) keywordSearch(ctx context.Context, keyword string) ([]PlaceCandidate, error) {
	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	candidates, err := r.provider.KeywordSearch(callCtx, keyword)
	if err != nil && callTimedOut(ctx, callCtx, err) {
		return nil, fmt.Errorf("keyword search timed out: %w", err)
	}
	return candidates, err
}

func (r *Resolver) addressSearch(ctx context.Context, address string) ([]AddressMatch, error) {
	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	matches, err := r.provider.AddressSearch(callCtx, address)
	if err != nil && callTimedOut(ctx, callCtx, err) {
		return nil, fmt.Errorf("address search timed out: %w", err)
	}
	return matches, err
}

func (r *Resolver) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.callTimeout)
}

// callTimedOut distinguishes a per-call deadline (advance to the next
// strategy) from a cancelled parent attempt (abort).
func callTimedOut(parent, call context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) &&
		call.Err() != nil && parent.Err() == nil
}
