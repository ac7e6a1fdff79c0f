// Package trip composes place resolution, routing, and weather into the
// operations the travel API exposes.
package trip

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/observability"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/place"
)

// Resolver turns a user-entered address and place name into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, address, name string) (place.ResolvedLocation, error)
	Strategies(address, name string) []string
}

// EventSink receives resolution audit events. Publishing is best effort
// and must never block a resolution result.
type EventSink interface {
	Publish(ctx context.Context, event ResolutionEvent) error
}

// ResolutionEvent is the audit record written for every terminated
// resolution attempt.
type ResolutionEvent struct {
	ID             uuid.UUID `json:"id"`
	Address        string    `json:"address"`
	Name           string    `json:"name"`
	Resolved       bool      `json:"resolved"`
	DisplayAddress string    `json:"display_address,omitempty"`
	Lat            float64   `json:"lat,omitempty"`
	Lng            float64   `json:"lng,omitempty"`
	Source         string    `json:"source,omitempty"`
	Attempts       int       `json:"attempts"`
	ResolvedAt     time.Time `json:"resolved_at"`
}

// Service wraps a Resolver with metrics and audit events.
type Service struct {
	resolver Resolver
	sink     EventSink // nil when the sink is disabled
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewService creates the resolution service. sink may be nil.
func NewService(resolver Resolver, sink EventSink, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if sink != nil {
		metrics.EventSinkEnabled.Set(1)
	}
	return &Service{
		resolver: resolver,
		sink:     sink,
		metrics:  metrics,
		logger:   logger,
	}
}

// Resolve runs one resolution attempt and records its outcome.
func (s *Service) Resolve(ctx context.Context, address, name string) (place.ResolvedLocation, error) {
	s.metrics.ResolveRequests.Inc()
	start := time.Now()

	loc, err := s.resolver.Resolve(ctx, address, name)
	s.metrics.ResolveDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		s.metrics.ResolveOutcomes.WithLabelValues("resolved").Inc()
		s.metrics.StrategyDepth.Observe(float64(loc.Attempts))
	case errors.Is(err, place.ErrUnresolved):
		s.metrics.ResolveOutcomes.WithLabelValues("unresolved").Inc()
	default:
		s.metrics.ResolveOutcomes.WithLabelValues("unavailable").Inc()
	}

	s.publishEvent(ctx, address, name, loc, err)
	return loc, err
}

// Strategies exposes the keyword plan for an input without querying the
// provider.
func (s *Service) Strategies(address, name string) []string {
	return s.resolver.Strategies(address, name)
}

func (s *Service) publishEvent(ctx context.Context, address, name string, loc place.ResolvedLocation, resolveErr error) {
	if s.sink == nil {
		return
	}

	event := ResolutionEvent{
		ID:         uuid.New(),
		Address:    address,
		Name:       name,
		Attempts:   loc.Attempts,
		ResolvedAt: time.Now().UTC(),
	}
	if resolveErr == nil {
		event.Resolved = true
		event.DisplayAddress = loc.DisplayAddress
		event.Lat = loc.Coord.Lat
		event.Lng = loc.Coord.Lng
		event.Source = string(loc.Source)
		event.ResolvedAt = loc.ResolvedAt
	}

	if err := s.sink.Publish(ctx, event); err != nil {
		s.metrics.EventPublishErrors.Inc()
		s.logger.Warn("failed to publish resolution event",
			"event_id", event.ID,
			"error", err,
		)
		return
	}
	s.metrics.EventsPublished.Inc()
}
