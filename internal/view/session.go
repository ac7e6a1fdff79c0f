// Package view owns the current map view for a resolution consumer: center
// point, single marker, and label. The view is replaced wholesale on each
// terminal resolution, never patched field by field, so a cancelled attempt
// can never leave a half-updated display behind.
package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/place"
)

// LocationResolver runs one resolution attempt to a terminal outcome.
type LocationResolver interface {
	Resolve(ctx context.Context, address, name string) (place.ResolvedLocation, error)
}

// MapView is the display state the UI renders: a center point with a marker
// and label once resolved, or a pending placeholder built from the raw input
// while an attempt is in flight. On an unresolved outcome the label is the
// raw input address and no marker is shown.
type MapView struct {
	Center  place.Coordinates
	Marker  bool
	Label   string
	Pending bool
}

// Session serializes resolution attempts for one map surface. Starting a new
// attempt invalidates any still-pending earlier one: its result is dropped
// when it eventually lands, so stale callbacks never overwrite fresher state.
type Session struct {
	resolver LocationResolver
	logger   *slog.Logger
	onUpdate func(MapView)

	mu     sync.Mutex
	gen    uint64
	view   MapView
	cancel context.CancelFunc
	done   chan struct{} // closed when the current attempt reaches a terminal state
}

// NewSession creates a Session. onUpdate, if non-nil, fires on every view
// replacement (the pending placeholder and the terminal view). It is invoked
// with the session lock held and must not call back into the Session.
func NewSession(resolver LocationResolver, logger *slog.Logger, onUpdate func(MapView)) *Session {
	return &Session{
		resolver: resolver,
		logger:   logger,
		onUpdate: onUpdate,
	}
}

// View returns the current map view.
func (s *Session) View() MapView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Resolve starts a new resolution attempt and returns its ID immediately.
// Any in-flight attempt is cancelled and its eventual result discarded. The
// view becomes a pending placeholder until the attempt terminates.
func (s *Session) Resolve(ctx context.Context, address, name string) uuid.UUID {
	attemptID := uuid.New()
	attemptCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.done = make(chan struct{})
	done := s.done
	s.replace(MapView{Label: pendingLabel(address, name), Pending: true})
	s.mu.Unlock()

	s.logger.Debug("resolution attempt started", "attempt_id", attemptID, "address", address, "name", name)

	go s.run(attemptCtx, cancel, gen, done, attemptID, address, name)
	return attemptID
}

// Wait blocks until the most recently started attempt terminates or the
// context is done. Mostly useful for one-shot callers like the CLI.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) run(ctx context.Context, cancel context.CancelFunc, gen uint64, done chan struct{}, attemptID uuid.UUID, address, name string) {
	defer cancel()
	defer close(done)

	loc, err := s.resolver.Resolve(ctx, address, name)
	if errors.Is(err, context.Canceled) {
		// Superseded or shut down; the newer attempt owns the view.
		s.logger.Debug("resolution attempt cancelled", "attempt_id", attemptID)
		return
	}

	terminal := MapView{Label: address}
	if err == nil {
		terminal = MapView{Center: loc.Coord, Marker: true, Label: loc.DisplayAddress}
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.logger.Debug("dropping stale resolution result", "attempt_id", attemptID)
		return
	}
	s.replace(terminal)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("resolution attempt unresolved", "attempt_id", attemptID, "address", address, "error", err)
		return
	}
	s.logger.Info("resolution attempt resolved",
		"attempt_id", attemptID,
		"display_address", loc.DisplayAddress,
		"source", loc.Source,
		"attempts", loc.Attempts,
	)
}

// replace swaps the whole view. Callers must hold s.mu.
func (s *Session) replace(v MapView) {
	s.view = v
	if s.onUpdate != nil {
		s.onUpdate(v)
	}
}

func pendingLabel(address, name string) string {
	if name != "" && address != "" {
		return name + " · " + address
	}
	if name != "" {
		return name
	}
	return address
}
