package mapview

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/google/uuid"
)

// Session is one render pass of the map: a MapView whose overlay groups are
// written by a single Load call.
type Session struct {
	ID     string
	View   *MapView
	loader *Loader
	order  string
}

// NewSession creates a session with a fresh map. order must be one of the
// config.LoadOrder values.
func NewSession(loader *Loader, order string) (*Session, error) {
	if err := config.ValidateLoadOrder(order); err != nil {
		return nil, err
	}
	return &Session{ID: uuid.New().String(), View: New(), loader: loader, order: order}, nil
}

// Order returns the load ordering in effect.
func (s *Session) Order() string { return s.order }

// Load populates both overlays. Layer failures are recorded on their groups and
// never abort the session; the map stays usable with whatever loaded.
func (s *Session) Load(ctx context.Context) {
	quakes := s.View.Overlay(OverlayEarthquakes)
	plates := s.View.Overlay(OverlayPlates)

	if s.order == config.LoadOrderSequential {
		if s.loadEarthquakes(ctx, quakes) == nil {
			_ = s.loader.LoadPlates(ctx, plates)
		}
	} else {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.loadEarthquakes(ctx, quakes)
		}()
		go func() {
			defer wg.Done()
			_ = s.loader.LoadPlates(ctx, plates)
		}()
		wg.Wait()
	}

	s.loader.metrics.SessionsLoaded.WithLabelValues(s.order).Inc()
	s.loader.logger.Info("session loaded",
		"session_id", s.ID,
		"order", s.order,
		"earthquakes", quakes.State(),
		"plates", plates.State(),
	)
}

// WarmUp loads sessions until the loader reports ready, waiting retry between
// attempts, so readiness does not depend on incoming traffic. It returns ctx.Err()
// if ctx ends first.
func WarmUp(ctx context.Context, loader *Loader, order string, retry time.Duration) error {
	if err := config.ValidateLoadOrder(order); err != nil {
		return err
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		s, _ := NewSession(loader, order)
		s.Load(ctx)
		if loader.CheckReadiness(ctx) == nil {
			loader.logger.Info("warm-up complete", "session_id", s.ID, "attempts", attempt)
			return nil
		}
		loader.logger.Warn("warm-up load failed, retrying", "attempt", attempt, "retry_in", retry)
		timer.Reset(retry)
	}
}

// loadEarthquakes loads the earthquake group and attaches the legend on success.
func (s *Session) loadEarthquakes(ctx context.Context, group *LayerGroup) error {
	if err := s.loader.LoadEarthquakes(ctx, group); err != nil {
		return err
	}
	s.View.AttachLegend(domain.RenderLegend())
	return nil
}

// SessionSnapshot is the serializable result of a loaded session.
type SessionSnapshot struct {
	ID     string          `json:"id"`
	Order  string          `json:"order"`
	Map    Config          `json:"map"`
	Legend string          `json:"legend,omitempty"`
	Layers []LayerSnapshot `json:"layers"`
}

// Snapshot captures the map configuration, the attached legend, and every layer
// with its features.
func (s *Session) Snapshot() SessionSnapshot {
	legend, _ := s.View.Legend()
	return SessionSnapshot{
		ID:     s.ID,
		Order:  s.order,
		Map:    s.View.Config(),
		Legend: legend,
		Layers: []LayerSnapshot{
			s.View.Overlay(OverlayPlates).Snapshot(true),
			s.View.Overlay(OverlayEarthquakes).Snapshot(true),
		},
	}
}
