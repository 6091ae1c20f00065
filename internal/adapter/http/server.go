package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/mapview"
	"github.com/couchcryptid/quake-map-service/internal/web"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the map page, the layer API, and health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	loader     *mapview.Loader
	order      string
	logger     *slog.Logger
}

// NewServer creates an HTTP server. Every page, layer, and session request builds
// its own map state; nothing loaded for one request is shared with another.
func NewServer(addr string, loader *mapview.Loader, order string, logger *slog.Logger) (*Server, error) {
	if err := config.ValidateLoadOrder(order); err != nil {
		return nil, err
	}
	static, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		loader: loader,
		order:  order,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /api/map", s.handleMap)
	mux.HandleFunc("GET /api/layers/{layer}", s.handleLayer)
	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(loader))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s, nil
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) mapConfig() mapview.Config {
	cfg := mapview.New().Config()
	cfg.LoadOrder = s.order
	return cfg
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.RenderPage(w, s.mapConfig()); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "page unavailable", http.StatusInternalServerError)
	}
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.mapConfig())
}

func (s *Server) handleLayer(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("layer")

	var load func(context.Context, *mapview.LayerGroup) error
	switch name {
	case domain.LayerEarthquakes:
		load = s.loader.LoadEarthquakes
	case domain.LayerPlates:
		load = s.loader.LoadPlates
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown layer %q", name)})
		return
	}

	bound, err := parseBBox(r.URL.Query().Get("bbox"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	group := mapview.NewLayerGroup(name)
	if err := load(r.Context(), group); err != nil {
		writeJSON(w, http.StatusBadGateway, group.Snapshot(false))
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(group.FeatureCollection(bound)) //nolint:errcheck // client may have gone away
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	session, err := mapview.NewSession(s.loader, s.order)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	session.Load(r.Context())
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// parseBBox parses "minLon,minLat,maxLon,maxLat". An empty value means no filter.
func parseBBox(raw string) (*orb.Bound, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, errors.New("bbox must be minLon,minLat,maxLon,maxLat")
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("bbox: invalid number %q", p)
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] {
		return nil, errors.New("bbox: min must not exceed max")
	}
	return &orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
