// Package api serves trust scoring over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/venuetrust/internal/publish"
	"github.com/dshills/venuetrust/internal/trust"
)

// SnapshotStore loads the stored snapshot of one venue.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, venueID string) (*trust.Snapshot, error)
}

// Server holds the collaborators shared by all handlers.
type Server struct {
	logger    *slog.Logger
	version   string
	clock     trust.Clock
	store     SnapshotStore
	publisher publish.Publisher
	redact    bool
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the store-backed venue endpoint.
func WithStore(s SnapshotStore) Option {
	return func(srv *Server) { srv.store = s }
}

// WithPublisher sends every store-backed report to p.
func WithPublisher(p publish.Publisher) Option {
	return func(srv *Server) { srv.publisher = p }
}

// WithClock overrides the clock used when a request does not pin now.
func WithClock(c trust.Clock) Option {
	return func(srv *Server) { srv.clock = c }
}

// WithRedaction toggles contact-detail redaction on outgoing reports.
func WithRedaction(on bool) Option {
	return func(srv *Server) { srv.redact = on }
}

// NewServer creates a server. Redaction is on and the clock is the system
// clock unless overridden.
func NewServer(logger *slog.Logger, version string, opts ...Option) *Server {
	s := &Server{
		logger:  logger,
		version: version,
		clock:   trust.SystemClock{},
		redact:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router creates a chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogging(s.logger))
	r.Use(prometheusMetrics)

	// Health and metrics
	r.Get("/health/live", s.handleLive)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(contentTypeJSON)

		r.Post("/trust-scores", s.handleScore)
		r.Post("/incidents/impact", s.handleIncidentImpact)
		r.Post("/incidents/summary", s.handleIncidentSummary)
		r.Post("/reviews/summary", s.handleReviewSummary)
		r.Get("/venues/{id}/trust-score", s.handleVenueScore)
	})

	return r
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
