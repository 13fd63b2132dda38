package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dshills/venuetrust/internal/logging"
	"github.com/dshills/venuetrust/internal/redact"
	"github.com/dshills/venuetrust/internal/schema"
	"github.com/dshills/venuetrust/internal/store"
	"github.com/dshills/venuetrust/internal/trust"
)

// --- Request DTOs ---

// ScoreRequest is the JSON request body for scoring an inline snapshot.
// The snapshot goes through schema.Prepare rather than tag validation.
type ScoreRequest struct {
	Snapshot trust.Snapshot `json:"snapshot" validate:"-"`
	Now      *time.Time     `json:"now" validate:"required"`
	Strict   bool           `json:"strict"`
}

// ImpactRequest is the JSON request body for weighing one incident.
type ImpactRequest struct {
	Incident trust.Incident `json:"incident"`
	Now      *time.Time     `json:"now" validate:"required"`
}

// ImpactResponse carries a single incident's impact.
type ImpactResponse struct {
	Impact int  `json:"impact"`
	Recent bool `json:"recent"`
}

// ReviewSummaryRequest is the JSON request body for summarizing reviews.
type ReviewSummaryRequest struct {
	Reviews []trust.Review `json:"reviews" validate:"dive"`
}

// IncidentSummaryRequest is the JSON request body for summarizing incidents.
type IncidentSummaryRequest struct {
	Incidents []trust.Incident `json:"incidents" validate:"dive"`
	Now       *time.Time       `json:"now" validate:"required"`
}

// --- Handlers ---

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !decode(w, r, &req) {
		return
	}
	warnings, errs := schema.Prepare(&req.Snapshot, req.Strict)
	if len(errs) > 0 {
		writeValidation(w, r, http.StatusUnprocessableEntity, errs)
		return
	}
	rep := s.buildReport(req.Snapshot, *req.Now, trust.Input{Source: "api", Strict: req.Strict}, warnings)
	writeData(w, rep)
}

func (s *Server) handleIncidentImpact(w http.ResponseWriter, r *http.Request) {
	var req ImpactRequest
	if !decode(w, r, &req) {
		return
	}
	writeData(w, ImpactResponse{
		Impact: trust.IncidentImpact(req.Incident, *req.Now),
		Recent: trust.IsRecent(req.Incident.ReportedAt, *req.Now),
	})
}

func (s *Server) handleReviewSummary(w http.ResponseWriter, r *http.Request) {
	var req ReviewSummaryRequest
	if !decode(w, r, &req) {
		return
	}
	writeData(w, trust.SummarizeReviews(req.Reviews))
}

func (s *Server) handleIncidentSummary(w http.ResponseWriter, r *http.Request) {
	var req IncidentSummaryRequest
	if !decode(w, r, &req) {
		return
	}
	writeData(w, trust.SummarizeIncidents(req.Incidents, *req.Now))
}

func (s *Server) handleVenueScore(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, r, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "no snapshot store configured")
		return
	}

	now := s.clock.Now()
	if q := r.URL.Query().Get("now"); q != "" {
		t, err := time.Parse(time.RFC3339, q)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "now must be an RFC 3339 timestamp")
			return
		}
		now = t
	}

	id := chi.URLParam(r, "id")
	snap, err := s.store.LoadSnapshot(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrVenueNotFound) {
			writeError(w, r, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("venue %q not found", id))
			return
		}
		writeInternal(w, r, err)
		return
	}

	warnings, errs := schema.Prepare(snap, false)
	if len(errs) > 0 {
		writeInternal(w, r, fmt.Errorf("stored snapshot for %q is invalid: %s", id, errs[0]))
		return
	}

	rep := s.buildReport(*snap, now, trust.Input{Source: "store:" + id}, warnings)
	if s.publisher != nil {
		if err := s.publisher.Publish(r.Context(), rep); err != nil {
			publishFailuresTotal.WithLabelValues(s.publisher.Name()).Inc()
			logging.FromContext(r.Context()).WarnContext(r.Context(), "publish failed",
				slog.String("sink", s.publisher.Name()),
				slog.String("venue_id", id),
				slog.String("error", err.Error()),
			)
		}
	}
	writeData(w, rep)
}

func (s *Server) buildReport(snap trust.Snapshot, now time.Time, in trust.Input, warnings []string) *trust.Report {
	rep := trust.BuildReport(snap, now)
	rep.Tool = trust.ToolName
	rep.Version = s.version
	rep.Input = in
	rep.Meta.Warnings = warnings
	if s.redact {
		redact.Report(&rep)
	}
	trustScoresTotal.WithLabelValues(string(rep.Score.Level)).Inc()
	return &rep
}
