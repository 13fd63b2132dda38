// Package publish delivers computed trust reports to downstream consumers.
package publish

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/venuetrust/internal/trust"
)

// EventTypeScoreComputed identifies a freshly computed trust score.
const EventTypeScoreComputed = "trust_score.computed"

// Event is the envelope written to every sink.
type Event struct {
	EventID   string        `json:"event_id"`
	EventType string        `json:"event_type"`
	VenueID   string        `json:"venue_id"`
	Timestamp time.Time     `json:"timestamp"`
	Data      *trust.Report `json:"data"`
}

// NewEvent wraps a report. The timestamp is the report's evaluation time.
func NewEvent(r *trust.Report) Event {
	return Event{
		EventID:   uuid.NewString(),
		EventType: EventTypeScoreComputed,
		VenueID:   r.Venue.ID,
		Timestamp: r.Meta.Now,
		Data:      r,
	}
}

// Publisher sends trust reports to a sink.
type Publisher interface {
	Publish(ctx context.Context, r *trust.Report) error
	Name() string
	Close() error
}
