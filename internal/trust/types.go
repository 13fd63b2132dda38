// Package trust computes venue safety trust scores from a snapshot of
// verification, review and incident data.
package trust

import "time"

// VerificationRecord is the outcome of the external verification workflow.
type VerificationRecord struct {
	ProfessionalScore  int                `json:"professional_score" yaml:"professional_score" validate:"gte=0,lte=40"`
	VerificationMethod VerificationMethod `json:"verification_method,omitempty" yaml:"verification_method,omitempty" validate:"omitempty,oneof=none owner_attested community health_inspection third_party_audit"`
	VerifiedBy         *string            `json:"verified_by,omitempty" yaml:"verified_by,omitempty"`
	LastVerifiedAt     *time.Time         `json:"last_verified_at,omitempty" yaml:"last_verified_at,omitempty"`
	HasOwnerResponse   bool               `json:"has_owner_response" yaml:"has_owner_response"`
	OwnerResponseDate  *time.Time         `json:"owner_response_date,omitempty" yaml:"owner_response_date,omitempty"`
}

// Review is a single diner's report about a venue.
type Review struct {
	SafetyRating       int       `json:"safety_rating" yaml:"safety_rating" validate:"gte=1,lte=5"`
	FoodRating         int       `json:"food_rating" yaml:"food_rating" validate:"gte=1,lte=5"`
	HadReaction        bool      `json:"had_reaction" yaml:"had_reaction"`
	IsVerifiedReviewer bool      `json:"is_verified_reviewer" yaml:"is_verified_reviewer"`
	CreatedAt          time.Time `json:"created_at" yaml:"created_at" validate:"required"`
}

// Incident is a reported safety or cross-contamination event.
type Incident struct {
	Severity            Severity  `json:"severity" yaml:"severity" validate:"required,oneof=mild moderate severe"`
	ReportedAt          time.Time `json:"reported_at" yaml:"reported_at" validate:"required"`
	IsResolved          bool      `json:"is_resolved" yaml:"is_resolved"`
	VerifiedByModerator bool      `json:"verified_by_moderator" yaml:"verified_by_moderator"`
}

// Venue carries the identity and activity fields of the rated venue.
type Venue struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at" validate:"required"`
	LastCheckIn *time.Time `json:"last_check_in,omitempty" yaml:"last_check_in,omitempty"`
}

// Snapshot is a consistent view of everything the engine needs for one venue.
// AsOf optionally pins the evaluation time so a stored snapshot rescores identically.
type Snapshot struct {
	Venue        Venue              `json:"venue" yaml:"venue"`
	Verification VerificationRecord `json:"verification" yaml:"verification"`
	Reviews      []Review           `json:"reviews" yaml:"reviews" validate:"dive"`
	Incidents    []Incident         `json:"incidents" yaml:"incidents" validate:"dive"`
	AsOf         *time.Time         `json:"as_of,omitempty" yaml:"as_of,omitempty"`
}

// TrustScore is the derived rating. It is never a source of truth and is
// always recomputable from a snapshot.
type TrustScore struct {
	ProfessionalScore int        `json:"professional_score"`
	CommunityScore    int        `json:"community_score"`
	FreshnessScore    int        `json:"freshness_score"`
	Total             int        `json:"total"`
	Level             TrustLevel `json:"level"`
}

// ReviewSummary holds aggregate statistics over a review collection.
type ReviewSummary struct {
	Count                 int     `json:"count"`
	AvgRating             float64 `json:"avg_rating"`
	AvgSafetyRating       float64 `json:"avg_safety_rating"`
	SafePercentage        float64 `json:"safe_percentage"`
	ReactionCount         int     `json:"reaction_count"`
	VerifiedReviewerCount int     `json:"verified_reviewer_count"`
}

// IncidentSummary holds aggregate statistics over an incident collection.
type IncidentSummary struct {
	Total           int     `json:"total"`
	RecentCount     int     `json:"recent_count"`
	UnresolvedCount int     `json:"unresolved_count"`
	AvgSeverity     float64 `json:"avg_severity"`
	HasRecentIssues bool    `json:"has_recent_issues"`
}

// RankedIncident pairs an incident with its computed impact.
type RankedIncident struct {
	Incident
	Impact int `json:"impact"`
}

// Report is the top-level output object for one scored venue.
type Report struct {
	Tool            string             `json:"tool"`
	Version         string             `json:"version"`
	Input           Input              `json:"input"`
	Venue           Venue              `json:"venue"`
	Verification    VerificationRecord `json:"verification"`
	Score           TrustScore         `json:"score"`
	Reviews         ReviewSummary      `json:"reviews"`
	Incidents       IncidentSummary    `json:"incidents"`
	RankedIncidents []RankedIncident   `json:"ranked_incidents,omitempty"`
	Meta            Meta               `json:"meta"`
}

// Input describes where the scored snapshot came from.
type Input struct {
	Source       string `json:"source,omitempty"`
	SnapshotHash string `json:"snapshot_hash,omitempty"`
	Strict       bool   `json:"strict"`
}

// Meta records the evaluation parameters that make a report reproducible.
type Meta struct {
	Now               time.Time `json:"now"`
	LastActivity      time.Time `json:"last_activity"`
	RecencyWindowDays int       `json:"recency_window_days"`
	Warnings          []string  `json:"warnings,omitempty"`
}
