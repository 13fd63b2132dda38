// Package store loads venue snapshots from PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dshills/venuetrust/internal/trust"
)

// ErrVenueNotFound is returned when no venue row matches the requested ID.
var ErrVenueNotFound = errors.New("venue not found")

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// snapshotTxOptions gives every read in LoadSnapshot the same view of the data.
var snapshotTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// Repository reads venue, verification, review and incident rows.
type Repository struct {
	db DB
}

// NewRepository creates a PostgreSQL-backed snapshot repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store.Connect: parse config: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store.Connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store.Connect: ping: %w", err)
	}
	return pool, nil
}

// LoadSnapshot reads everything the engine needs for one venue in a single
// read-only transaction. A venue without a verification row gets a zero
// record with method "none".
func (r *Repository) LoadSnapshot(ctx context.Context, venueID string) (*trust.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, snapshotTxOptions)
	if err != nil {
		return nil, fmt.Errorf("store.LoadSnapshot: begin: %w", err)
	}

	s, err := loadSnapshot(ctx, tx, venueID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("store.LoadSnapshot: commit: %w", err)
	}
	return s, nil
}

func loadSnapshot(ctx context.Context, tx pgx.Tx, venueID string) (*trust.Snapshot, error) {
	venue, err := scanVenue(ctx, tx, venueID)
	if err != nil {
		return nil, err
	}
	verification, err := scanVerification(ctx, tx, venueID)
	if err != nil {
		return nil, err
	}
	reviews, err := queryReviews(ctx, tx, venueID)
	if err != nil {
		return nil, err
	}
	incidents, err := queryIncidents(ctx, tx, venueID)
	if err != nil {
		return nil, err
	}
	return &trust.Snapshot{
		Venue:        *venue,
		Verification: *verification,
		Reviews:      reviews,
		Incidents:    incidents,
	}, nil
}

func scanVenue(ctx context.Context, tx pgx.Tx, venueID string) (*trust.Venue, error) {
	query := `
		SELECT id, name, created_at, last_check_in
		FROM venues
		WHERE id = $1`

	var v trust.Venue
	err := tx.QueryRow(ctx, query, venueID).Scan(&v.ID, &v.Name, &v.CreatedAt, &v.LastCheckIn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("store.LoadSnapshot: %q: %w", venueID, ErrVenueNotFound)
		}
		return nil, fmt.Errorf("scan venue: %w", err)
	}
	return &v, nil
}

func scanVerification(ctx context.Context, tx pgx.Tx, venueID string) (*trust.VerificationRecord, error) {
	query := `
		SELECT professional_score, verification_method, verified_by,
			   last_verified_at, has_owner_response, owner_response_date
		FROM venue_verifications
		WHERE venue_id = $1`

	var (
		v      trust.VerificationRecord
		method string
	)
	err := tx.QueryRow(ctx, query, venueID).Scan(
		&v.ProfessionalScore,
		&method,
		&v.VerifiedBy,
		&v.LastVerifiedAt,
		&v.HasOwnerResponse,
		&v.OwnerResponseDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &trust.VerificationRecord{VerificationMethod: trust.MethodNone}, nil
		}
		return nil, fmt.Errorf("scan verification: %w", err)
	}
	v.VerificationMethod = trust.VerificationMethod(method)
	return &v, nil
}

func queryReviews(ctx context.Context, tx pgx.Tx, venueID string) ([]trust.Review, error) {
	query := `
		SELECT safety_rating, food_rating, had_reaction, is_verified_reviewer, created_at
		FROM reviews
		WHERE venue_id = $1
		ORDER BY created_at DESC`

	rows, err := tx.Query(ctx, query, venueID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []trust.Review{}
	for rows.Next() {
		var rv trust.Review
		if err := rows.Scan(&rv.SafetyRating, &rv.FoodRating, &rv.HadReaction, &rv.IsVerifiedReviewer, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

func queryIncidents(ctx context.Context, tx pgx.Tx, venueID string) ([]trust.Incident, error) {
	query := `
		SELECT severity, reported_at, is_resolved, verified_by_moderator
		FROM incidents
		WHERE venue_id = $1
		ORDER BY reported_at DESC`

	rows, err := tx.Query(ctx, query, venueID)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}
	defer rows.Close()

	incidents := []trust.Incident{}
	for rows.Next() {
		var (
			inc      trust.Incident
			severity string
		)
		if err := rows.Scan(&severity, &inc.ReportedAt, &inc.IsResolved, &inc.VerifiedByModerator); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		inc.Severity = trust.Severity(severity)
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incidents: %w", err)
	}
	return incidents, nil
}
