package internal

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dshills/venuetrust/internal/publish"
	"github.com/dshills/venuetrust/internal/schema"
	"github.com/dshills/venuetrust/internal/store"
	"github.com/dshills/venuetrust/internal/synth"
	"github.com/dshills/venuetrust/internal/trust"
)

// skipUnlessIntegration skips the test unless VENUETRUST_INTEGRATION=1.
func skipUnlessIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("VENUETRUST_INTEGRATION") != "1" {
		t.Skip("skipping integration test (set VENUETRUST_INTEGRATION=1 to run)")
	}
}

// requireEnv returns the named variable or skips the test.
func requireEnv(t *testing.T, name string) string {
	t.Helper()
	v := os.Getenv(name)
	if v == "" {
		t.Skipf("%s not set", name)
	}
	return v
}

const integrationDDL = `
CREATE TABLE IF NOT EXISTS venues (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	last_check_in TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS venue_verifications (
	venue_id            TEXT PRIMARY KEY REFERENCES venues(id) ON DELETE CASCADE,
	professional_score  INT NOT NULL,
	verification_method TEXT NOT NULL,
	verified_by         TEXT,
	last_verified_at    TIMESTAMPTZ,
	has_owner_response  BOOLEAN NOT NULL DEFAULT FALSE,
	owner_response_date TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS reviews (
	venue_id             TEXT NOT NULL REFERENCES venues(id) ON DELETE CASCADE,
	safety_rating        INT NOT NULL,
	food_rating          INT NOT NULL,
	had_reaction         BOOLEAN NOT NULL,
	is_verified_reviewer BOOLEAN NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS incidents (
	venue_id              TEXT NOT NULL REFERENCES venues(id) ON DELETE CASCADE,
	severity              TEXT NOT NULL,
	reported_at           TIMESTAMPTZ NOT NULL,
	is_resolved           BOOLEAN NOT NULL,
	verified_by_moderator BOOLEAN NOT NULL
);`

// seedVenue writes one snapshot through plain inserts.
func seedVenue(t *testing.T, ctx context.Context, pool *pgxpool.Pool, s trust.Snapshot) {
	t.Helper()
	v := s.Venue
	if _, err := pool.Exec(ctx,
		`INSERT INTO venues (id, name, created_at, last_check_in) VALUES ($1, $2, $3, $4)`,
		v.ID, v.Name, v.CreatedAt, v.LastCheckIn); err != nil {
		t.Fatalf("insert venue: %v", err)
	}
	if vr := s.Verification; vr.VerificationMethod != trust.MethodNone {
		if _, err := pool.Exec(ctx,
			`INSERT INTO venue_verifications VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			v.ID, vr.ProfessionalScore, string(vr.VerificationMethod), vr.VerifiedBy,
			vr.LastVerifiedAt, vr.HasOwnerResponse, vr.OwnerResponseDate); err != nil {
			t.Fatalf("insert verification: %v", err)
		}
	}
	for _, r := range s.Reviews {
		if _, err := pool.Exec(ctx,
			`INSERT INTO reviews VALUES ($1, $2, $3, $4, $5, $6)`,
			v.ID, r.SafetyRating, r.FoodRating, r.HadReaction, r.IsVerifiedReviewer, r.CreatedAt); err != nil {
			t.Fatalf("insert review: %v", err)
		}
	}
	for _, inc := range s.Incidents {
		if _, err := pool.Exec(ctx,
			`INSERT INTO incidents VALUES ($1, $2, $3, $4, $5)`,
			v.ID, string(inc.Severity), inc.ReportedAt, inc.IsResolved, inc.VerifiedByModerator); err != nil {
			t.Fatalf("insert incident: %v", err)
		}
	}
}

func TestIntegrationStoreRoundTrip(t *testing.T) {
	skipUnlessIntegration(t)
	url := requireEnv(t, "VENUETRUST_DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := store.Connect(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, integrationDDL); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	venues := synth.New(time.Now().UnixNano()).Batch(10, now)

	var ids []string
	for _, s := range venues {
		seedVenue(t, ctx, pool, s)
		ids = append(ids, s.Venue.ID)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM venues WHERE id = ANY($1)`, ids)
	})

	repo := store.NewRepository(pool)
	for _, want := range venues {
		got, err := repo.LoadSnapshot(ctx, want.Venue.ID)
		if err != nil {
			t.Fatalf("load %s: %v", want.Venue.ID, err)
		}
		if errs := schema.Validate(got); len(errs) > 0 {
			t.Errorf("%s: stored snapshot invalid: %v", want.Venue.ID, errs)
		}
		if len(got.Reviews) != len(want.Reviews) || len(got.Incidents) != len(want.Incidents) {
			t.Errorf("%s: loaded %d reviews/%d incidents, want %d/%d", want.Venue.ID,
				len(got.Reviews), len(got.Incidents), len(want.Reviews), len(want.Incidents))
		}

		// Scores are independent of row order and time zone.
		gotScore := trust.ScoreSnapshot(*got, now)
		wantScore := trust.ScoreSnapshot(want, now)
		if gotScore != wantScore {
			t.Errorf("%s: score after round trip = %+v, want %+v", want.Venue.ID, gotScore, wantScore)
		}
		t.Logf("%s: total=%d level=%s", want.Venue.ID, gotScore.Total, gotScore.Level)
	}

	if _, err := repo.LoadSnapshot(ctx, "venue-that-does-not-exist"); err == nil {
		t.Error("expected not-found error")
	}
}

func TestIntegrationKafkaPublish(t *testing.T) {
	skipUnlessIntegration(t)
	brokers := strings.Split(requireEnv(t, "VENUETRUST_KAFKA_BROKERS"), ",")

	pub, err := publish.NewKafka(brokers, "venuetrust-integration")
	if err != nil {
		t.Fatalf("connect kafka: %v", err)
	}
	defer pub.Close()

	now := time.Now().UTC()
	for _, s := range synth.New(1).Batch(3, now) {
		rep := trust.BuildReport(s, now)
		rep.Tool = trust.ToolName
		if err := pub.Publish(context.Background(), &rep); err != nil {
			t.Fatalf("publish %s: %v", s.Venue.ID, err)
		}
	}
}
