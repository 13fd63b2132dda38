package synth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/venuetrust/internal/schema"
	"github.com/dshills/venuetrust/internal/trust"
)

var now = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func TestVenueIsValid(t *testing.T) {
	g := New(42)
	for i, s := range g.Batch(200, now) {
		errs := schema.Validate(&s)
		require.Empty(t, errs, "snapshot %d invalid: %v", i, errs)

		assert.NotEmpty(t, s.Venue.ID)
		assert.NotEmpty(t, s.Venue.Name)
		require.NotNil(t, s.AsOf)
		assert.True(t, s.AsOf.Equal(now))
		assert.LessOrEqual(t, len(s.Reviews), maxReviews)
		assert.LessOrEqual(t, len(s.Incidents), maxIncidents)

		for _, r := range s.Reviews {
			assert.False(t, r.CreatedAt.Before(s.Venue.CreatedAt), "review predates venue")
			assert.False(t, r.CreatedAt.After(now), "review in the future")
		}
		for _, inc := range s.Incidents {
			assert.True(t, inc.Severity.Valid())
			assert.False(t, inc.ReportedAt.After(now), "incident in the future")
		}
		if v := s.Verification; v.LastVerifiedAt != nil {
			assert.GreaterOrEqual(t, v.ProfessionalScore, 10)
			assert.NotEqual(t, trust.MethodNone, v.VerificationMethod)
		} else {
			assert.Equal(t, trust.VerificationRecord{VerificationMethod: trust.MethodNone}, v)
		}
	}
}

func TestSameSeedSameContent(t *testing.T) {
	a := New(7).Batch(25, now)
	b := New(7).Batch(25, now)
	require.Len(t, b, len(a))

	for i := range a {
		assert.NotEqual(t, a[i].Venue.ID, b[i].Venue.ID, "venue IDs are unique per run")
		a[i].Venue.ID, b[i].Venue.ID = "", ""
		assert.Equal(t, a[i], b[i], "snapshot %d differs", i)
		assert.Equal(t, trust.ScoreSnapshot(a[i], now), trust.ScoreSnapshot(b[i], now))
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := New(1).Venue(now)
	b := New(2).Venue(now)
	a.Venue.ID, b.Venue.ID = "", ""
	assert.NotEqual(t, a, b)
}

func TestBatchCoversLevels(t *testing.T) {
	levels := map[trust.TrustLevel]int{}
	for _, s := range New(99).Batch(300, now) {
		levels[trust.ScoreSnapshot(s, now).Level]++
	}
	// A realistic spread reaches at least three of the four levels.
	assert.GreaterOrEqual(t, len(levels), 3, "levels: %v", levels)
}

func TestBetween(t *testing.T) {
	g := New(3)
	lo := now.AddDate(0, 0, -1)
	for i := 0; i < 100; i++ {
		got := g.between(lo, now)
		assert.False(t, got.Before(lo))
		assert.False(t, got.After(now))
	}
	assert.Equal(t, now, g.between(now, now))
	assert.Equal(t, now, g.between(now, lo), "inverted range returns lo")
}
