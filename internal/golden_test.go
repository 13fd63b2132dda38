package internal

import (
	"math"
	"testing"
	"time"

	"github.com/dshills/venuetrust/internal/fixture"
	"github.com/dshills/venuetrust/internal/schema"
	"github.com/dshills/venuetrust/internal/trust"
)

type golden struct {
	score      trust.TrustScore
	reviews    trust.ReviewSummary
	incidents  trust.IncidentSummary
	topImpacts []int
}

var goldens = map[string]golden{
	"empty-venue": {
		score: trust.TrustScore{Level: trust.LevelUnverified},
	},
	"fresh-verified": {
		score: trust.TrustScore{ProfessionalScore: 38, CommunityScore: 35, FreshnessScore: 25, Total: 98, Level: trust.LevelVerified},
		reviews: trust.ReviewSummary{
			Count: 6, AvgRating: 4.0, AvgSafetyRating: 28.0 / 6, SafePercentage: 100, VerifiedReviewerCount: 1,
		},
	},
	"use-caution": {
		score: trust.TrustScore{ProfessionalScore: 15, CommunityScore: 12, FreshnessScore: 15, Total: 42, Level: trust.LevelUseCaution},
		reviews: trust.ReviewSummary{
			Count: 4, AvgRating: 4.0, AvgSafetyRating: 2.75, SafePercentage: 50, ReactionCount: 2,
		},
		incidents:  trust.IncidentSummary{Total: 1, RecentCount: 1, AvgSeverity: 1, HasRecentIssues: true},
		topImpacts: []int{3},
	},
	"incident-heavy": {
		score: trust.TrustScore{ProfessionalScore: 25, CommunityScore: 5, FreshnessScore: 25, Total: 55, Level: trust.LevelUseCaution},
		reviews: trust.ReviewSummary{
			Count: 5, AvgRating: 4.0, AvgSafetyRating: 4.6, SafePercentage: 100,
		},
		incidents:  trust.IncidentSummary{Total: 7, RecentCount: 6, UnresolvedCount: 3, AvgSeverity: 15.0 / 7, HasRecentIssues: true},
		topImpacts: []int{9, 8, 6, 6, 6, 4, 3},
	},
	"stale-listing": {
		score: trust.TrustScore{ProfessionalScore: 30, CommunityScore: 35, FreshnessScore: 0, Total: 65, Level: trust.LevelCommunitySafe},
		reviews: trust.ReviewSummary{
			Count: 3, AvgRating: 11.0 / 3, AvgSafetyRating: 14.0 / 3, SafePercentage: 100,
		},
	},
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGoldenFixtures(t *testing.T) {
	names, err := fixture.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != len(goldens) {
		t.Fatalf("fixture count %d does not match golden count %d", len(names), len(goldens))
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			want, ok := goldens[name]
			if !ok {
				t.Fatalf("no golden expectation for fixture %q", name)
			}
			f, err := fixture.LoadBuiltin(name)
			if err != nil {
				t.Fatal(err)
			}

			// Fixtures must be valid without clamping.
			for _, e := range schema.Validate(&f.Snapshot) {
				t.Errorf("validation error: %s", e)
			}

			now := trust.EvaluationTime(nil, f.Snapshot, trust.SystemClock{})
			rep := trust.BuildReport(f.Snapshot, now)

			if rep.Score != want.score {
				t.Errorf("score = %+v, want %+v", rep.Score, want.score)
			}
			if rep.Score.Total != rep.Score.ProfessionalScore+rep.Score.CommunityScore+rep.Score.FreshnessScore && rep.Score.Total != trust.MaxTotalScore {
				t.Errorf("total %d is not the capped sum of its parts", rep.Score.Total)
			}

			gotR, wantR := rep.Reviews, want.reviews
			if gotR.Count != wantR.Count || gotR.ReactionCount != wantR.ReactionCount ||
				gotR.VerifiedReviewerCount != wantR.VerifiedReviewerCount ||
				!approx(gotR.AvgRating, wantR.AvgRating) || !approx(gotR.AvgSafetyRating, wantR.AvgSafetyRating) ||
				!approx(gotR.SafePercentage, wantR.SafePercentage) {
				t.Errorf("review summary = %+v, want %+v", gotR, wantR)
			}

			gotI, wantI := rep.Incidents, want.incidents
			if gotI.Total != wantI.Total || gotI.RecentCount != wantI.RecentCount ||
				gotI.UnresolvedCount != wantI.UnresolvedCount || gotI.HasRecentIssues != wantI.HasRecentIssues ||
				!approx(gotI.AvgSeverity, wantI.AvgSeverity) {
				t.Errorf("incident summary = %+v, want %+v", gotI, wantI)
			}

			if len(rep.RankedIncidents) != len(want.topImpacts) {
				t.Fatalf("ranked incidents = %d, want %d", len(rep.RankedIncidents), len(want.topImpacts))
			}
			for i, ri := range rep.RankedIncidents {
				if ri.Impact != want.topImpacts[i] {
					t.Errorf("ranked[%d].impact = %d, want %d", i, ri.Impact, want.topImpacts[i])
				}
			}

			// Rescoring at the pinned time is idempotent.
			again := trust.ScoreSnapshot(f.Snapshot, now)
			if again != rep.Score {
				t.Errorf("rescoring changed result: %+v vs %+v", again, rep.Score)
			}
		})
	}
}

func TestGoldenIncidentHeavyTieBreak(t *testing.T) {
	f, err := fixture.LoadBuiltin("incident-heavy")
	if err != nil {
		t.Fatal(err)
	}
	ranked := trust.RankIncidents(f.Snapshot.Incidents, *f.Snapshot.AsOf)

	// Impact 6 is shared by three incidents; newer reports rank first.
	want := []time.Time{
		time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	for i, w := range want {
		got := ranked[2+i].ReportedAt
		if !got.Equal(w) {
			t.Errorf("ranked[%d].reported_at = %s, want %s", 2+i, got, w)
		}
	}
}
