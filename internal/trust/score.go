package trust

import "time"

const (
	MaxProfessionalScore = 40
	MaxCommunityScore    = 35
	MaxFreshnessScore    = 25
	MaxTotalScore        = 100
)

// ProfessionalScore forwards the externally supplied verification score.
// Bounds are enforced at ingestion, not here.
func ProfessionalScore(v VerificationRecord) int {
	return v.ProfessionalScore
}

// CommunityScore derives the 0-35 community portion from reviews and incidents.
// With no reviews the score is 0 regardless of incidents. Otherwise:
//
//	floor(safeRatio * 35 * weight - 5 * recentIncidents), clamped to [0, 35]
//
// where weight is 1.2 if any reviewer is verified and 1.0 otherwise.
// The formula is evaluated in integers (weight in tenths) so the floor is exact.
func CommunityScore(reviews []Review, incidents []Incident, now time.Time) int {
	if len(reviews) == 0 {
		return 0
	}

	safe := 0
	weightTenths := 10
	for _, r := range reviews {
		if !r.HadReaction {
			safe++
		}
		if r.IsVerifiedReviewer {
			weightTenths = 12
		}
	}

	recent := 0
	for _, inc := range incidents {
		if IsRecent(inc.ReportedAt, now) {
			recent++
		}
	}

	// base - penalty, scaled by 10*len(reviews)
	den := 10 * len(reviews)
	num := safe*MaxCommunityScore*weightTenths - recent*5*den
	if num <= 0 {
		return 0
	}
	score := num / den
	if score > MaxCommunityScore {
		score = MaxCommunityScore
	}
	return score
}

// Aggregate sums the three sub-scores and caps the result at 100.
func Aggregate(professional, community, freshness int) int {
	total := professional + community + freshness
	if total > MaxTotalScore {
		total = MaxTotalScore
	}
	return total
}

// ComputeTrustScore scores one venue from its verification record, reviews,
// incidents and venue activity, evaluated at now. A venue with no rating
// evidence at all is unrated and scores zero; its creation time alone does
// not earn freshness.
func ComputeTrustScore(v VerificationRecord, reviews []Review, incidents []Incident, venue Venue, now time.Time) TrustScore {
	if !HasEvidence(v, reviews, incidents, venue) {
		return TrustScore{Level: LevelUnverified}
	}
	professional := ProfessionalScore(v)
	community := CommunityScore(reviews, incidents, now)
	freshness := FreshnessScore(LastActivity(ActivityOf(v, reviews, venue)), now)
	total := Aggregate(professional, community, freshness)
	return TrustScore{
		ProfessionalScore: professional,
		CommunityScore:    community,
		FreshnessScore:    freshness,
		Total:             total,
		Level:             LevelFor(total),
	}
}

// HasEvidence reports whether anything beyond the venue's existence can be rated:
// a professional score or verification date, reviews, incidents, or a check-in.
func HasEvidence(v VerificationRecord, reviews []Review, incidents []Incident, venue Venue) bool {
	return v.ProfessionalScore > 0 || v.LastVerifiedAt != nil ||
		len(reviews) > 0 || len(incidents) > 0 || venue.LastCheckIn != nil
}

// ScoreSnapshot is ComputeTrustScore over a Snapshot.
func ScoreSnapshot(s Snapshot, now time.Time) TrustScore {
	return ComputeTrustScore(s.Verification, s.Reviews, s.Incidents, s.Venue, now)
}
