package trust

import "time"

// Activity gathers the timestamps that count as venue activity.
type Activity struct {
	LastVerifiedAt     *time.Time
	MostRecentReviewAt *time.Time
	LastCheckIn        *time.Time
	VenueCreatedAt     time.Time
}

// ActivityOf extracts the activity signals from a verification record,
// a review collection and the venue itself.
func ActivityOf(v VerificationRecord, reviews []Review, venue Venue) Activity {
	return Activity{
		LastVerifiedAt:     v.LastVerifiedAt,
		MostRecentReviewAt: MostRecentReview(reviews),
		LastCheckIn:        venue.LastCheckIn,
		VenueCreatedAt:     venue.CreatedAt,
	}
}

// MostRecentReview returns the latest review creation time, or nil if there are no reviews.
func MostRecentReview(reviews []Review) *time.Time {
	var latest *time.Time
	for i := range reviews {
		t := reviews[i].CreatedAt
		if latest == nil || t.After(*latest) {
			latest = &t
		}
	}
	return latest
}

// LastActivity is the latest of the present activity signals, falling back
// to the venue creation time when none is present.
func LastActivity(a Activity) time.Time {
	var latest *time.Time
	for _, t := range []*time.Time{a.LastVerifiedAt, a.MostRecentReviewAt, a.LastCheckIn} {
		if t == nil {
			continue
		}
		if latest == nil || t.After(*latest) {
			latest = t
		}
	}
	if latest == nil {
		return a.VenueCreatedAt
	}
	return *latest
}

// DaysSince returns the whole days elapsed from t to now. Times in the
// future count as 0 days.
func DaysSince(t, now time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// freshnessTiers maps an upper bound on days since activity to a score.
var freshnessTiers = []struct {
	maxDays int
	score   int
}{
	{7, 25},
	{30, 20},
	{90, 15},
	{180, 10},
	{365, 5},
}

// FreshnessScore converts the age of the last activity into the 0-25 freshness portion.
func FreshnessScore(lastActivity, now time.Time) int {
	days := DaysSince(lastActivity, now)
	for _, tier := range freshnessTiers {
		if days <= tier.maxDays {
			return tier.score
		}
	}
	return 0
}
