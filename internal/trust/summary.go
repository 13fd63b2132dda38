package trust

import "time"

// SummarizeReviews derives counts and averages over reviews.
// An empty collection yields all zeros.
func SummarizeReviews(reviews []Review) ReviewSummary {
	if len(reviews) == 0 {
		return ReviewSummary{}
	}

	var foodSum, safetySum, safe, reactions, verified int
	for _, r := range reviews {
		foodSum += r.FoodRating
		safetySum += r.SafetyRating
		if r.HadReaction {
			reactions++
		} else {
			safe++
		}
		if r.IsVerifiedReviewer {
			verified++
		}
	}

	n := float64(len(reviews))
	return ReviewSummary{
		Count:                 len(reviews),
		AvgRating:             float64(foodSum) / n,
		AvgSafetyRating:       float64(safetySum) / n,
		SafePercentage:        float64(safe) / n * 100,
		ReactionCount:         reactions,
		VerifiedReviewerCount: verified,
	}
}

// SummarizeIncidents derives counts and the mean severity (mild=1, moderate=2,
// severe=3) over incidents. An empty collection yields all zeros.
func SummarizeIncidents(incidents []Incident, now time.Time) IncidentSummary {
	if len(incidents) == 0 {
		return IncidentSummary{}
	}

	var recent, unresolved, severitySum int
	for _, inc := range incidents {
		if IsRecent(inc.ReportedAt, now) {
			recent++
		}
		if !inc.IsResolved {
			unresolved++
		}
		severitySum += inc.Severity.summaryWeight()
	}

	return IncidentSummary{
		Total:           len(incidents),
		RecentCount:     recent,
		UnresolvedCount: unresolved,
		AvgSeverity:     float64(severitySum) / float64(len(incidents)),
		HasRecentIssues: recent > 0,
	}
}
