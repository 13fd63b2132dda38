package trust

import "time"

// ToolName is recorded in every report.
const ToolName = "venuetrust"

// BuildReport scores a snapshot and bundles the result with its review and
// incident summaries. Tool, Version and Input are left for the caller.
func BuildReport(s Snapshot, now time.Time) Report {
	return Report{
		Venue:           s.Venue,
		Verification:    s.Verification,
		Score:           ScoreSnapshot(s, now),
		Reviews:         SummarizeReviews(s.Reviews),
		Incidents:       SummarizeIncidents(s.Incidents, now),
		RankedIncidents: RankIncidents(s.Incidents, now),
		Meta: Meta{
			Now:               now,
			LastActivity:      LastActivity(ActivityOf(s.Verification, s.Reviews, s.Venue)),
			RecencyWindowDays: RecencyWindowDays,
		},
	}
}

// EvaluationTime picks the instant a snapshot is scored at: an explicit
// override first, then the snapshot's pinned AsOf, then the clock.
func EvaluationTime(override *time.Time, s Snapshot, clock Clock) time.Time {
	switch {
	case override != nil:
		return *override
	case s.AsOf != nil:
		return *s.AsOf
	default:
		return clock.Now()
	}
}
