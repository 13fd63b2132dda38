package trust

import (
	"sort"
	"time"
)

// IncidentImpact weighs a single incident for ranking and display:
// severity (1/3/5), +2 if recent, +1 if moderator-verified, +1 if unresolved.
// It does not feed into the trust total.
func IncidentImpact(inc Incident, now time.Time) int {
	impact := inc.Severity.impactWeight()
	if IsRecent(inc.ReportedAt, now) {
		impact += 2
	}
	if inc.VerifiedByModerator {
		impact++
	}
	if !inc.IsResolved {
		impact++
	}
	return impact
}

// RankIncidents returns the incidents with their impact, highest impact first,
// then most recently reported. The input slice is not modified.
func RankIncidents(incidents []Incident, now time.Time) []RankedIncident {
	ranked := make([]RankedIncident, len(incidents))
	for i, inc := range incidents {
		ranked[i] = RankedIncident{Incident: inc, Impact: IncidentImpact(inc, now)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Impact != ranked[j].Impact {
			return ranked[i].Impact > ranked[j].Impact
		}
		return ranked[i].ReportedAt.After(ranked[j].ReportedAt)
	})
	return ranked
}
