// Package render produces Markdown output from a trust report.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/venuetrust/internal/trust"
)

const dateFormat = "2006-01-02"

// Markdown renders a report as a Markdown document.
func Markdown(r *trust.Report) string {
	var b strings.Builder

	title := r.Venue.Name
	if title == "" {
		title = r.Venue.ID
	}
	fmt.Fprintf(&b, "# Trust Report: %s\n\n", title)
	fmt.Fprintf(&b, "**Level:** %s (%s)\n", r.Score.Level.Label(), r.Score.Level)
	fmt.Fprintf(&b, "**Score:** %d / %d\n", r.Score.Total, trust.MaxTotalScore)
	fmt.Fprintf(&b, "**Evaluated:** %s\n\n", r.Meta.Now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "%s\n\n", r.Score.Level.Description())

	// Breakdown
	b.WriteString("## Score Breakdown\n\n")
	b.WriteString("| Component | Score | Max |\n")
	b.WriteString("|---|---:|---:|\n")
	fmt.Fprintf(&b, "| Professional | %d | %d |\n", r.Score.ProfessionalScore, trust.MaxProfessionalScore)
	fmt.Fprintf(&b, "| Community | %d | %d |\n", r.Score.CommunityScore, trust.MaxCommunityScore)
	fmt.Fprintf(&b, "| Freshness | %d | %d |\n\n", r.Score.FreshnessScore, trust.MaxFreshnessScore)

	// Verification
	b.WriteString("## Verification\n\n")
	v := r.Verification
	method := v.VerificationMethod
	if method == "" {
		method = trust.MethodNone
	}
	fmt.Fprintf(&b, "- Method: %s\n", method)
	if v.VerifiedBy != nil {
		fmt.Fprintf(&b, "- Verified by: %s\n", *v.VerifiedBy)
	}
	if v.LastVerifiedAt != nil {
		fmt.Fprintf(&b, "- Last verified: %s\n", v.LastVerifiedAt.Format(dateFormat))
	}
	if v.HasOwnerResponse {
		b.WriteString("- Owner has responded")
		if v.OwnerResponseDate != nil {
			fmt.Fprintf(&b, " (%s)", v.OwnerResponseDate.Format(dateFormat))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "- Last activity: %s\n\n", r.Meta.LastActivity.Format(dateFormat))

	// Reviews
	b.WriteString("## Reviews\n\n")
	if r.Reviews.Count == 0 {
		b.WriteString("No reviews yet.\n\n")
	} else {
		rs := r.Reviews
		fmt.Fprintf(&b, "- Count: %d (%d from verified reviewers)\n", rs.Count, rs.VerifiedReviewerCount)
		fmt.Fprintf(&b, "- Average rating: %.1f\n", rs.AvgRating)
		fmt.Fprintf(&b, "- Average safety rating: %.1f\n", rs.AvgSafetyRating)
		fmt.Fprintf(&b, "- Safe experiences: %.0f%%\n", rs.SafePercentage)
		fmt.Fprintf(&b, "- Reactions reported: %d\n\n", rs.ReactionCount)
	}

	// Incidents
	b.WriteString("## Incidents\n\n")
	if r.Incidents.Total == 0 {
		b.WriteString("No incidents reported.\n\n")
	} else {
		is := r.Incidents
		fmt.Fprintf(&b, "- Total: %d (%d in the last %d days)\n", is.Total, is.RecentCount, r.Meta.RecencyWindowDays)
		fmt.Fprintf(&b, "- Unresolved: %d\n", is.UnresolvedCount)
		fmt.Fprintf(&b, "- Average severity: %.2f\n\n", is.AvgSeverity)
		if len(r.RankedIncidents) > 0 {
			b.WriteString("| Reported | Severity | Status | Moderator | Impact |\n")
			b.WriteString("|---|---|---|---|---:|\n")
			for _, ri := range r.RankedIncidents {
				renderIncident(&b, ri)
			}
			b.WriteString("\n")
		}
	}

	// Warnings
	if len(r.Meta.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range r.Meta.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	// Source
	if r.Input.Source != "" {
		b.WriteString("## Source\n\n")
		fmt.Fprintf(&b, "- %s", r.Input.Source)
		if r.Input.SnapshotHash != "" {
			fmt.Fprintf(&b, " (%s)", r.Input.SnapshotHash)
		}
		b.WriteString("\n\n")
	}

	return b.String()
}

func renderIncident(b *strings.Builder, ri trust.RankedIncident) {
	status := "resolved"
	if !ri.IsResolved {
		status = "open"
	}
	moderator := "no"
	if ri.VerifiedByModerator {
		moderator = "yes"
	}
	fmt.Fprintf(b, "| %s | %s | %s | %s | %d |\n",
		ri.ReportedAt.Format(dateFormat), ri.Severity, status, moderator, ri.Impact)
}
