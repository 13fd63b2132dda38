// Package redact replaces contact details in free-text report fields with
// [REDACTED] before a report leaves the process.
package redact

import (
	"regexp"

	"github.com/dshills/venuetrust/internal/trust"
)

const placeholder = "[REDACTED]"

var patterns []*regexp.Regexp

func init() {
	raw := []string{
		// E-mail addresses
		`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
		// Phone numbers: optional country code, 3-3-4 grouping
		`(?:\+\d{1,3}[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}\b`,
	}
	for _, r := range raw {
		patterns = append(patterns, regexp.MustCompile(r))
	}
}

// Redact replaces contact patterns in text with [REDACTED].
func Redact(text string) string {
	for _, p := range patterns {
		text = p.ReplaceAllString(text, placeholder)
	}
	return text
}

// Report redacts the free-text fields of a report in place.
func Report(r *trust.Report) {
	r.Venue.Name = Redact(r.Venue.Name)
	if r.Verification.VerifiedBy != nil {
		by := Redact(*r.Verification.VerifiedBy)
		r.Verification.VerifiedBy = &by
	}
}
