package schema

import (
	"fmt"

	"github.com/dshills/venuetrust/internal/trust"
)

// Normalize clamps out-of-range values produced upstream into their
// documented bounds and returns one warning per adjustment. It also fills
// an empty verification method with "none".
func Normalize(s *trust.Snapshot) []string {
	var warnings []string

	v := &s.Verification
	if clamped := clamp(v.ProfessionalScore, 0, trust.MaxProfessionalScore); clamped != v.ProfessionalScore {
		warnings = append(warnings, fmt.Sprintf("verification.professional_score %d clamped to %d", v.ProfessionalScore, clamped))
		v.ProfessionalScore = clamped
	}
	if v.VerificationMethod == "" {
		v.VerificationMethod = trust.MethodNone
	}

	for i := range s.Reviews {
		r := &s.Reviews[i]
		if clamped := clamp(r.SafetyRating, 1, 5); clamped != r.SafetyRating {
			warnings = append(warnings, fmt.Sprintf("reviews[%d].safety_rating %d clamped to %d", i, r.SafetyRating, clamped))
			r.SafetyRating = clamped
		}
		if clamped := clamp(r.FoodRating, 1, 5); clamped != r.FoodRating {
			warnings = append(warnings, fmt.Sprintf("reviews[%d].food_rating %d clamped to %d", i, r.FoodRating, clamped))
			r.FoodRating = clamped
		}
	}

	return warnings
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Prepare runs ingestion on a snapshot. In strict mode out-of-range values
// are reported as errors; otherwise they are clamped and reported as warnings.
func Prepare(s *trust.Snapshot, strict bool) (warnings []string, errs []ValidationError) {
	if strict {
		if errs = Validate(s); len(errs) > 0 {
			return nil, errs
		}
		if s.Verification.VerificationMethod == "" {
			s.Verification.VerificationMethod = trust.MethodNone
		}
		return nil, nil
	}
	warnings = Normalize(s)
	return warnings, Validate(s)
}
