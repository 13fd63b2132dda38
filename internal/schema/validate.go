// Package schema validates and normalizes venue snapshots at ingestion.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dshills/venuetrust/internal/trust"
)

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so paths match the wire format.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a snapshot for structural validity.
func Validate(s *trust.Snapshot) []ValidationError {
	errs := Struct(s)

	if s.Venue.LastCheckIn != nil && s.Venue.LastCheckIn.Before(s.Venue.CreatedAt) {
		errs = append(errs, ValidationError{"venue.last_check_in", "must not precede venue.created_at"})
	}
	v := s.Verification
	if v.HasOwnerResponse && v.OwnerResponseDate == nil {
		errs = append(errs, ValidationError{"verification.owner_response_date", "required when has_owner_response is true"})
	}
	return errs
}

// Struct runs tag validation on any value and converts failures into
// ValidationErrors keyed by JSON path.
func Struct(x any) []ValidationError {
	err := validate.Struct(x)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Path: "", Message: err.Error()}}
	}
	errs := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{Path: fieldPath(fe), Message: msgForTag(fe)})
	}
	return errs
}

// fieldPath strips the root type name from a validator namespace:
// "Snapshot.reviews[2].safety_rating" becomes "reviews[2].safety_rating".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of: %s, got %q", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed on %q validation", fe.Tag())
	}
}
