package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct checks v against its `validate` tags and reports the first
// failure as a *ValidationError named after the offending field.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return fmt.Errorf("validate: %w", err)
	}
	fe := fields[0]
	return &ValidationError{
		Field:  fieldPath(fe.Namespace()),
		Value:  fe.Value(),
		Reason: reason(fe),
	}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "ltefield":
		return "must not exceed " + snake(fe.Param())
	case "datetime":
		return "expected YYYY-MM-DD"
	default:
		return "failed " + fe.Tag()
	}
}

// fieldPath drops the root struct name from a validator namespace and
// snake-cases the rest: Completion.TimeStudiedSeconds -> time_studied_seconds.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	return snake(ns)
}

func snake(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			if prevLower {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
			prevLower = false
		} else {
			prevLower = r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		}
		b.WriteRune(r)
	}
	return b.String()
}
