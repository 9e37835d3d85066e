package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single violated rule, addressed by wire field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors is the ordered error list of one validation pass.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Messages returns the bare messages, for notification channels.
func (fe FieldErrors) Messages() []string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Message
	}
	return msgs
}

// Has reports whether field has an error.
func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// ValidateContact checks the trimmed input against ContactRules under the
// given profile. It returns at most one error per field, in table order, and
// nil when the input is valid.
func ValidateContact(p Profile, in ContactInput) FieldErrors {
	in = Normalize(in)
	v := Validator()

	var errs FieldErrors
	for _, rule := range ContactRules {
		err := v.Var(rule.Value(in), rule.Tag(p))
		if err == nil {
			continue
		}
		errs = append(errs, FieldError{
			Field:   rule.Field,
			Message: formatRuleError(rule, err),
		})
	}
	return errs
}

// formatRuleError converts the first failed tag of a field to a user-friendly message
func formatRuleError(rule FieldRule, err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Sprintf("%s is invalid", rule.Label)
	}

	switch tag := validationErrors[0].Tag(); tag {
	case "required":
		return fmt.Sprintf("%s is required", rule.Label)

	case "min", "max":
		return fmt.Sprintf("%s must be between %d and %d characters", rule.Label, rule.Min, rule.Max)

	case rule.Format:
		if rule.FormatMessage != "" {
			return rule.FormatMessage
		}
		return fmt.Sprintf("%s has an invalid format", rule.Label)

	case rule.Pattern:
		if rule.PatternMessage != "" {
			return rule.PatternMessage
		}
		return fmt.Sprintf("%s contains invalid characters", rule.Label)

	default:
		return fmt.Sprintf("%s failed validation (%s)", rule.Label, tag)
	}
}
