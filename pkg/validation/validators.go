package validation

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Permissive local@domain.tld: one @, a dot after it, no whitespace.
	contactEmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Letters and whitespace only. Length is enforced by min/max.
	lettersSpacesRegex = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

const (
	TagContactEmail  = "contact_email"
	TagLettersSpaces = "letters_spaces"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance with the contact tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		RegisterValidators(validate)
	})
	return validate
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation(TagContactEmail, ContactEmail)
	_ = v.RegisterValidation(TagLettersSpaces, LettersSpaces)
}

// ContactEmail accepts anything shaped like local@domain.tld
func ContactEmail(fl validator.FieldLevel) bool {
	return contactEmailRegex.MatchString(fl.Field().String())
}

// LettersSpaces rejects digits and punctuation
func LettersSpaces(fl validator.FieldLevel) bool {
	return lettersSpacesRegex.MatchString(fl.Field().String())
}
