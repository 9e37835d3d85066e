package validation

import (
	"fmt"
	"strings"
)

// Profile selects which rules of the table apply at a trust boundary.
type Profile int

const (
	// Server is the authoritative inbound gate: presence, length and email format.
	Server Profile = iota
	// Client is the pre-submission guard. It also applies character-class patterns.
	Client
)

func (p Profile) String() string {
	if p == Client {
		return "client"
	}
	return "server"
}

// Wire names of the contact form fields.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldSubject   = "subject"
	FieldMessage   = "message"
)

// ContactInput is the five-field payload as typed by the visitor.
type ContactInput struct {
	FirstName string
	LastName  string
	Email     string
	Subject   string
	Message   string
}

// FieldRule is one row of the contact rule table.
type FieldRule struct {
	Field   string
	Label   string
	Min     int
	Max     int
	Format  string // validator tag applied in every profile
	Pattern string // validator tag applied in the Client profile only

	FormatMessage  string
	PatternMessage string

	value func(ContactInput) string
}

// ContactRules is the single source of truth for both validation layers, in
// field-declaration order.
var ContactRules = []FieldRule{
	{
		Field:          FieldFirstName,
		Label:          "First name",
		Min:            2,
		Max:            50,
		Pattern:        TagLettersSpaces,
		PatternMessage: "First name must be 2-50 characters and contain only letters and spaces.",
		value:          func(in ContactInput) string { return in.FirstName },
	},
	{
		Field:          FieldLastName,
		Label:          "Last name",
		Min:            2,
		Max:            50,
		Pattern:        TagLettersSpaces,
		PatternMessage: "Last name must be 2-50 characters and contain only letters and spaces.",
		value:          func(in ContactInput) string { return in.LastName },
	},
	{
		Field:         FieldEmail,
		Label:         "Email",
		Format:        TagContactEmail,
		FormatMessage: "Please provide a valid email address",
		value:         func(in ContactInput) string { return in.Email },
	},
	{
		Field: FieldSubject,
		Label: "Subject",
		Min:   5,
		Max:   100,
		value: func(in ContactInput) string { return in.Subject },
	},
	{
		Field: FieldMessage,
		Label: "Message",
		Min:   10,
		Max:   1000,
		value: func(in ContactInput) string { return in.Message },
	},
}

// Tag builds the validator tag string for the rule under a profile.
// "required" always comes first so an empty field is never also reported as too short.
func (r FieldRule) Tag(p Profile) string {
	tags := []string{"required"}
	if r.Min > 0 {
		tags = append(tags, fmt.Sprintf("min=%d", r.Min))
	}
	if r.Max > 0 {
		tags = append(tags, fmt.Sprintf("max=%d", r.Max))
	}
	if r.Format != "" {
		tags = append(tags, r.Format)
	}
	if r.Pattern != "" && p == Client {
		tags = append(tags, r.Pattern)
	}
	return strings.Join(tags, ",")
}

// Value returns the raw value of the rule's field.
func (r FieldRule) Value(in ContactInput) string {
	return r.value(in)
}

// Rule looks up a rule by wire field name.
func Rule(field string) (FieldRule, bool) {
	for _, r := range ContactRules {
		if r.Field == field {
			return r, true
		}
	}
	return FieldRule{}, false
}

// Normalize trims every field.
func Normalize(in ContactInput) ContactInput {
	return ContactInput{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
	}
}
