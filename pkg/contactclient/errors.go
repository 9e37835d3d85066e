package contactclient

import (
	"errors"
	"fmt"
	"strings"

	"portfolio-backend/pkg/validation"
)

var (
	ErrSubmitInProgress  = errors.New("contactclient: submission already in progress")
	ErrUnreachable       = errors.New("contactclient: cannot reach backend")
	ErrMalformedResponse = errors.New("contactclient: invalid response from server")
)

// ValidationFailedError is returned when the form fails local validation.
// No request is sent.
type ValidationFailedError struct {
	Errors validation.FieldErrors
}

func (e *ValidationFailedError) Error() string {
	return "contactclient: validation failed: " + e.Errors.Error()
}

// ServerError is a well-formed response with success=false.
type ServerError struct {
	Status  int
	Message string
	Errors  []validation.FieldError
}

func (e *ServerError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("contactclient: server rejected submission (%d): %s", e.Status, validation.FieldErrors(e.Errors).Error())
	}
	return fmt.Sprintf("contactclient: server error (%d): %s", e.Status, e.Message)
}

// lines renders the field errors one per line, "field: message".
func (e *ServerError) lines() string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Field+": "+fe.Message)
	}
	return strings.Join(out, "\n")
}
