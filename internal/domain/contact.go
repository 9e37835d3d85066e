package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-backend/pkg/validation"
)

// ContactRequest represents a contact form submission
type ContactRequest struct {
	FirstName string `json:"first_name" example:"Ada"`
	LastName  string `json:"last_name" example:"Lovelace"`
	Email     string `json:"email" example:"ada@example.com"`
	Subject   string `json:"subject" example:"Collaboration"`
	Message   string `json:"message" example:"Hi, I'd like to talk about a project."`
}

// Input converts the wire entity to the validator's input shape.
func (r ContactRequest) Input() validation.ContactInput {
	return validation.ContactInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Subject:   r.Subject,
		Message:   r.Message,
	}
}

// Normalized returns a copy with every field trimmed.
func (r ContactRequest) Normalized() ContactRequest {
	in := validation.Normalize(r.Input())
	return ContactRequest{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
	}
}

// ValidationError is one violated field rule.
type ValidationError = validation.FieldError

// Outcome tags a DispatchResult.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeValidationFailed Outcome = "validation_failed"
	OutcomeTransportFailed  Outcome = "transport_failed"
	OutcomeMethodNotAllowed Outcome = "method_not_allowed"
)

// DispatchResult is the terminal state of one dispatch attempt. Only the
// fields belonging to its Outcome are set.
type DispatchResult struct {
	Outcome   Outcome
	Timestamp time.Time         // Success
	Errors    []ValidationError // ValidationFailed
	Err       error             // TransportFailed
}

func Success(at time.Time) DispatchResult {
	return DispatchResult{Outcome: OutcomeSuccess, Timestamp: at}
}

func ValidationFailed(errs []ValidationError) DispatchResult {
	return DispatchResult{Outcome: OutcomeValidationFailed, Errors: errs}
}

func TransportFailed(err error) DispatchResult {
	return DispatchResult{Outcome: OutcomeTransportFailed, Err: err}
}

func MethodNotAllowed() DispatchResult {
	return DispatchResult{Outcome: OutcomeMethodNotAllowed}
}

// Detail is the raw transport error text, empty for other outcomes.
func (r DispatchResult) Detail() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Dispatch stages a TransportError can originate from.
const (
	StageRender         = "render"
	StageVerify         = "verify"
	StageAdmin          = "admin"
	StageAcknowledgment = "acknowledgment"
)

// TransportError covers verify and send failures. AdminDelivered is true when
// the admin notification went out before the failure.
type TransportError struct {
	Stage          string
	AdminDelivered bool
	Err            error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AsTransportError unwraps err to a *TransportError.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Dispatch re-validates the submission and sends the admin notification and,
	// when enabled, the acknowledgment mail.
	Dispatch(ctx context.Context, req *ContactRequest) DispatchResult
}
