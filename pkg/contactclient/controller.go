package contactclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"portfolio-backend/pkg/validation"
)

const maxResponseBytes = 1 << 20

// State of the submission state machine.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	if s == StateSubmitting {
		return "submitting"
	}
	return "idle"
}

// Form holds the visitor's raw input.
type Form struct {
	FirstName string
	LastName  string
	Email     string
	Subject   string
	Message   string
}

func (f Form) input() validation.ContactInput {
	return validation.ContactInput{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Subject:   f.Subject,
		Message:   f.Message,
	}
}

// Result is a confirmed dispatch.
type Result struct {
	Timestamp time.Time
	RequestID string
}

type payload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

type envelope struct {
	Success   bool                    `json:"success"`
	Message   string                  `json:"message"`
	Errors    []validation.FieldError `json:"errors"`
	Timestamp string                  `json:"timestamp"`
	RequestID string                  `json:"request_id"`
}

// Controller drives one contact form: Idle -> Submitting -> Idle. Fields are
// cleared on success and kept on any failure. It is safe for concurrent use;
// overlapping submissions are refused.
type Controller struct {
	cfg      Config
	url      string
	client   *http.Client
	notifier Notifier

	mu    sync.Mutex
	form  Form
	state State
}

func NewController(cfg Config, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Controller{
		cfg:      cfg,
		url:      cfg.URL(),
		client:   cfg.httpClient(),
		notifier: notifier,
	}
}

// Endpoint is the resolved URL Submit posts to.
func (c *Controller) Endpoint() string {
	return c.url
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Controller) SetForm(f Form) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = f
}

// SetField updates one field by its wire name (first_name, last_name, email,
// subject, message).
func (c *Controller) SetField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case validation.FieldFirstName:
		c.form.FirstName = value
	case validation.FieldLastName:
		c.form.LastName = value
	case validation.FieldEmail:
		c.form.Email = value
	case validation.FieldSubject:
		c.form.Subject = value
	case validation.FieldMessage:
		c.form.Message = value
	default:
		return fmt.Errorf("contactclient: unknown field %q", field)
	}
	return nil
}

// Submit validates the trimmed form locally and posts it. Errors:
// ErrSubmitInProgress, *ValidationFailedError, ErrUnreachable,
// ErrMalformedResponse or *ServerError.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return Result{}, ErrSubmitInProgress
	}
	c.state = StateSubmitting
	form := c.form
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
	}()

	in := validation.Normalize(form.input())
	if errs := validation.ValidateContact(validation.Client, in); len(errs) > 0 {
		for _, fe := range errs {
			c.notifier.Notify(ctx, Notification{
				Title:       "Validation Error",
				Description: fe.Message,
				Variant:     VariantDestructive,
			})
		}
		return Result{}, &ValidationFailedError{Errors: errs}
	}

	body, err := json.Marshal(payload{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
	})
	if err != nil {
		return Result{}, fmt.Errorf("contactclient: encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, c.unreachable(ctx, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, c.unreachable(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env); err != nil {
		c.notifier.Notify(ctx, Notification{
			Title:       "Error",
			Description: "Request failed: Invalid response from server",
			Variant:     VariantDestructive,
		})
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && env.Success {
		c.mu.Lock()
		c.form = Form{}
		c.mu.Unlock()

		c.notifier.Notify(ctx, Notification{
			Title:       "Message Sent Successfully!",
			Description: "Thank you for your message. I'll get back to you soon.",
			Variant:     VariantDefault,
		})
		return Result{Timestamp: parseTimestamp(env.Timestamp), RequestID: env.RequestID}, nil
	}

	serverErr := &ServerError{Status: resp.StatusCode, Message: env.Message, Errors: env.Errors}
	if len(serverErr.Errors) > 0 {
		c.notifier.Notify(ctx, Notification{
			Title:       "Validation Error",
			Description: serverErr.lines(),
			Variant:     VariantDestructive,
		})
	} else {
		desc := strings.TrimSpace(env.Message)
		if desc == "" {
			desc = fmt.Sprintf("Server error: %d", resp.StatusCode)
		}
		c.notifier.Notify(ctx, Notification{Title: "Error", Description: desc, Variant: VariantDestructive})
	}
	return Result{}, serverErr
}

func (c *Controller) unreachable(ctx context.Context, err error) error {
	c.notifier.Notify(ctx, Notification{
		Title:       "Connection Error",
		Description: fmt.Sprintf("Cannot connect to %s backend. Please check if the server is running.", c.cfg.environmentLabel()),
		Variant:     VariantDestructive,
	})
	return fmt.Errorf("%w: %w", ErrUnreachable, err)
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05.000Z07:00", time.RFC3339Nano} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
