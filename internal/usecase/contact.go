package usecase

import (
	"context"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/audit"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/mailer"
	"portfolio-backend/pkg/validation"
)

// Acknowledgment failure policies.
const (
	AckFailurePolicyFail   = "fail"
	AckFailurePolicyIgnore = "ignore"
)

// Mail tags, used by Postmark and the file driver.
const (
	tagAdmin          = "contact-admin"
	tagAcknowledgment = "contact-acknowledgment"
)

// ContactConfig holds the addressing and acknowledgment behaviour of the dispatch.
type ContactConfig struct {
	From             string
	To               string
	SendAutoReply    bool
	AckFailurePolicy string
}

// Auditor receives one event per dispatch attempt.
type Auditor interface {
	Record(ctx context.Context, event audit.Event)
}

type contactUsecase struct {
	transport mailer.Transport
	renderer  *email.Renderer
	cfg       ContactConfig
	now       func() time.Time
	audit     Auditor
}

// NewContactUsecase creates a new contact usecase. A nil clock uses time.Now
// and a nil auditor discards events.
func NewContactUsecase(transport mailer.Transport, renderer *email.Renderer, cfg ContactConfig, now func() time.Time, auditor Auditor) domain.ContactUsecase {
	if now == nil {
		now = time.Now
	}
	if auditor == nil {
		auditor = audit.Nop()
	}
	if renderer == nil {
		renderer = email.NewRenderer(email.DefaultProfile())
	}
	if cfg.AckFailurePolicy == "" {
		cfg.AckFailurePolicy = AckFailurePolicyFail
	}
	return &contactUsecase{
		transport: transport,
		renderer:  renderer,
		cfg:       cfg,
		now:       now,
		audit:     auditor,
	}
}

// Dispatch re-validates the submission, verifies the transport, sends the
// admin notification and, when enabled, the acknowledgment. Sends are
// sequential and never retried. Once started, a dispatch is not cancelled by
// the caller going away; transport timeouts still apply.
func (uc *contactUsecase) Dispatch(ctx context.Context, req *domain.ContactRequest) domain.DispatchResult {
	ctx = context.WithoutCancel(ctx)
	requestID := domain.RequestIDFromContext(ctx)
	if req == nil {
		req = &domain.ContactRequest{}
	}
	in := req.Normalized()

	if errs := validation.ValidateContact(validation.Server, in.Input()); len(errs) > 0 {
		logger.Log.Info("contact form rejected",
			"request_id", requestID,
			"errors", len(errs),
			"fields", errs.Error(),
		)
		uc.audit.Record(ctx, audit.Event{
			Event:      audit.EventDispatchRejected,
			RequestID:  requestID,
			Email:      in.Email,
			ErrorCount: len(errs),
		})
		return domain.ValidationFailed(errs)
	}

	receivedAt := uc.now()

	admin, err := uc.renderer.AdminNotification(email.ContactEmailData{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
	}, receivedAt)
	if err != nil {
		return uc.fail(ctx, in, requestID, &domain.TransportError{Stage: domain.StageRender, Err: err})
	}

	// Rendered even when the auto-reply is disabled.
	ack, err := uc.renderer.Acknowledgment(in.FirstName)
	if err != nil {
		return uc.fail(ctx, in, requestID, &domain.TransportError{Stage: domain.StageRender, Err: err})
	}

	if err := uc.transport.Verify(ctx); err != nil {
		return uc.fail(ctx, in, requestID, &domain.TransportError{Stage: domain.StageVerify, Err: err})
	}

	if err := uc.transport.Send(ctx, mailer.Message{
		From:    uc.cfg.From,
		To:      uc.cfg.To,
		Subject: admin.Subject,
		HTML:    admin.HTML,
		Text:    admin.Text,
		ReplyTo: in.Email,
		Tag:     tagAdmin,
	}); err != nil {
		return uc.fail(ctx, in, requestID, &domain.TransportError{Stage: domain.StageAdmin, Err: err})
	}

	ackDelivered := false
	if uc.cfg.SendAutoReply {
		err := uc.transport.Send(ctx, mailer.Message{
			From:    uc.cfg.From,
			To:      in.Email,
			Subject: ack.Subject,
			HTML:    ack.HTML,
			Text:    ack.Text,
			Tag:     tagAcknowledgment,
		})
		switch {
		case err == nil:
			ackDelivered = true
		case uc.cfg.AckFailurePolicy == AckFailurePolicyIgnore:
			logger.Log.Warn("acknowledgment email failed, admin notification delivered",
				"request_id", requestID,
				"error", err,
			)
		default:
			return uc.fail(ctx, in, requestID, &domain.TransportError{
				Stage:          domain.StageAcknowledgment,
				AdminDelivered: true,
				Err:            err,
			})
		}
	}

	logger.Log.Info("contact form submitted",
		"first_name", in.FirstName,
		"last_name", in.LastName,
		"email", in.Email,
		"request_id", requestID,
	)
	uc.audit.Record(ctx, audit.Event{
		Event:          audit.EventDispatchSucceeded,
		RequestID:      requestID,
		Email:          in.Email,
		AdminDelivered: true,
		AckDelivered:   ackDelivered,
	})

	return domain.Success(uc.now())
}

func (uc *contactUsecase) fail(ctx context.Context, in domain.ContactRequest, requestID string, te *domain.TransportError) domain.DispatchResult {
	logger.Log.Error("failed to send contact email",
		"request_id", requestID,
		"stage", te.Stage,
		"admin_delivered", te.AdminDelivered,
		"error", te.Err,
	)
	uc.audit.Record(ctx, audit.Event{
		Event:          audit.EventDispatchFailed,
		RequestID:      requestID,
		Email:          in.Email,
		AdminDelivered: te.AdminDelivered,
		Stage:          te.Stage,
		Detail:         te.Err.Error(),
	})
	return domain.TransportFailed(te)
}
