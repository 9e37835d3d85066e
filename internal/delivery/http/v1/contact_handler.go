package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/audit"
	"portfolio-backend/pkg/logger"
)

const (
	msgSent             = "Email sent successfully"
	msgValidationFailed = "Validation failed"
	msgSendFailed       = "Failed to send email. Please try again later."
	msgMethodNotAllowed = "Method not allowed. Use POST."
	msgTooLarge         = "Request body too large"
)

type ContactHandler struct {
	contactUC    domain.ContactUsecase
	audit        *audit.Logger
	maxBodyBytes int64
}

// NewContactHandler registers the send-email routes for every method; the
// handler itself answers non-POST methods with 405.
func NewContactHandler(r gin.IRoutes, contactUC domain.ContactUsecase, auditor *audit.Logger, maxBodyBytes int64, paths ...string) {
	handler := &ContactHandler{
		contactUC:    contactUC,
		audit:        auditor,
		maxBodyBytes: maxBodyBytes,
	}

	for _, p := range paths {
		r.Any(p, handler.SendEmail)
	}
}

// SendEmail godoc
// @Summary      Submit Contact Form
// @Description  Validates the submission, notifies the site owner and, when enabled, acknowledges the visitor. OPTIONS returns 200 with an empty body.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      405      {object}  response.Response
// @Failure      413      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/send-email [post]
// @Router       /send-email [post]
func (h *ContactHandler) SendEmail(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.audit.Record(c.Request.Context(), audit.Event{
			Event:     audit.EventMethodNotAllowed,
			RequestID: c.GetString(string(domain.KeyRequestID)),
			Method:    c.Request.Method,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Header("Allow", "POST, OPTIONS")
		_ = c.Error(apperror.MethodNotAllowed(msgMethodNotAllowed))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(apperror.RequestTooLarge(msgTooLarge))
			return
		}
		// Unparseable bodies fall through as an empty submission so the
		// caller gets the full list of field errors.
		logger.Log.Debug("contact body is not valid JSON",
			"request_id", c.GetString(string(domain.KeyRequestID)),
			"error", err,
		)
		req = domain.ContactRequest{}
	}

	res := h.contactUC.Dispatch(c.Request.Context(), &req)

	switch res.Outcome {
	case domain.OutcomeSuccess:
		response.Success(c, http.StatusOK, msgSent, res.Timestamp)
	case domain.OutcomeValidationFailed:
		response.ValidationFailed(c, http.StatusBadRequest, msgValidationFailed, res.Errors)
	case domain.OutcomeTransportFailed:
		_ = c.Error(apperror.Unavailable(msgSendFailed, res.Err))
	case domain.OutcomeMethodNotAllowed:
		_ = c.Error(apperror.MethodNotAllowed(msgMethodNotAllowed))
	default:
		_ = c.Error(apperror.Internal(fmt.Errorf("unexpected dispatch outcome %q", res.Outcome)))
	}
}
