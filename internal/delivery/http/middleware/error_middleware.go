package middleware

import (
	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
)

// ErrorHandler renders the last error pushed with c.Error. When exposeDetail
// is false the wrapped error never reaches the client; it is only logged.
func ErrorHandler(exposeDetail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := apperror.As(err)
		if !ok {
			logger.Log.Error("unhandled error",
				"request_id", c.GetString(string(domain.KeyRequestID)),
				"error", err,
			)
			appErr = apperror.Internal(err)
		}

		detail := ""
		if exposeDetail {
			detail = appErr.Detail()
		}
		response.Error(c, appErr.Code, appErr.Message, detail)
	}
}
