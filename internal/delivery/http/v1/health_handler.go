package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
)

type HealthHandler struct {
	healthUC domain.HealthUsecase
}

func NewHealthHandler(r gin.IRoutes, healthUC domain.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	r.GET("/health/ready", handler.Ready)
}

// Ready godoc
// @Summary      Readiness
// @Description  Verifies the mail transport. Returns 503 when it cannot connect or authenticate.
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.HealthReport}
// @Failure      503  {object}  response.Response{data=domain.HealthReport}
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	report := h.healthUC.Check(c.Request.Context())
	if !report.Ready() {
		response.WithData(c, http.StatusServiceUnavailable, false, "Mail transport unavailable", report)
		return
	}
	response.WithData(c, http.StatusOK, true, "Ready", report)
}
