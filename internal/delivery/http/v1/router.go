package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/audit"
)

const defaultMaxBodyBytes int64 = 64 << 10

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  domain.HealthUsecase
	Audit     *audit.Logger

	// ExposeErrorDetail echoes transport errors to the client (non-production only).
	ExposeErrorDetail bool
	MaxBodyBytes      int64
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.ExposeErrorDetail))

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", time.Time{})
	})
	if deps.HealthUC != nil {
		NewHealthHandler(r, deps.HealthUC)
	}

	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	// Production serves /api/send-email, local development /send-email.
	NewContactHandler(r, deps.ContactUC, deps.Audit, maxBody, "/api/send-email", "/send-email")

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
