package usecase

import (
	"context"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/mailer"
)

const readinessTimeout = 5 * time.Second

type healthUsecase struct {
	transport mailer.Transport
	driver    string
}

// NewHealthUsecase reports process liveness and whether the mail transport
// currently verifies.
func NewHealthUsecase(transport mailer.Transport, driver string) domain.HealthUsecase {
	return &healthUsecase{transport: transport, driver: driver}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthReport {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	report := domain.HealthReport{
		Status: domain.HealthOK,
		Checks: map[string]string{"mail_driver": u.driver, "mail": domain.HealthOK},
	}
	if err := u.transport.Verify(ctx); err != nil {
		logger.Log.Warn("mail transport readiness check failed", "driver", u.driver, "error", err)
		report.Status = domain.HealthDegraded
		report.Checks["mail"] = domain.HealthUnavailable
	}
	return report
}
