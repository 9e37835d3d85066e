package domain

import "context"

const (
	HealthOK          = "ok"
	HealthDegraded    = "degraded"
	HealthUnavailable = "unavailable"
)

// HealthReport is the readiness snapshot served by /health/ready.
type HealthReport struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks"`
}

func (r HealthReport) Ready() bool {
	return r.Status == HealthOK
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthReport
}
