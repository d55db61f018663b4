package fixtures

import (
	"context"
	"time"

	"github.com/radieske/sports-bet-web/internal/web-frontend/backend/dto"
)

const (
	Healthy   = "healthy"
	Unhealthy = "unhealthy"
)

type HealthSource interface {
	GatewayHealth(ctx context.Context) error
	ServicesHealth(ctx context.Context) (dto.ServicesHealth, error)
}

type HealthReport struct {
	Gateway   string              `json:"gateway"`
	Services  []dto.ServiceHealth `json:"services"`
	CheckedAt time.Time           `json:"checkedAt"`
}

// CheckHealth consulta o gateway e os serviços atrás dele. Gateway fora do ar
// marca todos os serviços como unhealthy.
func CheckHealth(ctx context.Context, src HealthSource) HealthReport {
	rep := HealthReport{Gateway: Healthy, Services: []dto.ServiceHealth{}, CheckedAt: time.Now().UTC()}

	gwErr := src.GatewayHealth(ctx)
	if gwErr != nil {
		rep.Gateway = Unhealthy
	}

	svc, err := src.ServicesHealth(ctx)
	if err != nil {
		return rep
	}
	for _, s := range svc.Services {
		if gwErr != nil || s.Status != Healthy {
			s.Status = Unhealthy
		}
		rep.Services = append(rep.Services, s)
	}
	return rep
}
