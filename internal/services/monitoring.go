package services

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Hazher89/driftpro-admin-complete/internal/database"
	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
)

// ComponentHealth is the check result for a single backend
type ComponentHealth struct {
	Name      string        `json:"name"`
	Healthy   bool          `json:"healthy"`
	Latency   time.Duration `json:"latency_ns"`
	Error     string        `json:"error,omitempty"`
	CheckedAt time.Time     `json:"checked_at"`
}

// HealthReport aggregates the component checks
type HealthReport struct {
	Healthy    bool              `json:"healthy"`
	Components []ComponentHealth `json:"components"`
}

// HealthService probes the database and cache backends
type HealthService struct {
	logger *logger.Logger
	db     *database.Connection
	redis  *redis.Client
}

// NewHealthService creates a new health service
func NewHealthService(logger *logger.Logger, db *database.Connection, redis *redis.Client) *HealthService {
	return &HealthService{
		logger: logger,
		db:     db,
		redis:  redis,
	}
}

// Check probes every backend and returns the aggregated report
func (s *HealthService) Check(ctx context.Context) *HealthReport {
	report := &HealthReport{Healthy: true}

	report.Components = append(report.Components, s.checkDatabase(ctx))
	report.Components = append(report.Components, s.checkRedis(ctx))

	for _, component := range report.Components {
		if !component.Healthy {
			report.Healthy = false
			s.logger.WithField("component", component.Name).
				WithField("error", component.Error).
				Warn("Health check failed")
		}
	}

	return report
}

func (s *HealthService) checkDatabase(ctx context.Context) ComponentHealth {
	start := time.Now()
	health := ComponentHealth{Name: "database", CheckedAt: start}

	sqlDB, err := s.db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}

	health.Latency = time.Since(start)
	if err != nil {
		health.Error = err.Error()
		return health
	}

	health.Healthy = true
	return health
}

func (s *HealthService) checkRedis(ctx context.Context) ComponentHealth {
	start := time.Now()
	health := ComponentHealth{Name: "redis", CheckedAt: start}

	err := s.redis.Ping(ctx).Err()

	health.Latency = time.Since(start)
	if err != nil {
		health.Error = err.Error()
		return health
	}

	health.Healthy = true
	return health
}
