package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/config"
	"github.com/academico-latam/academico-api/internal/utils"
)

// HealthResponse reports overall service health plus the state of each
// backing component.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Service     string            `json:"service"`
	Environment string            `json:"environment"`
	Components  map[string]string `json:"components"`
}

// HealthCheck probes the database and the dashboard cache. The cache is
// optional, so a missing or unreachable cache is reported without degrading
// the service; an unreachable database degrades it to 503.
func HealthCheck(cfg config.Config, db *gorm.DB, cache *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		components := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}
		status := "ok"

		if !databaseReachable(c, db) {
			components["database"] = "unavailable"
			status = "degraded"
		}

		if cache == nil {
			components["cache"] = "disabled"
		} else if err := cache.Ping(c.Context()).Err(); err != nil {
			components["cache"] = "unavailable"
		}

		payload := HealthResponse{
			Status:      status,
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Components:  components,
		}

		if status != "ok" {
			return utils.SendErrorWithDetails(c, fiber.StatusServiceUnavailable, "service degraded", payload)
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}

func databaseReachable(c *fiber.Ctx, db *gorm.DB) bool {
	if db == nil {
		return false
	}

	sqlDB, err := db.DB()
	if err != nil {
		return false
	}

	return sqlDB.PingContext(c.Context()) == nil
}
