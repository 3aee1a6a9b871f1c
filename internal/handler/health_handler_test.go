package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/config"
	"github.com/academico-latam/academico-api/internal/handler"
)

func newHealthApp(t *testing.T, db *gorm.DB, cache *redis.Client) *fiber.App {
	t.Helper()

	app := fiber.New()
	cfg := config.Config{AppName: "Academico API", AppEnv: "test"}
	app.Get("/health", handler.HealthCheck(cfg, db, cache))
	return app
}

func openHealthDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:health_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestHealthCheck_ReportsComponents(t *testing.T) {
	db := openHealthDB(t)

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	app := newHealthApp(t, db, cache)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                   `json:"success"`
		Data    handler.HealthResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "ok", body.Data.Status)
	require.Equal(t, "Academico API", body.Data.Service)
	require.Equal(t, "ok", body.Data.Components["database"])
	require.Equal(t, "ok", body.Data.Components["cache"])
}

func TestHealthCheck_MissingCacheDoesNotDegrade(t *testing.T) {
	app := newHealthApp(t, openHealthDB(t), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data handler.HealthResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "ok", body.Data.Status)
	require.Equal(t, "disabled", body.Data.Components["cache"])
}

func TestHealthCheck_DegradesWhenDatabaseIsDown(t *testing.T) {
	db := openHealthDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	app := newHealthApp(t, db, nil)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Details handler.HealthResponse `json:"details"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, "service degraded", body.Message)
	require.Equal(t, "degraded", body.Details.Status)
	require.Equal(t, "unavailable", body.Details.Components["database"])
}
