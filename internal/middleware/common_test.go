package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newCommonApp(cfg Config) *fiber.App {
	app := fiber.New()
	Register(app, cfg)
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	return app
}

func TestRegisterAppliesCORSAllowList(t *testing.T) {
	app := newCommonApp(Config{AllowOrigins: "https://portal.academico.edu"})

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://portal.academico.edu")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "https://portal.academico.edu", res.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, res.Header.Get("Access-Control-Allow-Headers"), "X-Correlation-ID")
	require.NotContains(t, res.Header.Get("Access-Control-Allow-Methods"), "PUT")

	// An origin outside the allow-list gets no allowance at all.
	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://otro-sitio.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	res, err = app.Test(req)
	require.NoError(t, err)
	require.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}

func TestRegisterDefaultsToPermissiveOrigins(t *testing.T) {
	app := newCommonApp(Config{})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://cualquiera.example")
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	require.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestRegisterStampsCorrelationID(t *testing.T) {
	app := newCommonApp(Config{})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	require.NotEmpty(t, res.Header.Get("X-Correlation-ID"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Correlation-ID", "corr-123")
	res, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "corr-123", res.Header.Get("X-Correlation-ID"))
}
