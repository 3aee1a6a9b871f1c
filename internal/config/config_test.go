package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Academico API", cfg.AppName)
	require.Equal(t, "*", cfg.CORSOrigins)
	require.Equal(t, 5*time.Second, cfg.RedisDialTimeout)
	require.Equal(t, 5*time.Minute, cfg.DashboardCacheTTL)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ACADEMICO_CORS_ORIGINS", "https://portal.academico.edu")
	t.Setenv("ACADEMICO_REDIS_DIAL_TIMEOUT", "750ms")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://portal.academico.edu", cfg.CORSOrigins)
	require.Equal(t, 750*time.Millisecond, cfg.RedisDialTimeout)
}

func TestLoadRejectsMalformedDurations(t *testing.T) {
	t.Setenv("ACADEMICO_REDIS_DIAL_TIMEOUT", "pronto")
	_, err := Load()
	require.Error(t, err)
}

func TestHTTPAddressNormalisesPort(t *testing.T) {
	require.Equal(t, ":9090", Config{AppPort: "9090"}.HTTPAddress())
	require.Equal(t, ":9090", Config{AppPort: ":9090"}.HTTPAddress())
}
