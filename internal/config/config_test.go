package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET":   "secret",
		"DATABASE_URL": "postgres://localhost:5432/fieldtech",
	}
}

func TestLoadFromDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(baseEnv()))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, 168*time.Hour, cfg.JWTTTL)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, int64(1), cfg.DefaultPlanID)
	require.Equal(t, 30, cfg.MonthlyGoal)
	require.Equal(t, int64(10<<20), cfg.MaxPhotoSize)
	require.Equal(t, int64(5<<20), cfg.MaxProfilePhotoSize)
	require.Equal(t, 15*time.Second, cfg.Carrier.Timeout)
	require.False(t, cfg.IsProduction())
}

func TestLoadFromOverrides(t *testing.T) {
	t.Parallel()

	env := baseEnv()
	env["APP_ENV"] = "production"
	env["CORS_ORIGINS"] = "https://app.example.com,https://admin.example.com"
	env["JWT_TTL"] = "24h"
	env["CARRIER_BASE_URL"] = " https://carrier.example.com/ "
	env["MONTHLY_GOAL"] = "45"

	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
	require.NoError(t, err)

	require.True(t, cfg.IsProduction())
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.Equal(t, "https://carrier.example.com", cfg.Carrier.BaseURL)
	require.Equal(t, 45, cfg.MonthlyGoal)
}

func TestLoadFromValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{name: "missing jwt secret", mutate: func(env map[string]string) { delete(env, "JWT_SECRET") }},
		{name: "missing database url", mutate: func(env map[string]string) { delete(env, "DATABASE_URL") }},
		{name: "non-positive goal", mutate: func(env map[string]string) { env["MONTHLY_GOAL"] = "0" }},
		{name: "inconsistent pool", mutate: func(env map[string]string) { env["DB_MIN_CONNS"] = "20" }},
		{name: "malformed duration", mutate: func(env map[string]string) { env["JWT_TTL"] = "forever" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			tt.mutate(env)

			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
			require.Error(t, err)
		})
	}
}
