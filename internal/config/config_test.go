package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("MONGO_DATABASE", "")
	t.Setenv("NOTIFY_REDIS_CHANNEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.App.Port)
	require.Equal(t, "workforce_portal", cfg.Mongo.Database)
	require.Equal(t, "grievances", cfg.Mongo.GrievanceCollection)
	require.Equal(t, "grievance-events", cfg.Notification.RedisChannel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MONGO_TIMEOUT_SECONDS", "3")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.App.Addr())
	require.Equal(t, 3*time.Second, cfg.Mongo.Timeout())
	require.False(t, cfg.Postgres.RunMigrations)
	require.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	require.Error(t, err)
}

func TestRequestTimeout(t *testing.T) {
	require.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	require.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		App:      AppConfig{Env: "production"},
		Postgres: PostgresConfig{DSN: "postgres://localhost/portal"},
		Mongo:    MongoConfig{URI: "mongodb://localhost:27017"},
		Auth:     AuthConfig{JWTSecret: defaultJWTSecret},
	}
	require.ErrorContains(t, cfg.Validate(), "AUTH_JWT_SECRET")

	cfg.Auth.JWTSecret = "rotated-secret"
	require.NoError(t, cfg.Validate())

	cfg.Postgres.DSN = ""
	require.ErrorContains(t, cfg.Validate(), "POSTGRES_DSN")

	cfg.App.Env = "development"
	cfg.Postgres.DSN = "postgres://localhost/portal"
	cfg.Auth.JWTSecret = defaultJWTSecret
	require.NoError(t, cfg.Validate())
}
