package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"PM_APP_NAME":                os.Getenv("PM_APP_NAME"),
		"PM_APP_ENV":                 os.Getenv("PM_APP_ENV"),
		"PM_APP_PORT":                os.Getenv("PM_APP_PORT"),
		"PM_DATABASE_HOST":           os.Getenv("PM_DATABASE_HOST"),
		"PM_DATABASE_PORT":           os.Getenv("PM_DATABASE_PORT"),
		"PM_DATABASE_USER":           os.Getenv("PM_DATABASE_USER"),
		"PM_DATABASE_PASSWORD":       os.Getenv("PM_DATABASE_PASSWORD"),
		"PM_DATABASE_DBNAME":         os.Getenv("PM_DATABASE_DBNAME"),
		"PM_DATABASE_SSLMODE":        os.Getenv("PM_DATABASE_SSLMODE"),
		"PM_DATABASE_MAX_OPEN_CONNS": os.Getenv("PM_DATABASE_MAX_OPEN_CONNS"),
		"PM_DATABASE_MAX_IDLE_CONNS": os.Getenv("PM_DATABASE_MAX_IDLE_CONNS"),
		"PM_JWT_SECRET":              os.Getenv("PM_JWT_SECRET"),
		"PM_JWT_EXPIRATION":          os.Getenv("PM_JWT_EXPIRATION"),
		"PM_MAIL_TRANSPORT":          os.Getenv("PM_MAIL_TRANSPORT"),
		"PM_MAIL_SMTP_HOST":          os.Getenv("PM_MAIL_SMTP_HOST"),
		"PM_MAIL_RESEND_API_KEY":     os.Getenv("PM_MAIL_RESEND_API_KEY"),
		"PM_AI_ENABLED":              os.Getenv("PM_AI_ENABLED"),
		"PM_AI_API_KEY":              os.Getenv("PM_AI_API_KEY"),
		"PM_SCHEDULER_TIMEZONE":      os.Getenv("PM_SCHEDULER_TIMEZONE"),
		"PM_CLIENT_BASE_URL":         os.Getenv("PM_CLIENT_BASE_URL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "promanage-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "promanage", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, "stub", cfg.Mail.Transport)
		assert.Equal(t, "UTC", cfg.Scheduler.Timezone)
		assert.Equal(t, "http://localhost:3000", cfg.Client.BaseURL)
		assert.False(t, cfg.AI.Enabled)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("loads values from environment variables with PM prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("PM_APP_NAME", "test-app")
		os.Setenv("PM_APP_PORT", "9000")
		os.Setenv("PM_DATABASE_HOST", "testdb.local")
		os.Setenv("PM_DATABASE_PORT", "5433")
		os.Setenv("PM_DATABASE_USER", "testuser")
		os.Setenv("PM_DATABASE_PASSWORD", "testpass")
		os.Setenv("PM_JWT_EXPIRATION", "2h")
		os.Setenv("PM_CLIENT_BASE_URL", "https://app.example.com")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, "https://app.example.com", cfg.Client.BaseURL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("PM_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("PM_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown mail transport", func(t *testing.T) {
		clearEnv()
		os.Setenv("PM_MAIL_TRANSPORT", "carrier-pigeon")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.transport")
	})

	t.Run("smtp transport requires a host", func(t *testing.T) {
		clearEnv()
		os.Setenv("PM_MAIL_TRANSPORT", "smtp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp_host")
	})

	t.Run("resend transport requires an API key", func(t *testing.T) {
		clearEnv()
		os.Setenv("PM_MAIL_TRANSPORT", "resend")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "resend_api_key")
	})

	t.Run("enabled AI requires an API key", func(t *testing.T) {
		clearEnv()
		os.Setenv("PM_AI_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ai.api_key")

		os.Setenv("PM_AI_API_KEY", "sk-test")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.AI.Enabled)
	})

	t.Run("rejects invalid scheduler timezone", func(t *testing.T) {
		clearEnv()
		os.Setenv("PM_SCHEDULER_TIMEZONE", "Mars/Olympus_Mons")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduler.timezone")
	})

	t.Run("production requires secrets and hardened settings", func(t *testing.T) {
		clearEnv()
		os.Setenv("PM_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")

		os.Setenv("PM_JWT_SECRET", "short")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")

		os.Setenv("PM_JWT_SECRET", "an-adequately-long-production-secret-value")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")

		os.Setenv("PM_DATABASE_PASSWORD", "secret")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")

		os.Setenv("PM_DATABASE_SSLMODE", "require")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.transport")

		os.Setenv("PM_MAIL_TRANSPORT", "smtp")
		os.Setenv("PM_MAIL_SMTP_HOST", "smtp.example.com")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "promanage",
		Password: "p@ss/word",
		DBName:   "promanage",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestSchedulerConfigLocation(t *testing.T) {
	cfg := SchedulerConfig{Timezone: "Europe/Berlin"}
	loc := cfg.Location()
	require.NotNil(t, loc)
	assert.Equal(t, "Europe/Berlin", loc.String())
}
