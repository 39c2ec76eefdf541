package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.UserCacheTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "log", cfg.Mail.Driver)
	assert.Equal(t, 2525, cfg.Mail.SMTPPort)
	assert.Equal(t, "admin@example.com", cfg.Seed.AdminEmail)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("USER_CACHE_TTL", "90s")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 90*time.Second, cfg.UserCacheTTL)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_RejectsUnknownDrivers(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "db driver", key: "DB_DRIVER", val: "mongo"},
		{name: "mail driver", key: "MAIL_DRIVER", val: "pigeon"},
		{name: "resend without key", key: "MAIL_DRIVER", val: "resend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
