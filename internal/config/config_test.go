package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/studio")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.True(t, cfg.RequireEmailVerification)
	assert.Equal(t, 4, cfg.CodeLength)
	assert.Equal(t, 62, cfg.MaxRangeDays)
	assert.Empty(t, cfg.SMTP.Host)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadBool(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/studio")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("RESERVATION_REQUIRE_EMAIL_VERIFICATION", "maybe")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadVerificationSwitch(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/studio")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("RESERVATION_REQUIRE_EMAIL_VERIFICATION", "false")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.RequireEmailVerification)
}

func TestLoadRejectsNonPositiveCounts(t *testing.T) {
	for _, key := range []string{"RESERVATION_CODE_LENGTH", "RESERVATION_CODE_MAX_ATTEMPTS", "AVAILABILITY_MAX_RANGE_DAYS"} {
		for _, value := range []string{"0", "-3"} {
			t.Run(key+"="+value, func(t *testing.T) {
				t.Setenv("DB_DSN", "postgres://localhost/studio")
				t.Setenv("JWT_SECRET", "secret")
				t.Setenv(key, value)

				_, err := Load()
				assert.Error(t, err)
			})
		}
	}
}

func TestLoadSMTPTimeout(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/studio")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.SMTP.Timeout)

	t.Setenv("SMTP_TIMEOUT", "3s")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.SMTP.Timeout)
}
