package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLifetime(t *testing.T) {
	cases := map[string]time.Duration{
		"500ms": 500 * time.Millisecond,
		"45s":   45 * time.Second,
		"15m":   15 * time.Minute,
		"2h":    2 * time.Hour,
		"7d":    7 * 24 * time.Hour,
	}
	for input, want := range cases {
		got, err := ParseLifetime(input)
		assert.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseLifetimeRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "15", "m", "15 m", "1.5h", "-3d", "3w", "3dd", "h3"} {
		_, err := ParseLifetime(input)
		assert.Error(t, err, input)
	}
}

func TestLoadRejectsBadLifetime(t *testing.T) {
	t.Setenv("DB_URL", "postgresql://localhost/test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REFRESH_SECRET", "refresh")
	t.Setenv("DEFAULT_ADMIN_EMAIL", "root@example.com")
	t.Setenv("DEFAULT_ADMIN_PASSWORD", "longenoughpassword")
	t.Setenv("JWT_EXPIRES", "15minutes")

	assert.Error(t, Load())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgresql://localhost/test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REFRESH_SECRET", "refresh")
	t.Setenv("DEFAULT_ADMIN_EMAIL", "root@example.com")
	t.Setenv("DEFAULT_ADMIN_PASSWORD", "longenoughpassword")
	t.Setenv("JWT_EXPIRES", "15m")
	t.Setenv("REFRESH_EXPIRES", "7d")

	assert.NoError(t, Load())
	assert.Equal(t, 15*time.Minute, AppConfig.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, AppConfig.JWT.RefreshTTL)
	assert.Equal(t, "8080", AppConfig.Server.Port)
	assert.Equal(t, 0, AppConfig.Logs.RetentionDays)
}
