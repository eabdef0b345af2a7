package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "codecommons", cfg.DatabaseName)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("DATABASE_NAME", "codecommons_test")
	t.Setenv("NEXTAUTH_SECRET", "supersecret")
	t.Setenv("SMTP_PORT", "2525")

	cfg := LoadConfig()

	assert.Equal(t, "9001", cfg.Port)
	assert.Equal(t, "codecommons_test", cfg.DatabaseName)
	assert.Equal(t, "supersecret", cfg.JWTSecret)
	assert.Equal(t, 2525, cfg.SMTPPort)
}

func TestGetEnvIntBadValue(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")
	cfg := LoadConfig()
	assert.Equal(t, 587, cfg.SMTPPort)
}
