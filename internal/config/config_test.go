package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseExpiry(t *testing.T) {
	fallback := 15 * time.Minute

	assert.Equal(t, 45*time.Second, ParseExpiry("45s", fallback))
	assert.Equal(t, 15*time.Minute, ParseExpiry("15m", fallback))
	assert.Equal(t, 6*time.Hour, ParseExpiry("6h", fallback))
	assert.Equal(t, 30*24*time.Hour, ParseExpiry("30d", fallback))

	assert.Equal(t, fallback, ParseExpiry("", fallback))
	assert.Equal(t, fallback, ParseExpiry("30", fallback))
	assert.Equal(t, fallback, ParseExpiry("1w", fallback))
	assert.Equal(t, fallback, ParseExpiry("-5m", fallback))
	assert.Equal(t, fallback, ParseExpiry("0d", fallback))
}

func TestIsProduction(t *testing.T) {
	cfg := &Config{App: AppConfig{Env: "production"}}
	assert.True(t, cfg.IsProduction())
	cfg.App.Env = "development"
	assert.False(t, cfg.IsProduction())
}
