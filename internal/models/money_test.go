package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 100.0, RoundMoney(99.5))
	assert.Equal(t, 99.0, RoundMoney(99.4))
	assert.Equal(t, 0.0, RoundMoney(0))
	assert.Equal(t, 1000.0, RoundMoney(999.999))
	assert.Equal(t, -100.0, RoundMoney(-99.5))
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, 50.0, PercentOf(1000, 5))
	assert.Equal(t, 0.0, PercentOf(1000, 0))
	assert.Equal(t, 1000.0, PercentOf(1000, 100))
	// 2.5% of 999 = 24.975, rounds to 25
	assert.Equal(t, 25.0, PercentOf(999, 2.5))
	assert.Equal(t, 0.0, PercentOf(0, 50))
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-5))
	assert.Equal(t, 0.0, ClampPercent(0))
	assert.Equal(t, 42.5, ClampPercent(42.5))
	assert.Equal(t, 100.0, ClampPercent(100))
	assert.Equal(t, 100.0, ClampPercent(150))
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, int64(100), ToPaise(1))
	assert.Equal(t, int64(99900), ToPaise(999))
	assert.Equal(t, int64(0), ToPaise(0))
	// avoids the float drift 19.99*100 = 1998.9999...
	assert.Equal(t, int64(1999), ToPaise(19.99))
}
