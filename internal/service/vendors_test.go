package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCompactINR(t *testing.T) {
	assert.Equal(t, "₹0", formatCompactINR(0))
	assert.Equal(t, "₹500", formatCompactINR(499.6))
	assert.Equal(t, "₹999", formatCompactINR(999))
	assert.Equal(t, "₹1.0k", formatCompactINR(1000))
	assert.Equal(t, "₹45.5k", formatCompactINR(45500))
	assert.Equal(t, "₹1.0L", formatCompactINR(100000))
	assert.Equal(t, "₹12.3L", formatCompactINR(1234567))
}
