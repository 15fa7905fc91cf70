package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShippingCostFor(t *testing.T) {
	cfg := &ShippingConfig{
		IsEnabled:             true,
		FlatRate:              DefaultShippingFlatRate,
		FreeShippingThreshold: DefaultFreeShippingThreshold,
	}

	assert.Equal(t, 100.0, cfg.ShippingCostFor(4999))
	assert.Equal(t, 0.0, cfg.ShippingCostFor(5000))
	assert.Equal(t, 0.0, cfg.ShippingCostFor(12000))

	cfg.IsEnabled = false
	assert.Equal(t, 0.0, cfg.ShippingCostFor(100))

	cfg.IsEnabled = true
	cfg.FlatRate = -50
	assert.Equal(t, 0.0, cfg.ShippingCostFor(100))
}
