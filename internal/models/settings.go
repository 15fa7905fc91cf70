package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SettingsKey is the fixed key of the singleton config documents.
const SettingsKey = "default"

type CommissionConfig struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key               string             `bson:"key" json:"key"`
	CommissionPercent float64            `bson:"commissionPercent" json:"commissionPercent"`
	UpdatedBy         primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const DefaultCommissionPercent = 5.0

type ShippingConfig struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key                   string             `bson:"key" json:"key"`
	IsEnabled             bool               `bson:"isEnabled" json:"isEnabled"`
	FlatRate              float64            `bson:"flatRate" json:"flatRate"`
	FreeShippingThreshold float64            `bson:"freeShippingThreshold" json:"freeShippingThreshold"`
	UpdatedBy             primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	DefaultShippingFlatRate      = 100.0
	DefaultFreeShippingThreshold = 5000.0
)

// ShippingCostFor applies the threshold rule: free above the threshold, flat
// rate below, nothing when shipping charges are disabled.
func (c *ShippingConfig) ShippingCostFor(subtotal float64) float64 {
	if !c.IsEnabled {
		return 0
	}
	if subtotal >= c.FreeShippingThreshold {
		return 0
	}
	if c.FlatRate < 0 {
		return 0
	}
	return c.FlatRate
}
