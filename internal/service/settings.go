package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/store"
)

// SettingsService manages the singleton platform config documents. Both
// configs live under the fixed "default" key and are created with their
// defaults on first read.
type SettingsService struct {
	db *store.Store
}

func NewSettingsService(db *store.Store) *SettingsService {
	return &SettingsService{db: db}
}

const (
	shippingConfigID   = "shipping"
	commissionConfigID = "commission"
)

func settingsDocKey(kind string) string {
	return kind + ":" + models.SettingsKey
}

// ShippingConfig reads the shipping singleton, seeding defaults on first use.
func (s *SettingsService) ShippingConfig(ctx context.Context) (*models.ShippingConfig, error) {
	now := time.Now()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var cfg models.ShippingConfig
	err := s.db.Collection(store.ColSettings).FindOneAndUpdate(ctx,
		bson.M{"key": settingsDocKey(shippingConfigID)},
		bson.M{"$setOnInsert": bson.M{
			"key":                   settingsDocKey(shippingConfigID),
			"isEnabled":             true,
			"flatRate":              models.DefaultShippingFlatRate,
			"freeShippingThreshold": models.DefaultFreeShippingThreshold,
			"createdAt":             now,
			"updatedAt":             now,
		}},
		opts,
	).Decode(&cfg)
	if err != nil {
		return nil, apperror.From(err, "Failed to load shipping configuration")
	}
	return &cfg, nil
}

type ShippingConfigInput struct {
	IsEnabled             *bool    `json:"isEnabled" binding:"required"`
	FlatRate              *float64 `json:"flatRate" binding:"required,gte=0"`
	FreeShippingThreshold *float64 `json:"freeShippingThreshold" binding:"required,gte=0"`
}

func (s *SettingsService) UpdateShippingConfig(ctx context.Context, input ShippingConfigInput, updatedBy primitive.ObjectID) (*models.ShippingConfig, error) {
	now := time.Now()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var cfg models.ShippingConfig
	err := s.db.Collection(store.ColSettings).FindOneAndUpdate(ctx,
		bson.M{"key": settingsDocKey(shippingConfigID)},
		bson.M{
			"$set": bson.M{
				"isEnabled":             *input.IsEnabled,
				"flatRate":              *input.FlatRate,
				"freeShippingThreshold": *input.FreeShippingThreshold,
				"updatedBy":             updatedBy,
				"updatedAt":             now,
			},
			"$setOnInsert": bson.M{
				"key":       settingsDocKey(shippingConfigID),
				"createdAt": now,
			},
		},
		opts,
	).Decode(&cfg)
	if err != nil {
		return nil, apperror.From(err, "Failed to update shipping configuration")
	}
	return &cfg, nil
}

// CommissionPercent reads the platform commission, seeding the default on
// first use.
func (s *SettingsService) CommissionPercent(ctx context.Context) (float64, error) {
	now := time.Now()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var cfg models.CommissionConfig
	err := s.db.Collection(store.ColSettings).FindOneAndUpdate(ctx,
		bson.M{"key": settingsDocKey(commissionConfigID)},
		bson.M{"$setOnInsert": bson.M{
			"key":               settingsDocKey(commissionConfigID),
			"commissionPercent": models.DefaultCommissionPercent,
			"createdAt":         now,
			"updatedAt":         now,
		}},
		opts,
	).Decode(&cfg)
	if err != nil {
		return 0, apperror.From(err, "Failed to load commission configuration")
	}
	return cfg.CommissionPercent, nil
}

// SetCommissionPercent clamps out-of-range values instead of rejecting them.
func (s *SettingsService) SetCommissionPercent(ctx context.Context, percent float64, updatedBy primitive.ObjectID) (float64, error) {
	percent = models.ClampPercent(percent)
	now := time.Now()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var cfg models.CommissionConfig
	err := s.db.Collection(store.ColSettings).FindOneAndUpdate(ctx,
		bson.M{"key": settingsDocKey(commissionConfigID)},
		bson.M{
			"$set": bson.M{
				"commissionPercent": percent,
				"updatedBy":         updatedBy,
				"updatedAt":         now,
			},
			"$setOnInsert": bson.M{
				"key":       settingsDocKey(commissionConfigID),
				"createdAt": now,
			},
		},
		opts,
	).Decode(&cfg)
	if err != nil {
		return 0, apperror.From(err, "Failed to update commission configuration")
	}
	return cfg.CommissionPercent, nil
}
