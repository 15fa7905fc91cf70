package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names.
const (
	ColUsers               = "users"
	ColSessions            = "sessions"
	ColPasswordResetTokens = "passwordresettokens"
	ColVendorVerifications = "vendorverifications"
	ColProducts            = "products"
	ColCategories          = "categories"
	ColCarts               = "carts"
	ColOrders              = "orders"
	ColReviews             = "reviews"
	ColPayouts             = "payouts"
	ColSettings            = "settings"
	ColBlogs               = "blogs"
	ColContacts            = "contacts"
	ColNotifications       = "notifications"
)

// Store wraps a connected Mongo database handle.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Store{Client: client, DB: client.Database(dbName)}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

func (s *Store) Collection(name string) *mongo.Collection {
	return s.DB.Collection(name)
}

// EnsureIndexes creates the indexes every collection depends on. Product text
// indexes created by earlier releases lacked the tagsText field, so any text
// index missing it is dropped and rebuilt.
func (s *Store) EnsureIndexes(ctx context.Context, log *zap.Logger) error {
	if err := s.ensureProductIndexes(ctx, log); err != nil {
		log.Error("failed to ensure product indexes", zap.Error(err))
	}

	specs := map[string][]mongo.IndexModel{
		ColUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetSparse(true)},
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		ColSessions: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "refreshTokenHash", Value: 1}}},
		},
		ColPasswordResetTokens: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "tokenHash", Value: 1}}},
		},
		ColCategories: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ColCarts: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ColOrders: {
			{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "orderNumber", Value: 1}, {Key: "status", Value: 1}}},
		},
		ColReviews: {
			{Keys: bson.D{{Key: "product", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "product", Value: 1}, {Key: "isApproved", Value: 1}, {Key: "isDeleted", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "isDeleted", Value: 1}}},
		},
		ColPayouts: {
			{Keys: bson.D{{Key: "vendorId", Value: 1}, {Key: "status", Value: 1}}},
		},
		ColSettings: {
			{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ColBlogs: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "publishedAt", Value: -1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "excerpt", Value: "text"},
				{Key: "contentHtml", Value: "text"},
				{Key: "tagsText", Value: "text"},
				{Key: "seo.metaTitle", Value: "text"},
				{Key: "seo.metaDescription", Value: "text"},
			}},
		},
		ColContacts: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		ColNotifications: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "read", Value: 1}}},
		},
	}

	for name, models := range specs {
		if _, err := s.DB.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

func (s *Store) ensureProductIndexes(ctx context.Context, log *zap.Logger) error {
	col := s.DB.Collection(ColProducts)

	cursor, err := col.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list product indexes: %w", err)
	}
	var existing []bson.M
	if err := cursor.All(ctx, &existing); err != nil {
		return fmt.Errorf("failed to read product indexes: %w", err)
	}

	for _, idx := range existing {
		name, _ := idx["name"].(string)
		key, ok := idx["key"].(bson.M)
		if !ok || name == "" {
			continue
		}
		weights, _ := idx["weights"].(bson.M)
		if !legacyTextIndex(key, weights) {
			continue
		}
		log.Warn("dropping legacy product index to rebuild text search support",
			zap.String("index", name))
		if _, err := col.Indexes().DropOne(ctx, name); err != nil {
			return fmt.Errorf("failed to drop index %s: %w", name, err)
		}
	}

	_, err = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "vendor", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{
			{Key: "title", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "shortDescription", Value: "text"},
			{Key: "tagsText", Value: "text"},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

// legacyTextIndex reports whether an index is a text index from before
// tagsText replaced indexing the tags array directly. Text indexes list
// their fields under weights, with the key reduced to the _fts marker.
func legacyTextIndex(key, weights bson.M) bool {
	hasText := false
	for _, v := range key {
		if v == "text" {
			hasText = true
			break
		}
	}
	if !hasText {
		return false
	}
	if weights != nil {
		if _, ok := weights["tags"]; ok {
			return true
		}
		_, hasTagsText := weights["tagsText"]
		return !hasTagsText
	}
	_, hasTagsText := key["tagsText"]
	return !hasTagsText
}
