package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestLegacyTextIndex(t *testing.T) {
	t.Run("plain index is kept", func(t *testing.T) {
		assert.False(t, legacyTextIndex(bson.M{"slug": int32(1)}, nil))
	})

	t.Run("text index over the tags array is legacy", func(t *testing.T) {
		key := bson.M{"_fts": "text", "_ftsx": int32(1)}
		weights := bson.M{"title": int32(1), "tags": int32(1)}
		assert.True(t, legacyTextIndex(key, weights))
	})

	t.Run("text index without tagsText is legacy", func(t *testing.T) {
		key := bson.M{"_fts": "text", "_ftsx": int32(1)}
		weights := bson.M{"title": int32(1), "description": int32(1)}
		assert.True(t, legacyTextIndex(key, weights))
	})

	t.Run("current text index is kept", func(t *testing.T) {
		key := bson.M{"_fts": "text", "_ftsx": int32(1)}
		weights := bson.M{"title": int32(1), "tagsText": int32(1)}
		assert.False(t, legacyTextIndex(key, weights))
	})

	t.Run("text index without weights falls back to the key", func(t *testing.T) {
		assert.True(t, legacyTextIndex(bson.M{"title": "text"}, nil))
		assert.False(t, legacyTextIndex(bson.M{"title": "text", "tagsText": "text"}, nil))
	})
}
