package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildCategoryTree(t *testing.T) {
	rootID := primitive.NewObjectID()
	childID := primitive.NewObjectID()
	grandchildID := primitive.NewObjectID()
	orphanID := primitive.NewObjectID()
	missingParent := primitive.NewObjectID()

	tree := BuildCategoryTree([]Category{
		{ID: rootID, Name: "Electronics"},
		{ID: childID, Name: "Phones", Parent: &rootID},
		{ID: grandchildID, Name: "Accessories", Parent: &childID},
		{ID: orphanID, Name: "Orphan", Parent: &missingParent},
	})

	require.Len(t, tree, 2)
	assert.Equal(t, "Electronics", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Phones", tree[0].Children[0].Name)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Accessories", tree[0].Children[0].Children[0].Name)

	// a parent missing from the list promotes the child to a root
	assert.Equal(t, "Orphan", tree[1].Name)
	assert.Empty(t, tree[1].Children)
}

func TestBuildCategoryTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildCategoryTree(nil))
}
