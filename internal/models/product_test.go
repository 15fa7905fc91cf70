package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "steel pipes wholesale", JoinTags([]string{"steel", "pipes", "wholesale"}))
	assert.Equal(t, "steel pipes", JoinTags([]string{"  steel ", "", "pipes", "   "}))
	assert.Equal(t, "", JoinTags(nil))
	assert.Equal(t, "", JoinTags([]string{"", "  "}))
}

func TestCleanTags(t *testing.T) {
	assert.Equal(t, []string{"steel", "pipes"}, CleanTags([]string{" steel", "", "pipes "}))
	assert.Empty(t, CleanTags(nil))
	assert.Empty(t, CleanTags([]string{"   "}))
}
