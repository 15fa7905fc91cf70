package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeFolder(t *testing.T) {
	assert.Equal(t, "reviews", SafeFolder("reviews"))
	assert.Equal(t, "vendor-applications", SafeFolder(" vendor-applications "))
	assert.Equal(t, "blog_images", SafeFolder("blog_images"))

	// anything that could escape the root collapses to it
	assert.Equal(t, "", SafeFolder("../secrets"))
	assert.Equal(t, "", SafeFolder("a/b"))
	assert.Equal(t, "", SafeFolder("a\\b"))
	assert.Equal(t, "", SafeFolder("."))
	assert.Equal(t, "", SafeFolder(""))
}
