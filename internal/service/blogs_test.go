package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaarwale-backend/internal/models"
)

func TestNormaliseTerms(t *testing.T) {
	assert.Equal(t, []string{"go", "mongo"}, normaliseTerms([]string{" go ", "", "mongo"}, 30))
	assert.Equal(t, []string{"a", "b"}, normaliseTerms([]string{"a", "b", "c"}, 2))
	assert.Empty(t, normaliseTerms(nil, 30))
}

func TestComputePublishedAt(t *testing.T) {
	assert.Nil(t, computePublishedAt(models.BlogDraft, nil))

	explicit := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	got := computePublishedAt(models.BlogPublished, &explicit)
	require.NotNil(t, got)
	assert.Equal(t, explicit, *got)

	got = computePublishedAt(models.BlogPublished, nil)
	require.NotNil(t, got)
	assert.WithinDuration(t, time.Now(), *got, time.Second)
}

func TestClampPage(t *testing.T) {
	page, limit := clampPage(0, 0, 10, 50)
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(10), limit)

	page, limit = clampPage(3, 200, 10, 50)
	assert.Equal(t, int64(3), page)
	assert.Equal(t, int64(50), limit)

	page, _ = clampPage(99999, 10, 10, 50)
	assert.Equal(t, int64(5000), page)
}

func TestBuildBlogSeoMergesOverExisting(t *testing.T) {
	existing := &models.BlogSeo{
		MetaTitle:    "Old title",
		Keywords:     []string{"old"},
		RobotsIndex:  true,
		RobotsFollow: true,
	}
	title := " New title "
	got := buildBlogSeo(&BlogSeoInput{
		MetaTitle: &title,
		Keywords:  []string{"b2b", " wholesale "},
	}, existing)

	require.NotNil(t, got)
	assert.Equal(t, "New title", got.MetaTitle)
	assert.Equal(t, []string{"b2b", "wholesale"}, got.Keywords)
	assert.True(t, got.RobotsIndex)
	assert.True(t, got.RobotsFollow)
}

func TestBuildBlogSeoNilInputKeepsExisting(t *testing.T) {
	existing := &models.BlogSeo{MetaTitle: "Keep me"}
	assert.Same(t, existing, buildBlogSeo(nil, existing))
}

func TestNormaliseBlogImage(t *testing.T) {
	assert.Nil(t, normaliseBlogImage(nil))
	assert.Nil(t, normaliseBlogImage(&BlogImageInput{URL: "  "}))

	got := normaliseBlogImage(&BlogImageInput{URL: " /uploads/cover.png ", Alt: " Cover "})
	require.NotNil(t, got)
	assert.Equal(t, "/uploads/cover.png", got.URL)
	assert.Equal(t, "Cover", got.Alt)
}
