package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
)

type BlogImage struct {
	URL string `bson:"url" json:"url"`
	Alt string `bson:"alt,omitempty" json:"alt,omitempty"`
}

type BlogSeo struct {
	MetaTitle       string     `bson:"metaTitle,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string     `bson:"metaDescription,omitempty" json:"metaDescription,omitempty"`
	Keywords        []string   `bson:"keywords,omitempty" json:"keywords,omitempty"`
	CanonicalURL    string     `bson:"canonicalUrl,omitempty" json:"canonicalUrl,omitempty"`
	OgTitle         string     `bson:"ogTitle,omitempty" json:"ogTitle,omitempty"`
	OgDescription   string     `bson:"ogDescription,omitempty" json:"ogDescription,omitempty"`
	OgImage         *BlogImage `bson:"ogImage,omitempty" json:"ogImage,omitempty"`
	TwitterTitle    string     `bson:"twitterTitle,omitempty" json:"twitterTitle,omitempty"`
	TwitterDesc     string     `bson:"twitterDescription,omitempty" json:"twitterDescription,omitempty"`
	TwitterImage    *BlogImage `bson:"twitterImage,omitempty" json:"twitterImage,omitempty"`
	RobotsIndex     bool       `bson:"robotsIndex" json:"robotsIndex"`
	RobotsFollow    bool       `bson:"robotsFollow" json:"robotsFollow"`
}

type Blog struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title         string              `bson:"title" json:"title"`
	Slug          string              `bson:"slug" json:"slug"`
	Excerpt       string              `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	ContentHTML   string              `bson:"contentHtml,omitempty" json:"contentHtml,omitempty"`
	FeaturedImage *BlogImage          `bson:"featuredImage,omitempty" json:"featuredImage,omitempty"`
	Tags          []string            `bson:"tags" json:"tags"`
	TagsText      string              `bson:"tagsText" json:"tagsText"`
	Status        BlogStatus          `bson:"status" json:"status"`
	PublishedAt   *time.Time          `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	Author        *primitive.ObjectID `bson:"author,omitempty" json:"author,omitempty"`
	Seo           *BlogSeo            `bson:"seo,omitempty" json:"seo,omitempty"`
	Views         int64               `bson:"views" json:"views"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}
