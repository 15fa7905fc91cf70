package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/store"
)

const (
	maxBlogKeywords = 30
	maxBlogTags     = 30
)

type BlogService struct {
	db  *store.Store
	log *zap.Logger
}

func NewBlogService(db *store.Store, log *zap.Logger) *BlogService {
	return &BlogService{db: db, log: log}
}

type BlogImageInput struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type BlogSeoInput struct {
	MetaTitle       *string         `json:"metaTitle"`
	MetaDescription *string         `json:"metaDescription"`
	Keywords        []string        `json:"keywords"`
	CanonicalURL    *string         `json:"canonicalUrl"`
	OgTitle         *string         `json:"ogTitle"`
	OgDescription   *string         `json:"ogDescription"`
	OgImage         *BlogImageInput `json:"ogImage"`
	TwitterTitle    *string         `json:"twitterTitle"`
	TwitterDesc     *string         `json:"twitterDescription"`
	TwitterImage    *BlogImageInput `json:"twitterImage"`
	RobotsIndex     *bool           `json:"robotsIndex"`
	RobotsFollow    *bool           `json:"robotsFollow"`
}

type BlogInput struct {
	Title         string          `json:"title" binding:"required"`
	Slug          string          `json:"slug"`
	Excerpt       string          `json:"excerpt"`
	ContentHTML   string          `json:"contentHtml" binding:"required"`
	FeaturedImage *BlogImageInput `json:"featuredImage"`
	Tags          []string        `json:"tags"`
	Status        string          `json:"status"`
	PublishedAt   *time.Time      `json:"publishedAt"`
	Seo           *BlogSeoInput   `json:"seo"`
}

type BlogUpdateInput struct {
	Title         *string         `json:"title"`
	Slug          *string         `json:"slug"`
	Excerpt       *string         `json:"excerpt"`
	ContentHTML   *string         `json:"contentHtml"`
	FeaturedImage *BlogImageInput `json:"featuredImage"`
	Tags          []string        `json:"tags"`
	Status        *string         `json:"status"`
	PublishedAt   *time.Time      `json:"publishedAt"`
	Seo           *BlogSeoInput   `json:"seo"`
}

func (s *BlogService) resolveSlug(ctx context.Context, title, provided string, exclude *primitive.ObjectID) (string, error) {
	source := provided
	if source == "" {
		source = title
	}
	base := slug.Make(source)
	if base == "" {
		return "", apperror.BadRequest("Unable to derive blog slug")
	}

	candidate := base
	for attempt := 1; ; attempt++ {
		query := bson.M{"slug": candidate}
		if exclude != nil {
			query["_id"] = bson.M{"$ne": *exclude}
		}
		count, err := s.db.Collection(store.ColBlogs).CountDocuments(ctx, query)
		if err != nil {
			return "", apperror.From(err, "Failed to check blog slug")
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
}

func normaliseTerms(values []string, max int) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
		if len(out) == max {
			break
		}
	}
	return out
}

func normaliseBlogImage(img *BlogImageInput) *models.BlogImage {
	if img == nil || strings.TrimSpace(img.URL) == "" {
		return nil
	}
	return &models.BlogImage{URL: strings.TrimSpace(img.URL), Alt: strings.TrimSpace(img.Alt)}
}

func computePublishedAt(status models.BlogStatus, at *time.Time) *time.Time {
	if status != models.BlogPublished {
		return nil
	}
	if at == nil || at.IsZero() {
		now := time.Now()
		return &now
	}
	t := *at
	return &t
}

func buildBlogSeo(input *BlogSeoInput, existing *models.BlogSeo) *models.BlogSeo {
	if input == nil {
		return existing
	}
	seo := &models.BlogSeo{RobotsIndex: true, RobotsFollow: true}
	if existing != nil {
		*seo = *existing
	}
	trimInto := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	trimInto(&seo.MetaTitle, input.MetaTitle)
	trimInto(&seo.MetaDescription, input.MetaDescription)
	trimInto(&seo.CanonicalURL, input.CanonicalURL)
	trimInto(&seo.OgTitle, input.OgTitle)
	trimInto(&seo.OgDescription, input.OgDescription)
	trimInto(&seo.TwitterTitle, input.TwitterTitle)
	trimInto(&seo.TwitterDesc, input.TwitterDesc)
	if input.Keywords != nil {
		seo.Keywords = normaliseTerms(input.Keywords, maxBlogKeywords)
	}
	if input.OgImage != nil {
		seo.OgImage = normaliseBlogImage(input.OgImage)
	}
	if input.TwitterImage != nil {
		seo.TwitterImage = normaliseBlogImage(input.TwitterImage)
	}
	if input.RobotsIndex != nil {
		seo.RobotsIndex = *input.RobotsIndex
	}
	if input.RobotsFollow != nil {
		seo.RobotsFollow = *input.RobotsFollow
	}
	return seo
}

func (s *BlogService) Create(ctx context.Context, input BlogInput, authorID primitive.ObjectID) (*models.Blog, error) {
	status := models.BlogDraft
	if input.Status != "" {
		if input.Status != string(models.BlogDraft) && input.Status != string(models.BlogPublished) {
			return nil, apperror.BadRequest("Invalid blog status")
		}
		status = models.BlogStatus(input.Status)
	}

	blogSlug, err := s.resolveSlug(ctx, input.Title, input.Slug, nil)
	if err != nil {
		return nil, err
	}

	tags := normaliseTerms(input.Tags, maxBlogTags)
	now := time.Now()
	blog := &models.Blog{
		Title:         strings.TrimSpace(input.Title),
		Slug:          blogSlug,
		Excerpt:       strings.TrimSpace(input.Excerpt),
		ContentHTML:   input.ContentHTML,
		FeaturedImage: normaliseBlogImage(input.FeaturedImage),
		Tags:          tags,
		TagsText:      models.JoinTags(tags),
		Status:        status,
		PublishedAt:   computePublishedAt(status, input.PublishedAt),
		Seo:           buildBlogSeo(input.Seo, nil),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !authorID.IsZero() {
		blog.Author = &authorID
	}

	res, err := s.db.Collection(store.ColBlogs).InsertOne(ctx, blog)
	if err != nil {
		return nil, apperror.From(err, "Failed to create blog")
	}
	blog.ID = res.InsertedID.(primitive.ObjectID)
	return blog, nil
}

func (s *BlogService) Update(ctx context.Context, blogID primitive.ObjectID, input BlogUpdateInput) (*models.Blog, error) {
	var blog models.Blog
	err := s.db.Collection(store.ColBlogs).FindOne(ctx, bson.M{"_id": blogID}).Decode(&blog)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Blog not found")
	}
	if err != nil {
		return nil, apperror.From(err, "Failed to load blog")
	}

	set := bson.M{"updatedAt": time.Now()}

	title := blog.Title
	if input.Title != nil && *input.Title != "" {
		title = strings.TrimSpace(*input.Title)
		set["title"] = title
	}
	if input.Slug != nil || input.Title != nil {
		provided := blog.Slug
		if input.Slug != nil {
			provided = *input.Slug
		}
		newSlug, err := s.resolveSlug(ctx, title, provided, &blogID)
		if err != nil {
			return nil, err
		}
		set["slug"] = newSlug
	}

	if input.Excerpt != nil {
		set["excerpt"] = strings.TrimSpace(*input.Excerpt)
	}
	if input.ContentHTML != nil {
		set["contentHtml"] = *input.ContentHTML
	}
	if input.FeaturedImage != nil {
		set["featuredImage"] = normaliseBlogImage(input.FeaturedImage)
	}
	if input.Tags != nil {
		tags := normaliseTerms(input.Tags, maxBlogTags)
		set["tags"] = tags
		set["tagsText"] = models.JoinTags(tags)
	}
	if input.Seo != nil {
		set["seo"] = buildBlogSeo(input.Seo, blog.Seo)
	}

	if input.Status != nil {
		if *input.Status != string(models.BlogDraft) && *input.Status != string(models.BlogPublished) {
			return nil, apperror.BadRequest("Invalid blog status")
		}
		status := models.BlogStatus(*input.Status)
		set["status"] = status
		set["publishedAt"] = computePublishedAt(status, input.PublishedAt)
	} else if input.PublishedAt != nil && blog.Status == models.BlogPublished {
		set["publishedAt"] = computePublishedAt(models.BlogPublished, input.PublishedAt)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Blog
	if err := s.db.Collection(store.ColBlogs).
		FindOneAndUpdate(ctx, bson.M{"_id": blogID}, bson.M{"$set": set}, opts).
		Decode(&updated); err != nil {
		return nil, apperror.From(err, "Failed to update blog")
	}
	return &updated, nil
}

func (s *BlogService) Delete(ctx context.Context, blogID primitive.ObjectID) error {
	res, err := s.db.Collection(store.ColBlogs).DeleteOne(ctx, bson.M{"_id": blogID})
	if err != nil {
		return apperror.From(err, "Failed to delete blog")
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("Blog not found")
	}
	return nil
}

func (s *BlogService) GetByID(ctx context.Context, blogID primitive.ObjectID) (*models.Blog, error) {
	var blog models.Blog
	err := s.db.Collection(store.ColBlogs).FindOne(ctx, bson.M{"_id": blogID}).Decode(&blog)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Blog not found")
	}
	if err != nil {
		return nil, apperror.From(err, "Failed to load blog")
	}
	return &blog, nil
}

// GetBySlugPublic returns a published post and bumps its view counter. The
// counter update is best effort and never fails the read.
func (s *BlogService) GetBySlugPublic(ctx context.Context, blogSlug string) (*models.Blog, error) {
	blogSlug = strings.TrimSpace(blogSlug)
	if blogSlug == "" {
		return nil, apperror.BadRequest("Invalid blog slug")
	}

	var blog models.Blog
	err := s.db.Collection(store.ColBlogs).
		FindOne(ctx, bson.M{"slug": blogSlug, "status": models.BlogPublished}).
		Decode(&blog)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Blog not found")
	}
	if err != nil {
		return nil, apperror.From(err, "Failed to load blog")
	}

	if _, err := s.db.Collection(store.ColBlogs).UpdateOne(ctx,
		bson.M{"_id": blog.ID}, bson.M{"$inc": bson.M{"views": 1}}); err != nil {
		s.log.Warn("blog view increment failed", zap.String("slug", blogSlug), zap.Error(err))
	}
	return &blog, nil
}

type BlogPage struct {
	Items      []models.Blog `json:"items"`
	Page       int64         `json:"page"`
	Limit      int64         `json:"limit"`
	Total      int64         `json:"total"`
	TotalPages int64         `json:"totalPages"`
}

type ListBlogsOptions struct {
	Search string
	Status string
	Tag    string
	Page   int64
	Limit  int64
}

func clampPage(page, limit, defaultLimit, maxLimit int64) (int64, int64) {
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if page < 1 {
		page = 1
	}
	if page > 5000 {
		page = 5000
	}
	return page, limit
}

func (s *BlogService) ListForAdmin(ctx context.Context, opts ListBlogsOptions) (*BlogPage, error) {
	query := bson.M{}
	if opts.Status != "" && opts.Status != "all" {
		query["status"] = opts.Status
	}
	if term := strings.TrimSpace(opts.Search); term != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"slug": pattern},
			bson.M{"excerpt": pattern},
			bson.M{"tags": pattern},
			bson.M{"tagsText": pattern},
		}
	}

	page, limit := clampPage(opts.Page, opts.Limit, 20, 100)
	sort := bson.D{{Key: "publishedAt", Value: -1}, {Key: "createdAt", Value: -1}}
	return s.page(ctx, query, sort, page, limit)
}

func (s *BlogService) ListPublic(ctx context.Context, opts ListBlogsOptions) (*BlogPage, error) {
	query := bson.M{"status": models.BlogPublished}
	if tag := strings.TrimSpace(opts.Tag); tag != "" {
		query["tags"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(tag) + "$", Options: "i"}
	}

	sort := bson.D{{Key: "publishedAt", Value: -1}, {Key: "createdAt", Value: -1}}
	if term := strings.TrimSpace(opts.Search); term != "" {
		query["$text"] = bson.M{"$search": term}
		sort = bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}}
	}

	page, limit := clampPage(opts.Page, opts.Limit, 12, 50)
	return s.page(ctx, query, sort, page, limit)
}

func (s *BlogService) page(ctx context.Context, query bson.M, sort bson.D, page, limit int64) (*BlogPage, error) {
	findOpts := options.Find().
		SetSort(sort).
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetProjection(bson.M{"contentHtml": 0})

	cursor, err := s.db.Collection(store.ColBlogs).Find(ctx, query, findOpts)
	if err != nil {
		return nil, apperror.From(err, "Failed to list blogs")
	}
	items := []models.Blog{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperror.From(err, "Failed to list blogs")
	}

	total, err := s.db.Collection(store.ColBlogs).CountDocuments(ctx, query)
	if err != nil {
		return nil, apperror.From(err, "Failed to count blogs")
	}
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return &BlogPage{Items: items, Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

type BlogStats struct {
	Total      int64         `json:"total"`
	Drafts     int64         `json:"drafts"`
	Published  int64         `json:"published"`
	TopByViews []models.Blog `json:"topByViews"`
}

func (s *BlogService) StatsForAdmin(ctx context.Context) (*BlogStats, error) {
	col := s.db.Collection(store.ColBlogs)

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, apperror.From(err, "Failed to count blogs")
	}
	drafts, err := col.CountDocuments(ctx, bson.M{"status": models.BlogDraft})
	if err != nil {
		return nil, apperror.From(err, "Failed to count blogs")
	}
	published, err := col.CountDocuments(ctx, bson.M{"status": models.BlogPublished})
	if err != nil {
		return nil, apperror.From(err, "Failed to count blogs")
	}

	cursor, err := col.Find(ctx, bson.M{"status": models.BlogPublished},
		options.Find().
			SetSort(bson.D{{Key: "views", Value: -1}}).
			SetLimit(8).
			SetProjection(bson.M{"title": 1, "slug": 1, "views": 1, "publishedAt": 1}))
	if err != nil {
		return nil, apperror.From(err, "Failed to load top blogs")
	}
	top := []models.Blog{}
	if err := cursor.All(ctx, &top); err != nil {
		return nil, apperror.From(err, "Failed to load top blogs")
	}

	return &BlogStats{Total: total, Drafts: drafts, Published: published, TopByViews: top}, nil
}
