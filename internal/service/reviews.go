package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/store"
)

type ReviewService struct {
	db  *store.Store
	log *zap.Logger
}

func NewReviewService(db *store.Store, log *zap.Logger) *ReviewService {
	return &ReviewService{db: db, log: log}
}

type CreateReviewInput struct {
	ProductID string               `json:"productId" binding:"required"`
	Rating    int                  `json:"rating" binding:"required,min=1,max=5"`
	Title     string               `json:"title"`
	Comment   string               `json:"comment"`
	Images    []models.ReviewImage `json:"images"`
}

type UpdateReviewInput struct {
	Rating  *int                 `json:"rating" binding:"omitempty,min=1,max=5"`
	Title   *string              `json:"title"`
	Comment *string              `json:"comment"`
	Images  []models.ReviewImage `json:"images"`
}

func (s *ReviewService) Create(ctx context.Context, userID primitive.ObjectID, input CreateReviewInput) (*models.Review, error) {
	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid product id")
	}

	count, err := s.db.Collection(store.ColProducts).CountDocuments(ctx, bson.M{"_id": productID})
	if err != nil {
		return nil, apperror.From(err, "Failed to load product")
	}
	if count == 0 {
		return nil, apperror.NotFound("Product not found")
	}

	userCount, err := s.db.Collection(store.ColUsers).CountDocuments(ctx, bson.M{"_id": userID, "isDeleted": false})
	if err != nil {
		return nil, apperror.From(err, "Failed to load user")
	}
	if userCount == 0 {
		return nil, apperror.NotFound("User not found")
	}

	existing, err := s.db.Collection(store.ColReviews).CountDocuments(ctx, bson.M{
		"product":   productID,
		"user":      userID,
		"isDeleted": false,
	})
	if err != nil {
		return nil, apperror.From(err, "Failed to check existing reviews")
	}
	if existing > 0 {
		return nil, apperror.BadRequest("You have already reviewed this product")
	}

	images := input.Images
	if images == nil {
		images = []models.ReviewImage{}
	}

	now := time.Now()
	review := &models.Review{
		Product:    productID,
		User:       userID,
		Rating:     input.Rating,
		Title:      strings.TrimSpace(input.Title),
		Comment:    strings.TrimSpace(input.Comment),
		Images:     images,
		IsApproved: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	res, err := s.db.Collection(store.ColReviews).InsertOne(ctx, review)
	if err != nil {
		return nil, apperror.From(err, "Failed to create review")
	}
	review.ID = res.InsertedID.(primitive.ObjectID)

	s.refreshProductRating(ctx, productID)
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, reviewID, userID primitive.ObjectID, input UpdateReviewInput) (*models.Review, error) {
	reviews := s.db.Collection(store.ColReviews)

	var review models.Review
	err := reviews.FindOne(ctx, bson.M{"_id": reviewID, "user": userID, "isDeleted": false}).Decode(&review)
	if err != nil {
		return nil, apperror.NotFound("Review not found")
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Rating != nil {
		set["rating"] = *input.Rating
		review.Rating = *input.Rating
	}
	if input.Title != nil {
		set["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Comment != nil {
		set["comment"] = strings.TrimSpace(*input.Comment)
	}
	if input.Images != nil {
		set["images"] = input.Images
	}

	if _, err := reviews.UpdateByID(ctx, review.ID, bson.M{"$set": set}); err != nil {
		return nil, apperror.From(err, "Failed to update review")
	}

	s.refreshProductRating(ctx, review.Product)
	return &review, nil
}

// Delete soft-deletes the review and recomputes the product's cached rating.
func (s *ReviewService) Delete(ctx context.Context, reviewID, userID primitive.ObjectID) error {
	reviews := s.db.Collection(store.ColReviews)

	var review models.Review
	err := reviews.FindOne(ctx, bson.M{"_id": reviewID, "user": userID, "isDeleted": false}).Decode(&review)
	if err != nil {
		return apperror.NotFound("Review not found")
	}

	if _, err := reviews.UpdateByID(ctx, review.ID, bson.M{"$set": bson.M{
		"isDeleted": true,
		"updatedAt": time.Now(),
	}}); err != nil {
		return apperror.From(err, "Failed to delete review")
	}

	s.refreshProductRating(ctx, review.Product)
	return nil
}

type ReviewStats struct {
	AverageRating      float64       `json:"averageRating"`
	TotalReviews       int64         `json:"totalReviews"`
	RatingDistribution map[int]int64 `json:"ratingDistribution"`
}

type ReviewPage struct {
	Reviews []models.Review `json:"reviews"`
	Page    int64           `json:"page"`
	Limit   int64           `json:"limit"`
	Total   int64           `json:"total"`
	Pages   int64           `json:"pages"`
	Stats   ReviewStats     `json:"stats"`
}

// ListForProduct returns approved reviews with pagination and the rating
// distribution computed by aggregation.
func (s *ReviewService) ListForProduct(ctx context.Context, productID primitive.ObjectID, page, limit int64, sortBy string) (*ReviewPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	switch sortBy {
	case "createdAt", "rating", "helpfulCount":
	default:
		sortBy = "createdAt"
	}

	match := bson.M{"product": productID, "isApproved": true, "isDeleted": false}
	reviews := s.db.Collection(store.ColReviews)

	cursor, err := reviews.Find(ctx, match, options.Find().
		SetSort(bson.D{{Key: sortBy, Value: -1}}).
		SetSkip((page-1)*limit).
		SetLimit(limit))
	if err != nil {
		return nil, apperror.From(err, "Failed to list reviews")
	}
	list := []models.Review{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, apperror.From(err, "Failed to list reviews")
	}

	total, err := reviews.CountDocuments(ctx, match)
	if err != nil {
		return nil, apperror.From(err, "Failed to count reviews")
	}

	stats, err := s.productStats(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &ReviewPage{
		Reviews: list,
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   (total + limit - 1) / limit,
		Stats:   *stats,
	}, nil
}

func (s *ReviewService) GetUserReview(ctx context.Context, productID, userID primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := s.db.Collection(store.ColReviews).
		FindOne(ctx, bson.M{"product": productID, "user": userID, "isDeleted": false}).
		Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.From(err, "Failed to load review")
	}
	return &review, nil
}

func (s *ReviewService) productStats(ctx context.Context, productID primitive.ObjectID) (*ReviewStats, error) {
	match := bson.M{"product": productID, "isApproved": true, "isDeleted": false}

	cursor, err := s.db.Collection(store.ColReviews).Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$rating",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": -1}}},
	})
	if err != nil {
		return nil, apperror.From(err, "Failed to aggregate reviews")
	}
	var buckets []struct {
		Rating int   `bson:"_id"`
		Count  int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, apperror.From(err, "Failed to aggregate reviews")
	}

	stats := &ReviewStats{RatingDistribution: map[int]int64{}}
	var sum int64
	for _, bucket := range buckets {
		stats.RatingDistribution[bucket.Rating] = bucket.Count
		stats.TotalReviews += bucket.Count
		sum += int64(bucket.Rating) * bucket.Count
	}
	if stats.TotalReviews > 0 {
		avg := float64(sum) / float64(stats.TotalReviews)
		stats.AverageRating = math.Round(avg*10) / 10
	}
	return stats, nil
}

// refreshProductRating caches the aggregate rating on the product's meta so
// the catalog can show it without a join. Failures are logged only.
func (s *ReviewService) refreshProductRating(ctx context.Context, productID primitive.ObjectID) {
	stats, err := s.productStats(ctx, productID)
	if err != nil {
		s.log.Error("failed to refresh product rating",
			zap.String("productId", productID.Hex()), zap.Error(err))
		return
	}
	_, err = s.db.Collection(store.ColProducts).UpdateByID(ctx, productID, bson.M{"$set": bson.M{
		"meta.averageRating": stats.AverageRating,
		"meta.totalReviews":  stats.TotalReviews,
	}})
	if err != nil {
		s.log.Error("failed to cache product rating",
			zap.String("productId", productID.Hex()), zap.Error(err))
	}
}
