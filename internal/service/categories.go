package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/store"
)

type CategoryService struct {
	db *store.Store
}

func NewCategoryService(db *store.Store) *CategoryService {
	return &CategoryService{db: db}
}

type CategoryInput struct {
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Parent      *string `json:"parent"`
	Image       string  `json:"image"`
	IsActive    *bool   `json:"isActive"`
}

type CategoryUpdateInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Parent      *string `json:"parent"`
	Image       *string `json:"image"`
	IsActive    *bool   `json:"isActive"`
}

func (s *CategoryService) resolveSlug(ctx context.Context, name, provided string, exclude *primitive.ObjectID) (string, error) {
	source := provided
	if source == "" {
		source = name
	}
	base := slug.Make(source)
	if base == "" {
		return "", apperror.BadRequest("Unable to generate slug for category")
	}

	candidate := base
	for attempt := 1; ; attempt++ {
		query := bson.M{"slug": candidate}
		if exclude != nil {
			query["_id"] = bson.M{"$ne": *exclude}
		}
		count, err := s.db.Collection(store.ColCategories).CountDocuments(ctx, query)
		if err != nil {
			return "", apperror.From(err, "Failed to check category slug")
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
}

func (s *CategoryService) resolveParent(ctx context.Context, hex string) (*primitive.ObjectID, error) {
	parentID, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, apperror.BadRequest("Invalid parent category id")
	}
	count, err := s.db.Collection(store.ColCategories).CountDocuments(ctx, bson.M{"_id": parentID})
	if err != nil {
		return nil, apperror.From(err, "Failed to load parent category")
	}
	if count == 0 {
		return nil, apperror.NotFound("Parent category not found")
	}
	return &parentID, nil
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	categorySlug, err := s.resolveSlug(ctx, input.Name, input.Slug, nil)
	if err != nil {
		return nil, err
	}

	var parent *primitive.ObjectID
	if input.Parent != nil && *input.Parent != "" {
		if parent, err = s.resolveParent(ctx, *input.Parent); err != nil {
			return nil, err
		}
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	now := time.Now()
	category := &models.Category{
		Name:        strings.TrimSpace(input.Name),
		Slug:        categorySlug,
		Description: strings.TrimSpace(input.Description),
		Image:       input.Image,
		Parent:      parent,
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := s.db.Collection(store.ColCategories).InsertOne(ctx, category)
	if err != nil {
		return nil, apperror.From(err, "Failed to create category")
	}
	category.ID = res.InsertedID.(primitive.ObjectID)
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, categoryID primitive.ObjectID, input CategoryUpdateInput) (*models.Category, error) {
	var category models.Category
	err := s.db.Collection(store.ColCategories).FindOne(ctx, bson.M{"_id": categoryID}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Category not found")
	}
	if err != nil {
		return nil, apperror.From(err, "Failed to load category")
	}

	set := bson.M{"updatedAt": time.Now()}

	name := category.Name
	if input.Name != nil && *input.Name != "" {
		name = strings.TrimSpace(*input.Name)
		set["name"] = name
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}
	if input.Description != nil {
		set["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Image != nil {
		set["image"] = *input.Image
	}

	unset := bson.M{}
	if input.Parent != nil {
		if *input.Parent == "" {
			unset["parent"] = ""
		} else {
			if *input.Parent == categoryID.Hex() {
				return nil, apperror.BadRequest("Category cannot be its own parent")
			}
			parent, err := s.resolveParent(ctx, *input.Parent)
			if err != nil {
				return nil, err
			}
			set["parent"] = *parent
		}
	}

	if input.Slug != nil || input.Name != nil {
		provided := category.Slug
		if input.Slug != nil {
			provided = *input.Slug
		}
		newSlug, err := s.resolveSlug(ctx, name, provided, &categoryID)
		if err != nil {
			return nil, err
		}
		set["slug"] = newSlug
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Category
	if err := s.db.Collection(store.ColCategories).
		FindOneAndUpdate(ctx, bson.M{"_id": categoryID}, update, opts).
		Decode(&updated); err != nil {
		return nil, apperror.From(err, "Failed to update category")
	}
	return &updated, nil
}

// CategoryListing pairs the flat category list with the assembled tree so the
// storefront can render either view from one call.
type CategoryListing struct {
	Categories []models.Category      `json:"categories"`
	Tree       []*models.CategoryNode `json:"tree"`
}

func (s *CategoryService) List(ctx context.Context) (*CategoryListing, error) {
	cursor, err := s.db.Collection(store.ColCategories).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, apperror.From(err, "Failed to list categories")
	}
	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, apperror.From(err, "Failed to list categories")
	}

	return &CategoryListing{
		Categories: categories,
		Tree:       models.BuildCategoryTree(categories),
	}, nil
}

func (s *CategoryService) Delete(ctx context.Context, categoryID primitive.ObjectID) error {
	count, err := s.db.Collection(store.ColCategories).CountDocuments(ctx, bson.M{"_id": categoryID})
	if err != nil {
		return apperror.From(err, "Failed to load category")
	}
	if count == 0 {
		return apperror.NotFound("Category not found")
	}

	children, err := s.db.Collection(store.ColCategories).CountDocuments(ctx, bson.M{"parent": categoryID})
	if err != nil {
		return apperror.From(err, "Failed to check subcategories")
	}
	if children > 0 {
		return apperror.BadRequest("Cannot delete category with subcategories. Please delete or move subcategories first.")
	}

	inUse, err := s.db.Collection(store.ColProducts).CountDocuments(ctx, bson.M{
		"$or": bson.A{
			bson.M{"category": categoryID},
			bson.M{"subcategory": categoryID},
		},
	})
	if err != nil {
		return apperror.From(err, "Failed to check category usage")
	}
	if inUse > 0 {
		return apperror.BadRequest("Cannot delete category that is assigned to products. Please reassign products first.")
	}

	if _, err := s.db.Collection(store.ColCategories).DeleteOne(ctx, bson.M{"_id": categoryID}); err != nil {
		return apperror.From(err, "Failed to delete category")
	}
	return nil
}
