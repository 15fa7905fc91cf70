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
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/store"
)

const maxProductPageSize = 200

type ProductService struct {
	db  *store.Store
	log *zap.Logger
}

func NewProductService(db *store.Store, log *zap.Logger) *ProductService {
	return &ProductService{db: db, log: log}
}

type ProductInput struct {
	Title            string                 `json:"title" binding:"required"`
	Slug             string                 `json:"slug"`
	SKU              string                 `json:"sku"`
	Description      string                 `json:"description"`
	ShortDescription string                 `json:"shortDescription"`
	Category         string                 `json:"category"`
	Subcategory      string                 `json:"subcategory"`
	Images           []models.ProductImage  `json:"images"`
	Attributes       map[string]string      `json:"attributes"`
	Stock            *int                   `json:"stock"`
	MinOrderQty      *int                   `json:"minOrderQty"`
	WeightKg         float64                `json:"weightKg"`
	VendorID         string                 `json:"vendorId"`
	Price            float64                `json:"price" binding:"required,gt=0"`
	PricingTiers     []models.PricingTier   `json:"pricingTiers"`
	TaxCode          string                 `json:"taxCode"`
	TaxPercentage    *float64               `json:"taxPercentage"`
	IsActive         *bool                  `json:"isActive"`
	ApprovedByAdmin  *bool                  `json:"approvedByAdmin"`
	Featured         *bool                  `json:"featured"`
	Tags             []string               `json:"tags"`
	Meta             map[string]interface{} `json:"meta"`
}

// ProductUpdateInput uses pointers throughout so absent fields stay untouched.
type ProductUpdateInput struct {
	Title            *string                `json:"title"`
	Slug             *string                `json:"slug"`
	SKU              *string                `json:"sku"`
	Description      *string                `json:"description"`
	ShortDescription *string                `json:"shortDescription"`
	Category         *string                `json:"category"`
	Subcategory      *string                `json:"subcategory"`
	Images           []models.ProductImage  `json:"images"`
	Attributes       map[string]string      `json:"attributes"`
	Stock            *int                   `json:"stock"`
	MinOrderQty      *int                   `json:"minOrderQty"`
	WeightKg         *float64               `json:"weightKg"`
	VendorID         *string                `json:"vendorId"`
	Price            *float64               `json:"price"`
	PricingTiers     []models.PricingTier   `json:"pricingTiers"`
	TaxCode          *string                `json:"taxCode"`
	TaxPercentage    *float64               `json:"taxPercentage"`
	IsActive         *bool                  `json:"isActive"`
	ApprovedByAdmin  *bool                  `json:"approvedByAdmin"`
	Featured         *bool                  `json:"featured"`
	Tags             []string               `json:"tags"`
	Meta             map[string]interface{} `json:"meta"`
}

// resolveSlug derives a unique slug from the title, probing -1, -2, ... until
// the candidate is free.
func (s *ProductService) resolveSlug(ctx context.Context, title, provided string, exclude *primitive.ObjectID) (string, error) {
	source := provided
	if source == "" {
		source = title
	}
	base := slug.Make(source)
	if base == "" {
		return "", apperror.BadRequest("Unable to derive product slug")
	}

	candidate := base
	for attempt := 1; ; attempt++ {
		query := bson.M{"slug": candidate}
		if exclude != nil {
			query["_id"] = bson.M{"$ne": *exclude}
		}
		count, err := s.db.Collection(store.ColProducts).CountDocuments(ctx, query)
		if err != nil {
			return "", apperror.From(err, "Failed to resolve product slug")
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
}

func buildVendorSnapshot(vendor *models.User) *models.VendorSnapshot {
	return &models.VendorSnapshot{
		VendorID:           vendor.ID,
		VendorName:         vendor.Name,
		VendorPhone:        vendor.Phone,
		VendorEmail:        vendor.Email,
		VendorBusinessName: vendor.BusinessName,
		VendorGstNumber:    vendor.GstNumber,
	}
}

func normaliseImages(images []models.ProductImage) []models.ProductImage {
	out := make([]models.ProductImage, 0, len(images))
	for i, img := range images {
		if img.URL == "" {
			continue
		}
		img.URL = strings.TrimSpace(img.URL)
		img.Alt = strings.TrimSpace(img.Alt)
		if img.Order == 0 {
			img.Order = i
		}
		out = append(out, img)
	}
	return out
}

func normalisePricing(tiers []models.PricingTier) []models.PricingTier {
	out := make([]models.PricingTier, 0, len(tiers))
	for _, tier := range tiers {
		if tier.MinQty > 0 && tier.PricePerUnit > 0 {
			out = append(out, tier)
		}
	}
	return out
}

func (s *ProductService) loadVendor(ctx context.Context, id string) (*models.User, error) {
	vendorID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.BadRequest("Vendor not found or invalid vendor")
	}
	var vendor models.User
	if err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": vendorID}).Decode(&vendor); err != nil {
		return nil, apperror.BadRequest("Vendor not found or invalid vendor")
	}
	if vendor.Role != models.RoleVendor && vendor.Role != models.RoleAdmin {
		return nil, apperror.BadRequest("Vendor not found or invalid vendor")
	}
	return &vendor, nil
}

// Create inserts a product. Vendor-created products are auto-approved and use
// isActive as the publish toggle; admin-created products default to
// unapproved unless stated.
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	vendor, err := s.loadVendor(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}

	productSlug, err := s.resolveSlug(ctx, input.Title, input.Slug, nil)
	if err != nil {
		return nil, err
	}

	tags := models.CleanTags(input.Tags)

	isVendorProduct := vendor.Role == models.RoleVendor
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	approved := isVendorProduct
	if !isVendorProduct && input.ApprovedByAdmin != nil {
		approved = *input.ApprovedByAdmin
	}

	now := time.Now()
	product := &models.Product{
		Title:            strings.TrimSpace(input.Title),
		Slug:             productSlug,
		SKU:              strings.TrimSpace(input.SKU),
		Description:      strings.TrimSpace(input.Description),
		ShortDescription: strings.TrimSpace(input.ShortDescription),
		Images:           normaliseImages(input.Images),
		Attributes:       input.Attributes,
		Stock:            0,
		MinOrderQty:      1,
		WeightKg:         input.WeightKg,
		Vendor:           vendor.ID,
		VendorSnapshot:   buildVendorSnapshot(vendor),
		Price:            input.Price,
		PricingTiers:     normalisePricing(input.PricingTiers),
		TaxCode:          input.TaxCode,
		IsActive:         isActive,
		ApprovedByAdmin:  approved,
		Tags:             tags,
		TagsText:         models.JoinTags(tags),
		Meta:             input.Meta,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.MinOrderQty != nil {
		product.MinOrderQty = *input.MinOrderQty
	}
	if input.TaxPercentage != nil {
		product.TaxPercentage = *input.TaxPercentage
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
	if cat := parseOptionalObjectID(input.Category); cat != nil {
		product.Category = cat
	}
	if sub := parseOptionalObjectID(input.Subcategory); sub != nil {
		product.Subcategory = sub
	}

	res, err := s.db.Collection(store.ColProducts).InsertOne(ctx, product)
	if err != nil {
		return nil, apperror.From(err, "Failed to create product")
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return product, nil
}

func parseOptionalObjectID(value string) *primitive.ObjectID {
	if value == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return nil
	}
	return &id
}

func (s *ProductService) Update(ctx context.Context, productID primitive.ObjectID, input ProductUpdateInput) (*models.Product, error) {
	products := s.db.Collection(store.ColProducts)

	var product models.Product
	if err := products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		return nil, apperror.NotFound("Product not found")
	}

	var owner models.User
	ownerErr := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": product.Vendor}).Decode(&owner)
	isVendorProduct := ownerErr == nil && owner.Role == models.RoleVendor

	set := bson.M{"updatedAt": time.Now()}

	if input.VendorID != nil && *input.VendorID != product.Vendor.Hex() {
		newVendor, err := s.loadVendor(ctx, *input.VendorID)
		if err != nil {
			return nil, err
		}
		set["vendor"] = newVendor.ID
		set["vendorSnapshot"] = buildVendorSnapshot(newVendor)
		isVendorProduct = newVendor.Role == models.RoleVendor
	}

	title := product.Title
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
		set["title"] = title
	}
	if input.Slug != nil || input.Title != nil {
		provided := product.Slug
		if input.Slug != nil {
			provided = *input.Slug
		}
		resolved, err := s.resolveSlug(ctx, title, provided, &productID)
		if err != nil {
			return nil, err
		}
		set["slug"] = resolved
	}
	if input.SKU != nil {
		set["sku"] = strings.TrimSpace(*input.SKU)
	}
	if input.Description != nil {
		set["description"] = strings.TrimSpace(*input.Description)
	}
	if input.ShortDescription != nil {
		set["shortDescription"] = strings.TrimSpace(*input.ShortDescription)
	}
	if input.Category != nil {
		set["category"] = parseOptionalObjectID(*input.Category)
	}
	if input.Subcategory != nil {
		set["subcategory"] = parseOptionalObjectID(*input.Subcategory)
	}
	if input.Stock != nil {
		set["stock"] = *input.Stock
	}
	if input.MinOrderQty != nil {
		set["minOrderQty"] = *input.MinOrderQty
	}
	if input.WeightKg != nil {
		set["weightKg"] = *input.WeightKg
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if input.TaxCode != nil {
		set["taxCode"] = *input.TaxCode
	}
	if input.TaxPercentage != nil {
		set["taxPercentage"] = *input.TaxPercentage
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}
	if isVendorProduct {
		set["approvedByAdmin"] = true
	} else if input.ApprovedByAdmin != nil {
		set["approvedByAdmin"] = *input.ApprovedByAdmin
	}
	if input.Featured != nil {
		set["featured"] = *input.Featured
	}
	if input.Tags != nil {
		tags := models.CleanTags(input.Tags)
		set["tags"] = tags
		set["tagsText"] = models.JoinTags(tags)
	}
	if input.Attributes != nil {
		set["attributes"] = input.Attributes
	}
	if input.Images != nil {
		set["images"] = normaliseImages(input.Images)
	}
	if input.PricingTiers != nil {
		set["pricingTiers"] = normalisePricing(input.PricingTiers)
	}
	if input.Meta != nil {
		set["meta"] = input.Meta
	}

	if _, err := products.UpdateByID(ctx, productID, bson.M{"$set": set}); err != nil {
		return nil, apperror.From(err, "Failed to update product")
	}

	var updated models.Product
	if err := products.FindOne(ctx, bson.M{"_id": productID}).Decode(&updated); err != nil {
		return nil, apperror.From(err, "Failed to load product")
	}
	return &updated, nil
}

func (s *ProductService) GetByID(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.db.Collection(store.ColProducts).FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		return nil, apperror.NotFound("Product not found")
	}
	return &product, nil
}

// GetBySlugPublic serves the storefront detail page; only active products are
// visible.
func (s *ProductService) GetBySlugPublic(ctx context.Context, productSlug string) (*models.Product, error) {
	if strings.TrimSpace(productSlug) == "" {
		return nil, apperror.BadRequest("Invalid product slug")
	}
	var product models.Product
	err := s.db.Collection(store.ColProducts).
		FindOne(ctx, bson.M{"slug": productSlug, "isActive": true}).
		Decode(&product)
	if err != nil {
		return nil, apperror.NotFound("Product not found")
	}
	return &product, nil
}

type ListProductsOptions struct {
	Search        string
	VendorID      *primitive.ObjectID
	PublishedOnly bool
	Limit         int64
}

// List searches the catalog. The search term matches product text fields and
// vendor identity, including vendors matched through the users collection.
func (s *ProductService) List(ctx context.Context, opts ListProductsOptions) ([]models.Product, error) {
	query := bson.M{}
	if opts.VendorID != nil {
		query["vendor"] = *opts.VendorID
	}
	if opts.PublishedOnly {
		query["isActive"] = true
	}

	if term := strings.TrimSpace(opts.Search); term != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}

		cursor, err := s.db.Collection(store.ColUsers).Find(ctx, bson.M{"$or": []bson.M{
			{"name": pattern},
			{"businessName": pattern},
			{"gstNumber": pattern},
		}}, options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return nil, apperror.From(err, "Failed to search vendors")
		}
		var matched []struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.All(ctx, &matched); err != nil {
			return nil, apperror.From(err, "Failed to search vendors")
		}

		or := []bson.M{
			{"title": pattern},
			{"slug": pattern},
			{"tags": pattern},
			{"tagsText": pattern},
			{"shortDescription": pattern},
			{"description": pattern},
			{"vendorSnapshot.vendorName": pattern},
			{"vendorSnapshot.vendorBusinessName": pattern},
			{"vendorSnapshot.vendorGstNumber": pattern},
		}
		if len(matched) > 0 {
			ids := make([]primitive.ObjectID, len(matched))
			for i, m := range matched {
				ids[i] = m.ID
			}
			or = append(or, bson.M{"vendor": bson.M{"$in": ids}})
		}
		query["$or"] = or
	}

	limit := opts.Limit
	if limit < 1 || limit > maxProductPageSize {
		limit = maxProductPageSize
	}

	cursor, err := s.db.Collection(store.ColProducts).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, apperror.From(err, "Failed to list products")
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperror.From(err, "Failed to list products")
	}
	return products, nil
}

// Delete removes a product. Only admins or the owning vendor may delete.
func (s *ProductService) Delete(ctx context.Context, productID, userID primitive.ObjectID, role models.UserRole) error {
	var product models.Product
	err := s.db.Collection(store.ColProducts).FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		return apperror.NotFound("Product not found")
	}

	if role != models.RoleAdmin && product.Vendor != userID {
		return apperror.Forbidden("You do not have permission to delete this product")
	}

	if _, err := s.db.Collection(store.ColProducts).DeleteOne(ctx, bson.M{"_id": productID}); err != nil {
		return apperror.From(err, "Failed to delete product")
	}
	return nil
}

// DecrementStock applies a best-effort stock reduction after an order is
// placed and bumps the sold counter. Stock never goes below zero.
func (s *ProductService) DecrementStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		res, err := s.db.Collection(store.ColProducts).UpdateOne(ctx,
			bson.M{"_id": item.ProductID, "stock": bson.M{"$gte": item.Qty}},
			bson.M{"$inc": bson.M{"stock": -item.Qty, "totalSold": item.Qty}},
		)
		if err != nil {
			s.log.Error("failed to decrement stock",
				zap.String("productId", item.ProductID.Hex()), zap.Error(err))
			continue
		}
		if res.ModifiedCount == 0 {
			s.log.Warn("stock not decremented, insufficient quantity",
				zap.String("productId", item.ProductID.Hex()), zap.Int("qty", item.Qty))
		}
	}
}
