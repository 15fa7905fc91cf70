package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductImage struct {
	URL   string `bson:"url" json:"url"`
	Alt   string `bson:"alt,omitempty" json:"alt,omitempty"`
	Order int    `bson:"order" json:"order"`
}

type PricingTier struct {
	MinQty       int     `bson:"minQty" json:"minQty"`
	PricePerUnit float64 `bson:"pricePerUnit" json:"pricePerUnit"`
}

// VendorSnapshot denormalizes vendor info onto products and order items for
// quick display and admin lookups.
type VendorSnapshot struct {
	VendorID           primitive.ObjectID `bson:"vendorId" json:"vendorId"`
	VendorName         string             `bson:"vendorName" json:"vendorName"`
	VendorPhone        string             `bson:"vendorPhone,omitempty" json:"vendorPhone,omitempty"`
	VendorEmail        string             `bson:"vendorEmail,omitempty" json:"vendorEmail,omitempty"`
	VendorBusinessName string             `bson:"vendorBusinessName,omitempty" json:"vendorBusinessName,omitempty"`
	VendorGstNumber    string             `bson:"vendorGstNumber,omitempty" json:"vendorGstNumber,omitempty"`
}

type Product struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title            string              `bson:"title" json:"title"`
	Slug             string              `bson:"slug" json:"slug"`
	SKU              string              `bson:"sku,omitempty" json:"sku,omitempty"`
	Description      string              `bson:"description,omitempty" json:"description,omitempty"`
	ShortDescription string              `bson:"shortDescription,omitempty" json:"shortDescription,omitempty"`
	Category         *primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	Subcategory      *primitive.ObjectID `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Images           []ProductImage      `bson:"images" json:"images"`
	Attributes       map[string]string   `bson:"attributes,omitempty" json:"attributes,omitempty"`
	Stock            int                 `bson:"stock" json:"stock"`
	MinOrderQty      int                 `bson:"minOrderQty" json:"minOrderQty"`
	WeightKg         float64             `bson:"weightKg,omitempty" json:"weightKg,omitempty"`

	Vendor         primitive.ObjectID `bson:"vendor" json:"vendor"`
	VendorSnapshot *VendorSnapshot    `bson:"vendorSnapshot,omitempty" json:"vendorSnapshot,omitempty"`

	Price         float64       `bson:"price" json:"price"`
	PricingTiers  []PricingTier `bson:"pricingTiers" json:"pricingTiers"`
	TaxCode       string        `bson:"taxCode,omitempty" json:"taxCode,omitempty"`
	TaxPercentage float64       `bson:"taxPercentage,omitempty" json:"taxPercentage,omitempty"`

	IsActive        bool `bson:"isActive" json:"isActive"`
	ApprovedByAdmin bool `bson:"approvedByAdmin" json:"approvedByAdmin"`
	Featured        bool `bson:"featured" json:"featured"`

	TotalSold int `bson:"totalSold" json:"totalSold"`

	Tags     []string               `bson:"tags" json:"tags"`
	TagsText string                 `bson:"tagsText" json:"tagsText"`
	Meta     map[string]interface{} `bson:"meta,omitempty" json:"meta,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// JoinTags mirrors a tag list into the space-joined string persisted alongside
// it so the store's text index can search over tags. Empty or all-blank input
// mirrors to "".
func JoinTags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

// CleanTags trims tags and drops blanks, preserving order.
func CleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
