package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/store"
)

type VendorService struct {
	db   *store.Store
	auth *AuthService
}

func NewVendorService(db *store.Store, auth *AuthService) *VendorService {
	return &VendorService{db: db, auth: auth}
}

// VerificationView is the admin-facing slice of a vendor's KYC submission.
type VerificationView struct {
	Status      models.VerificationStatus `json:"status"`
	SubmittedAt time.Time                 `json:"submittedAt"`
	ReviewedAt  *time.Time                `json:"reviewedAt,omitempty"`
	AdminNotes  string                    `json:"adminNotes,omitempty"`
	Documents   []models.VendorDocument   `json:"documents"`
}

type VendorView struct {
	models.User
	Verification *VerificationView `json:"verification"`
}

type ListVendorsOptions struct {
	Status string
	Search string
	Limit  int64
}

// List returns vendors plus customers with a pending vendor application,
// each joined with their latest verification record.
func (s *VendorService) List(ctx context.Context, opts ListVendorsOptions) ([]VendorView, error) {
	conditions := bson.A{
		bson.M{"$or": bson.A{
			bson.M{"role": models.RoleVendor},
			bson.M{"vendorStatus": bson.M{"$exists": true, "$ne": nil}},
		}},
		bson.M{"isDeleted": false},
	}
	if opts.Status != "" && opts.Status != "all" {
		conditions = append(conditions, bson.M{"vendorStatus": opts.Status})
	}
	if term := strings.TrimSpace(opts.Search); term != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		conditions = append(conditions, bson.M{"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"businessName": pattern},
			bson.M{"gstNumber": pattern},
			bson.M{"email": pattern},
			bson.M{"phone": pattern},
		}})
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	cursor, err := s.db.Collection(store.ColUsers).Find(ctx, bson.M{"$and": conditions},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, apperror.From(err, "Failed to list vendors")
	}
	var vendors []models.User
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, apperror.From(err, "Failed to list vendors")
	}

	ids := make([]primitive.ObjectID, 0, len(vendors))
	for _, v := range vendors {
		ids = append(ids, v.ID)
	}

	verifications := map[primitive.ObjectID]models.VendorVerification{}
	if len(ids) > 0 {
		cursor, err := s.db.Collection(store.ColVendorVerifications).Find(ctx,
			bson.M{"userId": bson.M{"$in": ids}},
			options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}}))
		if err != nil {
			return nil, apperror.From(err, "Failed to load verifications")
		}
		var docs []models.VendorVerification
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, apperror.From(err, "Failed to load verifications")
		}
		// Ascending sort means the latest submission wins the map slot.
		for _, doc := range docs {
			verifications[doc.UserID] = doc
		}
	}

	views := make([]VendorView, 0, len(vendors))
	for _, vendor := range vendors {
		view := VendorView{User: vendor}
		if verification, ok := verifications[vendor.ID]; ok {
			view.Verification = &VerificationView{
				Status:      verification.Status,
				SubmittedAt: verification.SubmittedAt,
				ReviewedAt:  verification.ReviewedAt,
				AdminNotes:  verification.AdminNotes,
				Documents:   verification.Documents,
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *VendorService) loadApplicant(ctx context.Context, vendorID primitive.ObjectID) (*models.User, error) {
	var vendor models.User
	err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": vendorID}).Decode(&vendor)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Vendor not found")
	}
	if err != nil {
		return nil, apperror.From(err, "Failed to load vendor")
	}
	if vendor.Role != models.RoleVendor && vendor.VendorStatus == "" {
		return nil, apperror.NotFound("Vendor not found")
	}
	return &vendor, nil
}

// Approve activates a vendor application. Approving an already active vendor
// is a no-op.
func (s *VendorService) Approve(ctx context.Context, vendorID, adminID primitive.ObjectID) (*models.User, error) {
	vendor, err := s.loadApplicant(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor.VendorStatus == models.VendorActive {
		return vendor, nil
	}
	if err := s.auth.ApproveVendor(ctx, vendorID, adminID); err != nil {
		return nil, err
	}
	return s.loadApplicant(ctx, vendorID)
}

func (s *VendorService) Reject(ctx context.Context, vendorID, adminID primitive.ObjectID, reason string) (*models.User, error) {
	vendor, err := s.loadApplicant(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor.VendorStatus == models.VendorRejected {
		return vendor, nil
	}
	if err := s.auth.RejectVendor(ctx, vendorID, adminID, reason); err != nil {
		return nil, err
	}
	return s.loadApplicant(ctx, vendorID)
}

type VendorProfile struct {
	Vendor       models.User       `json:"vendor"`
	Verification *VerificationView `json:"verification"`
}

func (s *VendorService) ProfileWithDocs(ctx context.Context, vendorID primitive.ObjectID) (*VendorProfile, error) {
	var vendor models.User
	err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": vendorID}).Decode(&vendor)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Vendor not found")
	}
	if err != nil {
		return nil, apperror.From(err, "Failed to load vendor")
	}
	if vendor.IsDeleted || vendor.Role != models.RoleVendor {
		return nil, apperror.NotFound("Vendor not found")
	}

	profile := &VendorProfile{Vendor: vendor}

	var verification models.VendorVerification
	err = s.db.Collection(store.ColVendorVerifications).
		FindOne(ctx, bson.M{"userId": vendorID},
			options.FindOne().SetSort(bson.D{{Key: "submittedAt", Value: -1}})).
		Decode(&verification)
	if err == nil {
		profile.Verification = &VerificationView{
			Status:      verification.Status,
			SubmittedAt: verification.SubmittedAt,
			ReviewedAt:  verification.ReviewedAt,
			AdminNotes:  verification.AdminNotes,
			Documents:   verification.Documents,
		}
	} else if err != mongo.ErrNoDocuments {
		return nil, apperror.From(err, "Failed to load verification")
	}
	return profile, nil
}

type VendorProfileInput struct {
	Name *string `json:"name"`
}

func (s *VendorService) UpdateProfile(ctx context.Context, vendorID primitive.ObjectID, input VendorProfileInput) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len(name) < 2 {
			return nil, apperror.BadRequest("Name must be at least 2 characters")
		}
		set["name"] = name
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err := s.db.Collection(store.ColUsers).
		FindOneAndUpdate(ctx,
			bson.M{"_id": vendorID, "role": models.RoleVendor, "isDeleted": false},
			bson.M{"$set": set}, opts).
		Decode(&updated)
	if err != nil {
		return nil, apperror.NotFound("Vendor not found")
	}
	return &updated, nil
}

type DashboardRevenue struct {
	Total     float64 `json:"total"`
	Formatted string  `json:"formatted"`
}

type DashboardProducts struct {
	Active  int64 `json:"active"`
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
}

type DashboardOrders struct {
	Open              int `json:"open"`
	RequiringDispatch int `json:"requiringDispatch"`
	Total             int `json:"total"`
}

type DashboardFulfilment struct {
	Rate            float64 `json:"rate"`
	PackedReady     int     `json:"packedReady"`
	AwaitingPickup  int     `json:"awaitingPickup"`
	DelayedDispatch int     `json:"delayedDispatch"`
}

type DashboardStats struct {
	Revenue    DashboardRevenue    `json:"revenue"`
	Products   DashboardProducts   `json:"products"`
	Orders     DashboardOrders     `json:"orders"`
	Fulfilment DashboardFulfilment `json:"fulfilment"`
}

// Dashboard summarises a vendor's revenue, catalog and fulfilment position.
// Revenue attributes a proportional share of each paid order's tax and
// shipping to the vendor based on their subtotal share.
func (s *VendorService) Dashboard(ctx context.Context, vendorID primitive.ObjectID) (*DashboardStats, error) {
	cursor, err := s.db.Collection(store.ColOrders).Find(ctx, bson.M{
		"items.vendorId": vendorID,
		"isDeleted":      false,
	})
	if err != nil {
		return nil, apperror.From(err, "Failed to load vendor orders")
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, apperror.From(err, "Failed to load vendor orders")
	}

	stats := &DashboardStats{}
	dispatchCutoff := time.Now().Add(-24 * time.Hour)

	var revenue float64
	for _, order := range orders {
		stats.Orders.Total++

		switch order.Status {
		case models.OrderCreated, models.OrderVendorShippedToWarehouse:
			stats.Orders.Open++
		}
		if order.Status == models.OrderCreated && order.PaymentStatus == models.PaymentPaid {
			stats.Orders.RequiringDispatch++
			if order.PlacedAt.Before(dispatchCutoff) {
				stats.Fulfilment.DelayedDispatch++
			}
		}
		switch order.Status {
		case models.OrderPacked:
			stats.Fulfilment.PackedReady++
		case models.OrderVendorShippedToWarehouse:
			stats.Fulfilment.AwaitingPickup++
		}

		if order.PaymentStatus == models.PaymentPaid {
			var vendorSubtotal float64
			for _, item := range order.VendorItems(vendorID) {
				vendorSubtotal += item.TotalPrice
			}
			proportion := 0.0
			if order.Subtotal > 0 {
				proportion = vendorSubtotal / order.Subtotal
			}
			revenue += vendorSubtotal + order.Tax*proportion + order.ShippingCost*proportion
		}
	}
	stats.Revenue = DashboardRevenue{Total: revenue, Formatted: formatCompactINR(revenue)}

	shipped := 0
	for _, order := range orders {
		switch order.Status {
		case models.OrderVendorShippedToWarehouse, models.OrderReceivedInWarehouse,
			models.OrderPacked, models.OrderShipped, models.OrderDelivered:
			shipped++
		}
	}
	if stats.Orders.Total > 0 {
		rate := float64(shipped) / float64(stats.Orders.Total) * 100
		stats.Fulfilment.Rate = math.Round(rate*10) / 10
	}

	active, err := s.db.Collection(store.ColProducts).CountDocuments(ctx,
		bson.M{"vendor": vendorID, "isActive": true})
	if err != nil {
		return nil, apperror.From(err, "Failed to count products")
	}
	total, err := s.db.Collection(store.ColProducts).CountDocuments(ctx, bson.M{"vendor": vendorID})
	if err != nil {
		return nil, apperror.From(err, "Failed to count products")
	}
	stats.Products = DashboardProducts{Active: active, Total: total, Pending: total - active}

	return stats, nil
}

// formatCompactINR renders an amount as ₹NN, ₹N.Nk or ₹N.NL for dashboard
// display.
func formatCompactINR(amount float64) string {
	switch {
	case amount >= 100000:
		return fmt.Sprintf("₹%.1fL", amount/100000)
	case amount >= 1000:
		return fmt.Sprintf("₹%.1fk", amount/1000)
	default:
		return fmt.Sprintf("₹%d", int64(math.Round(amount)))
	}
}
