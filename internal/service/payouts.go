package service

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/store"
)

type PayoutService struct {
	db       *store.Store
	settings *SettingsService
}

func NewPayoutService(db *store.Store, settings *SettingsService) *PayoutService {
	return &PayoutService{db: db, settings: settings}
}

type CreatePayoutInput struct {
	VendorID          string   `json:"vendorId" binding:"required"`
	OrdersIncluded    []string `json:"ordersIncluded"`
	GrossAmount       float64  `json:"grossAmount"`
	CommissionPercent *float64 `json:"commissionPercent"`
	Status            string   `json:"status"`
	PaymentMode       string   `json:"paymentMode"`
	AdminNotes        string   `json:"adminNotes"`
	PaymentReference  string   `json:"paymentReference"`
	ScheduledAt       *time.Time `json:"scheduledAt"`
}

type UpdatePayoutInput struct {
	Status           *string    `json:"status"`
	PaymentMode      *string    `json:"paymentMode"`
	AdminNotes       *string    `json:"adminNotes"`
	PaymentReference *string    `json:"paymentReference"`
	ScheduledAt      *time.Time `json:"scheduledAt"`
	PaidAt           *time.Time `json:"paidAt"`
}

// Create computes a vendor payout. When orders are given, the gross is the
// sum of the vendor's item totals across PAID orders only; otherwise the
// admin-supplied gross is used. Commission is clamped to [0, 100].
func (s *PayoutService) Create(ctx context.Context, input CreatePayoutInput, adminID primitive.ObjectID) (*models.Payout, error) {
	vendorID, err := primitive.ObjectIDFromHex(input.VendorID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid vendorId")
	}

	count, err := s.db.Collection(store.ColUsers).CountDocuments(ctx, bson.M{"_id": vendorID})
	if err != nil {
		return nil, apperror.From(err, "Failed to load vendor")
	}
	if count == 0 {
		return nil, apperror.NotFound("Vendor not found")
	}

	gross := input.GrossAmount
	ordersIncluded := make([]primitive.ObjectID, 0, len(input.OrdersIncluded))

	if len(input.OrdersIncluded) > 0 {
		for _, hex := range input.OrdersIncluded {
			orderID, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				return nil, apperror.BadRequest("Invalid order id in ordersIncluded")
			}
			ordersIncluded = append(ordersIncluded, orderID)
		}

		cursor, err := s.db.Collection(store.ColOrders).Find(ctx, bson.M{
			"_id":       bson.M{"$in": ordersIncluded},
			"isDeleted": false,
		})
		if err != nil {
			return nil, apperror.From(err, "Failed to load orders")
		}
		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			return nil, apperror.From(err, "Failed to load orders")
		}

		gross = 0
		for _, order := range orders {
			if order.PaymentStatus != models.PaymentPaid {
				continue
			}
			for _, item := range order.VendorItems(vendorID) {
				gross += item.TotalPrice
			}
		}
	}

	if gross <= 0 {
		return nil, apperror.BadRequest("Gross amount must be greater than 0 (or include paid orders)")
	}

	commissionPercent, err := s.settings.CommissionPercent(ctx)
	if err != nil {
		return nil, err
	}
	if input.CommissionPercent != nil {
		commissionPercent = *input.CommissionPercent
	}
	commissionPercent = models.ClampPercent(commissionPercent)
	commissionAmount := models.PercentOf(gross, commissionPercent)
	netAmount := models.RoundMoney(gross) - commissionAmount
	if netAmount < 0 {
		netAmount = 0
	}

	status := models.PayoutPending
	if input.Status != "" {
		if !models.ValidPayoutStatus(input.Status) {
			return nil, apperror.BadRequest("Invalid payout status")
		}
		status = models.PayoutStatus(input.Status)
	}
	mode := models.PaymentModeBank
	if input.PaymentMode != "" {
		if !models.ValidPaymentMode(input.PaymentMode) {
			return nil, apperror.BadRequest("Invalid payment mode")
		}
		mode = models.PaymentMode(input.PaymentMode)
	}

	now := time.Now()
	payout := &models.Payout{
		VendorID:          vendorID,
		GrossAmount:       models.RoundMoney(gross),
		CommissionPercent: commissionPercent,
		CommissionAmount:  commissionAmount,
		NetAmount:         netAmount,
		Amount:            netAmount,
		Currency:          "INR",
		OrdersIncluded:    ordersIncluded,
		Status:            status,
		ScheduledAt:       input.ScheduledAt,
		AdminNotes:        input.AdminNotes,
		PaymentReference:  input.PaymentReference,
		PaymentMode:       mode,
		CreatedBy:         adminID,
		UpdatedBy:         adminID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if status == models.PayoutPaid {
		payout.PaidAt = &now
	}

	res, err := s.db.Collection(store.ColPayouts).InsertOne(ctx, payout)
	if err != nil {
		return nil, apperror.From(err, "Failed to create payout")
	}
	payout.ID = res.InsertedID.(primitive.ObjectID)
	return payout, nil
}

// Update patches a payout. Moving to paid without an explicit paidAt stamps
// the current time.
func (s *PayoutService) Update(ctx context.Context, payoutID primitive.ObjectID, input UpdatePayoutInput, adminID primitive.ObjectID) (*models.Payout, error) {
	set := bson.M{"updatedBy": adminID, "updatedAt": time.Now()}

	if input.Status != nil {
		if !models.ValidPayoutStatus(*input.Status) {
			return nil, apperror.BadRequest("Invalid payout status")
		}
		set["status"] = *input.Status
		if *input.Status == string(models.PayoutPaid) && input.PaidAt == nil {
			set["paidAt"] = time.Now()
		}
	}
	if input.PaymentMode != nil {
		if !models.ValidPaymentMode(*input.PaymentMode) {
			return nil, apperror.BadRequest("Invalid payment mode")
		}
		set["paymentMode"] = *input.PaymentMode
	}
	if input.AdminNotes != nil {
		set["adminNotes"] = *input.AdminNotes
	}
	if input.PaymentReference != nil {
		set["paymentReference"] = *input.PaymentReference
	}
	if input.ScheduledAt != nil {
		set["scheduledAt"] = *input.ScheduledAt
	}
	if input.PaidAt != nil {
		set["paidAt"] = *input.PaidAt
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var payout models.Payout
	err := s.db.Collection(store.ColPayouts).
		FindOneAndUpdate(ctx, bson.M{"_id": payoutID}, bson.M{"$set": set}, opts).
		Decode(&payout)
	if err != nil {
		return nil, apperror.NotFound("Payout not found")
	}
	return &payout, nil
}

type ListPayoutsOptions struct {
	Status   string
	VendorID string
	Search   string
}

func (s *PayoutService) ListForAdmin(ctx context.Context, opts ListPayoutsOptions) ([]models.Payout, error) {
	query := bson.M{}
	if opts.Status != "" && opts.Status != "all" {
		query["status"] = opts.Status
	}
	if opts.VendorID != "" {
		if vendorID, err := primitive.ObjectIDFromHex(opts.VendorID); err == nil {
			query["vendorId"] = vendorID
		}
	}

	payouts, err := s.find(ctx, query)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(opts.Search))
	if term == "" {
		return payouts, nil
	}

	// Search matches vendor identity or payment reference.
	vendorNames := map[primitive.ObjectID]string{}
	filtered := payouts[:0]
	for _, payout := range payouts {
		name, ok := vendorNames[payout.VendorID]
		if !ok {
			var vendor models.User
			if err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": payout.VendorID}).Decode(&vendor); err == nil {
				name = strings.ToLower(vendor.DisplayName())
			}
			vendorNames[payout.VendorID] = name
		}
		if strings.Contains(name, term) || strings.Contains(strings.ToLower(payout.PaymentReference), term) {
			filtered = append(filtered, payout)
		}
	}
	return filtered, nil
}

func (s *PayoutService) ListForVendor(ctx context.Context, vendorID primitive.ObjectID, status string) ([]models.Payout, error) {
	query := bson.M{"vendorId": vendorID}
	if status != "" && status != "all" {
		query["status"] = status
	}
	return s.find(ctx, query)
}

type PaymentsSummary struct {
	TotalPaid          float64 `json:"totalPaid"`
	TotalPending       float64 `json:"totalPending"`
	LifetimeGross      float64 `json:"lifetimeGross"`
	LifetimeCommission float64 `json:"lifetimeCommission"`
}

// VendorSummary totals a vendor's payouts across their lifecycle.
func (s *PayoutService) VendorSummary(ctx context.Context, vendorID primitive.ObjectID) (*PaymentsSummary, error) {
	payouts, err := s.find(ctx, bson.M{"vendorId": vendorID})
	if err != nil {
		return nil, err
	}

	summary := &PaymentsSummary{}
	for _, payout := range payouts {
		net := payout.NetAmount
		if net == 0 {
			net = payout.Amount
		}
		if payout.Status == models.PayoutPaid {
			summary.TotalPaid += net
		} else {
			summary.TotalPending += net
		}
		summary.LifetimeGross += payout.GrossAmount
		summary.LifetimeCommission += payout.CommissionAmount
	}
	summary.TotalPaid = models.RoundMoney(summary.TotalPaid)
	summary.TotalPending = models.RoundMoney(summary.TotalPending)
	summary.LifetimeGross = models.RoundMoney(summary.LifetimeGross)
	summary.LifetimeCommission = models.RoundMoney(summary.LifetimeCommission)
	return summary, nil
}

func (s *PayoutService) find(ctx context.Context, query bson.M) ([]models.Payout, error) {
	cursor, err := s.db.Collection(store.ColPayouts).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, apperror.From(err, "Failed to list payouts")
	}
	payouts := []models.Payout{}
	if err := cursor.All(ctx, &payouts); err != nil {
		return nil, apperror.From(err, "Failed to list payouts")
	}
	return payouts, nil
}
