package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutPaid       PayoutStatus = "paid"
	PayoutRejected   PayoutStatus = "rejected"
)

func ValidPayoutStatus(status string) bool {
	switch PayoutStatus(status) {
	case PayoutPending, PayoutProcessing, PayoutPaid, PayoutRejected:
		return true
	}
	return false
}

type PaymentMode string

const (
	PaymentModeBank  PaymentMode = "bank"
	PaymentModeUPI   PaymentMode = "upi"
	PaymentModeCash  PaymentMode = "cash"
	PaymentModeOther PaymentMode = "other"
)

func ValidPaymentMode(mode string) bool {
	switch PaymentMode(mode) {
	case PaymentModeBank, PaymentModeUPI, PaymentModeCash, PaymentModeOther:
		return true
	}
	return false
}

// Payout aggregates a vendor's share of a set of paid orders minus the
// platform commission. Its status lifecycle is independent of order status.
type Payout struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VendorID primitive.ObjectID `bson:"vendorId" json:"vendorId"`

	GrossAmount       float64 `bson:"grossAmount" json:"grossAmount"`
	CommissionPercent float64 `bson:"commissionPercent" json:"commissionPercent"`
	CommissionAmount  float64 `bson:"commissionAmount" json:"commissionAmount"`
	NetAmount         float64 `bson:"netAmount" json:"netAmount"`
	// Amount is a legacy alias for NetAmount kept for older consumers.
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"`

	OrdersIncluded []primitive.ObjectID `bson:"ordersIncluded" json:"ordersIncluded"`

	Status           PayoutStatus `bson:"status" json:"status"`
	ScheduledAt      *time.Time   `bson:"scheduledAt,omitempty" json:"scheduledAt,omitempty"`
	PaidAt           *time.Time   `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	AdminNotes       string       `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	PaymentReference string       `bson:"paymentReference,omitempty" json:"paymentReference,omitempty"`
	PaymentMode      PaymentMode  `bson:"paymentMode" json:"paymentMode"`

	CreatedBy primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	UpdatedBy primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
