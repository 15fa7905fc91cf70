package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session backs a refresh token; only the token's sha256 hash is stored.
type Session struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User             primitive.ObjectID `bson:"user" json:"user"`
	Role             UserRole           `bson:"role" json:"role"`
	RefreshTokenHash string             `bson:"refreshTokenHash" json:"-"`
	UserAgent        string             `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	IPAddress        string             `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	ExpiresAt        time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type PasswordResetToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	TokenHash string             `bson:"tokenHash" json:"-"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	UsedAt    *time.Time         `bson:"usedAt,omitempty" json:"usedAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Document types every vendor application must include.
const (
	DocAadhaarFront   = "aadhaarFront"
	DocAadhaarBack    = "aadhaarBack"
	DocGstCertificate = "gstCertificate"
	DocPanCard        = "panCard"
)

type VendorDocument struct {
	Type     string `bson:"type,omitempty" json:"type,omitempty"`
	URL      string `bson:"url,omitempty" json:"url,omitempty"`
	FileName string `bson:"fileName,omitempty" json:"fileName,omitempty"`
}

type VendorVerification struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID  `bson:"userId" json:"userId"`
	SubmittedAt  time.Time           `bson:"submittedAt" json:"submittedAt"`
	Documents    []VendorDocument    `bson:"documents" json:"documents"`
	BusinessName string              `bson:"businessName,omitempty" json:"businessName,omitempty"`
	GstNumber    string              `bson:"gstNumber,omitempty" json:"gstNumber,omitempty"`
	AadharNumber string              `bson:"aadharNumber,omitempty" json:"-"`
	PanNumber    string              `bson:"panNumber,omitempty" json:"-"`
	Status       VerificationStatus  `bson:"status" json:"status"`
	AdminNotes   string              `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	ReviewedBy   *primitive.ObjectID `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt   *time.Time          `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// RequiredDocuments reports which of the mandatory document types are missing
// from a submission.
func RequiredDocuments(docs []VendorDocument) []string {
	required := []string{DocAadhaarFront, DocAadhaarBack, DocGstCertificate, DocPanCard}
	var missing []string
	for _, want := range required {
		found := false
		for _, doc := range docs {
			if doc.Type == want && doc.URL != "" {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, want)
		}
	}
	return missing
}
