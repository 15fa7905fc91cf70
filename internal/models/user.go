package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleVendor   UserRole = "vendor"
	RoleAdmin    UserRole = "admin"
)

func ValidRole(role string) bool {
	switch UserRole(role) {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

type VendorStatus string

const (
	VendorPending   VendorStatus = "pending"
	VendorActive    VendorStatus = "active"
	VendorRejected  VendorStatus = "rejected"
	VendorSuspended VendorStatus = "suspended"
)

type Address struct {
	Label      string `bson:"label,omitempty" json:"label,omitempty"`
	Name       string `bson:"name" json:"name"`
	Phone      string `bson:"phone" json:"phone"`
	Email      string `bson:"email,omitempty" json:"email,omitempty"`
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	IsDefault  bool   `bson:"isDefault" json:"isDefault"`
}

type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Role            UserRole           `bson:"role" json:"role"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash    string             `bson:"passwordHash,omitempty" json:"-"`
	IsPhoneVerified bool               `bson:"isPhoneVerified" json:"isPhoneVerified"`
	IsEmailVerified bool               `bson:"isEmailVerified" json:"isEmailVerified"`

	// Vendor business fields.
	BusinessName    string       `bson:"businessName,omitempty" json:"businessName,omitempty"`
	GstNumber       string       `bson:"gstNumber,omitempty" json:"gstNumber,omitempty"`
	AadharNumber    string       `bson:"aadharNumber,omitempty" json:"-"`
	PanNumber       string       `bson:"panNumber,omitempty" json:"-"`
	BusinessAddress *Address     `bson:"businessAddress,omitempty" json:"businessAddress,omitempty"`
	VendorStatus    VendorStatus `bson:"vendorStatus,omitempty" json:"vendorStatus,omitempty"`

	Addresses   []Address  `bson:"addresses" json:"addresses"`
	LastLoginAt *time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	IsDeleted   bool       `bson:"isDeleted" json:"-"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName prefers the registered business name for vendors.
func (u *User) DisplayName() string {
	if u.BusinessName != "" {
		return u.BusinessName
	}
	return u.Name
}
