package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewImage struct {
	URL string `bson:"url" json:"url"`
	Alt string `bson:"alt,omitempty" json:"alt,omitempty"`
}

// Review is unique per (product, user); the store enforces it with a compound
// unique index.
type Review struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Product            primitive.ObjectID `bson:"product" json:"product"`
	User               primitive.ObjectID `bson:"user" json:"user"`
	Rating             int                `bson:"rating" json:"rating"`
	Title              string             `bson:"title,omitempty" json:"title,omitempty"`
	Comment            string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Images             []ReviewImage      `bson:"images" json:"images"`
	IsVerifiedPurchase bool               `bson:"isVerifiedPurchase" json:"isVerifiedPurchase"`
	HelpfulCount       int                `bson:"helpfulCount" json:"helpfulCount"`
	IsApproved         bool               `bson:"isApproved" json:"isApproved"`
	IsDeleted          bool               `bson:"isDeleted" json:"-"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
