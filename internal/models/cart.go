package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem snapshots the product at add-time; pricePerUnit and title are
// frozen so the cart survives later catalog edits.
type CartItem struct {
	ProductID    primitive.ObjectID     `bson:"productId" json:"productId"`
	Title        string                 `bson:"title" json:"title"`
	VendorID     primitive.ObjectID     `bson:"vendorId" json:"vendorId"`
	PricePerUnit float64                `bson:"pricePerUnit" json:"pricePerUnit"`
	Qty          int                    `bson:"qty" json:"qty"`
	MinOrderQty  int                    `bson:"minOrderQty" json:"minOrderQty"`
	Meta         map[string]interface{} `bson:"meta,omitempty" json:"meta,omitempty"`
}

type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
