package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderCreated                  OrderStatus = "created"
	OrderVendorShippedToWarehouse OrderStatus = "vendor_shipped_to_warehouse"
	OrderReceivedInWarehouse      OrderStatus = "received_in_warehouse"
	OrderPacked                   OrderStatus = "packed"
	OrderShipped                  OrderStatus = "shipped"
	OrderDelivered                OrderStatus = "delivered"
	OrderCancelled                OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func ValidOrderStatus(status string) bool {
	switch OrderStatus(status) {
	case OrderCreated, OrderVendorShippedToWarehouse, OrderReceivedInWarehouse,
		OrderPacked, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// fulfillmentTransitions is the guarded transition table for the fulfillment
// axis. Cancellation is allowed from every pre-shipment state; delivered and
// cancelled are terminal.
var fulfillmentTransitions = map[OrderStatus][]OrderStatus{
	OrderCreated:                  {OrderVendorShippedToWarehouse, OrderCancelled},
	OrderVendorShippedToWarehouse: {OrderReceivedInWarehouse, OrderCancelled},
	OrderReceivedInWarehouse:      {OrderPacked, OrderCancelled},
	OrderPacked:                   {OrderShipped, OrderCancelled},
	OrderShipped:                  {OrderDelivered},
	OrderDelivered:                {},
	OrderCancelled:                {},
}

// CanTransitionTo reports whether the fulfillment state machine permits moving
// from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range fulfillmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return len(fulfillmentTransitions[s]) == 0
}

type OrderItem struct {
	ProductID    primitive.ObjectID `bson:"productId" json:"productId"`
	Title        string             `bson:"title" json:"title"`
	SKU          string             `bson:"sku,omitempty" json:"sku,omitempty"`
	VendorID     primitive.ObjectID `bson:"vendorId" json:"vendorId"`
	VendorName   string             `bson:"vendorName,omitempty" json:"vendorName,omitempty"`
	VendorPhone  string             `bson:"vendorPhone,omitempty" json:"vendorPhone,omitempty"`
	Qty          int                `bson:"qty" json:"qty"`
	PricePerUnit float64            `bson:"pricePerUnit" json:"pricePerUnit"`
	TotalPrice   float64            `bson:"totalPrice" json:"totalPrice"`

	TaxCode       string  `bson:"taxCode,omitempty" json:"taxCode,omitempty"`
	TaxPercentage float64 `bson:"taxPercentage" json:"taxPercentage"`
	TaxAmount     float64 `bson:"taxAmount" json:"taxAmount"`
}

type ShippingAddress struct {
	Name       string `bson:"name" json:"name"`
	Phone      string `bson:"phone" json:"phone"`
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
}

type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber string             `bson:"orderNumber" json:"orderNumber"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Items       []OrderItem        `bson:"items" json:"items"`

	Subtotal     float64 `bson:"subtotal" json:"subtotal"`
	ShippingCost float64 `bson:"shippingCost" json:"shippingCost"`
	Tax          float64 `bson:"tax" json:"tax"`
	Total        float64 `bson:"total" json:"total"`

	PaymentStatus     PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod     string        `bson:"paymentMethod" json:"paymentMethod"`
	RazorpayOrderID   string        `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string        `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`

	Status          OrderStatus     `bson:"status" json:"status"`
	ShippingAddress ShippingAddress `bson:"shippingAddress" json:"shippingAddress"`

	ExpectedDeliveryDate *time.Time `bson:"expectedDeliveryDate,omitempty" json:"expectedDeliveryDate,omitempty"`
	ShippedDate          *time.Time `bson:"shippedDate,omitempty" json:"shippedDate,omitempty"`
	PlacedAt             time.Time  `bson:"placedAt" json:"placedAt"`
	AdminNotes           string     `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	IsDeleted            bool       `bson:"isDeleted" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// VendorItems returns the slice of items belonging to one vendor.
func (o *Order) VendorItems(vendorID primitive.ObjectID) []OrderItem {
	var items []OrderItem
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			items = append(items, item)
		}
	}
	return items
}

// HasVendorItems reports whether the order contains anything from the vendor.
func (o *Order) HasVendorItems(vendorID primitive.ObjectID) bool {
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}
