package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderCreated, OrderVendorShippedToWarehouse, true},
		{OrderCreated, OrderCancelled, true},
		{OrderCreated, OrderPacked, false},
		{OrderCreated, OrderDelivered, false},
		{OrderVendorShippedToWarehouse, OrderReceivedInWarehouse, true},
		{OrderVendorShippedToWarehouse, OrderCancelled, true},
		{OrderVendorShippedToWarehouse, OrderShipped, false},
		{OrderReceivedInWarehouse, OrderPacked, true},
		{OrderReceivedInWarehouse, OrderCancelled, true},
		{OrderPacked, OrderShipped, true},
		{OrderPacked, OrderCancelled, true},
		{OrderPacked, OrderDelivered, false},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, false},
		{OrderDelivered, OrderShipped, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderCreated, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusNoSelfTransition(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderCreated, OrderVendorShippedToWarehouse, OrderReceivedInWarehouse,
		OrderPacked, OrderShipped, OrderDelivered, OrderCancelled,
	} {
		assert.Falsef(t, s.CanTransitionTo(s), "%s -> %s", s, s)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderDelivered.Terminal())
	assert.True(t, OrderCancelled.Terminal())
	assert.False(t, OrderCreated.Terminal())
	assert.False(t, OrderShipped.Terminal())
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus("created"))
	assert.True(t, ValidOrderStatus("vendor_shipped_to_warehouse"))
	assert.True(t, ValidOrderStatus("cancelled"))
	assert.False(t, ValidOrderStatus("returned"))
	assert.False(t, ValidOrderStatus(""))
	assert.False(t, ValidOrderStatus("Delivered"))
}

func TestVendorItems(t *testing.T) {
	vendorA := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()
	order := &Order{Items: []OrderItem{
		{VendorID: vendorA, TotalPrice: 500},
		{VendorID: vendorB, TotalPrice: 300},
		{VendorID: vendorA, TotalPrice: 200},
	}}

	items := order.VendorItems(vendorA)
	assert.Len(t, items, 2)
	assert.Equal(t, 500.0, items[0].TotalPrice)
	assert.Equal(t, 200.0, items[1].TotalPrice)

	assert.True(t, order.HasVendorItems(vendorB))
	assert.False(t, order.HasVendorItems(primitive.NewObjectID()))
	assert.Empty(t, order.VendorItems(primitive.NewObjectID()))
}
