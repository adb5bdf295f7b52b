package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    OrderStatus
		wantErr bool
	}{
		{"PENDING", OrderStatusPending, false},
		{"completed", OrderStatusCompleted, false},
		{" cancelled ", OrderStatusCancelled, false},
		{"Shipped", OrderStatusShipped, false},
		{"PAID", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOrderStatus(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidOrderStatus, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestOrderTotalAmount(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{Price: decimal.RequireFromString("5.00"), Quantity: 2},
			{Price: decimal.RequireFromString("10.00"), Quantity: 1},
		},
	}

	assert.True(t, order.TotalAmount().Equal(decimal.RequireFromString("20.00")),
		"got %s", order.TotalAmount())
}

func TestOrderTotalAmountEmpty(t *testing.T) {
	order := &Order{}
	assert.True(t, order.TotalAmount().IsZero())
}

func TestStatusForPaymentResult(t *testing.T) {
	assert.Equal(t, OrderStatusCompleted, StatusForPaymentResult("SUCCESS"))
	assert.Equal(t, OrderStatusCancelled, StatusForPaymentResult("FAILED"))
	assert.Equal(t, OrderStatusCancelled, StatusForPaymentResult("success"))
	assert.Equal(t, OrderStatusCancelled, StatusForPaymentResult(""))
	assert.Equal(t, OrderStatusCancelled, StatusForPaymentResult("REFUNDED"))
}
