package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeliveryStatus(t *testing.T) {
	status, ok := ParseDeliveryStatus("  Shipped ")
	require.True(t, ok)
	assert.Equal(t, DeliveryStatusShipped, status)

	_, ok = ParseDeliveryStatus("returned")
	assert.False(t, ok)

	_, ok = ParseDeliveryStatus("")
	assert.False(t, ok)
}

func TestCreateDeliveryRequestValidate(t *testing.T) {
	req := CreateDeliveryRequest{
		OrderNo:   "ORD-2024-0001",
		Recipient: "Kim Jiwoo",
		Carrier:   "cj",
	}
	require.NoError(t, req.Validate())
	// Empty status defaults to preparing.
	assert.Equal(t, DeliveryStatusPreparing, req.Status)

	tests := []struct {
		name string
		req  CreateDeliveryRequest
	}{
		{"empty order_no", CreateDeliveryRequest{Recipient: "r", Carrier: "cj"}},
		{"order_no too long", CreateDeliveryRequest{
			OrderNo:   strings.Repeat("x", 65),
			Recipient: "r",
			Carrier:   "cj",
		}},
		{"empty recipient", CreateDeliveryRequest{OrderNo: "ORD-1", Carrier: "cj"}},
		{"empty carrier", CreateDeliveryRequest{OrderNo: "ORD-1", Recipient: "r"}},
		{"bad status", CreateDeliveryRequest{
			OrderNo:   "ORD-1",
			Recipient: "r",
			Carrier:   "cj",
			Status:    "returned",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.req.Validate())
		})
	}
}

func TestUpdateDeliveryRequestValidate(t *testing.T) {
	require.NoError(t, (&UpdateDeliveryRequest{}).Validate())

	shipped := DeliveryStatusShipped
	require.NoError(t, (&UpdateDeliveryRequest{Status: &shipped}).Validate())

	bad := DeliveryStatus("returned")
	require.Error(t, (&UpdateDeliveryRequest{Status: &bad}).Validate())

	empty := "   "
	require.Error(t, (&UpdateDeliveryRequest{Recipient: &empty}).Validate())
	require.Error(t, (&UpdateDeliveryRequest{Carrier: &empty}).Validate())
}
