//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxOrderNoLen = 64

// DeliveryStatus tracks a shipment through its lifecycle.
type DeliveryStatus string

const (
	DeliveryStatusPreparing DeliveryStatus = "preparing"
	DeliveryStatusShipped   DeliveryStatus = "shipped"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusCanceled  DeliveryStatus = "canceled"
)

// Valid reports whether the delivery status is supported.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusPreparing, DeliveryStatusShipped, DeliveryStatusDelivered, DeliveryStatusCanceled:
		return true
	default:
		return false
	}
}

// ParseDeliveryStatus normalizes a status string and reports whether it is supported.
func ParseDeliveryStatus(value string) (DeliveryStatus, bool) {
	status := DeliveryStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Delivery represents one tracked shipment row on the dashboard.
type Delivery struct {
	ID         string         `json:"id"          db:"id"`
	OrderNo    string         `json:"order_no"    db:"order_no"`
	Recipient  string         `json:"recipient"   db:"recipient"`
	Carrier    string         `json:"carrier"     db:"carrier"`
	TrackingNo string         `json:"tracking_no" db:"tracking_no"`
	Status     DeliveryStatus `json:"status"      db:"status"`
	Delayed    bool           `json:"delayed"     db:"delayed"`
	Priority   bool           `json:"priority"    db:"priority"`
	CreatedAt  time.Time      `json:"created_at"  db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"  db:"updated_at"`
}

// CreateDeliveryRequest represents parameters to create a Delivery.
type CreateDeliveryRequest struct {
	OrderNo    string         `json:"order_no"`
	Recipient  string         `json:"recipient"`
	Carrier    string         `json:"carrier"`
	TrackingNo string         `json:"tracking_no,omitempty"`
	Status     DeliveryStatus `json:"status,omitempty"`
	Priority   *bool          `json:"priority,omitempty"`
}

// Validate validates CreateDeliveryRequest.
func (r *CreateDeliveryRequest) Validate() error {
	orderNo := strings.TrimSpace(r.OrderNo)
	if orderNo == "" {
		return errors.New("order_no is required and cannot be empty")
	}
	if utf8.RuneCountInString(orderNo) > maxOrderNoLen {
		return errors.New("order_no cannot exceed 64 characters")
	}
	if strings.TrimSpace(r.Recipient) == "" {
		return errors.New("recipient is required")
	}
	if strings.TrimSpace(r.Carrier) == "" {
		return errors.New("carrier is required")
	}
	if r.Status == "" {
		r.Status = DeliveryStatusPreparing
	}
	if !r.Status.Valid() {
		return errors.New("status must be one of: preparing, shipped, delivered, canceled")
	}
	return nil
}

// UpdateDeliveryRequest represents parameters to update a Delivery.
// Nil fields are left unchanged.
type UpdateDeliveryRequest struct {
	Recipient  *string         `json:"recipient,omitempty"`
	Carrier    *string         `json:"carrier,omitempty"`
	TrackingNo *string         `json:"tracking_no,omitempty"`
	Status     *DeliveryStatus `json:"status,omitempty"`
	Delayed    *bool           `json:"delayed,omitempty"`
	Priority   *bool           `json:"priority,omitempty"`
}

// Validate validates UpdateDeliveryRequest.
func (r *UpdateDeliveryRequest) Validate() error {
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("status must be one of: preparing, shipped, delivered, canceled")
	}
	if r.Recipient != nil && strings.TrimSpace(*r.Recipient) == "" {
		return errors.New("recipient cannot be empty")
	}
	if r.Carrier != nil && strings.TrimSpace(*r.Carrier) == "" {
		return errors.New("carrier cannot be empty")
	}
	return nil
}

// DeliveriesListOptions controls paging and filtering for listing deliveries.
// Notes:
// - Sort supports: "created_at", "order_no" (case-insensitive).
// - Dir supports: "asc", "desc" (case-insensitive); values are normalized internally.
// - Q matches order_no, recipient, and tracking_no via ILIKE substring.
type DeliveriesListOptions struct {
	Limit   int
	Offset  int
	Q       *string         // substring match (ILIKE)
	Status  *DeliveryStatus // exact match
	Carrier *string         // exact match
	Delayed *bool           // exact match
	Sort    string          // allowed: "created_at", "order_no"
	Dir     string          // allowed: "asc", "desc"
}

// DeliveryStatusCounts summarizes deliveries for the dashboard.
type DeliveryStatusCounts struct {
	Preparing int `json:"preparing" db:"preparing"`
	Shipped   int `json:"shipped"   db:"shipped"`
	Delivered int `json:"delivered" db:"delivered"`
	Canceled  int `json:"canceled"  db:"canceled"`
	Delayed   int `json:"delayed"   db:"delayed"`
}
