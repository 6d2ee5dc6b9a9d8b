// Package testutil provides testing utilities and helpers for the ops console.
package testutil

import (
	"time"

	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/domain/model"
)

// UserRequestBuilder provides a fluent interface for building UpsertUserRequest objects for testing.
type UserRequestBuilder struct {
	req *model.UpsertUserRequest
}

// NewUserRequest creates a new UserRequestBuilder with sensible defaults.
func NewUserRequest() *UserRequestBuilder {
	return &UserRequestBuilder{
		req: &model.UpsertUserRequest{
			Email: "someone@algocarelab.com",
			Role:  domainauth.RoleViewer,
		},
	}
}

// WithEmail sets the account email.
func (b *UserRequestBuilder) WithEmail(email string) *UserRequestBuilder {
	b.req.Email = email
	return b
}

// WithRole sets the account role.
func (b *UserRequestBuilder) WithRole(role domainauth.Role) *UserRequestBuilder {
	b.req.Role = role
	return b
}

// WithAvatarURL sets the avatar URL.
func (b *UserRequestBuilder) WithAvatarURL(url string) *UserRequestBuilder {
	b.req.AvatarURL = url
	return b
}

// WithAuthID sets the identity provider subject.
func (b *UserRequestBuilder) WithAuthID(id string) *UserRequestBuilder {
	b.req.AuthID = id
	return b
}

// Build returns the built request.
func (b *UserRequestBuilder) Build() *model.UpsertUserRequest {
	return b.req
}

// DeliveryRequestBuilder provides a fluent interface for building CreateDeliveryRequest objects for testing.
type DeliveryRequestBuilder struct {
	req *model.CreateDeliveryRequest
}

// NewDeliveryRequest creates a new DeliveryRequestBuilder with sensible defaults.
func NewDeliveryRequest() *DeliveryRequestBuilder {
	return &DeliveryRequestBuilder{
		req: &model.CreateDeliveryRequest{
			OrderNo:    "ORD-TEST-0001",
			Recipient:  "Test Recipient",
			Carrier:    "cj",
			TrackingNo: "612345678901",
		},
	}
}

// WithOrderNo sets the order number.
func (b *DeliveryRequestBuilder) WithOrderNo(orderNo string) *DeliveryRequestBuilder {
	b.req.OrderNo = orderNo
	return b
}

// WithRecipient sets the recipient name.
func (b *DeliveryRequestBuilder) WithRecipient(recipient string) *DeliveryRequestBuilder {
	b.req.Recipient = recipient
	return b
}

// WithCarrier sets the carrier code.
func (b *DeliveryRequestBuilder) WithCarrier(carrier string) *DeliveryRequestBuilder {
	b.req.Carrier = carrier
	return b
}

// WithTrackingNo sets the tracking number.
func (b *DeliveryRequestBuilder) WithTrackingNo(trackingNo string) *DeliveryRequestBuilder {
	b.req.TrackingNo = trackingNo
	return b
}

// WithStatus sets the initial status.
func (b *DeliveryRequestBuilder) WithStatus(status model.DeliveryStatus) *DeliveryRequestBuilder {
	b.req.Status = status
	return b
}

// WithPriority marks the shipment as priority.
func (b *DeliveryRequestBuilder) WithPriority(priority bool) *DeliveryRequestBuilder {
	b.req.Priority = &priority
	return b
}

// Build returns the built request.
func (b *DeliveryRequestBuilder) Build() *model.CreateDeliveryRequest {
	return b.req
}

// TestSession returns an authenticated session for the given role.
func TestSession(role domainauth.Role) domainauth.Session {
	return domainauth.Session{
		ID:            "test-session-1",
		UserID:        "test-user-1",
		Email:         "someone@algocarelab.com",
		Role:          role,
		Authenticated: true,
		AuthType:      domainauth.AuthTypeOAuth,
		IsActive:      true,
		ExpiresAt:     TestTime().Add(7 * 24 * time.Hour),
	}
}
