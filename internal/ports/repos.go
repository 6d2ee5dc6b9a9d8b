package ports

import (
	"context"

	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/domain/model"
)

// UserRepository persists console accounts.
type UserRepository interface {
	// Upsert inserts a user keyed by email or refreshes the mutable
	// attributes of an existing row, preserving its internal id.
	Upsert(ctx context.Context, req *model.UpsertUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error)
	Count(ctx context.Context) (int, error)
	SetRole(ctx context.Context, id string, role domainauth.Role) (*model.User, error)
	SetActive(ctx context.Context, id string, active bool) (*model.User, error)
	SetPasswordHash(ctx context.Context, id string, hash string) error
	Delete(ctx context.Context, id string) (bool, error)
}

// DeliveryRepository persists tracked shipments.
type DeliveryRepository interface {
	Create(ctx context.Context, req *model.CreateDeliveryRequest) (*model.Delivery, error)
	GetByID(ctx context.Context, id string) (*model.Delivery, error)
	GetByTrackingNo(ctx context.Context, carrier, trackingNo string) (*model.Delivery, error)
	List(ctx context.Context, opts model.DeliveriesListOptions) ([]*model.Delivery, error)
	Update(ctx context.Context, id string, req model.UpdateDeliveryRequest) (*model.Delivery, error)
	Delete(ctx context.Context, id string) (bool, error)
	StatusCounts(ctx context.Context) (*model.DeliveryStatusCounts, error)
}
