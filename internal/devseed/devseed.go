// Package devseed populates a development database with a known set of
// users and deliveries so the console is usable immediately after a reset.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/algocare/ops-console/internal/data"
	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/domain/model"
	"github.com/algocare/ops-console/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB         *sql.DB
	users      *service.UserService
	deliveries *service.DeliveryService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	userRepo := data.NewUserRepo(db)
	userService := service.NewUserService(service.UserServiceOptions{
		Repo: userRepo,
	})

	deliveryRepo := data.NewDeliveryRepo(db)
	deliveryService := service.NewDeliveryService(service.DeliveryServiceOptions{
		Repo: deliveryRepo,
	})

	return Services{
		DB:         db,
		users:      userService,
		deliveries: deliveryService,
	}
}

// Run executes the full development seeding workflow against the provided DB.
// Seeding is idempotent: existing users are upserted and deliveries whose
// order number already exists are skipped.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if err := seedUsers(ctx, svcs.users, logger); err != nil {
		return err
	}
	if err := seedDeliveries(ctx, svcs.deliveries, logger); err != nil {
		return err
	}
	return nil
}

type seedUser struct {
	Email    string
	Role     domainauth.Role
	Password string
}

func seedUsers(ctx context.Context, users *service.UserService, logger *slog.Logger) error {
	entries := []seedUser{
		{Email: "jeff@algocarelab.com", Role: domainauth.RoleAdmin},
		{Email: "ops@algocarelab.com", Role: domainauth.RoleReadWrite, Password: "ops-console-dev"},
		{Email: "viewer@algocare.me", Role: domainauth.RoleViewer, Password: "ops-console-dev"},
	}

	for _, entry := range entries {
		u, err := users.Upsert(ctx, &model.UpsertUserRequest{
			Email: entry.Email,
			Role:  entry.Role,
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", entry.Email, err)
		}
		if entry.Password != "" {
			if pwErr := users.SetPassword(ctx, u.ID, entry.Password); pwErr != nil {
				return fmt.Errorf("seed user password %s: %w", entry.Email, pwErr)
			}
		}
		if logger != nil {
			logger.InfoContext(ctx, "seeded user", "email", entry.Email, "role", entry.Role)
		}
	}
	return nil
}

func seedDeliveries(ctx context.Context, deliveries *service.DeliveryService, logger *slog.Logger) error {
	priority := true
	entries := []*model.CreateDeliveryRequest{
		{OrderNo: "ORD-2024-0001", Recipient: "Kim Jiwoo", Carrier: "cj", TrackingNo: "612345678901"},
		{OrderNo: "ORD-2024-0002", Recipient: "Lee Minseo", Carrier: "cj", TrackingNo: "612345678902", Status: model.DeliveryStatusShipped},
		{OrderNo: "ORD-2024-0003", Recipient: "Park Haeun", Carrier: "hanjin", TrackingNo: "512345678903", Status: model.DeliveryStatusDelivered},
		{OrderNo: "ORD-2024-0004", Recipient: "Choi Dohyun", Carrier: "hanjin", Priority: &priority},
		{OrderNo: "ORD-2024-0005", Recipient: "Jung Seoyeon", Carrier: "cj", TrackingNo: "612345678905", Status: model.DeliveryStatusCanceled},
	}

	for _, entry := range entries {
		if _, err := deliveries.Create(ctx, entry); err != nil {
			if errors.Is(err, data.ErrDeliveryOrderNoExists) {
				if logger != nil {
					logger.InfoContext(ctx, "delivery already seeded", "order_no", entry.OrderNo)
				}
				continue
			}
			return fmt.Errorf("seed delivery %s: %w", entry.OrderNo, err)
		}
		if logger != nil {
			logger.InfoContext(ctx, "seeded delivery", "order_no", entry.OrderNo, "carrier", entry.Carrier)
		}
	}
	return nil
}
