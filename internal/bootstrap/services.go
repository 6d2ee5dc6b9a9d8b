package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/algocare/ops-console/config"
	"github.com/algocare/ops-console/internal/data"
	"github.com/algocare/ops-console/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Deliveries *service.DeliveryService
	Dashboard  *service.DashboardService
	Feed       *service.CarrierFeedService
}

// ServicesConfig contains dependencies for building the service container.
type ServicesConfig struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildServices constructs every service with its repository wiring.
func BuildServices(cfg ServicesConfig) (*ServiceContainer, error) {
	userRepo := data.NewUserRepo(cfg.DB)
	deliveryRepo := data.NewDeliveryRepo(cfg.DB)

	users := service.NewUserService(service.UserServiceOptions{
		Repo:   userRepo,
		Logger: cfg.Logger,
	})
	deliveries := service.NewDeliveryService(service.DeliveryServiceOptions{
		Repo:   deliveryRepo,
		Logger: cfg.Logger,
	})
	dashboard := service.NewDashboardService(service.DashboardServiceOptions{
		Deliveries: deliveries,
		Users:      users,
		Logger:     cfg.Logger,
	})

	mappings, err := service.ParseCarrierMappings(cfg.Config.Carriers)
	if err != nil {
		return nil, fmt.Errorf("parse carrier mappings: %w", err)
	}
	feed := service.NewCarrierFeedService(service.CarrierFeedServiceOptions{
		Deliveries: deliveries,
		Mappings:   mappings,
		Logger:     cfg.Logger,
	})

	auth := BuildAuthService(AuthConfig{
		Auth:        cfg.Config.Auth,
		RedisClient: cfg.RedisClient,
		Users:       userRepo,
		Logger:      cfg.Logger,
	})

	return &ServiceContainer{
		Auth:       auth,
		Users:      users,
		Deliveries: deliveries,
		Dashboard:  dashboard,
		Feed:       feed,
	}, nil
}
