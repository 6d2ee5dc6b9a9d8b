package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/algocare/ops-console/internal/domain/model"
	"github.com/algocare/ops-console/internal/ports"
)

// DeliveryServiceOptions groups dependencies for DeliveryService.
type DeliveryServiceOptions struct {
	Repo   ports.DeliveryRepository // Required: delivery repository
	Logger *slog.Logger             // Optional: structured logger
}

// DeliveryService provides business logic for tracked shipments.
type DeliveryService struct {
	repo   ports.DeliveryRepository
	logger *slog.Logger
}

// NewDeliveryService constructs a new DeliveryService.
func NewDeliveryService(opts DeliveryServiceOptions) *DeliveryService {
	if opts.Repo == nil {
		//nolint:forbidigo // Service construction must fail fast during wiring when dependencies are missing
		panic("DeliveryRepository is required")
	}
	return &DeliveryService{
		repo:   opts.Repo,
		logger: opts.Logger,
	}
}

// Create creates a new delivery.
func (s *DeliveryService) Create(ctx context.Context, req *model.CreateDeliveryRequest) (*model.Delivery, error) {
	if req == nil {
		return nil, errors.New("create delivery request is required")
	}
	delivery, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create delivery: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "delivery created", "id", delivery.ID, "order_no", delivery.OrderNo)
	}
	return delivery, nil
}

// GetByID retrieves a delivery by id.
func (s *DeliveryService) GetByID(ctx context.Context, id string) (*model.Delivery, error) {
	delivery, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get delivery by id: %w", err)
	}
	return delivery, nil
}

// List retrieves deliveries with the given options.
func (s *DeliveryService) List(ctx context.Context, opts model.DeliveriesListOptions) ([]*model.Delivery, error) {
	deliveries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return deliveries, nil
}

// Update updates a delivery.
func (s *DeliveryService) Update(
	ctx context.Context,
	id string,
	req model.UpdateDeliveryRequest,
) (*model.Delivery, error) {
	delivery, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update delivery: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "delivery updated", "id", id)
	}
	return delivery, nil
}

// Delete removes a delivery by id. It reports whether a row was removed.
func (s *DeliveryService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete delivery: %w", err)
	}
	if deleted && s.logger != nil {
		s.logger.InfoContext(ctx, "delivery deleted", "id", id)
	}
	return deleted, nil
}

// StatusCounts aggregates deliveries per status for the dashboard.
func (s *DeliveryService) StatusCounts(ctx context.Context) (*model.DeliveryStatusCounts, error) {
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count deliveries: %w", err)
	}
	return counts, nil
}
