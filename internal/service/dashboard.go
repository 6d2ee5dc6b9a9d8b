package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/algocare/ops-console/internal/domain/model"
)

const recentDeliveriesLimit = 10

// DashboardSummary aggregates everything the console landing page renders.
type DashboardSummary struct {
	Deliveries *model.DeliveryStatusCounts `json:"deliveries"`
	UserCount  int                         `json:"user_count"`
	Recent     []*model.Delivery           `json:"recent"`
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Deliveries *DeliveryService // Required
	Users      *UserService     // Required
	Logger     *slog.Logger     // Optional: structured logger
}

// DashboardService assembles the console summary from multiple sources.
type DashboardService struct {
	deliveries *DeliveryService
	users      *UserService
	logger     *slog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	if opts.Deliveries == nil || opts.Users == nil {
		//nolint:forbidigo // Service construction must fail fast during wiring when dependencies are missing
		panic("DeliveryService and UserService are required")
	}
	return &DashboardService{
		deliveries: opts.Deliveries,
		users:      opts.Users,
		logger:     opts.Logger,
	}
}

// Summary fetches the dashboard aggregates concurrently. A failure in any
// source fails the whole summary.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	var out DashboardSummary

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := s.deliveries.StatusCounts(gctx)
		if err != nil {
			return fmt.Errorf("delivery counts: %w", err)
		}
		out.Deliveries = counts
		return nil
	})

	g.Go(func() error {
		n, err := s.users.Count(gctx)
		if err != nil {
			return fmt.Errorf("user count: %w", err)
		}
		out.UserCount = n
		return nil
	})

	g.Go(func() error {
		recent, err := s.deliveries.List(gctx, model.DeliveriesListOptions{
			Limit: recentDeliveriesLimit,
			Sort:  "created_at",
			Dir:   "desc",
		})
		if err != nil {
			return fmt.Errorf("recent deliveries: %w", err)
		}
		out.Recent = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
