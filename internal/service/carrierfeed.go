package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/algocare/ops-console/internal/domain/model"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// CarrierMapping describes how to read one carrier's webhook payload.
// Each field is a JMESPath expression; DelayedExpr may be empty when the
// carrier does not report delays.
type CarrierMapping struct {
	Carrier      string
	TrackingExpr string
	StatusExpr   string
	DelayedExpr  string
}

// ParseCarrierMappings parses "carrier=trackingExpr|statusExpr|delayedExpr"
// entries and validates every expression.
func ParseCarrierMappings(entries []string) (map[string]CarrierMapping, error) {
	eval := jmespathLibEvaluator{}
	out := make(map[string]CarrierMapping, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		carrier, exprs, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid carrier mapping %q: missing '='", entry)
		}
		carrier = strings.TrimSpace(carrier)
		parts := strings.Split(exprs, "|")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid carrier mapping %q: want trackingExpr|statusExpr|delayedExpr", entry)
		}
		m := CarrierMapping{
			Carrier:      carrier,
			TrackingExpr: strings.TrimSpace(parts[0]),
			StatusExpr:   strings.TrimSpace(parts[1]),
			DelayedExpr:  strings.TrimSpace(parts[2]),
		}
		if m.TrackingExpr == "" || m.StatusExpr == "" {
			return nil, fmt.Errorf("invalid carrier mapping %q: tracking and status expressions are required", entry)
		}
		for _, expr := range []string{m.TrackingExpr, m.StatusExpr, m.DelayedExpr} {
			if err := eval.Validate(expr); err != nil {
				return nil, fmt.Errorf("invalid carrier mapping %q: %w", entry, err)
			}
		}
		out[carrier] = m
	}
	return out, nil
}

var (
	// ErrUnknownCarrier is returned when no mapping is configured for a carrier key.
	ErrUnknownCarrier = errors.New("unknown carrier")
	// ErrUnmappedStatus is returned when a carrier status value has no known translation.
	ErrUnmappedStatus = errors.New("unmapped carrier status")
)

// carrierStatusByToken translates the carrier vocabulary onto the console's
// delivery lifecycle. Lookup is on the lowercased raw value.
var carrierStatusByToken = map[string]model.DeliveryStatus{
	"preparing":  model.DeliveryStatusPreparing,
	"ready":      model.DeliveryStatusPreparing,
	"accepted":   model.DeliveryStatusPreparing,
	"shipped":    model.DeliveryStatusShipped,
	"shipping":   model.DeliveryStatusShipped,
	"in_transit": model.DeliveryStatusShipped,
	"transit":    model.DeliveryStatusShipped,
	"delivered":  model.DeliveryStatusDelivered,
	"complete":   model.DeliveryStatusDelivered,
	"completed":  model.DeliveryStatusDelivered,
	"canceled":   model.DeliveryStatusCanceled,
	"cancelled":  model.DeliveryStatusCanceled,
}

// CarrierFeedServiceOptions groups dependencies for CarrierFeedService.
type CarrierFeedServiceOptions struct {
	Deliveries *DeliveryService          // Required
	Mappings   map[string]CarrierMapping // Required: parsed carrier mappings
	Evaluator  JMESPathEvaluator         // Optional: defaults to go-jmespath
	Logger     *slog.Logger              // Optional: structured logger
}

// CarrierFeedService translates carrier webhook payloads into delivery updates.
type CarrierFeedService struct {
	deliveries *DeliveryService
	mappings   map[string]CarrierMapping
	jems       JMESPathEvaluator
	logger     *slog.Logger
}

// NewCarrierFeedService constructs a new CarrierFeedService.
func NewCarrierFeedService(opts CarrierFeedServiceOptions) *CarrierFeedService {
	if opts.Deliveries == nil {
		//nolint:forbidigo // Service construction must fail fast during wiring when dependencies are missing
		panic("DeliveryService is required")
	}
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	return &CarrierFeedService{
		deliveries: opts.Deliveries,
		mappings:   opts.Mappings,
		jems:       jems,
		logger:     opts.Logger,
	}
}

// FeedUpdate is the normalized form of one carrier webhook event.
type FeedUpdate struct {
	Carrier    string
	TrackingNo string
	Status     model.DeliveryStatus
	Delayed    *bool
}

// Extract reads one carrier payload (decoded JSON) into a normalized update.
func (s *CarrierFeedService) Extract(carrier string, payload any) (*FeedUpdate, error) {
	mapping, ok := s.mappings[carrier]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCarrier, carrier)
	}

	trackingNo, err := s.evalString(mapping.TrackingExpr, payload)
	if err != nil {
		return nil, fmt.Errorf("extract tracking number: %w", err)
	}
	if trackingNo == "" {
		return nil, errors.New("payload has no tracking number")
	}

	rawStatus, err := s.evalString(mapping.StatusExpr, payload)
	if err != nil {
		return nil, fmt.Errorf("extract status: %w", err)
	}
	status, ok := carrierStatusByToken[strings.ToLower(strings.TrimSpace(rawStatus))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnmappedStatus, rawStatus)
	}

	update := &FeedUpdate{
		Carrier:    carrier,
		TrackingNo: trackingNo,
		Status:     status,
	}
	if mapping.DelayedExpr != "" {
		raw, evalErr := s.jems.Evaluate(mapping.DelayedExpr, payload)
		if evalErr != nil {
			return nil, fmt.Errorf("extract delayed flag: %w", evalErr)
		}
		if raw != nil {
			delayed := truthy(raw)
			update.Delayed = &delayed
		}
	}
	return update, nil
}

// Apply looks up the delivery by carrier and tracking number and applies the
// normalized update to it.
func (s *CarrierFeedService) Apply(ctx context.Context, update *FeedUpdate) (*model.Delivery, error) {
	delivery, err := s.deliveries.repo.GetByTrackingNo(ctx, update.Carrier, update.TrackingNo)
	if err != nil {
		return nil, fmt.Errorf("look up delivery: %w", err)
	}

	req := model.UpdateDeliveryRequest{
		Status:  &update.Status,
		Delayed: update.Delayed,
	}
	updated, err := s.deliveries.Update(ctx, delivery.ID, req)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "carrier feed applied",
			"carrier", update.Carrier,
			"tracking_no", update.TrackingNo,
			"status", update.Status,
		)
	}
	return updated, nil
}

// Process extracts and applies a carrier payload in one step.
func (s *CarrierFeedService) Process(ctx context.Context, carrier string, payload any) (*model.Delivery, error) {
	update, err := s.Extract(carrier, payload)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, update)
}

func (s *CarrierFeedService) evalString(expr string, payload any) (string, error) {
	raw, err := s.jems.Evaluate(expr, payload)
	if err != nil {
		return "", err
	}
	str, ok := raw.(string)
	if !ok {
		if raw == nil {
			return "", nil
		}
		return fmt.Sprintf("%v", raw), nil
	}
	return strings.TrimSpace(str), nil
}

// truthy interprets the loose truth vocabulary carriers use for flags.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "y", "yes", "true", "1":
			return true
		}
		return false
	case float64:
		return t != 0
	default:
		return false
	}
}
