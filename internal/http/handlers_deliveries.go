package httpx

import (
	"errors"
	"net/http"

	"github.com/algocare/ops-console/internal/data"
	"github.com/algocare/ops-console/internal/domain/model"
	"github.com/algocare/ops-console/internal/service"
)

// DeliveryHandlers provides HTTP handlers for tracked shipments.
type DeliveryHandlers struct {
	Svc *service.DeliveryService
}

const maxDeliveryListLimit = 200

// Create handles POST /api/deliveries.
func (h *DeliveryHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDeliveryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	delivery, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDeliveryOrderNoExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "order_no_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, delivery)
}

// List handles GET /api/deliveries.
func (h *DeliveryHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxDeliveryListLimit)

	opts := model.DeliveriesListOptions{
		Limit:  limit,
		Offset: offset,
		Sort:   r.URL.Query().Get("sort"),
		Dir:    r.URL.Query().Get("dir"),
	}
	if q := r.URL.Query().Get("q"); q != "" {
		opts.Q = &q
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := model.ParseDeliveryStatus(raw)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "validation_failed",
				Err:     errors.New("status must be one of: preparing, shipped, delivered, canceled"),
			})
			return
		}
		opts.Status = &status
	}
	if carrier := r.URL.Query().Get("carrier"); carrier != "" {
		opts.Carrier = &carrier
	}
	if raw := r.URL.Query().Get("delayed"); raw != "" {
		delayed := raw == "true"
		opts.Delayed = &delayed
	}

	deliveries, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"deliveries": deliveries,
		"limit":      limit,
		"offset":     offset,
	})
}

// GetByID handles GET /api/deliveries/{id}.
func (h *DeliveryHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("delivery id is required")},
		)
		return
	}

	delivery, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrDeliveryNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "delivery_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, delivery)
}

// Update handles PUT /api/deliveries/{id}.
func (h *DeliveryHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("delivery id is required")},
		)
		return
	}

	var req model.UpdateDeliveryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	delivery, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDeliveryNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "delivery_not_found", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, delivery)
}

// Delete handles DELETE /api/deliveries/{id}.
func (h *DeliveryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("delivery id is required")},
		)
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}
	if !deleted {
		WriteError(
			w,
			ErrorParams{Code: http.StatusNotFound, ErrCode: "delivery_not_found", Err: errors.New("delivery not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
