package httpx

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/algocare/ops-console/internal/data"
	"github.com/algocare/ops-console/internal/service"
)

// WebhookTokenHeader carries the shared secret on carrier callbacks.
const WebhookTokenHeader = "X-Webhook-Token"

// WebhookHandlers receives carrier status callbacks.
type WebhookHandlers struct {
	Feed   *service.CarrierFeedService
	Logger *slog.Logger
}

// requireWebhookToken gates carrier callbacks on a shared secret. An empty
// secret leaves the endpoint open for local development.
func requireWebhookToken(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" {
				token := r.Header.Get(WebhookTokenHeader)
				if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
					WriteError(w, ErrorParams{
						Code:    http.StatusUnauthorized,
						ErrCode: "invalid_webhook_token",
						Err:     errors.New("webhook token missing or incorrect"),
					})
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CarrierFeed handles POST /api/webhooks/carrier/{carrier}.
// The payload shape is carrier-specific; the configured JMESPath mapping for
// the carrier decides how it is read.
func (h *WebhookHandlers) CarrierFeed(w http.ResponseWriter, r *http.Request) {
	carrier := r.PathValue("carrier")
	if carrier == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("carrier is required")},
		)
		return
	}

	var payload any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return
	}

	delivery, err := h.Feed.Process(r.Context(), carrier, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownCarrier):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "unknown_carrier", Err: err})
		case errors.Is(err, data.ErrDeliveryNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "delivery_not_found", Err: err})
		case errors.Is(err, service.ErrUnmappedStatus):
			WriteError(w, ErrorParams{Code: http.StatusUnprocessableEntity, ErrCode: "unmapped_status", Err: err})
		default:
			if h.Logger != nil {
				h.Logger.ErrorContext(r.Context(), "carrier feed processing failed", "carrier", carrier, "error", err)
			}
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "feed_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, delivery)
}
