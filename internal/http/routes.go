// Package httpx provides the HTTP surface of the ops console API.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/algocare/ops-console/config"
	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       AuthServiceInterface
	Users      *service.UserService
	Deliveries *service.DeliveryService
	Dashboard  *service.DashboardService
	Feed       *service.CarrierFeedService

	CookieDomain string
	PublicOrigin string
	// WebhookSecret gates carrier callbacks when non-empty.
	WebhookSecret string
	// InvalidSession decides what happens when a protected request carries an
	// unresolvable session cookie.
	InvalidSession config.InvalidSessionPolicy

	Logger *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	guard := SessionGuard{Auth: services.Auth, Policy: services.InvalidSession}

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		PublicOrigin: services.PublicOrigin,
		Logger:       services.Logger,
	}
	registerAuthRoutes(mux, authHandlers)

	registerDeliveryRoutes(mux, &DeliveryHandlers{Svc: services.Deliveries}, guard)
	registerUserRoutes(mux, &UserHandlers{Svc: services.Users}, guard)

	dashboardHandlers := &DashboardHandlers{Svc: services.Dashboard}
	mux.Handle("GET /api/dashboard/summary",
		guard.RequireAuth()(http.HandlerFunc(dashboardHandlers.Summary)))

	if services.Feed != nil {
		webhookHandlers := &WebhookHandlers{Feed: services.Feed, Logger: services.Logger}
		mux.Handle("POST /api/webhooks/carrier/{carrier}",
			requireWebhookToken(services.WebhookSecret)(http.HandlerFunc(webhookHandlers.CarrierFeed)))
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Recover(logger)(Logging(logger)(mux))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/password", h.PasswordLogin)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// registerDeliveryRoutes wires the delivery API. Reads need a session, writes
// need at least the rw role, and deletion is reserved for admins.
func registerDeliveryRoutes(mux *http.ServeMux, h *DeliveryHandlers, guard SessionGuard) {
	read := guard.RequireAuth()
	write := guard.RequireRole(domainauth.RoleReadWrite)
	admin := guard.RequireRole(domainauth.RoleAdmin)

	mux.Handle("GET /api/deliveries", read(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/deliveries/{id}", read(http.HandlerFunc(h.GetByID)))
	mux.Handle("POST /api/deliveries", write(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/deliveries/{id}", write(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/deliveries/{id}", admin(http.HandlerFunc(h.Delete)))
}

// registerUserRoutes wires account administration. Every route is admin-only.
func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, guard SessionGuard) {
	admin := guard.RequireRole(domainauth.RoleAdmin)

	mux.Handle("GET /api/users", admin(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/users/{id}", admin(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/users/{id}/role", admin(http.HandlerFunc(h.SetRole)))
	mux.Handle("PUT /api/users/{id}/active", admin(http.HandlerFunc(h.SetActive)))
	mux.Handle("PUT /api/users/{id}/password", admin(http.HandlerFunc(h.SetPassword)))
	mux.Handle("DELETE /api/users/{id}", admin(http.HandlerFunc(h.Delete)))
}
