package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/algocare/ops-console/config"
	"github.com/algocare/ops-console/internal/adapters/authroles"
	"github.com/algocare/ops-console/internal/adapters/devauth"
	"github.com/algocare/ops-console/internal/adapters/oidc"
	redisadapter "github.com/algocare/ops-console/internal/adapters/redis"
	"github.com/algocare/ops-console/internal/ports"
	"github.com/algocare/ops-console/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Users       ports.UserRepository
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	provider := buildAuthProvider(cfg)
	if provider == nil {
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:   provider,
		Sessions:   redisadapter.NewSessionStore(cfg.RedisClient),
		Roles:      authroles.StaticRoleMapper{AdminEmails: cfg.Auth.AdminEmails},
		Users:      cfg.Users,
		Gate:       service.NewDomainGate(cfg.Auth.AllowedDomains),
		SessionTTL: cfg.Auth.SessionTTL,
		Logger:     cfg.Logger,
	})
}

//nolint:ireturn // the provider is selected at runtime from the configured auth mode.
func buildAuthProvider(cfg AuthConfig) ports.AuthProvider {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			Subject: cfg.Auth.DevAuth.Subject,
			Email:   cfg.Auth.DevAuth.Email,
		})
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
			}
			return nil
		}
		return prov

	case config.AuthModeOAuth:
		oauth := cfg.Auth.OAuth
		if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
			if cfg.Logger != nil {
				cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
					"discovery_url_empty", oauth.DiscoveryURL == "",
					"client_id_empty", oauth.ClientID == "",
					"client_secret_empty", oauth.ClientSecret == "",
				)
			}
			return nil
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:      oauth.ClientID,
			ClientSecret:  oauth.ClientSecret,
			RedirectURL:   oauth.RedirectURL,
			Scope:         oauth.Scope,
			DiscoveryURL:  oauth.DiscoveryURL,
			RevocationURL: oauth.RevocationURL,
		})
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
			}
			return nil
		}
		return prov

	default:
		return nil
	}
}
