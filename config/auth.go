package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// InvalidSessionPolicy names what happens when a protected request carries an
// unresolvable session cookie.
type InvalidSessionPolicy string

const (
	// SessionPolicyRedirect fails closed: the request is redirected to the
	// login entry point.
	SessionPolicyRedirect InvalidSessionPolicy = "redirect"
	// SessionPolicyAnonymous fails open: the request continues without an
	// identity, with role effectively view-only and no avatar enrichment.
	SessionPolicyAnonymous InvalidSessionPolicy = "anonymous"
)

// UnmarshalText implements encoding.TextUnmarshaler for InvalidSessionPolicy.
func (p *InvalidSessionPolicy) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "redirect", "anonymous":
		*p = InvalidSessionPolicy(v)
		return nil
	default:
		return fmt.Errorf("invalid InvalidSessionPolicy: %q (valid options: redirect, anonymous)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL" envDefault:"https://accounts.google.com"`
	// RevocationURL receives best-effort token revocation when a login is
	// rejected by the domain gate (RFC 7009).
	RevocationURL string `env:"REVOCATION_URL" envDefault:"https://oauth2.googleapis.com/revoke"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Subject string `env:"SUBJECT" envDefault:"dev-subject"`
	Email   string `env:"EMAIL"   envDefault:"dev@algocarelab.com"`
}

// AuthConfig groups all authentication-related configuration.
// It is the explicit policy struct injected at startup: allow-listed domains,
// admin emails, and the public origin live here rather than in code.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AllowedDomains are the email domains accepted by the OAuth gate.
	// Matching is an exact, case-sensitive comparison of the part after '@'.
	AllowedDomains []string `env:"AUTH_ALLOWED_DOMAINS" envDefault:"algocarelab.com,algocare.me"`

	// AdminEmails map to the admin role at reconcile time; every other
	// allow-listed email gets view-only.
	AdminEmails []string `env:"AUTH_ADMIN_EMAILS" envDefault:"jeff@algocarelab.com"`

	// SessionTTL is the fixed session/cookie lifetime.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"168h"`

	// InvalidSession names the policy for unresolvable session cookies on
	// protected routes.
	InvalidSession InvalidSessionPolicy `env:"AUTH_INVALID_SESSION_POLICY" envDefault:"redirect"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 168 * time.Hour
	}
	if a.InvalidSession == "" {
		a.InvalidSession = SessionPolicyRedirect
	}
	a.AllowedDomains = trimNonEmpty(a.AllowedDomains)
	a.AdminEmails = trimNonEmpty(a.AdminEmails)
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
