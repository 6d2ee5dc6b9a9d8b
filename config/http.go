package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// PublicOrigin is the fixed origin the browser is redirected to after a
	// successful login (e.g., "https://console.algocare.me").
	PublicOrigin string `env:"APP_PUBLIC_ORIGIN" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.PublicOrigin == "" {
		h.PublicOrigin = "http://localhost:8080"
	}
}
