package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication and session policy configuration
//   - database.go: Database and session-store configuration
//   - http.go: HTTP server configuration
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Carriers maps a carrier key to the JMESPath expressions used to read
	// its webhook payloads, as "carrier=trackingExpr|statusExpr|delayedExpr"
	// entries. delayedExpr may be empty.
	Carriers []string `env:"CARRIER_FEED_MAPPINGS" envDefault:"cj=invoice_no|dlvy_status|delay_yn,hanjin=trackingNumber|status|"`

	// CarrierFeedSecret is the shared secret carriers must present in the
	// X-Webhook-Token header. Empty disables the check (local development).
	CarrierFeedSecret string `env:"CARRIER_FEED_SECRET" envDefault:""`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
