package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestInvalidSessionPolicy_UnmarshalText(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    InvalidSessionPolicy
		expectError bool
	}{
		{name: "redirect", input: "redirect", expected: SessionPolicyRedirect},
		{name: "anonymous", input: "anonymous", expected: SessionPolicyAnonymous},
		{name: "case insensitive", input: "Redirect", expected: SessionPolicyRedirect},
		{name: "unknown value", input: "ignore", expectError: true},
		{name: "empty value", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p InvalidSessionPolicy
			err := p.UnmarshalText([]byte(tt.input))
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for input %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p != tt.expected {
				t.Fatalf("got %q, want %q", p, tt.expected)
			}
		})
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m AuthMode
	if err := m.UnmarshalText([]byte("OAuth")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != AuthModeOAuth {
		t.Fatalf("got %q, want %q", m, AuthModeOAuth)
	}
	if err := m.UnmarshalText([]byte("saml")); err == nil {
		t.Fatal("expected error for unknown auth mode")
	}
}

func TestAuthConfig_Defaults(t *testing.T) {
	var cfg AuthConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse auth config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Mode != AuthModeOAuth {
		t.Fatalf("default mode: got %q, want %q", cfg.Mode, AuthModeOAuth)
	}
	if cfg.SessionTTL != 168*time.Hour {
		t.Fatalf("default session TTL: got %v, want 168h", cfg.SessionTTL)
	}
	if cfg.InvalidSession != SessionPolicyRedirect {
		t.Fatalf("default invalid-session policy: got %q", cfg.InvalidSession)
	}
	wantDomains := []string{"algocarelab.com", "algocare.me"}
	if len(cfg.AllowedDomains) != len(wantDomains) {
		t.Fatalf("default allowed domains: got %v", cfg.AllowedDomains)
	}
	for i, d := range wantDomains {
		if cfg.AllowedDomains[i] != d {
			t.Fatalf("default allowed domains: got %v, want %v", cfg.AllowedDomains, wantDomains)
		}
	}
	if len(cfg.AdminEmails) != 1 || cfg.AdminEmails[0] != "jeff@algocarelab.com" {
		t.Fatalf("default admin emails: got %v", cfg.AdminEmails)
	}
}

func TestAuthConfig_SanitizeGuardrails(t *testing.T) {
	cfg := AuthConfig{
		SessionTTL:     -time.Hour,
		AllowedDomains: []string{" algocarelab.com ", "", "  "},
		AdminEmails:    []string{"", " jeff@algocarelab.com "},
	}
	cfg.Sanitize()

	if cfg.SessionTTL != 168*time.Hour {
		t.Fatalf("sanitized TTL: got %v", cfg.SessionTTL)
	}
	if cfg.InvalidSession != SessionPolicyRedirect {
		t.Fatalf("sanitized policy: got %q", cfg.InvalidSession)
	}
	if len(cfg.AllowedDomains) != 1 || cfg.AllowedDomains[0] != "algocarelab.com" {
		t.Fatalf("sanitized domains: got %v", cfg.AllowedDomains)
	}
	if len(cfg.AdminEmails) != 1 || cfg.AdminEmails[0] != "jeff@algocarelab.com" {
		t.Fatalf("sanitized admin emails: got %v", cfg.AdminEmails)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	var h HTTPConfig
	h.Sanitize()
	if h.Addr != ":8080" {
		t.Fatalf("sanitized addr: got %q", h.Addr)
	}
	if h.PublicOrigin != "http://localhost:8080" {
		t.Fatalf("sanitized public origin: got %q", h.PublicOrigin)
	}
}

func TestAppConfig_DevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	cfg.Sanitize()
	if !cfg.IsDev {
		t.Fatal("NODE_ENV=development should enable dev mode")
	}
}
