package service

import "strings"

// DomainGate decides whether an externally authenticated email may enter the
// console. The decision is a pure function of the configured domain list: the
// part after the final '@' must equal one of the allowed domains exactly.
// No case folding, no subdomain matching, no normalization.
type DomainGate struct {
	allowed []string
}

// NewDomainGate constructs a DomainGate from the configured domain list.
func NewDomainGate(allowedDomains []string) *DomainGate {
	return &DomainGate{allowed: allowedDomains}
}

// Allowed reports whether the email's domain is on the allow-list.
// An email without an '@' never matches.
func (g *DomainGate) Allowed(email string) bool {
	idx := strings.LastIndex(email, "@")
	if idx < 0 {
		return false
	}
	domain := email[idx+1:]
	if domain == "" {
		return false
	}
	for _, d := range g.allowed {
		if domain == d {
			return true
		}
	}
	return false
}

// Domains returns a copy of the configured allow-list, for status endpoints
// and diagnostics.
func (g *DomainGate) Domains() []string {
	out := make([]string, len(g.allowed))
	copy(out, g.allowed)
	return out
}
