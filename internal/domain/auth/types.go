package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	// RoleAdmin grants full access including user administration.
	RoleAdmin Role = "admin"
	// RoleReadWrite grants read-write access to operational data.
	RoleReadWrite Role = "rw"
	// RoleViewer grants view-only access. It is the fallback for any
	// unknown or unset role value.
	RoleViewer Role = "v"
)

// ParseRole maps a raw string onto the closed role set.
// Anything outside the set degrades to RoleViewer so downstream
// authorization can never widen by accident.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleReadWrite, RoleViewer:
		return Role(s)
	default:
		return RoleViewer
	}
}

// Valid reports whether r is one of the three enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleReadWrite, RoleViewer:
		return true
	default:
		return false
	}
}

// AuthType records which login path established a session.
type AuthType string

const (
	AuthTypePassword AuthType = "password"
	AuthTypeOAuth    AuthType = "oauth"
)

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	Subject string // IdP subject identifier (sub claim)
	Email   string
	// Token is the provider access token, kept only so a rejected
	// external session can be revoked. Never persisted.
	Token string
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier; the auth-session cookie carries only
// this id, so a client cannot forge role or is_active by editing the cookie.
type Session struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	Authenticated bool      `json:"authenticated"`
	AuthType      AuthType  `json:"auth_type"`
	IsActive      bool      `json:"is_active"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// CanWrite reports whether the session may mutate operational data.
func (s Session) CanWrite() bool { return s.Role == RoleAdmin || s.Role == RoleReadWrite }
