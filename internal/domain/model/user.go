//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"

	domainauth "github.com/algocare/ops-console/internal/domain/auth"
)

// SentinelPasswordHash is stored for OAuth-only accounts. It is not a valid
// bcrypt hash, so password comparison against it always fails.
const SentinelPasswordHash = "!oauth-only"

// User represents a persisted console account.
// ID is internal and independent of any identity provider subject;
// AuthID stores the provider subject for reference only and is never the
// join key for login lookups.
type User struct {
	ID           string          `json:"id"                 db:"id"`
	Email        string          `json:"email"              db:"email"`
	PasswordHash string          `json:"-"                  db:"password_hash"`
	Role         domainauth.Role `json:"role"               db:"role"`
	IsActive     bool            `json:"is_active"          db:"is_active"`
	AvatarURL    string          `json:"avatar_url"         db:"avatar_url"`
	AuthID       *string         `json:"auth_id,omitempty"  db:"auth_id"`
	CreatedAt    time.Time       `json:"created_at"         db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"         db:"updated_at"`
}

// HasPassword reports whether the account can use the password login path.
func (u *User) HasPassword() bool {
	return u.PasswordHash != "" && u.PasswordHash != SentinelPasswordHash
}

// UpsertUserRequest carries the attributes refreshed when reconciling a
// verified external identity. The upsert is keyed by email and preserves any
// existing internal id.
type UpsertUserRequest struct {
	Email     string          `json:"email"`
	Role      domainauth.Role `json:"role"`
	AvatarURL string          `json:"avatar_url"`
	AuthID    string          `json:"auth_id"`
}

// Validate validates UpsertUserRequest.
func (r *UpsertUserRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("email must contain '@'")
	}
	if !r.Role.Valid() {
		return errors.New("role must be one of: admin, rw, v")
	}
	return nil
}

// UsersListOptions controls paging and filtering for listing users.
type UsersListOptions struct {
	Limit    int
	Offset   int
	Q        *string          // substring match on email (ILIKE)
	Role     *domainauth.Role // exact match
	IsActive *bool            // exact match
}
