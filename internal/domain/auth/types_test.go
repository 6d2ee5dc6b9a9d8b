package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleReadWrite, ParseRole("rw"))
	assert.Equal(t, RoleViewer, ParseRole("v"))

	// Anything outside the closed set degrades to view-only.
	assert.Equal(t, RoleViewer, ParseRole(""))
	assert.Equal(t, RoleViewer, ParseRole("Admin"))
	assert.Equal(t, RoleViewer, ParseRole("superuser"))
	assert.Equal(t, RoleViewer, ParseRole("ADMIN"))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, Role("admin").Valid())
	assert.True(t, Role("rw").Valid())
	assert.True(t, Role("v").Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("viewer").Valid())
}

func TestSessionRoleHelpers(t *testing.T) {
	admin := Session{Role: RoleAdmin}
	rw := Session{Role: RoleReadWrite}
	viewer := Session{Role: RoleViewer}

	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.CanWrite())

	assert.False(t, rw.IsAdmin())
	assert.True(t, rw.CanWrite())

	assert.False(t, viewer.IsAdmin())
	assert.False(t, viewer.CanWrite())
}

func TestSessionZeroValueIsAnonymous(t *testing.T) {
	var s Session
	assert.False(t, s.Authenticated)
	assert.False(t, s.IsAdmin())
	assert.False(t, s.CanWrite())
	assert.True(t, s.ExpiresAt.Equal(time.Time{}))
}
