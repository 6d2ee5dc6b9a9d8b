package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/algocare/ops-console/internal/domain/auth"
)

func TestGetUserSessionFromContext(t *testing.T) {
	// No session
	if s, ok := GetUserSessionFromContext(context.Background()); assert.False(t, ok) {
		assert.Nil(t, s)
	}

	// With session
	sess := &domainauth.Session{ID: "abc", Role: domainauth.RoleViewer, Authenticated: true}
	ctx := SetSessionInContext(context.Background(), sess)
	s, ok := GetUserSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, sess, s)
}

func TestSetSessionInContext_NilSession(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, SetSessionInContext(ctx, nil))
}

func TestIsAnonymous(t *testing.T) {
	// No session => anonymous
	assert.True(t, IsAnonymous(context.Background()))

	// Unauthenticated session => anonymous
	stale := &domainauth.Session{ID: "s", Role: domainauth.RoleViewer}
	assert.True(t, IsAnonymous(SetSessionInContext(context.Background(), stale)))

	// Authenticated session => not anonymous
	live := &domainauth.Session{ID: "u", Role: domainauth.RoleReadWrite, Authenticated: true}
	assert.False(t, IsAnonymous(SetSessionInContext(context.Background(), live)))
}
