package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/algocare/ops-console/internal/domain/auth"
)

func TestUserHasPassword(t *testing.T) {
	assert.False(t, (&User{}).HasPassword())
	assert.False(t, (&User{PasswordHash: SentinelPasswordHash}).HasPassword())
	assert.True(t, (&User{PasswordHash: "$2a$10$abcdefghijklmnopqrstuv"}).HasPassword())
}

func TestUpsertUserRequestValidate(t *testing.T) {
	valid := UpsertUserRequest{
		Email: "someone@algocarelab.com",
		Role:  domainauth.RoleViewer,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  UpsertUserRequest
	}{
		{"empty email", UpsertUserRequest{Role: domainauth.RoleViewer}},
		{"whitespace email", UpsertUserRequest{Email: "   ", Role: domainauth.RoleViewer}},
		{"no at sign", UpsertUserRequest{Email: "algocarelab.com", Role: domainauth.RoleViewer}},
		{"invalid role", UpsertUserRequest{Email: "someone@algocarelab.com", Role: "root"}},
		{"empty role", UpsertUserRequest{Email: "someone@algocarelab.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.req.Validate())
		})
	}
}
