package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/domain/model"
)

func TestPrintUserTableRendersRows(t *testing.T) {
	var buf bytes.Buffer

	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	err := printUserTable(&buf, []*model.User{
		{
			Email:        "jeff@algocarelab.com",
			Role:         domainauth.RoleAdmin,
			IsActive:     true,
			PasswordHash: model.SentinelPasswordHash,
			CreatedAt:    created,
		},
		{
			Email:        "ops@algocarelab.com",
			Role:         domainauth.RoleReadWrite,
			IsActive:     false,
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
			CreatedAt:    created,
		},
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "jeff@algocarelab.com")
	require.Contains(t, out, "oauth")
	require.Contains(t, out, "password")
	require.Contains(t, out, "2024-03-01T09:00:00Z")
}

func TestPrintUserTableEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, printUserTable(&buf, nil))
	require.Contains(t, buf.String(), "no users found")
}

func TestValidateUserTarget(t *testing.T) {
	require.Error(t, validateUserTarget(&userTargetOptions{}))
	require.Error(t, validateUserTarget(&userTargetOptions{Email: "a@algocarelab.com", ID: "abc"}))
	require.NoError(t, validateUserTarget(&userTargetOptions{Email: " a@algocarelab.com "}))
}

func TestParseUserSetPasswordFlags(t *testing.T) {
	_, err := parseUserSetPasswordFlags([]string{"--email", "a@algocarelab.com"})
	require.Error(t, err)

	_, err = parseUserSetPasswordFlags([]string{
		"--email", "a@algocarelab.com",
		"--password", "secret123",
		"--generate",
	})
	require.Error(t, err)

	opts, err := parseUserSetPasswordFlags([]string{
		"--email", "a@algocarelab.com",
		"--generate",
	})
	require.NoError(t, err)
	require.True(t, opts.Generate)
}

func TestIsLikelyRemoteHost(t *testing.T) {
	require.False(t, isLikelyRemoteHost("localhost"))
	require.False(t, isLikelyRemoteHost("127.0.0.1"))
	require.False(t, isLikelyRemoteHost("db.local"))
	require.True(t, isLikelyRemoteHost("db.internal.algocare.me"))
	require.True(t, isLikelyRemoteHost("10.0.12.4"))
}
