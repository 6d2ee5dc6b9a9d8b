package authroles

import (
	domainauth "github.com/algocare/ops-console/internal/domain/auth"
)

// StaticRoleMapper assigns roles by email membership in configured sets.
// The rule is evaluated once, at account-creation time; roles are never
// re-derived from provider claims afterwards.
type StaticRoleMapper struct {
	AdminEmails []string
}

// Map returns admin for configured admin emails and view-only for everyone
// else. Comparison is exact; no normalization is applied.
func (m StaticRoleMapper) Map(email string) domainauth.Role {
	for _, e := range m.AdminEmails {
		if e != "" && e == email {
			return domainauth.RoleAdmin
		}
	}
	return domainauth.RoleViewer
}
