package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/algocare/ops-console/internal/domain/auth"
)

func TestStaticRoleMapper(t *testing.T) {
	mapper := StaticRoleMapper{AdminEmails: []string{"jeff@algocarelab.com"}}

	assert.Equal(t, domainauth.RoleAdmin, mapper.Map("jeff@algocarelab.com"))
	assert.Equal(t, domainauth.RoleViewer, mapper.Map("someone@algocarelab.com"))
	assert.Equal(t, domainauth.RoleViewer, mapper.Map("jeff@algocare.me"))
	// Comparison is exact; no case folding.
	assert.Equal(t, domainauth.RoleViewer, mapper.Map("Jeff@algocarelab.com"))
	assert.Equal(t, domainauth.RoleViewer, mapper.Map(""))
}

func TestStaticRoleMapper_EmptyConfig(t *testing.T) {
	mapper := StaticRoleMapper{}

	assert.Equal(t, domainauth.RoleViewer, mapper.Map("jeff@algocarelab.com"))
}

func TestStaticRoleMapper_IgnoresEmptyEntries(t *testing.T) {
	mapper := StaticRoleMapper{AdminEmails: []string{""}}

	assert.Equal(t, domainauth.RoleViewer, mapper.Map(""))
}
