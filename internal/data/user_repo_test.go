package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/domain/model"
	"github.com/algocare/ops-console/internal/testutil"
)

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@algocarelab.com", prefix, time.Now().UnixNano())
}

func TestUserRepo_Upsert_PreservesInternalID(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		email := uniqueEmail("upsert")

		first, err := repo.Upsert(ctx, &model.UpsertUserRequest{
			Email:  email,
			Role:   domainauth.RoleViewer,
			AuthID: "oidc-sub-1",
		})
		require.NoError(t, err)
		require.NotEmpty(t, first.ID)
		assert.Equal(t, model.SentinelPasswordHash, first.PasswordHash)
		assert.True(t, first.IsActive)

		// Re-upserting the same email keeps the internal id; role and
		// auth_id are refreshed.
		second, err := repo.Upsert(ctx, &model.UpsertUserRequest{
			Email:  email,
			Role:   domainauth.RoleAdmin,
			AuthID: "oidc-sub-2",
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, domainauth.RoleAdmin, second.Role)
		require.NotNil(t, second.AuthID)
		assert.Equal(t, "oidc-sub-2", *second.AuthID)
	})
}

func TestUserRepo_Upsert_ReactivatesAndKeepsPassword(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		email := uniqueEmail("reactivate")

		created, err := repo.Upsert(ctx, &model.UpsertUserRequest{Email: email, Role: domainauth.RoleViewer})
		require.NoError(t, err)

		// Give the account a real password and deactivate it.
		require.NoError(t, repo.SetPasswordHash(ctx, created.ID, "$2a$10$fakehashfortest"))
		_, err = repo.SetActive(ctx, created.ID, false)
		require.NoError(t, err)

		// A successful login upsert reactivates but never touches the hash.
		after, err := repo.Upsert(ctx, &model.UpsertUserRequest{Email: email, Role: domainauth.RoleViewer})
		require.NoError(t, err)
		assert.True(t, after.IsActive)
		assert.Equal(t, "$2a$10$fakehashfortest", after.PasswordHash)
	})
}

func TestUserRepo_GetByEmail_And_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		email := uniqueEmail("lookup")

		created, err := repo.Upsert(ctx, &model.UpsertUserRequest{Email: email, Role: domainauth.RoleReadWrite})
		require.NoError(t, err)

		byEmail, err := repo.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, email, byID.Email)

		_, err = repo.GetByEmail(ctx, "nobody@algocarelab.com")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepo_List_Filters(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		adminEmail := uniqueEmail("filter-admin")
		viewerEmail := uniqueEmail("filter-viewer")
		_, err := repo.Upsert(ctx, &model.UpsertUserRequest{Email: adminEmail, Role: domainauth.RoleAdmin})
		require.NoError(t, err)
		viewer, err := repo.Upsert(ctx, &model.UpsertUserRequest{Email: viewerEmail, Role: domainauth.RoleViewer})
		require.NoError(t, err)
		_, err = repo.SetActive(ctx, viewer.ID, false)
		require.NoError(t, err)

		adminRole := domainauth.RoleAdmin
		admins, err := repo.List(ctx, model.UsersListOptions{Role: &adminRole})
		require.NoError(t, err)
		require.Len(t, admins, 1)
		assert.Equal(t, adminEmail, admins[0].Email)

		inactive, err := repo.List(ctx, model.UsersListOptions{IsActive: testutil.BoolPtr(false)})
		require.NoError(t, err)
		require.Len(t, inactive, 1)
		assert.Equal(t, viewerEmail, inactive[0].Email)

		matched, err := repo.List(ctx, model.UsersListOptions{Q: testutil.StringPtr("filter-admin")})
		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.Equal(t, adminEmail, matched[0].Email)
	})
}

func TestUserRepo_SetRole_And_SetPasswordHash(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		created, err := repo.Upsert(ctx, &model.UpsertUserRequest{
			Email: uniqueEmail("mutate"),
			Role:  domainauth.RoleViewer,
		})
		require.NoError(t, err)

		promoted, err := repo.SetRole(ctx, created.ID, domainauth.RoleReadWrite)
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleReadWrite, promoted.Role)

		require.NoError(t, repo.SetPasswordHash(ctx, created.ID, "$2a$10$anotherhash"))
		loaded, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "$2a$10$anotherhash", loaded.PasswordHash)
		assert.True(t, loaded.HasPassword())

		err = repo.SetPasswordHash(ctx, "00000000-0000-0000-0000-000000000000", "$2a$10$x")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepo_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		created, err := repo.Upsert(ctx, &model.UpsertUserRequest{
			Email: uniqueEmail("delete"),
			Role:  domainauth.RoleViewer,
		})
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deletedAgain, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, deletedAgain)
	})
}
