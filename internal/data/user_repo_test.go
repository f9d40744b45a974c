package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
	apperrors "github.com/target/blogger-api/internal/errors"
	"github.com/target/blogger-api/internal/testutil"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := testutil.SetupAutoDB(t)
	ctx := context.Background()
	repo := NewUserRepo(db)

	u, err := repo.Create(ctx, testutil.NewUserFixture().WithEmail("  Alice@Example.COM ").WithName("Alice").Build())
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, domainauth.RoleReader, u.Role)
	assert.NotZero(t, u.CreatedAt)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUserRepo_DuplicateEmailConflict(t *testing.T) {
	db := testutil.SetupAutoDB(t)
	ctx := context.Background()
	repo := NewUserRepo(db)

	_, err := repo.Create(ctx, testutil.NewUserFixture().WithEmail("dup@example.com").Build())
	require.NoError(t, err)

	_, err = repo.Create(ctx, testutil.NewUserFixture().WithEmail("DUP@example.com").Build())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "email", apperrors.GetField(err))
}

func TestUserRepo_NotFound(t *testing.T) {
	db := testutil.SetupAutoDB(t)
	ctx := context.Background()
	repo := NewUserRepo(db)

	_, err := repo.GetByID(ctx, "not-a-uuid")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, apperrors.IsNotFound(err))

	err = repo.UpdatePasswordHash(ctx, "00000000-0000-0000-0000-000000000000", "x")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepo_UpdatesListAndCount(t *testing.T) {
	db := testutil.SetupAutoDB(t)
	ctx := context.Background()
	repo := NewUserRepo(db)

	a, err := repo.Create(ctx, testutil.NewUserFixture().Build())
	require.NoError(t, err)
	_, err = repo.Create(ctx, testutil.NewUserFixture().WithRole(domainauth.RoleEditor).Build())
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePasswordHash(ctx, a.ID, "new-hash"))
	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	updated, err := repo.UpdateRole(ctx, a.ID, domainauth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, updated.Role)

	_, err = repo.UpdateRole(ctx, a.ID, domainauth.Role("owner"))
	assert.True(t, apperrors.IsValidation(err))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	page, err := repo.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}
