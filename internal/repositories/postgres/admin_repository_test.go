package postgres

import (
	"context"
	"testing"

	"poll-service/internal/models"
	"poll-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepositorySaveByUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewAdminRepository(testutil.SetupTestDB(t))

	_, err := repo.FindByUsername(ctx, "root")
	assert.ErrorIs(t, err, ErrNotFound)

	first := &models.AdminUser{Username: "root", PasswordHash: "h1"}
	require.NoError(t, repo.SaveByUsername(ctx, first))
	require.NotZero(t, first.ID)

	second := &models.AdminUser{Username: "root", PasswordHash: "h2"}
	require.NoError(t, repo.SaveByUsername(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)
}
