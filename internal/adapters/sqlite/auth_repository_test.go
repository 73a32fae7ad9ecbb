package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

func TestAPIKeyRepositoryUpsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewAPIKeyRepository(openTestDB(t))

	_, err := repo.FindByTokenHash(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	key := domain.APIKey{TokenHash: "h1", Name: "ops", UserID: "u-1", UserEmail: "ops@example.com", Active: true, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Upsert(ctx, key))

	key.Active = false
	key.UserEmail = "dispatch@example.com"
	require.NoError(t, repo.Upsert(ctx, key))

	got, err := repo.FindByTokenHash(ctx, "h1")
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, "dispatch@example.com", got.User().Email)
}
