package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

func TestOutboxRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	audit := NewAuditLogRepository(db)
	repo := NewOutboxRepository(db)

	past := time.Now().UTC().Add(-time.Minute)
	for i := 0; i < 3; i++ {
		require.NoError(t, audit.Append(ctx, auditEntry(domain.TableProjects, domain.ActionCreate, uuid.NewString(), past)))
	}

	pending, err := repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)

	require.NoError(t, repo.MarkDispatched(ctx, pending[0].ID))
	require.NoError(t, repo.MarkFailed(ctx, pending[1].ID, 1, time.Now().UTC().Add(time.Hour), "webhook down"))
	require.NoError(t, repo.MarkDead(ctx, pending[2].ID, 5, "gave up"))

	again, err := repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	repo.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	again, err = repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, pending[1].ID, again[0].ID)
	assert.Equal(t, 1, again[0].Attempts)
	assert.Equal(t, "webhook down", again[0].LastError)

	purged, err := repo.PurgeDispatched(ctx, time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
