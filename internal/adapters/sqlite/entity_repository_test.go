package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

func TestEntityRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(openTestDB(t))

	clientID := uuid.NewString()
	created, err := repo.Create(ctx, domain.Project{
		ID:        uuid.NewString(),
		Name:      "North Sea Rig",
		Status:    domain.ProjectPlanning,
		ClientID:  &clientID,
		StartDate: "2024-05-01",
	})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "North Sea Rig", got.Name)
	require.NotNil(t, got.ClientID)
	assert.Equal(t, clientID, *got.ClientID)
	assert.Nil(t, got.ConsultantID)

	edit := got
	edit.Status = domain.ProjectActive
	edit.ClientID = nil
	edit.CreatedAt = time.Time{}
	previous, updated, err := repo.Update(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectPlanning, previous.Status)
	assert.Equal(t, domain.ProjectActive, updated.Status)
	assert.Nil(t, updated.ClientID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ProjectActive, list[0].Status)

	removed, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, removed.Status)

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntityRepositoryMissingRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewCrewMemberRepository(openTestDB(t))

	_, _, err := repo.Update(ctx, domain.CrewMember{ID: uuid.NewString(), Name: "Ana", Status: domain.CrewAvailable})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.Delete(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntityRepositoryListKeepsInsertOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository(openTestDB(t))

	var ids []string
	for _, name := range []string{"Acme", "Borealis", "Corsair"} {
		c, err := repo.Create(ctx, domain.Client{ID: uuid.NewString(), Name: name})
		require.NoError(t, err)
		ids = append(ids, c.ID)
		time.Sleep(2 * time.Millisecond)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	got := make([]string, 0, len(list))
	for _, c := range list {
		got = append(got, c.ID)
	}
	assert.Equal(t, ids, got)
}

func TestAssignmentRepositoryCreateExclusiveDetectsOverlap(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentRepository(openTestDB(t))
	crew := uuid.NewString()

	first, err := repo.CreateExclusive(ctx, domain.Assignment{ID: uuid.NewString(), CrewMemberID: crew, ProjectID: uuid.NewString(), StartDate: "2024-01-01", EndDate: "2024-01-10"})
	require.NoError(t, err)

	_, err = repo.CreateExclusive(ctx, domain.Assignment{ID: uuid.NewString(), CrewMemberID: crew, ProjectID: uuid.NewString(), StartDate: "2024-01-10", EndDate: "2024-01-15"})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, first.ID, conflict.Conflicts[0].ID)

	moved := first
	moved.EndDate = "2024-01-20"
	_, updated, err := repo.UpdateExclusive(ctx, moved)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-20", updated.EndDate)

	list, err := repo.ListByCrewMember(ctx, crew)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAssignmentRepositoryConcurrentCreatesAdmitOne(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentRepository(openTestDB(t))
	crew := uuid.NewString()

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateExclusive(ctx, domain.Assignment{ID: uuid.NewString(), CrewMemberID: crew, ProjectID: uuid.NewString(), StartDate: "2024-03-01", EndDate: "2024-03-05"})
			var conflict *domain.ConflictError
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &conflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, conflicts)
}
