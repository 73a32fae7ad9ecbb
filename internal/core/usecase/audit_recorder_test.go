package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

var testUser = domain.UserContext{UserID: "u-1", Email: "ops@example.com"}

func newTestRecorder(repo *memAuditRepo) (*AuditRecorder, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	rec := NewAuditRecorder(repo, zap.New(core))
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return fixed }
	return rec, logs
}

func TestAuditRecorderLogCreate(t *testing.T) {
	repo := &memAuditRepo{}
	rec, _ := newTestRecorder(repo)

	project := domain.Project{ID: "p-1", Name: "Rig", Status: domain.ProjectActive}
	rec.LogCreate(context.Background(), domain.TableProjects, project.ID, project, testUser)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, domain.ActionCreate, entry.Action)
	assert.Equal(t, domain.TableProjects, entry.TableName)
	assert.Equal(t, "p-1", entry.RecordID)
	assert.Nil(t, entry.ChangedFields)
	assert.Nil(t, entry.OldValues)
	assert.JSONEq(t, `{"id":"p-1","name":"Rig","status":"active","client_id":null,"consultant_id":null,"location":"","start_date":"","end_date":""}`, string(entry.NewValues))
	assert.Equal(t, "u-1", entry.UserID)
	assert.Equal(t, "ops@example.com", entry.UserEmail)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), entry.CreatedAt)
	assert.Equal(t, int64(1), rec.Metrics().WrittenTotal)
}

func TestAuditRecorderLogUpdateIdenticalSnapshotsStillRecorded(t *testing.T) {
	repo := &memAuditRepo{}
	rec, _ := newTestRecorder(repo)

	crew := domain.CrewMember{ID: "c-1", Name: "Ana", Status: domain.CrewAvailable}
	rec.LogUpdate(context.Background(), domain.TableCrewMembers, crew.ID, crew, crew, testUser)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, domain.ActionUpdate, repo.entries[0].Action)
	assert.NotNil(t, repo.entries[0].ChangedFields)
	assert.Empty(t, repo.entries[0].ChangedFields)
}

func TestAuditRecorderLogUpdateChangedFields(t *testing.T) {
	repo := &memAuditRepo{}
	rec, _ := newTestRecorder(repo)

	before := domain.CrewMember{ID: "c-1", Name: "Ana", Status: domain.CrewAvailable, Role: "rigger"}
	after := before
	after.Status = domain.CrewAssigned
	after.Phone = "+370 600 00000"
	rec.LogUpdate(context.Background(), domain.TableCrewMembers, before.ID, before, after, testUser)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, []string{"phone", "status"}, repo.entries[0].ChangedFields)
	assert.NotEmpty(t, repo.entries[0].OldValues)
	assert.NotEmpty(t, repo.entries[0].NewValues)
}

func TestAuditRecorderLogDelete(t *testing.T) {
	repo := &memAuditRepo{}
	rec, _ := newTestRecorder(repo)

	rec.LogDelete(context.Background(), domain.TableClients, "cl-1", json.RawMessage(`{"id":"cl-1","name":"Acme"}`), testUser)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, domain.ActionDelete, entry.Action)
	assert.Nil(t, entry.ChangedFields)
	assert.Nil(t, entry.NewValues)
	assert.JSONEq(t, `{"id":"cl-1","name":"Acme"}`, string(entry.OldValues))
}

func TestAuditRecorderStoreFailureIsSwallowed(t *testing.T) {
	repo := &memAuditRepo{appendErr: errStoreDown}
	rec, logs := newTestRecorder(repo)

	assert.NotPanics(t, func() {
		rec.LogCreate(context.Background(), domain.TableProjects, "p-1", domain.Project{ID: "p-1"}, testUser)
	})

	assert.Equal(t, int64(1), rec.Metrics().FailedTotal)
	assert.Equal(t, int64(0), rec.Metrics().WrittenTotal)
	require.Equal(t, 1, logs.FilterMessage("audit entry not recorded").Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestAuditRecorderSkipsWithoutUser(t *testing.T) {
	repo := &memAuditRepo{}
	rec, logs := newTestRecorder(repo)

	rec.LogCreate(context.Background(), domain.TableProjects, "p-1", domain.Project{ID: "p-1"}, domain.UserContext{})

	assert.Empty(t, repo.entries)
	assert.Equal(t, int64(1), rec.Metrics().SkippedTotal)
	assert.Equal(t, 1, logs.FilterMessage("audit entry skipped: no authenticated user").Len())
}

func TestAuditRecorderWritesAfterRequestCancelled(t *testing.T) {
	repo := &memAuditRepo{}
	rec, _ := newTestRecorder(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.LogCreate(ctx, domain.TableProjects, "p-1", domain.Project{ID: "p-1"}, testUser)

	assert.Len(t, repo.entries, 1)
}

func TestAuditRecorderRejectsUnmarshalableSnapshot(t *testing.T) {
	repo := &memAuditRepo{}
	rec, _ := newTestRecorder(repo)

	rec.LogCreate(context.Background(), domain.TableProjects, "p-1", nil, testUser)
	rec.LogUpdate(context.Background(), domain.TableProjects, "p-1", json.RawMessage(`{`), json.RawMessage(`{}`), testUser)

	assert.Empty(t, repo.entries)
	assert.Equal(t, int64(2), rec.Metrics().FailedTotal)
}
