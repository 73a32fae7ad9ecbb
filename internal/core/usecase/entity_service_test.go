package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

func TestEntityServiceLifecycleIsAudited(t *testing.T) {
	repo := newMemRepo[domain.Client]()
	audit := &memAuditRepo{}
	rec, _ := newTestRecorder(audit)
	svc := NewEntityService[domain.Client](domain.TableClients, repo, rec)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.Client{Name: "Acme"}, testUser)
	require.NoError(t, err)
	require.NoError(t, domain.ValidateID(created.ID))

	updated, err := svc.Update(ctx, created.ID, domain.Client{Name: "Acme Marine", Phone: "123"}, testUser)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	_, err = svc.Delete(ctx, created.ID, testUser)
	require.NoError(t, err)

	require.Len(t, audit.entries, 3)
	assert.Equal(t, domain.ActionCreate, audit.entries[0].Action)
	assert.Equal(t, domain.ActionUpdate, audit.entries[1].Action)
	assert.Equal(t, []string{"name", "phone"}, audit.entries[1].ChangedFields)
	assert.Equal(t, domain.ActionDelete, audit.entries[2].Action)
	for _, e := range audit.entries {
		assert.Equal(t, domain.TableClients, e.TableName)
		assert.Equal(t, created.ID, e.RecordID)
	}
}

func TestEntityServiceValidationFailureIsNotAudited(t *testing.T) {
	audit := &memAuditRepo{}
	rec, _ := newTestRecorder(audit)
	svc := NewEntityService[domain.CrewMember](domain.TableCrewMembers, newMemRepo[domain.CrewMember](), rec)

	_, err := svc.Create(context.Background(), domain.CrewMember{Name: "Ana"}, testUser)
	var verr *domain.ErrValidation
	assert.True(t, errors.As(err, &verr))
	assert.Empty(t, audit.entries)
}

func TestEntityServiceMissingRecord(t *testing.T) {
	audit := &memAuditRepo{}
	rec, _ := newTestRecorder(audit)
	svc := NewEntityService[domain.CrewRole](domain.TableCrewRoles, newMemRepo[domain.CrewRole](), rec)

	_, err := svc.Update(context.Background(), crewID1, domain.CrewRole{Name: "Rigger"}, testUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Delete(context.Background(), crewID1, testUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Get(context.Background(), "bad id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	assert.Empty(t, audit.entries)
}

func TestEntityServiceAuditFailureDoesNotFailWrite(t *testing.T) {
	rec, _ := newTestRecorder(&memAuditRepo{appendErr: errStoreDown})
	svc := NewEntityService[domain.Consultant](domain.TableConsultants, newMemRepo[domain.Consultant](), rec)

	created, err := svc.Create(context.Background(), domain.Consultant{Name: "Jonas"}, testUser)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}
