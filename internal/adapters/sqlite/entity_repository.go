package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/atvirokodosprendimai/crewdesk/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

type row[M any] interface {
	*M
	stamp(createdAt, updatedAt time.Time)
	created() time.Time
}

// EntityRepository stores one directory table. T is the domain record and M
// its gorm model.
type EntityRepository[T domain.Entity[T], M any, PM row[M]] struct {
	db       *gormsqlite.DB
	table    domain.Table
	toModel  func(T) M
	toDomain func(M) T
	now      func() time.Time
}

func newEntityRepository[T domain.Entity[T], M any, PM row[M]](db *gormsqlite.DB, table domain.Table, toModel func(T) M, toDomain func(M) T) *EntityRepository[T, M, PM] {
	return &EntityRepository[T, M, PM]{
		db:       db,
		table:    table,
		toModel:  toModel,
		toDomain: toDomain,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func NewClientRepository(db *gormsqlite.DB) *EntityRepository[domain.Client, clientModel, *clientModel] {
	return newEntityRepository[domain.Client, clientModel, *clientModel](db, domain.TableClients, clientToModel, clientFromModel)
}

func NewConsultantRepository(db *gormsqlite.DB) *EntityRepository[domain.Consultant, consultantModel, *consultantModel] {
	return newEntityRepository[domain.Consultant, consultantModel, *consultantModel](db, domain.TableConsultants, consultantToModel, consultantFromModel)
}

func NewCrewRoleRepository(db *gormsqlite.DB) *EntityRepository[domain.CrewRole, crewRoleModel, *crewRoleModel] {
	return newEntityRepository[domain.CrewRole, crewRoleModel, *crewRoleModel](db, domain.TableCrewRoles, crewRoleToModel, crewRoleFromModel)
}

func NewCrewMemberRepository(db *gormsqlite.DB) *EntityRepository[domain.CrewMember, crewMemberModel, *crewMemberModel] {
	return newEntityRepository[domain.CrewMember, crewMemberModel, *crewMemberModel](db, domain.TableCrewMembers, crewMemberToModel, crewMemberFromModel)
}

func NewProjectRepository(db *gormsqlite.DB) *EntityRepository[domain.Project, projectModel, *projectModel] {
	return newEntityRepository[domain.Project, projectModel, *projectModel](db, domain.TableProjects, projectToModel, projectFromModel)
}

func (r *EntityRepository[T, M, PM]) Create(ctx context.Context, entity T) (T, error) {
	var created T
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		var err error
		created, err = r.createTx(tx, entity)
		return err
	})
	return created, err
}

func (r *EntityRepository[T, M, PM]) Update(ctx context.Context, entity T) (T, T, error) {
	var previous, updated T
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		var err error
		previous, updated, err = r.updateTx(tx, entity)
		return err
	})
	return previous, updated, err
}

func (r *EntityRepository[T, M, PM]) Delete(ctx context.Context, id string) (T, error) {
	var removed T
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		existing, err := r.getTx(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(PM(new(M))).Error; err != nil {
			return fmt.Errorf("delete %s: %w", r.table, err)
		}
		removed = r.toDomain(existing)
		return nil
	})
	return removed, err
}

func (r *EntityRepository[T, M, PM]) Get(ctx context.Context, id string) (T, error) {
	var found T
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		model, err := r.getTx(tx, id)
		if err != nil {
			return err
		}
		found = r.toDomain(model)
		return nil
	})
	return found, err
}

func (r *EntityRepository[T, M, PM]) List(ctx context.Context) ([]T, error) {
	var rows []M
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Order("created_at ASC, id ASC").Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	return r.mapRows(rows), nil
}

func (r *EntityRepository[T, M, PM]) createTx(tx *gormsqlite.Tx, entity T) (T, error) {
	var zero T
	model := r.toModel(entity)
	now := r.now()
	PM(&model).stamp(now, now)
	if err := tx.Create(PM(&model)).Error; err != nil {
		return zero, fmt.Errorf("insert %s: %w", r.table, err)
	}
	return r.toDomain(model), nil
}

func (r *EntityRepository[T, M, PM]) updateTx(tx *gormsqlite.Tx, entity T) (T, T, error) {
	var zero T
	existing, err := r.getTx(tx, entity.GetID())
	if err != nil {
		return zero, zero, err
	}

	model := r.toModel(entity)
	PM(&model).stamp(PM(&existing).created(), r.now())
	if err := tx.Save(PM(&model)).Error; err != nil {
		return zero, zero, fmt.Errorf("update %s: %w", r.table, err)
	}
	return r.toDomain(existing), r.toDomain(model), nil
}

func (r *EntityRepository[T, M, PM]) getTx(tx *gormsqlite.Tx, id string) (M, error) {
	var model M
	err := tx.Where("id = ?", id).First(PM(&model)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model, domain.ErrNotFound
		}
		return model, fmt.Errorf("get %s: %w", r.table, err)
	}
	return model, nil
}

func (r *EntityRepository[T, M, PM]) mapRows(rows []M) []T {
	out := make([]T, 0, len(rows))
	for _, m := range rows {
		out = append(out, r.toDomain(m))
	}
	return out
}
