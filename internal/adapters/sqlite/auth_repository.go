package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atvirokodosprendimai/crewdesk/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

// apiKeyModel stores only the sha256 of a token, never the token itself.
type apiKeyModel struct {
	TokenHash string    `gorm:"column:token_hash;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	UserID    string    `gorm:"column:user_id;not null"`
	UserEmail string    `gorm:"column:user_email;not null"`
	Active    bool      `gorm:"column:active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (apiKeyModel) TableName() string { return "api_keys" }

func (m apiKeyModel) toDomain() domain.APIKey {
	return domain.APIKey(m)
}

// APIKeyRepository resolves API tokens to the user they were issued for.
type APIKeyRepository struct {
	db *gormsqlite.DB
}

func NewAPIKeyRepository(db *gormsqlite.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) FindByTokenHash(ctx context.Context, tokenHash string) (domain.APIKey, error) {
	var found apiKeyModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Take(&found, "token_hash = ?", tokenHash).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.APIKey{}, domain.ErrNotFound
	case err != nil:
		return domain.APIKey{}, fmt.Errorf("find api key: %w", err)
	}
	return found.toDomain(), nil
}

// Upsert issues a key or reassigns an existing one. The original creation
// time is kept on reassignment.
func (r *APIKeyRepository) Upsert(ctx context.Context, key domain.APIKey) error {
	row := apiKeyModel(key)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "user_id", "user_email", "active"}),
		}).Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("upsert api key for %s: %w", key.UserEmail, err)
	}
	return nil
}
