package user

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homebase-go/internal/domain/apperr"
	domain "homebase-go/internal/domain/user"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if profile.Email != nil {
		updates["email"] = profile.Email
	}
	if profile.AvatarURL != nil {
		updates["avatar_url"] = profile.AvatarURL
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(profile).Error
	return apperr.Unavailable("users.upsert_profile", err)
}

func (r *PostgresRepository) FindUserIDsByEmail(ctx context.Context, email string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("email = ?", email).
		Order("created_at asc, user_id asc").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, apperr.Unavailable("users.find_by_email", err)
	}
	return ids, nil
}
