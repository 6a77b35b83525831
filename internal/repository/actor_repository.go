package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecasanas/contratos-service/internal/model"
	"github.com/ecasanas/contratos-service/internal/service"
)

type ActorRepository struct {
	db *gorm.DB
}

func NewActorRepository(db *gorm.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

func (r *ActorRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*model.Actor, error) {
	var actor model.Actor
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, uuid, username, first_name, last_name, email,
			COALESCE(phone, '') AS phone, role, active, created_at, updated_at
		FROM actors
		WHERE uuid = ?
		LIMIT 1
	`, id).Scan(&actor).Error
	if err != nil {
		return nil, err
	}
	if actor.ID == 0 {
		return nil, service.ErrNotFound
	}
	return &actor, nil
}

func (r *ActorRepository) ListActiveByRole(ctx context.Context, role model.Role) ([]model.Actor, error) {
	var actors []model.Actor
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, uuid, username, first_name, last_name, email,
			COALESCE(phone, '') AS phone, role, active, created_at, updated_at
		FROM actors
		WHERE role = ? AND active = TRUE
		ORDER BY first_name, last_name
	`, role).Scan(&actors).Error
	if err != nil {
		return nil, err
	}
	return actors, nil
}
