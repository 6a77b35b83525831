package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRepository only counts recorded work; activity management lives
// in another service.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) CountByAssignment(ctx context.Context, assignmentUUID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(1)
		FROM activities a
		JOIN property_assignments pa ON pa.id = a.property_assignment_id
		WHERE pa.uuid = ?
	`, assignmentUUID).Scan(&count).Error
	return count, err
}
