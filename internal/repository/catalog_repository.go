package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecasanas/contratos-service/internal/model"
	"github.com/ecasanas/contratos-service/internal/service"
)

// CatalogRepository reads the zone, plan and property catalogs. Catalog
// maintenance itself happens outside this service.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetZoneByUUID(ctx context.Context, id uuid.UUID) (*model.Zone, error) {
	var zone model.Zone
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, uuid, code, name, active
		FROM zones
		WHERE uuid = ?
		LIMIT 1
	`, id).Scan(&zone).Error
	if err != nil {
		return nil, err
	}
	if zone.ID == 0 {
		return nil, service.ErrNotFound
	}
	return &zone, nil
}

func (r *CatalogRepository) GetPlanByUUID(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, uuid, code, name, active
		FROM plans
		WHERE uuid = ?
		LIMIT 1
	`, id).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, service.ErrNotFound
	}
	return &plan, nil
}

func (r *CatalogRepository) GetPropertyByUUID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	var property model.Property
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, uuid, code, address, type, active
		FROM properties
		WHERE uuid = ?
		LIMIT 1
	`, id).Scan(&property).Error
	if err != nil {
		return nil, err
	}
	if property.ID == 0 {
		return nil, service.ErrNotFound
	}
	return &property, nil
}
