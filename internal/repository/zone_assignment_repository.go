package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecasanas/contratos-service/internal/model"
	"github.com/ecasanas/contratos-service/internal/service"
)

type ZoneAssignmentRepository struct {
	db *gorm.DB
}

func NewZoneAssignmentRepository(db *gorm.DB) *ZoneAssignmentRepository {
	return &ZoneAssignmentRepository{db: db}
}

const selectZoneAssignment = `
	SELECT
		za.id,
		za.uuid,
		za.contract_id,
		c.uuid AS contract_uuid,
		c.code AS contract_code,
		za.zone_id,
		z.uuid AS zone_uuid,
		z.code AS zone_code,
		z.name AS zone_name,
		za.plan_id,
		p.uuid AS plan_uuid,
		p.name AS plan_name,
		za.zone_coordinator_id,
		zc.uuid AS zone_coordinator_uuid,
		COALESCE(zc.first_name || ' ' || zc.last_name, '') AS zone_coordinator_name,
		za.operational_coordinator_id,
		oc.uuid AS operational_coordinator_uuid,
		COALESCE(oc.first_name || ' ' || oc.last_name, '') AS operational_coordinator_name,
		za.state,
		za.created_at,
		za.updated_at
	FROM zone_assignments za
	JOIN contracts c ON c.id = za.contract_id
	JOIN zones z ON z.id = za.zone_id
	JOIN plans p ON p.id = za.plan_id
	LEFT JOIN actors zc ON zc.id = za.zone_coordinator_id
	LEFT JOIN actors oc ON oc.id = za.operational_coordinator_id
`

type zoneAssignmentRow struct {
	ID                         int64
	UUID                       uuid.UUID
	ContractID                 int64
	ContractUUID               uuid.UUID
	ContractCode               string
	ZoneID                     int64
	ZoneUUID                   uuid.UUID
	ZoneCode                   string
	ZoneName                   string
	PlanID                     int64
	PlanUUID                   uuid.UUID
	PlanName                   string
	ZoneCoordinatorID          *int64
	ZoneCoordinatorUUID        *uuid.UUID
	ZoneCoordinatorName        string
	OperationalCoordinatorID   *int64
	OperationalCoordinatorUUID *uuid.UUID
	OperationalCoordinatorName string
	State                      string
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

func (row zoneAssignmentRow) toModel() model.ZoneAssignment {
	return model.ZoneAssignment{
		ID:                         row.ID,
		UUID:                       row.UUID,
		ContractID:                 row.ContractID,
		ContractUUID:               row.ContractUUID,
		ContractCode:               row.ContractCode,
		ZoneID:                     row.ZoneID,
		ZoneUUID:                   row.ZoneUUID,
		ZoneCode:                   row.ZoneCode,
		ZoneName:                   row.ZoneName,
		PlanID:                     row.PlanID,
		PlanUUID:                   row.PlanUUID,
		PlanName:                   row.PlanName,
		ZoneCoordinatorID:          row.ZoneCoordinatorID,
		ZoneCoordinatorUUID:        row.ZoneCoordinatorUUID,
		ZoneCoordinatorName:        row.ZoneCoordinatorName,
		OperationalCoordinatorID:   row.OperationalCoordinatorID,
		OperationalCoordinatorUUID: row.OperationalCoordinatorUUID,
		OperationalCoordinatorName: row.OperationalCoordinatorName,
		State:                      model.ZoneAssignmentState(row.State),
		CreatedAt:                  row.CreatedAt,
		UpdatedAt:                  row.UpdatedAt,
	}
}

func (r *ZoneAssignmentRepository) Create(ctx context.Context, row *model.ZoneAssignment) (*model.ZoneAssignment, error) {
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO zone_assignments (contract_id, zone_id, plan_id, state)
		VALUES (?, ?, ?, ?)
		RETURNING id, uuid, created_at, updated_at
	`, row.ContractID, row.ZoneID, row.PlanID, row.State).Scan(row).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: zone %s already assigned to contract %s",
				service.ErrConflict, row.ZoneCode, row.ContractCode)
		}
		return nil, err
	}
	return row, nil
}

func (r *ZoneAssignmentRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*model.ZoneAssignment, error) {
	var row zoneAssignmentRow
	err := r.db.WithContext(ctx).Raw(selectZoneAssignment+` WHERE za.uuid = ? LIMIT 1`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, service.ErrNotFound
	}
	assignment := row.toModel()
	return &assignment, nil
}

func (r *ZoneAssignmentRepository) Update(ctx context.Context, row *model.ZoneAssignment) error {
	var zoneCoordinatorID, operationalCoordinatorID interface{}
	if row.ZoneCoordinatorID != nil {
		zoneCoordinatorID = *row.ZoneCoordinatorID
	}
	if row.OperationalCoordinatorID != nil {
		operationalCoordinatorID = *row.OperationalCoordinatorID
	}
	return r.db.WithContext(ctx).Exec(`
		UPDATE zone_assignments
		SET plan_id = ?,
			zone_coordinator_id = ?,
			operational_coordinator_id = ?,
			state = ?,
			updated_at = NOW()
		WHERE uuid = ?
	`, row.PlanID, zoneCoordinatorID, operationalCoordinatorID, row.State, row.UUID).Error
}

func (r *ZoneAssignmentRepository) UpdateState(ctx context.Context, id uuid.UUID, state model.ZoneAssignmentState) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE zone_assignments
		SET state = ?, updated_at = NOW()
		WHERE uuid = ?
	`, state, id).Error
}

func (r *ZoneAssignmentRepository) ListByContract(ctx context.Context, contractUUID uuid.UUID) ([]model.ZoneAssignment, error) {
	return r.list(ctx, selectZoneAssignment+`
		WHERE c.uuid = ?
		ORDER BY za.created_at ASC
	`, contractUUID)
}

// ListByCoordinator returns live rows where the actor holds either
// coordinator slot; this query derives the coordinator-of-contract
// relationship.
func (r *ZoneAssignmentRepository) ListByCoordinator(ctx context.Context, actorID int64) ([]model.ZoneAssignment, error) {
	return r.list(ctx, selectZoneAssignment+`
		WHERE za.state <> 'CANCELLED'
			AND (za.zone_coordinator_id = ? OR za.operational_coordinator_id = ?)
		ORDER BY za.created_at DESC
	`, actorID, actorID)
}

func (r *ZoneAssignmentRepository) ListUnassignedCoordinator(ctx context.Context, contractUUID uuid.UUID) ([]model.ZoneAssignment, error) {
	return r.list(ctx, selectZoneAssignment+`
		WHERE c.uuid = ?
			AND za.state <> 'CANCELLED'
			AND (za.zone_coordinator_id IS NULL OR za.operational_coordinator_id IS NULL)
		ORDER BY za.created_at ASC
	`, contractUUID)
}

func (r *ZoneAssignmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.ZoneAssignment, error) {
	var rows []zoneAssignmentRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	assignments := make([]model.ZoneAssignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toModel())
	}
	return assignments, nil
}

func (r *ZoneAssignmentRepository) IsCoordinatorOfContract(ctx context.Context, contractUUID uuid.UUID, actorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(1)
		FROM zone_assignments za
		JOIN contracts c ON c.id = za.contract_id
		WHERE c.uuid = ?
			AND za.state <> 'CANCELLED'
			AND (za.zone_coordinator_id = ? OR za.operational_coordinator_id = ?)
	`, contractUUID, actorID, actorID).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ZoneAssignmentRepository) CountLiveByContract(ctx context.Context, contractUUID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(1)
		FROM zone_assignments za
		JOIN contracts c ON c.id = za.contract_id
		WHERE c.uuid = ? AND za.state <> 'CANCELLED'
	`, contractUUID).Scan(&count).Error
	return count, err
}

func (r *ZoneAssignmentRepository) CountLiveByZoneInActiveContracts(ctx context.Context, zoneUUID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(1)
		FROM zone_assignments za
		JOIN contracts c ON c.id = za.contract_id
		JOIN zones z ON z.id = za.zone_id
		WHERE z.uuid = ? AND za.state <> 'CANCELLED' AND c.state = 'ACTIVE'
	`, zoneUUID).Scan(&count).Error
	return count, err
}

func (r *ZoneAssignmentRepository) CountLiveByPlanInActiveContracts(ctx context.Context, planUUID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(1)
		FROM zone_assignments za
		JOIN contracts c ON c.id = za.contract_id
		JOIN plans p ON p.id = za.plan_id
		WHERE p.uuid = ? AND za.state <> 'CANCELLED' AND c.state = 'ACTIVE'
	`, planUUID).Scan(&count).Error
	return count, err
}
