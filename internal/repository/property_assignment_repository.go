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

type PropertyAssignmentRepository struct {
	db *gorm.DB
}

func NewPropertyAssignmentRepository(db *gorm.DB) *PropertyAssignmentRepository {
	return &PropertyAssignmentRepository{db: db}
}

const selectPropertyAssignment = `
	SELECT
		pa.id,
		pa.uuid,
		pa.contract_id,
		c.uuid AS contract_uuid,
		c.code AS contract_code,
		pa.property_id,
		p.uuid AS property_uuid,
		p.code AS property_code,
		p.address AS property_address,
		pa.operario_id,
		o.uuid AS operario_uuid,
		COALESCE(o.first_name || ' ' || o.last_name, '') AS operario_name,
		pa.state,
		pa.created_at,
		pa.updated_at
	FROM property_assignments pa
	JOIN contracts c ON c.id = pa.contract_id
	JOIN properties p ON p.id = pa.property_id
	LEFT JOIN actors o ON o.id = pa.operario_id
`

type propertyAssignmentRow struct {
	ID              int64
	UUID            uuid.UUID
	ContractID      int64
	ContractUUID    uuid.UUID
	ContractCode    string
	PropertyID      int64
	PropertyUUID    uuid.UUID
	PropertyCode    string
	PropertyAddress string
	OperarioID      *int64
	OperarioUUID    *uuid.UUID
	OperarioName    string
	State           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (row propertyAssignmentRow) toModel() model.PropertyAssignment {
	return model.PropertyAssignment{
		ID:              row.ID,
		UUID:            row.UUID,
		ContractID:      row.ContractID,
		ContractUUID:    row.ContractUUID,
		ContractCode:    row.ContractCode,
		PropertyID:      row.PropertyID,
		PropertyUUID:    row.PropertyUUID,
		PropertyCode:    row.PropertyCode,
		PropertyAddress: row.PropertyAddress,
		OperarioID:      row.OperarioID,
		OperarioUUID:    row.OperarioUUID,
		OperarioName:    row.OperarioName,
		State:           model.PropertyAssignmentState(row.State),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func (r *PropertyAssignmentRepository) Create(ctx context.Context, row *model.PropertyAssignment) (*model.PropertyAssignment, error) {
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO property_assignments (contract_id, property_id, state)
		VALUES (?, ?, ?)
		RETURNING id, uuid, created_at, updated_at
	`, row.ContractID, row.PropertyID, row.State).Scan(row).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: property %s already assigned to contract %s",
				service.ErrConflict, row.PropertyCode, row.ContractCode)
		}
		return nil, err
	}
	return row, nil
}

func (r *PropertyAssignmentRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*model.PropertyAssignment, error) {
	var row propertyAssignmentRow
	err := r.db.WithContext(ctx).Raw(selectPropertyAssignment+` WHERE pa.uuid = ? LIMIT 1`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, service.ErrNotFound
	}
	assignment := row.toModel()
	return &assignment, nil
}

// GetByContractAndProperty finds the live row for the pair; cancelled
// history rows are skipped.
func (r *PropertyAssignmentRepository) GetByContractAndProperty(ctx context.Context, contractUUID, propertyUUID uuid.UUID) (*model.PropertyAssignment, error) {
	var row propertyAssignmentRow
	err := r.db.WithContext(ctx).Raw(selectPropertyAssignment+`
		WHERE c.uuid = ? AND p.uuid = ? AND pa.state <> 'CANCELLED'
		LIMIT 1
	`, contractUUID, propertyUUID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, service.ErrNotFound
	}
	assignment := row.toModel()
	return &assignment, nil
}

func (r *PropertyAssignmentRepository) SetOperario(ctx context.Context, id uuid.UUID, operario *model.Actor, state model.PropertyAssignmentState) error {
	var operarioID interface{}
	if operario != nil {
		operarioID = operario.ID
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec(`
			UPDATE property_assignments
			SET operario_id = ?, state = ?, updated_at = NOW()
			WHERE uuid = ?
		`, operarioID, state, id).Error
	})
}

func (r *PropertyAssignmentRepository) UpdateState(ctx context.Context, id uuid.UUID, state model.PropertyAssignmentState) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE property_assignments
		SET state = ?, updated_at = NOW()
		WHERE uuid = ?
	`, state, id).Error
}

func (r *PropertyAssignmentRepository) ListByContract(ctx context.Context, contractUUID uuid.UUID) ([]model.PropertyAssignment, error) {
	var rows []propertyAssignmentRow
	err := r.db.WithContext(ctx).Raw(selectPropertyAssignment+`
		WHERE c.uuid = ?
		ORDER BY pa.created_at ASC
	`, contractUUID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	assignments := make([]model.PropertyAssignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toModel())
	}
	return assignments, nil
}

func (r *PropertyAssignmentRepository) HasLiveForOperario(ctx context.Context, contractUUID uuid.UUID, actorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(1)
		FROM property_assignments pa
		JOIN contracts c ON c.id = pa.contract_id
		WHERE c.uuid = ? AND pa.operario_id = ? AND pa.state <> 'CANCELLED'
	`, contractUUID, actorID).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PropertyAssignmentRepository) CountLiveByContract(ctx context.Context, contractUUID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(1)
		FROM property_assignments pa
		JOIN contracts c ON c.id = pa.contract_id
		WHERE c.uuid = ? AND pa.state <> 'CANCELLED'
	`, contractUUID).Scan(&count).Error
	return count, err
}

func (r *PropertyAssignmentRepository) CountByContractAndState(ctx context.Context, contractUUID uuid.UUID, state model.PropertyAssignmentState) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(1)
		FROM property_assignments pa
		JOIN contracts c ON c.id = pa.contract_id
		WHERE c.uuid = ? AND pa.state = ?
	`, contractUUID, state).Scan(&count).Error
	return count, err
}

func (r *PropertyAssignmentRepository) CountAssignedTo(ctx context.Context, contractUUID uuid.UUID, operarioID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(1)
		FROM property_assignments pa
		JOIN contracts c ON c.id = pa.contract_id
		WHERE c.uuid = ? AND pa.operario_id = ? AND pa.state <> 'CANCELLED'
	`, contractUUID, operarioID).Scan(&count).Error
	return count, err
}
