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

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

const selectContract = `
	SELECT
		c.id,
		c.uuid,
		c.code,
		c.objective,
		c.start_date,
		c.end_date,
		c.state,
		c.supervisor_id,
		c.created_at,
		c.updated_at,
		s.uuid AS supervisor_uuid,
		COALESCE(s.username, '') AS supervisor_username,
		COALESCE(s.first_name, '') AS supervisor_first_name,
		COALESCE(s.last_name, '') AS supervisor_last_name
	FROM contracts c
	LEFT JOIN actors s ON s.id = c.supervisor_id
`

type contractRow struct {
	ID                  int64
	UUID                uuid.UUID
	Code                string
	Objective           string
	StartDate           time.Time
	EndDate             time.Time
	State               string
	SupervisorID        *int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
	SupervisorUUID      *uuid.UUID
	SupervisorUsername  string
	SupervisorFirstName string
	SupervisorLastName  string
}

func (row contractRow) toModel() model.Contract {
	contract := model.Contract{
		ID:           row.ID,
		UUID:         row.UUID,
		Code:         row.Code,
		Objective:    row.Objective,
		StartDate:    row.StartDate,
		EndDate:      row.EndDate,
		State:        model.ContractState(row.State),
		SupervisorID: row.SupervisorID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.SupervisorID != nil && row.SupervisorUUID != nil {
		contract.Supervisor = &model.Actor{
			ID:        *row.SupervisorID,
			UUID:      *row.SupervisorUUID,
			Username:  row.SupervisorUsername,
			FirstName: row.SupervisorFirstName,
			LastName:  row.SupervisorLastName,
			Role:      model.RoleSupervisor,
		}
	}
	return contract
}

func (r *ContractRepository) Create(ctx context.Context, contract *model.Contract) (*model.Contract, error) {
	var supervisorID interface{}
	if contract.SupervisorID != nil {
		supervisorID = *contract.SupervisorID
	}

	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO contracts (code, objective, start_date, end_date, state, supervisor_id)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, uuid, created_at, updated_at
	`, contract.Code, contract.Objective, contract.StartDate, contract.EndDate,
		contract.State, supervisorID,
	).Scan(contract).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: contract code %s", service.ErrConflict, contract.Code)
		}
		return nil, err
	}
	return contract, nil
}

func (r *ContractRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	return r.getOne(ctx, selectContract+` WHERE c.uuid = ? LIMIT 1`, id)
}

func (r *ContractRepository) GetByCode(ctx context.Context, code string) (*model.Contract, error) {
	return r.getOne(ctx, selectContract+` WHERE c.code = ? LIMIT 1`, code)
}

func (r *ContractRepository) getOne(ctx context.Context, query string, args ...interface{}) (*model.Contract, error) {
	var row contractRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, service.ErrNotFound
	}
	contract := row.toModel()
	return &contract, nil
}

func (r *ContractRepository) Update(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE contracts
		SET objective = ?, start_date = ?, end_date = ?, updated_at = NOW()
		WHERE uuid = ?
	`, contract.Objective, contract.StartDate, contract.EndDate, contract.UUID).Error
}

func (r *ContractRepository) UpdateState(ctx context.Context, id uuid.UUID, state model.ContractState) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE contracts
		SET state = ?, updated_at = NOW()
		WHERE uuid = ?
	`, state, id).Error
}

func (r *ContractRepository) SetSupervisor(ctx context.Context, id uuid.UUID, supervisorID int64) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE contracts
		SET supervisor_id = ?, updated_at = NOW()
		WHERE uuid = ?
	`, supervisorID, id).Error
}

func (r *ContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM contracts WHERE uuid = ?
	`, id).Error
}

// ListAccessible resolves role-based visibility in one query: everything
// for administrators, supervised contracts for supervisors, contracts with
// a live coordinated zone row for coordinators, contracts with a live
// worked property row for operarios.
func (r *ContractRepository) ListAccessible(ctx context.Context, actor model.Actor) ([]model.Contract, error) {
	query := selectContract + `
	WHERE
		(? = 'ADMINISTRATOR')
		OR (? = 'SUPERVISOR' AND c.supervisor_id = ?)
		OR (? = 'COORDINATOR' AND EXISTS (
			SELECT 1 FROM zone_assignments za
			WHERE za.contract_id = c.id
				AND za.state <> 'CANCELLED'
				AND (za.zone_coordinator_id = ? OR za.operational_coordinator_id = ?)
		))
		OR (? = 'OPERARIO' AND EXISTS (
			SELECT 1 FROM property_assignments pa
			WHERE pa.contract_id = c.id
				AND pa.state <> 'CANCELLED'
				AND pa.operario_id = ?
		))
	ORDER BY c.start_date DESC
	`
	role := string(actor.Role)

	var rows []contractRow
	err := r.db.WithContext(ctx).Raw(query,
		role,
		role, actor.ID,
		role, actor.ID, actor.ID,
		role, actor.ID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	contracts := make([]model.Contract, 0, len(rows))
	for _, row := range rows {
		contracts = append(contracts, row.toModel())
	}
	return contracts, nil
}
