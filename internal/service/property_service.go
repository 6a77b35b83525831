package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecasanas/contratos-service/internal/model"
)

type PropertyService struct {
	contracts  ContractRepository
	properties PropertyAssignmentRepository
	activities ActivityRepository
	catalog    CatalogRepository
	actors     ActorRepository
	resolver   *Resolver
	log        zerolog.Logger
}

func NewPropertyService(
	contracts ContractRepository,
	properties PropertyAssignmentRepository,
	activities ActivityRepository,
	catalog CatalogRepository,
	actors ActorRepository,
	resolver *Resolver,
	log zerolog.Logger,
) *PropertyService {
	return &PropertyService{
		contracts:  contracts,
		properties: properties,
		activities: activities,
		catalog:    catalog,
		actors:     actors,
		resolver:   resolver,
		log:        log,
	}
}

// AddProperty enters a property into the contract's ledger in PENDING
// state. The partial unique index guarantees one live row per
// (contract, property) pair under concurrent writers.
func (s *PropertyService) AddProperty(ctx context.Context, actor model.Actor, contractUUID, propertyUUID uuid.UUID) (*model.PropertyAssignment, error) {
	contract, err := s.contracts.GetByUUID(ctx, contractUUID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.resolver.CanEdit(ctx, actor, *contract)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	property, err := s.catalog.GetPropertyByUUID(ctx, propertyUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: property", ErrNotFound)
	}
	if !property.Active {
		return nil, fmt.Errorf("%w: property %s is inactive", ErrValidation, property.Code)
	}

	row := &model.PropertyAssignment{
		ContractID:      contract.ID,
		ContractUUID:    contract.UUID,
		ContractCode:    contract.Code,
		PropertyID:      property.ID,
		PropertyUUID:    property.UUID,
		PropertyCode:    property.Code,
		PropertyAddress: property.Address,
		State:           model.PropertyAssignmentPending,
	}
	saved, err := s.properties.Create(ctx, row)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("contract", contract.Code).Str("property", property.Code).Msg("property added to contract")
	return saved, nil
}

// AssignOperario puts a field worker on the row and moves it to ASSIGNED.
func (s *PropertyService) AssignOperario(ctx context.Context, actor model.Actor, rowUUID, operarioUUID uuid.UUID) (*model.PropertyAssignment, error) {
	row, err := s.properties.GetByUUID(ctx, rowUUID)
	if err != nil {
		return nil, err
	}
	contract, err := s.contracts.GetByUUID(ctx, row.ContractUUID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.resolver.CanAssignOperario(ctx, actor, *contract)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	if !row.Live() {
		return nil, fmt.Errorf("%w: property assignment is cancelled", ErrValidation)
	}
	if row.State == model.PropertyAssignmentCompleted {
		return nil, fmt.Errorf("%w: property assignment is completed", ErrValidation)
	}

	operario, err := s.actors.GetByUUID(ctx, operarioUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: operario", ErrNotFound)
	}
	if operario.Role != model.RoleOperario {
		return nil, fmt.Errorf("%w: actor %s is not an operario", ErrRoleMismatch, operario.Username)
	}

	if err := s.properties.SetOperario(ctx, rowUUID, operario, model.PropertyAssignmentAssigned); err != nil {
		return nil, err
	}
	row.OperarioID = &operario.ID
	row.OperarioUUID = &operario.UUID
	row.OperarioName = operario.FullName()
	row.State = model.PropertyAssignmentAssigned
	return row, nil
}

// UnassignOperario clears the worker slot and returns the row to PENDING.
func (s *PropertyService) UnassignOperario(ctx context.Context, actor model.Actor, rowUUID uuid.UUID) (*model.PropertyAssignment, error) {
	row, err := s.properties.GetByUUID(ctx, rowUUID)
	if err != nil {
		return nil, err
	}
	contract, err := s.contracts.GetByUUID(ctx, row.ContractUUID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.resolver.CanAssignOperario(ctx, actor, *contract)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}
	if !row.HasOperario() {
		return nil, fmt.Errorf("%w: no operario assigned", ErrValidation)
	}
	if row.State != model.PropertyAssignmentAssigned {
		return nil, fmt.Errorf("%w: property assignment is %s", ErrValidation, row.State)
	}

	if err := s.properties.SetOperario(ctx, rowUUID, nil, model.PropertyAssignmentPending); err != nil {
		return nil, err
	}
	row.OperarioID = nil
	row.OperarioUUID = nil
	row.OperarioName = ""
	row.State = model.PropertyAssignmentPending
	return row, nil
}

// RemoveProperty cancels the row. Removal is blocked while any recorded
// activity references it.
func (s *PropertyService) RemoveProperty(ctx context.Context, actor model.Actor, rowUUID uuid.UUID) error {
	row, err := s.properties.GetByUUID(ctx, rowUUID)
	if err != nil {
		return err
	}
	contract, err := s.contracts.GetByUUID(ctx, row.ContractUUID)
	if err != nil {
		return err
	}
	allowed, err := s.resolver.CanEdit(ctx, actor, *contract)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrPermissionDenied
	}
	if !row.Live() {
		return fmt.Errorf("%w: property assignment is already cancelled", ErrValidation)
	}

	activityCount, err := s.activities.CountByAssignment(ctx, rowUUID)
	if err != nil {
		return err
	}
	if activityCount > 0 {
		return fmt.Errorf("%w: %d activities recorded against this property", ErrDependency, activityCount)
	}

	if err := s.properties.UpdateState(ctx, rowUUID, model.PropertyAssignmentCancelled); err != nil {
		return err
	}
	s.log.Info().Str("contract", contract.Code).Str("property", row.PropertyCode).Msg("property removed from contract")
	return nil
}

func (s *PropertyService) ListByContract(ctx context.Context, actor model.Actor, contractUUID uuid.UUID) ([]model.PropertyAssignment, error) {
	contract, err := s.contracts.GetByUUID(ctx, contractUUID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.resolver.CanView(ctx, actor, *contract)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}
	return s.properties.ListByContract(ctx, contractUUID)
}

type BulkAssignment struct {
	PropertyUUID uuid.UUID
	OperarioUUID uuid.UUID
}

type BulkAssignmentError struct {
	PropertyUUID uuid.UUID
	OperarioUUID uuid.UUID
	Reason       string
}

type BulkAssignmentResult struct {
	Assigned int
	Errors   []BulkAssignmentError
}

// AssignBulk applies each (property, operario) pair independently and keeps
// going past individual failures. The batch is deliberately not atomic; a
// caller wanting all-or-nothing must provide its own outer transaction.
func (s *PropertyService) AssignBulk(ctx context.Context, actor model.Actor, contractUUID uuid.UUID, pairs []BulkAssignment) (*BulkAssignmentResult, error) {
	contract, err := s.contracts.GetByUUID(ctx, contractUUID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.resolver.CanAssignOperario(ctx, actor, *contract)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	result := &BulkAssignmentResult{}
	for _, pair := range pairs {
		if err := s.assignPair(ctx, actor, contractUUID, pair); err != nil {
			s.log.Warn().
				Str("property", pair.PropertyUUID.String()).
				Str("operario", pair.OperarioUUID.String()).
				Err(err).
				Msg("bulk assignment pair failed")
			result.Errors = append(result.Errors, BulkAssignmentError{
				PropertyUUID: pair.PropertyUUID,
				OperarioUUID: pair.OperarioUUID,
				Reason:       err.Error(),
			})
			continue
		}
		result.Assigned++
	}
	return result, nil
}

func (s *PropertyService) assignPair(ctx context.Context, actor model.Actor, contractUUID uuid.UUID, pair BulkAssignment) error {
	row, err := s.properties.GetByContractAndProperty(ctx, contractUUID, pair.PropertyUUID)
	if err != nil {
		return fmt.Errorf("%w: property assignment", ErrNotFound)
	}
	_, err = s.AssignOperario(ctx, actor, row.UUID, pair.OperarioUUID)
	return err
}

// CountAssignedTo reports how many live rows of the contract the operario
// currently works.
func (s *PropertyService) CountAssignedTo(ctx context.Context, actor model.Actor, contractUUID, operarioUUID uuid.UUID) (int64, error) {
	contract, err := s.contracts.GetByUUID(ctx, contractUUID)
	if err != nil {
		return 0, err
	}
	allowed, err := s.resolver.CanView(ctx, actor, *contract)
	if err != nil {
		return 0, err
	}
	if !allowed {
		return 0, ErrPermissionDenied
	}

	operario, err := s.actors.GetByUUID(ctx, operarioUUID)
	if err != nil {
		return 0, fmt.Errorf("%w: operario", ErrNotFound)
	}
	return s.properties.CountAssignedTo(ctx, contractUUID, operario.ID)
}

// AvailableOperarios lists active operarios not yet assigned to every
// property of the contract.
func (s *PropertyService) AvailableOperarios(ctx context.Context, actor model.Actor, contractUUID uuid.UUID) ([]model.Actor, error) {
	contract, err := s.contracts.GetByUUID(ctx, contractUUID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.resolver.CanAssignOperario(ctx, actor, *contract)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	total, err := s.properties.CountLiveByContract(ctx, contractUUID)
	if err != nil {
		return nil, err
	}
	operarios, err := s.actors.ListActiveByRole(ctx, model.RoleOperario)
	if err != nil {
		return nil, err
	}

	available := make([]model.Actor, 0, len(operarios))
	for _, operario := range operarios {
		assigned, err := s.properties.CountAssignedTo(ctx, contractUUID, operario.ID)
		if err != nil {
			return nil, err
		}
		if assigned < total {
			available = append(available, operario)
		}
	}
	return available, nil
}
