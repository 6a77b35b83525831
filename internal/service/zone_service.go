package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecasanas/contratos-service/internal/model"
)

type ZoneService struct {
	contracts ContractRepository
	zones     ZoneAssignmentRepository
	catalog   CatalogRepository
	actors    ActorRepository
	resolver  *Resolver
	log       zerolog.Logger
}

func NewZoneService(
	contracts ContractRepository,
	zones ZoneAssignmentRepository,
	catalog CatalogRepository,
	actors ActorRepository,
	resolver *Resolver,
	log zerolog.Logger,
) *ZoneService {
	return &ZoneService{
		contracts: contracts,
		zones:     zones,
		catalog:   catalog,
		actors:    actors,
		resolver:  resolver,
		log:       log,
	}
}

// AddZone creates a zone assignment row for the contract. Creation is
// restricted to administrators and the contract's supervisor; a coordinator
// cannot open new zones, only rebalance the ones they already have. At most
// one live row may exist per (contract, zone) pair; the ledger's partial
// unique index backs that up, so a concurrent duplicate surfaces as
// ErrConflict rather than a second live row.
func (s *ZoneService) AddZone(ctx context.Context, actor model.Actor, contractUUID, zoneUUID, planUUID uuid.UUID) (*model.ZoneAssignment, error) {
	contract, err := s.contracts.GetByUUID(ctx, contractUUID)
	if err != nil {
		return nil, err
	}
	if !canAdministerZoneRows(actor, *contract) {
		return nil, ErrPermissionDenied
	}

	zone, err := s.catalog.GetZoneByUUID(ctx, zoneUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: zone", ErrNotFound)
	}
	if !zone.Active {
		return nil, fmt.Errorf("%w: zone %s is inactive", ErrValidation, zone.Code)
	}
	plan, err := s.catalog.GetPlanByUUID(ctx, planUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: plan", ErrNotFound)
	}
	if !plan.Active {
		return nil, fmt.Errorf("%w: plan %s is inactive", ErrValidation, plan.Code)
	}

	row := &model.ZoneAssignment{
		ContractID:   contract.ID,
		ContractUUID: contract.UUID,
		ContractCode: contract.Code,
		ZoneID:       zone.ID,
		ZoneUUID:     zone.UUID,
		ZoneCode:     zone.Code,
		ZoneName:     zone.Name,
		PlanID:       plan.ID,
		PlanUUID:     plan.UUID,
		PlanName:     plan.Name,
		State:        model.ZoneAssignmentActive,
	}
	saved, err := s.zones.Create(ctx, row)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("contract", contract.Code).Str("zone", zone.Code).Msg("zone added to contract")
	return saved, nil
}

type UpdateZoneInput struct {
	PlanUUID                   *uuid.UUID
	ZoneCoordinatorUUID        *uuid.UUID
	OperationalCoordinatorUUID *uuid.UUID
	State                      *model.ZoneAssignmentState
}

// UpdateZone changes the plan, the coordinator slots, or the row state.
// Open to anyone holding manage rights on the contract, which includes a
// coordinator of that contract. Passing the nil UUID in a coordinator field
// clears the slot. Cancellation goes through RemoveZone, not here, and a
// completed row is closed to further edits.
func (s *ZoneService) UpdateZone(ctx context.Context, actor model.Actor, rowUUID uuid.UUID, input UpdateZoneInput) (*model.ZoneAssignment, error) {
	row, err := s.zones.GetByUUID(ctx, rowUUID)
	if err != nil {
		return nil, err
	}
	contract, err := s.contracts.GetByUUID(ctx, row.ContractUUID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.resolver.CanManageZones(ctx, actor, *contract)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}
	if !row.Live() {
		return nil, fmt.Errorf("%w: zone assignment is cancelled", ErrValidation)
	}
	if row.State == model.ZoneAssignmentCompleted {
		return nil, fmt.Errorf("%w: zone assignment is completed", ErrValidation)
	}

	if input.PlanUUID != nil {
		plan, err := s.catalog.GetPlanByUUID(ctx, *input.PlanUUID)
		if err != nil {
			return nil, fmt.Errorf("%w: plan", ErrNotFound)
		}
		row.PlanID = plan.ID
		row.PlanUUID = plan.UUID
		row.PlanName = plan.Name
	}
	if input.ZoneCoordinatorUUID != nil {
		if err := s.setCoordinator(ctx, row, *input.ZoneCoordinatorUUID, true); err != nil {
			return nil, err
		}
	}
	if input.OperationalCoordinatorUUID != nil {
		if err := s.setCoordinator(ctx, row, *input.OperationalCoordinatorUUID, false); err != nil {
			return nil, err
		}
	}
	if input.State != nil && *input.State != row.State {
		if *input.State == model.ZoneAssignmentCancelled {
			return nil, fmt.Errorf("%w: use zone removal to cancel an assignment", ErrValidation)
		}
		if !row.State.CanTransitionTo(*input.State) {
			return nil, fmt.Errorf("%w: zone assignment cannot move from %s to %s",
				ErrValidation, row.State, *input.State)
		}
		row.State = *input.State
	}

	if err := s.zones.Update(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *ZoneService) setCoordinator(ctx context.Context, row *model.ZoneAssignment, coordinatorUUID uuid.UUID, zoneSlot bool) error {
	if coordinatorUUID == uuid.Nil {
		if zoneSlot {
			row.ZoneCoordinatorID = nil
			row.ZoneCoordinatorUUID = nil
			row.ZoneCoordinatorName = ""
		} else {
			row.OperationalCoordinatorID = nil
			row.OperationalCoordinatorUUID = nil
			row.OperationalCoordinatorName = ""
		}
		return nil
	}

	coordinator, err := s.actors.GetByUUID(ctx, coordinatorUUID)
	if err != nil {
		return fmt.Errorf("%w: coordinator", ErrNotFound)
	}
	if coordinator.Role != model.RoleCoordinator {
		return fmt.Errorf("%w: actor %s is not a coordinator", ErrRoleMismatch, coordinator.Username)
	}
	if zoneSlot {
		row.ZoneCoordinatorID = &coordinator.ID
		row.ZoneCoordinatorUUID = &coordinator.UUID
		row.ZoneCoordinatorName = coordinator.FullName()
	} else {
		row.OperationalCoordinatorID = &coordinator.ID
		row.OperationalCoordinatorUUID = &coordinator.UUID
		row.OperationalCoordinatorName = coordinator.FullName()
	}
	return nil
}

// RemoveZone cancels the assignment row. The row stays in the ledger as
// history; a new row for the same (contract, zone) pair may be created
// afterwards.
func (s *ZoneService) RemoveZone(ctx context.Context, actor model.Actor, rowUUID uuid.UUID) error {
	row, err := s.zones.GetByUUID(ctx, rowUUID)
	if err != nil {
		return err
	}
	contract, err := s.contracts.GetByUUID(ctx, row.ContractUUID)
	if err != nil {
		return err
	}
	if !canAdministerZoneRows(actor, *contract) {
		return ErrPermissionDenied
	}
	if !row.State.CanTransitionTo(model.ZoneAssignmentCancelled) {
		return fmt.Errorf("%w: cannot cancel a %s zone assignment", ErrValidation, row.State)
	}

	if err := s.zones.UpdateState(ctx, rowUUID, model.ZoneAssignmentCancelled); err != nil {
		return err
	}
	s.log.Info().Str("contract", contract.Code).Str("zone", row.ZoneCode).Msg("zone removed from contract")
	return nil
}

func (s *ZoneService) ListByContract(ctx context.Context, actor model.Actor, contractUUID uuid.UUID) ([]model.ZoneAssignment, error) {
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
	return s.zones.ListByContract(ctx, contractUUID)
}

// ListByCoordinator returns every live row where the actor holds either
// coordinator slot. This query is what derives "coordinator of contract"
// everywhere else.
func (s *ZoneService) ListByCoordinator(ctx context.Context, actor model.Actor) ([]model.ZoneAssignment, error) {
	return s.zones.ListByCoordinator(ctx, actor.ID)
}

// ListUnassignedCoordinator returns the contract's live rows still missing
// at least one coordinator slot.
func (s *ZoneService) ListUnassignedCoordinator(ctx context.Context, actor model.Actor, contractUUID uuid.UUID) ([]model.ZoneAssignment, error) {
	contract, err := s.contracts.GetByUUID(ctx, contractUUID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.resolver.CanManageZones(ctx, actor, *contract)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}
	return s.zones.ListUnassignedCoordinator(ctx, contractUUID)
}
