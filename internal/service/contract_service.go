package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecasanas/contratos-service/internal/config"
	"github.com/ecasanas/contratos-service/internal/model"
)

type ContractService struct {
	contracts  ContractRepository
	actors     ActorRepository
	zones      ZoneAssignmentRepository
	properties PropertyAssignmentRepository
	resolver   *Resolver
	guard      *ConsistencyGuard
	cfg        *config.Config
	log        zerolog.Logger
}

func NewContractService(
	contracts ContractRepository,
	actors ActorRepository,
	zones ZoneAssignmentRepository,
	properties PropertyAssignmentRepository,
	resolver *Resolver,
	guard *ConsistencyGuard,
	cfg *config.Config,
	log zerolog.Logger,
) *ContractService {
	return &ContractService{
		contracts:  contracts,
		actors:     actors,
		zones:      zones,
		properties: properties,
		resolver:   resolver,
		guard:      guard,
		cfg:        cfg,
		log:        log,
	}
}

type CreateContractInput struct {
	Code           string
	Objective      string
	StartDate      time.Time
	EndDate        time.Time
	SupervisorUUID *uuid.UUID
}

type UpdateContractInput struct {
	Objective *string
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *ContractService) Create(ctx context.Context, actor model.Actor, input CreateContractInput) (*model.Contract, error) {
	if !actor.IsAdministrator() {
		return nil, ErrPermissionDenied
	}

	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrValidation)
	}
	if strings.TrimSpace(input.Objective) == "" {
		return nil, fmt.Errorf("%w: objective is required", ErrValidation)
	}
	if err := s.validateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	contract := &model.Contract{
		Code:      code,
		Objective: strings.TrimSpace(input.Objective),
		StartDate: dateOnly(input.StartDate),
		EndDate:   dateOnly(input.EndDate),
		State:     model.ContractStateActive,
	}

	if input.SupervisorUUID != nil {
		supervisor, err := s.actors.GetByUUID(ctx, *input.SupervisorUUID)
		if err != nil {
			return nil, fmt.Errorf("%w: supervisor", ErrNotFound)
		}
		if supervisor.Role != model.RoleSupervisor {
			return nil, fmt.Errorf("%w: actor %s is not a supervisor", ErrRoleMismatch, supervisor.Username)
		}
		contract.SupervisorID = &supervisor.ID
		contract.Supervisor = supervisor
	}

	saved, err := s.contracts.Create(ctx, contract)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("code", saved.Code).Str("uuid", saved.UUID.String()).Msg("contract created")
	return saved, nil
}

func (s *ContractService) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Contract, error) {
	contract, err := s.contracts.GetByUUID(ctx, id)
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
	return contract, nil
}

// List returns the contracts the actor is allowed to see, scoped by role in
// a single query.
func (s *ContractService) List(ctx context.Context, actor model.Actor) ([]model.Contract, error) {
	return s.contracts.ListAccessible(ctx, actor)
}

func (s *ContractService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, input UpdateContractInput) (*model.Contract, error) {
	contract, err := s.contracts.GetByUUID(ctx, id)
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

	if input.Objective != nil {
		if strings.TrimSpace(*input.Objective) == "" {
			return nil, fmt.Errorf("%w: objective is required", ErrValidation)
		}
		contract.Objective = strings.TrimSpace(*input.Objective)
	}
	if input.StartDate != nil {
		contract.StartDate = dateOnly(*input.StartDate)
	}
	if input.EndDate != nil {
		contract.EndDate = dateOnly(*input.EndDate)
	}
	if contract.EndDate.Before(contract.StartDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrValidation)
	}

	if err := s.contracts.Update(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// ChangeState moves a contract along the explicit transition graph. Illegal
// transitions, including anything out of FINALIZED, are validation errors.
func (s *ContractService) ChangeState(ctx context.Context, actor model.Actor, id uuid.UUID, next model.ContractState) (*model.Contract, error) {
	contract, err := s.contracts.GetByUUID(ctx, id)
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

	if !contract.State.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot transition contract from %s to %s", ErrValidation, contract.State, next)
	}
	if err := s.contracts.UpdateState(ctx, id, next); err != nil {
		return nil, err
	}
	s.log.Info().Str("code", contract.Code).Str("from", string(contract.State)).Str("to", string(next)).Msg("contract state changed")
	contract.State = next
	return contract, nil
}

func (s *ContractService) AssignSupervisor(ctx context.Context, actor model.Actor, id uuid.UUID, supervisorUUID uuid.UUID) (*model.Contract, error) {
	if !actor.IsAdministrator() {
		return nil, ErrPermissionDenied
	}

	contract, err := s.contracts.GetByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	supervisor, err := s.actors.GetByUUID(ctx, supervisorUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: supervisor", ErrNotFound)
	}
	if supervisor.Role != model.RoleSupervisor {
		return nil, fmt.Errorf("%w: actor %s is not a supervisor", ErrRoleMismatch, supervisor.Username)
	}

	if err := s.contracts.SetSupervisor(ctx, id, supervisor.ID); err != nil {
		return nil, err
	}
	contract.SupervisorID = &supervisor.ID
	contract.Supervisor = supervisor
	return contract, nil
}

// Delete removes a contract outright. It is refused while any live zone or
// property assignment row remains.
func (s *ContractService) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if !actor.IsAdministrator() {
		return ErrPermissionDenied
	}
	if _, err := s.contracts.GetByUUID(ctx, id); err != nil {
		return err
	}

	deletable, err := s.guard.CanDeleteContract(ctx, id)
	if err != nil {
		return err
	}
	if !deletable {
		return fmt.Errorf("%w: contract has live assignments", ErrDependency)
	}
	return s.contracts.Delete(ctx, id)
}

// Stats summarizes a contract's ledgers for dashboards.
func (s *ContractService) Stats(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.ContractStats, error) {
	contract, err := s.contracts.GetByUUID(ctx, id)
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

	stats := &model.ContractStats{}
	if stats.TotalZones, err = s.zones.CountLiveByContract(ctx, id); err != nil {
		return nil, err
	}
	if stats.TotalProperties, err = s.properties.CountLiveByContract(ctx, id); err != nil {
		return nil, err
	}
	if stats.PropertiesPending, err = s.properties.CountByContractAndState(ctx, id, model.PropertyAssignmentPending); err != nil {
		return nil, err
	}
	if stats.PropertiesAssigned, err = s.properties.CountByContractAndState(ctx, id, model.PropertyAssignmentAssigned); err != nil {
		return nil, err
	}
	if stats.PropertiesCompleted, err = s.properties.CountByContractAndState(ctx, id, model.PropertyAssignmentCompleted); err != nil {
		return nil, err
	}
	if stats.TotalProperties > 0 {
		stats.PercentAssigned = float64(stats.PropertiesAssigned) * 100 / float64(stats.TotalProperties)
		stats.PercentCompleted = float64(stats.PropertiesCompleted) * 100 / float64(stats.TotalProperties)
	}
	return stats, nil
}

func (s *ContractService) validateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	start = dateOnly(start)
	end = dateOnly(end)
	if end.Before(start) {
		return fmt.Errorf("%w: end date precedes start date", ErrValidation)
	}

	today := dateOnly(time.Now())
	earliest := today.AddDate(0, 0, -s.cfg.Contracts.MaxPastStartDays)
	latest := today.AddDate(0, 0, s.cfg.Contracts.MaxFutureEndDays)
	if start.Before(earliest) {
		return fmt.Errorf("%w: start date is more than %d days in the past", ErrValidation, s.cfg.Contracts.MaxPastStartDays)
	}
	if end.After(latest) {
		return fmt.Errorf("%w: end date is more than %d days in the future", ErrValidation, s.cfg.Contracts.MaxFutureEndDays)
	}
	return nil
}

// dateOnly truncates an instant to its UTC calendar date. Inputs may arrive
// with arbitrary offsets, so the UTC conversion keeps every comparison on
// the same calendar.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
