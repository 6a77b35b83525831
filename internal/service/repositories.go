package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ecasanas/contratos-service/internal/model"
)

// Storage interfaces consumed by the services. The gorm implementations
// live in internal/repository; implementations return the sentinel errors
// from this package (ErrNotFound, ErrConflict) so the services stay
// storage-agnostic.

type ActorRepository interface {
	GetByUUID(ctx context.Context, id uuid.UUID) (*model.Actor, error)
	ListActiveByRole(ctx context.Context, role model.Role) ([]model.Actor, error)
}

type ContractRepository interface {
	Create(ctx context.Context, contract *model.Contract) (*model.Contract, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	GetByCode(ctx context.Context, code string) (*model.Contract, error)
	Update(ctx context.Context, contract *model.Contract) error
	UpdateState(ctx context.Context, id uuid.UUID, state model.ContractState) error
	SetSupervisor(ctx context.Context, id uuid.UUID, supervisorID int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListAccessible returns the contracts the actor may view, resolved in
	// one query: all for administrators, supervised for supervisors,
	// coordinated (via live zone rows) for coordinators, worked (via live
	// property rows) for operarios.
	ListAccessible(ctx context.Context, actor model.Actor) ([]model.Contract, error)
}

type ZoneAssignmentRepository interface {
	Create(ctx context.Context, row *model.ZoneAssignment) (*model.ZoneAssignment, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (*model.ZoneAssignment, error)
	Update(ctx context.Context, row *model.ZoneAssignment) error
	UpdateState(ctx context.Context, id uuid.UUID, state model.ZoneAssignmentState) error
	ListByContract(ctx context.Context, contractUUID uuid.UUID) ([]model.ZoneAssignment, error)
	ListByCoordinator(ctx context.Context, actorID int64) ([]model.ZoneAssignment, error)
	ListUnassignedCoordinator(ctx context.Context, contractUUID uuid.UUID) ([]model.ZoneAssignment, error)
	IsCoordinatorOfContract(ctx context.Context, contractUUID uuid.UUID, actorID int64) (bool, error)
	CountLiveByContract(ctx context.Context, contractUUID uuid.UUID) (int64, error)
	CountLiveByZoneInActiveContracts(ctx context.Context, zoneUUID uuid.UUID) (int64, error)
	CountLiveByPlanInActiveContracts(ctx context.Context, planUUID uuid.UUID) (int64, error)
}

type PropertyAssignmentRepository interface {
	Create(ctx context.Context, row *model.PropertyAssignment) (*model.PropertyAssignment, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (*model.PropertyAssignment, error)
	GetByContractAndProperty(ctx context.Context, contractUUID, propertyUUID uuid.UUID) (*model.PropertyAssignment, error)
	// SetOperario updates the operario slot and state together, inside one
	// transaction. Passing nil clears the slot.
	SetOperario(ctx context.Context, id uuid.UUID, operario *model.Actor, state model.PropertyAssignmentState) error
	UpdateState(ctx context.Context, id uuid.UUID, state model.PropertyAssignmentState) error
	ListByContract(ctx context.Context, contractUUID uuid.UUID) ([]model.PropertyAssignment, error)
	HasLiveForOperario(ctx context.Context, contractUUID uuid.UUID, actorID int64) (bool, error)
	CountLiveByContract(ctx context.Context, contractUUID uuid.UUID) (int64, error)
	CountByContractAndState(ctx context.Context, contractUUID uuid.UUID, state model.PropertyAssignmentState) (int64, error)
	CountAssignedTo(ctx context.Context, contractUUID uuid.UUID, operarioID int64) (int64, error)
}

type ActivityRepository interface {
	CountByAssignment(ctx context.Context, assignmentUUID uuid.UUID) (int64, error)
}

type CatalogRepository interface {
	GetZoneByUUID(ctx context.Context, id uuid.UUID) (*model.Zone, error)
	GetPlanByUUID(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	GetPropertyByUUID(ctx context.Context, id uuid.UUID) (*model.Property, error)
}
