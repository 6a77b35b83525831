package service

import (
	"context"

	"github.com/ecasanas/contratos-service/internal/model"
)

// Operation is a contract-scoped capability checked by the Resolver.
type Operation string

const (
	OpView           Operation = "view"
	OpEdit           Operation = "edit"
	OpManageZones    Operation = "manage_zones"
	OpAssignOperario Operation = "assign_operario"
)

// Resolver answers whether an actor may perform an operation on a contract.
// Administrator is unconditional; Supervisor rights require being the
// contract's designated supervisor; Coordinator rights derive from holding a
// coordinator slot on a live zone assignment of the contract, resolved
// against the ledger on every call; Operario only ever gains view rights,
// through a live property assignment.
//
// Denials are plain false values, never errors. Callers decide how a denial
// surfaces.
type Resolver struct {
	zones      ZoneAssignmentRepository
	properties PropertyAssignmentRepository
}

func NewResolver(zones ZoneAssignmentRepository, properties PropertyAssignmentRepository) *Resolver {
	return &Resolver{zones: zones, properties: properties}
}

type predicate func(ctx context.Context, r *Resolver, actor model.Actor, contract model.Contract) (bool, error)

func allow(context.Context, *Resolver, model.Actor, model.Contract) (bool, error) {
	return true, nil
}

func supervises(_ context.Context, _ *Resolver, actor model.Actor, contract model.Contract) (bool, error) {
	return contract.SupervisedBy(actor), nil
}

func coordinates(ctx context.Context, r *Resolver, actor model.Actor, contract model.Contract) (bool, error) {
	return r.zones.IsCoordinatorOfContract(ctx, contract.UUID, actor.ID)
}

func worksProperty(ctx context.Context, r *Resolver, actor model.Actor, contract model.Contract) (bool, error) {
	return r.properties.HasLiveForOperario(ctx, contract.UUID, actor.ID)
}

// policy is the full (role × operation) grant table. An absent entry is a
// denial.
var policy = map[model.Role]map[Operation]predicate{
	model.RoleAdministrator: {
		OpView:           allow,
		OpEdit:           allow,
		OpManageZones:    allow,
		OpAssignOperario: allow,
	},
	model.RoleSupervisor: {
		OpView:           supervises,
		OpEdit:           supervises,
		OpManageZones:    supervises,
		OpAssignOperario: supervises,
	},
	model.RoleCoordinator: {
		OpView:           coordinates,
		OpEdit:           coordinates,
		OpManageZones:    coordinates,
		OpAssignOperario: coordinates,
	},
	model.RoleOperario: {
		OpView: worksProperty,
	},
}

func (r *Resolver) resolve(ctx context.Context, actor model.Actor, contract model.Contract, op Operation) (bool, error) {
	if !actor.Active {
		return false, nil
	}
	ops, ok := policy[actor.Role]
	if !ok {
		return false, nil
	}
	check, ok := ops[op]
	if !ok {
		return false, nil
	}
	return check(ctx, r, actor, contract)
}

func (r *Resolver) CanView(ctx context.Context, actor model.Actor, contract model.Contract) (bool, error) {
	return r.resolve(ctx, actor, contract, OpView)
}

func (r *Resolver) CanEdit(ctx context.Context, actor model.Actor, contract model.Contract) (bool, error) {
	return r.resolve(ctx, actor, contract, OpEdit)
}

// CanManageZones covers coordinator reassignment and state changes on
// existing zone rows. Creating or removing zone rows is stricter
// (administrator, or the contract's supervisor) and is enforced at those
// call sites; a coordinator only rebalances zones inside contracts they
// already coordinate.
func (r *Resolver) CanManageZones(ctx context.Context, actor model.Actor, contract model.Contract) (bool, error) {
	return r.resolve(ctx, actor, contract, OpManageZones)
}

func (r *Resolver) CanAssignOperario(ctx context.Context, actor model.Actor, contract model.Contract) (bool, error) {
	return r.resolve(ctx, actor, contract, OpAssignOperario)
}

// canAdministerZoneRows is the strict path for creating and removing zone
// assignment rows.
func canAdministerZoneRows(actor model.Actor, contract model.Contract) bool {
	if !actor.Active {
		return false
	}
	if actor.IsAdministrator() {
		return true
	}
	return actor.IsSupervisor() && contract.SupervisedBy(actor)
}

// canExport mirrors the original export gate: role-based, administrators
// and supervisors only.
func canExport(actor model.Actor) bool {
	return actor.Active && (actor.IsAdministrator() || actor.IsSupervisor())
}
