package service

import (
	"context"

	"github.com/google/uuid"
)

// ConsistencyGuard holds the read-only predicates consulted before
// destructive operations. Callers must still perform the mutation under the
// store's constraints; these checks are advisory reads, not locks.
type ConsistencyGuard struct {
	zones      ZoneAssignmentRepository
	properties PropertyAssignmentRepository
}

func NewConsistencyGuard(zones ZoneAssignmentRepository, properties PropertyAssignmentRepository) *ConsistencyGuard {
	return &ConsistencyGuard{zones: zones, properties: properties}
}

// CanDeleteContract is true only while the contract owns no live assignment
// row in either ledger. Cancelled rows do not block deletion.
func (g *ConsistencyGuard) CanDeleteContract(ctx context.Context, contractUUID uuid.UUID) (bool, error) {
	zoneCount, err := g.zones.CountLiveByContract(ctx, contractUUID)
	if err != nil {
		return false, err
	}
	if zoneCount > 0 {
		return false, nil
	}
	propertyCount, err := g.properties.CountLiveByContract(ctx, contractUUID)
	if err != nil {
		return false, err
	}
	return propertyCount == 0, nil
}

// CanDeactivateZone is false while any live zone assignment referencing the
// zone belongs to a contract in ACTIVE state.
func (g *ConsistencyGuard) CanDeactivateZone(ctx context.Context, zoneUUID uuid.UUID) (bool, error) {
	count, err := g.zones.CountLiveByZoneInActiveContracts(ctx, zoneUUID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// CanDeactivatePlan is the plan analogue of CanDeactivateZone.
func (g *ConsistencyGuard) CanDeactivatePlan(ctx context.Context, planUUID uuid.UUID) (bool, error) {
	count, err := g.zones.CountLiveByPlanInActiveContracts(ctx, planUUID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
