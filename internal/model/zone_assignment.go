package model

import (
	"time"

	"github.com/google/uuid"
)

type ZoneAssignmentState string

const (
	ZoneAssignmentActive    ZoneAssignmentState = "ACTIVE"
	ZoneAssignmentSuspended ZoneAssignmentState = "SUSPENDED"
	ZoneAssignmentCompleted ZoneAssignmentState = "COMPLETED"
	ZoneAssignmentCancelled ZoneAssignmentState = "CANCELLED"
)

func ParseZoneAssignmentState(raw string) (ZoneAssignmentState, bool) {
	switch ZoneAssignmentState(raw) {
	case ZoneAssignmentActive, ZoneAssignmentSuspended, ZoneAssignmentCompleted, ZoneAssignmentCancelled:
		return ZoneAssignmentState(raw), true
	default:
		return "", false
	}
}

// zoneAssignmentTransitions is the allowed state graph for ledger rows.
// COMPLETED and CANCELLED are terminal; a completed row keeps holding the
// (contract, zone) uniqueness slot as the pair's closing record.
var zoneAssignmentTransitions = map[ZoneAssignmentState][]ZoneAssignmentState{
	ZoneAssignmentActive:    {ZoneAssignmentSuspended, ZoneAssignmentCompleted, ZoneAssignmentCancelled},
	ZoneAssignmentSuspended: {ZoneAssignmentActive, ZoneAssignmentCompleted, ZoneAssignmentCancelled},
	ZoneAssignmentCompleted: {},
	ZoneAssignmentCancelled: {},
}

func (s ZoneAssignmentState) CanTransitionTo(next ZoneAssignmentState) bool {
	for _, allowed := range zoneAssignmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ZoneAssignment records one zone's participation in one contract, with its
// own pricing plan and up to two coordinators. Removal is modeled as the
// CANCELLED state; cancelled rows stay in the ledger as history and a new
// row for the same (contract, zone) pair may then be created.
type ZoneAssignment struct {
	ID   int64
	UUID uuid.UUID

	ContractID   int64
	ContractUUID uuid.UUID
	ContractCode string

	ZoneID   int64
	ZoneUUID uuid.UUID
	ZoneCode string
	ZoneName string

	PlanID   int64
	PlanUUID uuid.UUID
	PlanName string

	ZoneCoordinatorID          *int64
	ZoneCoordinatorUUID        *uuid.UUID
	ZoneCoordinatorName        string
	OperationalCoordinatorID   *int64
	OperationalCoordinatorUUID *uuid.UUID
	OperationalCoordinatorName string

	State     ZoneAssignmentState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Live reports whether the row still counts toward uniqueness and
// authorization. Everything short of CANCELLED does.
func (z ZoneAssignment) Live() bool {
	return z.State != ZoneAssignmentCancelled
}

func (z ZoneAssignment) HasZoneCoordinator() bool {
	return z.ZoneCoordinatorID != nil
}

func (z ZoneAssignment) HasOperationalCoordinator() bool {
	return z.OperationalCoordinatorID != nil
}

// CoordinatedBy reports whether the actor holds either coordinator slot.
func (z ZoneAssignment) CoordinatedBy(actor Actor) bool {
	if z.ZoneCoordinatorID != nil && *z.ZoneCoordinatorID == actor.ID {
		return true
	}
	return z.OperationalCoordinatorID != nil && *z.OperationalCoordinatorID == actor.ID
}
