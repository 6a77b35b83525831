package model

import (
	"time"

	"github.com/google/uuid"
)

type PropertyAssignmentState string

const (
	PropertyAssignmentPending   PropertyAssignmentState = "PENDING"
	PropertyAssignmentAssigned  PropertyAssignmentState = "ASSIGNED"
	PropertyAssignmentCompleted PropertyAssignmentState = "COMPLETED"
	PropertyAssignmentCancelled PropertyAssignmentState = "CANCELLED"
)

func ParsePropertyAssignmentState(raw string) (PropertyAssignmentState, bool) {
	switch PropertyAssignmentState(raw) {
	case PropertyAssignmentPending, PropertyAssignmentAssigned,
		PropertyAssignmentCompleted, PropertyAssignmentCancelled:
		return PropertyAssignmentState(raw), true
	default:
		return "", false
	}
}

// PropertyAssignment records one property's participation in one contract
// and the operario currently working it. A row starts PENDING, moves to
// ASSIGNED when an operario is set and back when unset. Removal is the
// CANCELLED state, permitted only while no activity references the row.
type PropertyAssignment struct {
	ID   int64
	UUID uuid.UUID

	ContractID   int64
	ContractUUID uuid.UUID
	ContractCode string

	PropertyID      int64
	PropertyUUID    uuid.UUID
	PropertyCode    string
	PropertyAddress string

	OperarioID   *int64
	OperarioUUID *uuid.UUID
	OperarioName string

	State     PropertyAssignmentState
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p PropertyAssignment) Live() bool {
	return p.State != PropertyAssignmentCancelled
}

func (p PropertyAssignment) HasOperario() bool {
	return p.OperarioID != nil
}

func (p PropertyAssignment) AssignedTo(actor Actor) bool {
	return p.OperarioID != nil && *p.OperarioID == actor.ID
}

// Activity is recorded field work against a property assignment. It is
// managed outside this service; here it only blocks removal of the row it
// references.
type Activity struct {
	ID                     int64
	UUID                   uuid.UUID
	PropertyAssignmentID   int64
	PropertyAssignmentUUID uuid.UUID
	Description            string
	RecordedAt             time.Time
}
