package model

import (
	"time"

	"github.com/google/uuid"
)

type ContractState string

const (
	ContractStateActive    ContractState = "ACTIVE"
	ContractStateSuspended ContractState = "SUSPENDED"
	ContractStateFinalized ContractState = "FINALIZED"
)

func ParseContractState(raw string) (ContractState, bool) {
	switch ContractState(raw) {
	case ContractStateActive, ContractStateSuspended, ContractStateFinalized:
		return ContractState(raw), true
	default:
		return "", false
	}
}

// contractTransitions is the allowed state graph. A suspended contract must
// be reactivated before it can be finalized; FINALIZED is terminal.
var contractTransitions = map[ContractState][]ContractState{
	ContractStateActive:    {ContractStateSuspended, ContractStateFinalized},
	ContractStateSuspended: {ContractStateActive},
	ContractStateFinalized: {},
}

func (s ContractState) CanTransitionTo(next ContractState) bool {
	for _, allowed := range contractTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Contract struct {
	ID        int64
	UUID      uuid.UUID
	Code      string
	Objective string
	StartDate time.Time
	EndDate   time.Time
	State     ContractState

	SupervisorID *int64
	Supervisor   *Actor

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Contract) IsActive() bool { return c.State == ContractStateActive }

func (c Contract) HasSupervisor() bool { return c.SupervisorID != nil }

func (c Contract) SupervisedBy(actor Actor) bool {
	return c.SupervisorID != nil && *c.SupervisorID == actor.ID
}

// ContractStats summarizes the property ledger of one contract.
type ContractStats struct {
	TotalZones          int64
	TotalProperties     int64
	PropertiesPending   int64
	PropertiesAssigned  int64
	PropertiesCompleted int64
	PercentAssigned     float64
	PercentCompleted    float64
}
