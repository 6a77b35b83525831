package model

// AssignmentReport is the exportable snapshot of one contract's ledgers.
type AssignmentReport struct {
	Contract   Contract
	Zones      []ZoneAssignment
	Properties []PropertyAssignment
	Stats      ContractStats
}
