package model

import "github.com/google/uuid"

// Zone is a geographic grouping with a lifecycle independent from any
// contract; contracts reference zones through zone assignment rows.
type Zone struct {
	ID     int64
	UUID   uuid.UUID
	Code   string
	Name   string
	Active bool
}

// Plan is a pricing-plan catalog entry. Rates themselves are managed
// elsewhere; this service only references plans from zone assignments.
type Plan struct {
	ID     int64
	UUID   uuid.UUID
	Code   string
	Name   string
	Active bool
}

type PropertyType string

const (
	PropertyTypeUrban PropertyType = "URBAN"
	PropertyTypeRural PropertyType = "RURAL"
)

// Property (predio) is a serviced location.
type Property struct {
	ID      int64
	UUID    uuid.UUID
	Code    string
	Address string
	Type    PropertyType
	Active  bool
}
