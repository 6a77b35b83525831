package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleSupervisor    Role = "SUPERVISOR"
	RoleCoordinator   Role = "COORDINATOR"
	RoleOperario      Role = "OPERARIO"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdministrator, RoleSupervisor, RoleCoordinator, RoleOperario:
		return Role(raw), true
	default:
		return "", false
	}
}

// Actor is a system user. The role is assigned at creation and does not
// change within this service.
type Actor struct {
	ID        int64
	UUID      uuid.UUID
	Username  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Actor) FullName() string {
	return a.FirstName + " " + a.LastName
}

func (a Actor) IsAdministrator() bool { return a.Role == RoleAdministrator }
func (a Actor) IsSupervisor() bool    { return a.Role == RoleSupervisor }
func (a Actor) IsCoordinator() bool   { return a.Role == RoleCoordinator }
func (a Actor) IsOperario() bool      { return a.Role == RoleOperario }
