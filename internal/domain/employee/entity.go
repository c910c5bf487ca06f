package employee

import "time"

// Role mirrors the waiter types used throughout settlement.
type Role string

const (
	RoleInside  Role = "INSIDE"
	RoleField   Role = "FIELD"
	RoleKitchen Role = "KITCHEN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleInside, RoleField, RoleKitchen:
		return true
	}
	return false
}

// Employee is the directory collaborator's view of a staff member: who they
// are, whether they are active, and which commission plan (if any) was
// explicitly assigned to them.
type Employee struct {
	ID               string
	FullName         string
	Role             Role
	CommissionPlanID *string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
