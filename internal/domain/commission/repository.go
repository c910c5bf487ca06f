package commission

import "context"

// PlanRepository is the boundary to the commission plan directory.
type PlanRepository interface {
	Create(ctx context.Context, plan Plan) (Plan, error)
	GetByID(ctx context.Context, id string) (Plan, error)
	GetDefaultByRole(ctx context.Context, role Role) (Plan, error)
}
