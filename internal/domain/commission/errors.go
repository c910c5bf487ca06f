package commission

import "errors"

var (
	ErrPlanNotFound  = errors.New("commission plan not found")
	ErrInvalidRole   = errors.New("invalid commission plan role")
	ErrNoDefaultPlan = errors.New("no default commission plan for role")
)
