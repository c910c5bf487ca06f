package commission

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ayura-group/resto-backend-go/internal/domain/commission"
	"github.com/ayura-group/resto-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// CommissionServiceImpl resolves which bracket plan applies to an employee
// and runs settlement amounts through it. Resolution order: the employee's
// explicit plan, then the role's default plan, then no plan at all. A
// missing or unparseable plan yields zero commission, never an error, so a
// misconfigured plan can't block a settlement batch.
type CommissionServiceImpl struct {
	planRepo commission.PlanRepository
	logger   *slog.Logger
}

func NewCommissionService(planRepo commission.PlanRepository, logger *slog.Logger) *CommissionServiceImpl {
	return &CommissionServiceImpl{planRepo: planRepo, logger: logger}
}

// Compute runs one settlement amount through a bracket table.
func (s *CommissionServiceImpl) Compute(plan commission.Plan, amount decimal.Decimal) commission.Result {
	return commission.Compute(plan.Brackets, amount)
}

// ResolvePlan finds the plan governing an employee's commission. Kitchen
// staff earn none, so they resolve to an empty plan.
func (s *CommissionServiceImpl) ResolvePlan(ctx context.Context, emp employee.Employee) (commission.Plan, error) {
	if emp.CommissionPlanID != nil {
		plan, err := s.planRepo.GetByID(ctx, *emp.CommissionPlanID)
		if err == nil {
			return plan, nil
		}
		if !errors.Is(err, commission.ErrPlanNotFound) {
			return commission.Plan{}, err
		}
		s.logger.Warn("assigned commission plan missing, falling back to role default",
			slog.String("employee_id", emp.ID),
			slog.String("plan_id", *emp.CommissionPlanID),
		)
	}

	role, ok := planRole(emp.Role)
	if !ok {
		return commission.Plan{}, nil
	}

	plan, err := s.planRepo.GetDefaultByRole(ctx, role)
	if err != nil {
		if errors.Is(err, commission.ErrNoDefaultPlan) {
			return commission.Plan{}, nil
		}
		return commission.Plan{}, err
	}

	return plan, nil
}

// ComputeForEmployee resolves the employee's plan and applies it to one
// settlement amount.
func (s *CommissionServiceImpl) ComputeForEmployee(ctx context.Context, emp employee.Employee, amount decimal.Decimal) (commission.Result, error) {
	plan, err := s.ResolvePlan(ctx, emp)
	if err != nil {
		return commission.Result{}, err
	}
	return commission.Compute(plan.Brackets, amount), nil
}

func planRole(role employee.Role) (commission.Role, bool) {
	switch role {
	case employee.RoleInside:
		return commission.RoleInside, true
	case employee.RoleField:
		return commission.RoleField, true
	default:
		return "", false
	}
}
