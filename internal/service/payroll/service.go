package payroll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ayura-group/resto-backend-go/internal/domain/commission"
	"github.com/ayura-group/resto-backend-go/internal/domain/employee"
	"github.com/ayura-group/resto-backend-go/internal/domain/payroll"
	"github.com/ayura-group/resto-backend-go/internal/domain/stock"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/ayura-group/resto-backend-go/internal/repository/postgresql"
	commissionService "github.com/ayura-group/resto-backend-go/internal/service/commission"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// PayrollServiceImpl runs the monthly settlement batch. A run sums each
// employee's daily bracket payouts into gross, then collects outstanding
// salary deductions against it, capped and carried forward. The whole run
// commits or rolls back as one transaction; a partial run is never visible.
type PayrollServiceImpl struct {
	db            *database.DB
	payrollRepo   payroll.PayrollRepository
	employeeRepo  employee.EmployeeRepository
	stockRepo     stock.StockRepository
	commissionSvc *commissionService.CommissionServiceImpl
	deductionCap  *decimal.Decimal
	logger        *slog.Logger
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	stockRepo stock.StockRepository,
	commissionSvc *commissionService.CommissionServiceImpl,
	deductionCapPercent *decimal.Decimal,
	logger *slog.Logger,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		db:            db,
		payrollRepo:   payrollRepo,
		employeeRepo:  employeeRepo,
		stockRepo:     stockRepo,
		commissionSvc: commissionSvc,
		deductionCap:  deductionCapPercent,
		logger:        logger,
	}
}

// Run executes the batch for one period. Without rerun, a second run for the
// same period is rejected; with it, the prior run and its lines are deleted
// and everything is recomputed from the underlying data.
func (s *PayrollServiceImpl) Run(ctx context.Context, req payroll.RunPayrollRequest) (payroll.RunResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResult{}, err
	}

	var result payroll.RunResult
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		_, err := s.payrollRepo.GetRunByPeriod(txCtx, req.PeriodYear, req.PeriodMonth)
		switch {
		case err == nil:
			if !req.Rerun {
				return payroll.ErrPayrollAlreadyExists
			}
			if err := s.payrollRepo.DeleteRunByPeriod(txCtx, req.PeriodYear, req.PeriodMonth); err != nil {
				return err
			}
		case !errors.Is(err, payroll.ErrPayrollRunNotFound):
			return err
		}

		run, err := s.payrollRepo.InsertRun(txCtx, payroll.Run{
			PeriodYear:  req.PeriodYear,
			PeriodMonth: req.PeriodMonth,
			RunAt:       time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		employees, err := s.employeeRepo.ListActive(txCtx)
		if err != nil {
			return err
		}

		lines := make([]payroll.Line, 0, len(employees))
		for _, emp := range employees {
			line, err := s.settleEmployee(txCtx, run, emp, req.PeriodYear, req.PeriodMonth)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}

		result = payroll.RunResult{Run: run, Lines: lines}
		return nil
	})
	if err != nil {
		return payroll.RunResult{}, err
	}

	s.logger.Info("payroll run completed",
		slog.Int("period_year", result.Run.PeriodYear),
		slog.Int("period_month", result.Run.PeriodMonth),
		slog.Int("lines", len(result.Lines)),
	)

	return result, nil
}

// Lines returns the stored lines of a period's run.
func (s *PayrollServiceImpl) Lines(ctx context.Context, year, month int) ([]payroll.Line, error) {
	if month < 1 || month > 12 || year < 2020 {
		return nil, payroll.ErrInvalidPeriod
	}

	run, err := s.payrollRepo.GetRunByPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return s.payrollRepo.ListLines(ctx, run.ID)
}

func (s *PayrollServiceImpl) settleEmployee(ctx context.Context, run payroll.Run, emp employee.Employee, year, month int) (payroll.Line, error) {
	gross, err := s.monthlyGross(ctx, emp, year, month)
	if err != nil {
		return payroll.Line{}, err
	}

	applied, carry, err := s.collectDeductions(ctx, emp.ID, year, month, gross)
	if err != nil {
		return payroll.Line{}, err
	}

	return s.payrollRepo.InsertLine(ctx, payroll.Line{
		PayrollRunID:      run.ID,
		EmployeeID:        emp.ID,
		Gross:             gross,
		DeductionsApplied: applied,
		NetPay:            gross.Sub(applied),
		CarryForward:      carry,
	})
}

// monthlyGross sums the employee's daily bracket payouts across the period.
// The settlement amount for a day depends on the role: inside staff settle
// on shift net sales (table-sale aggregate when no shift row exists for the
// day), field staff on cash collected through dispatch returns. Days with no
// settlement activity earn nothing.
func (s *PayrollServiceImpl) monthlyGross(ctx context.Context, emp employee.Employee, year, month int) (decimal.Decimal, error) {
	plan, err := s.commissionSvc.ResolvePlan(ctx, emp)
	if err != nil {
		return decimal.Decimal{}, err
	}

	start, end := payroll.PeriodBounds(year, month)
	gross := decimal.Zero

	var netByDay map[time.Time]decimal.Decimal
	if emp.Role == employee.RoleInside {
		netByDay, err = s.payrollRepo.NetSalesByDay(ctx, emp.ID, start, end)
		if err != nil {
			return decimal.Decimal{}, err
		}
	}

	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		amount, err := s.dailyAmount(ctx, emp, netByDay, day)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if amount.IsZero() {
			continue
		}
		gross = gross.Add(commission.Compute(plan.Brackets, amount).Amount)
	}

	return gross, nil
}

func (s *PayrollServiceImpl) dailyAmount(ctx context.Context, emp employee.Employee, netByDay map[time.Time]decimal.Decimal, day time.Time) (decimal.Decimal, error) {
	switch emp.Role {
	case employee.RoleInside:
		if net, ok := netByDay[day]; ok {
			return net, nil
		}
		return s.stockRepo.TableSalesTotalForDay(ctx, emp.ID, day)
	case employee.RoleField:
		return s.stockRepo.CashCollectedForDay(ctx, emp.ID, day)
	default:
		return decimal.Zero, nil
	}
}

// collectDeductions computes how much of the employee's outstanding ledger
// this run collects. Outstanding persists across months until fully
// collected; the optional percentage cap bounds what one run may take.
func (s *PayrollServiceImpl) collectDeductions(ctx context.Context, employeeID string, year, month int, gross decimal.Decimal) (applied, carry decimal.Decimal, err error) {
	_, end := payroll.PeriodBounds(year, month)

	totalToDate, err := s.payrollRepo.DeductionsTotalThrough(ctx, employeeID, end)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}

	alreadyApplied, err := s.payrollRepo.DeductionsAppliedBefore(ctx, employeeID, year, month)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}

	outstanding := totalToDate.Sub(alreadyApplied)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	applied = decimal.Min(outstanding, gross)
	if s.deductionCap != nil {
		capped := gross.Mul(*s.deductionCap).Div(oneHundred)
		applied = decimal.Min(applied, capped)
	}

	return applied, outstanding.Sub(applied), nil
}
