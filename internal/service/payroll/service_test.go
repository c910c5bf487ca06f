package payroll

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ayura-group/resto-backend-go/internal/domain/employee"
	"github.com/ayura-group/resto-backend-go/internal/domain/payroll"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/ayura-group/resto-backend-go/internal/repository/postgresql"
	postgresqltest "github.com/ayura-group/resto-backend-go/internal/repository/postgresql/postgresql_test"
	commissionService "github.com/ayura-group/resto-backend-go/internal/service/commission"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPayrollDB *database.DB

func payrollTestInit(t *testing.T) {
	if testPayrollDB != nil {
		return
	}
	setup, err := postgresqltest.NewTestDatabase()
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	testPayrollDB = setup.DB
}

func truncatePayrollTables(t *testing.T, ctx context.Context) {
	tables := []string{
		"payroll_lines", "payroll_runs", "salary_deductions",
		"dispatch_returns", "dispatches", "table_sales",
		"sale_lines", "shifts", "employees", "commission_plans", "items",
	}
	for _, table := range tables {
		_, err := testPayrollDB.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(t, err)
	}
}

// createPayrollTestPlan installs a default bracket plan for a role:
// 1..100000 pays 5000, above that pays 10000.
func createPayrollTestPlan(t *testing.T, ctx context.Context, role string) string {
	var planID string
	err := testPayrollDB.QueryRow(ctx, `
		INSERT INTO commission_plans (id, name, role, is_default, brackets)
		VALUES (gen_random_uuid(), $1 || ' default', $1, true,
			'[{"min":1,"max":100000,"fixed":5000},{"min":100001,"max":100000000,"fixed":10000}]')
		RETURNING id
	`, role).Scan(&planID)
	require.NoError(t, err)
	return planID
}

func createPayrollTestEmployee(t *testing.T, ctx context.Context, role string) string {
	var employeeID string
	err := testPayrollDB.QueryRow(ctx, `
		INSERT INTO employees (id, full_name, role)
		VALUES (gen_random_uuid(), 'Payroll ' || $1, $1)
		RETURNING id
	`, role).Scan(&employeeID)
	require.NoError(t, err)
	return employeeID
}

// seedClosedShift inserts a settled shift row directly with the given net
// sales on one day of the period.
func seedClosedShift(t *testing.T, ctx context.Context, employeeID, day string, net int64) {
	_, err := testPayrollDB.Exec(ctx, `
		INSERT INTO shifts (id, employee_id, waiter_type, shift_date, closed_at, gross_sales, net_sales)
		VALUES (gen_random_uuid(), $1, 'INSIDE', $2::date, NOW(), $3, $3)
	`, employeeID, day, net)
	require.NoError(t, err)
}

func seedDeduction(t *testing.T, ctx context.Context, employeeID, day string, amount int64) {
	date, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)

	deductionRepo := postgresql.NewDeductionRepository(testPayrollDB)
	_, err = deductionRepo.Insert(ctx, payroll.Deduction{
		EmployeeID:    employeeID,
		DeductionDate: date,
		Amount:        decimal.NewFromInt(amount),
		Reason:        "uniform damage",
	})
	require.NoError(t, err)

	entries, err := deductionRepo.ListByEmployee(ctx, employeeID)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}

func newPayrollTestService(deductionCap *decimal.Decimal) *PayrollServiceImpl {
	payrollRepo := postgresql.NewPayrollRepository(testPayrollDB)
	employeeRepo := postgresql.NewEmployeeRepository(testPayrollDB)
	stockRepo := postgresql.NewStockRepository(testPayrollDB)
	planRepo := postgresql.NewPlanRepository(testPayrollDB)
	logger := slog.Default()

	commissionSvc := commissionService.NewCommissionService(planRepo, logger)
	return NewPayrollService(testPayrollDB, payrollRepo, employeeRepo, stockRepo, commissionSvc, deductionCap, logger)
}

func linesByEmployee(result payroll.RunResult) map[string]payroll.Line {
	byEmployee := make(map[string]payroll.Line, len(result.Lines))
	for _, line := range result.Lines {
		byEmployee[line.EmployeeID] = line
	}
	return byEmployee
}

func TestPayrollService_Run_InsideDailyBrackets(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncatePayrollTables(t, ctx)

	createPayrollTestPlan(t, ctx, "INSIDE")
	employeeID := createPayrollTestEmployee(t, ctx, "INSIDE")

	// Two settlement days in the low bracket, one above it, the rest idle.
	seedClosedShift(t, ctx, employeeID, "2026-07-03", 50000)
	seedClosedShift(t, ctx, employeeID, "2026-07-04", 80000)
	seedClosedShift(t, ctx, employeeID, "2026-07-10", 250000)

	svc := newPayrollTestService(nil)
	result, err := svc.Run(ctx, payroll.RunPayrollRequest{PeriodYear: 2026, PeriodMonth: 7})
	require.NoError(t, err)

	line, ok := linesByEmployee(result)[employeeID]
	require.True(t, ok)
	// 5000 + 5000 + 10000; idle days earn nothing.
	assert.True(t, line.Gross.Equal(decimal.NewFromInt(20000)), "gross = %s", line.Gross)
	assert.True(t, line.NetPay.Equal(decimal.NewFromInt(20000)))
}

func TestPayrollService_Run_FieldCashCollected(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncatePayrollTables(t, ctx)

	createPayrollTestPlan(t, ctx, "FIELD")
	employeeID := createPayrollTestEmployee(t, ctx, "FIELD")

	var itemID string
	err := testPayrollDB.QueryRow(ctx, `
		INSERT INTO items (id, name, unit, sell_price)
		VALUES (gen_random_uuid(), 'Bottled Water', 'bottle', 5000)
		RETURNING id
	`).Scan(&itemID)
	require.NoError(t, err)

	var dispatchID string
	err = testPayrollDB.QueryRow(ctx, `
		INSERT INTO dispatches (id, waiter_id, item_id, qty_dispatched, price_each, dispatch_date)
		VALUES (gen_random_uuid(), $1, $2, 30, 5000, '2026-07-05'::date)
		RETURNING id
	`, employeeID, itemID).Scan(&dispatchID)
	require.NoError(t, err)

	_, err = testPayrollDB.Exec(ctx, `
		INSERT INTO dispatch_returns (id, dispatch_id, qty_returned, loss_qty, cash_collected)
		VALUES (gen_random_uuid(), $1, 5, 0, 125000)
	`, dispatchID)
	require.NoError(t, err)

	svc := newPayrollTestService(nil)
	result, err := svc.Run(ctx, payroll.RunPayrollRequest{PeriodYear: 2026, PeriodMonth: 7})
	require.NoError(t, err)

	line, ok := linesByEmployee(result)[employeeID]
	require.True(t, ok)
	// 125000 collected on one day lands in the upper bracket.
	assert.True(t, line.Gross.Equal(decimal.NewFromInt(10000)), "gross = %s", line.Gross)
}

func TestPayrollService_Run_DuplicatePeriodRejected(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncatePayrollTables(t, ctx)

	createPayrollTestPlan(t, ctx, "INSIDE")
	employeeID := createPayrollTestEmployee(t, ctx, "INSIDE")
	seedClosedShift(t, ctx, employeeID, "2026-07-03", 50000)

	svc := newPayrollTestService(nil)
	_, err := svc.Run(ctx, payroll.RunPayrollRequest{PeriodYear: 2026, PeriodMonth: 7})
	require.NoError(t, err)

	_, err = svc.Run(ctx, payroll.RunPayrollRequest{PeriodYear: 2026, PeriodMonth: 7})
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyExists)
}

func TestPayrollService_Run_RerunRecomputes(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncatePayrollTables(t, ctx)

	createPayrollTestPlan(t, ctx, "INSIDE")
	employeeID := createPayrollTestEmployee(t, ctx, "INSIDE")
	seedClosedShift(t, ctx, employeeID, "2026-07-03", 50000)

	svc := newPayrollTestService(nil)
	first, err := svc.Run(ctx, payroll.RunPayrollRequest{PeriodYear: 2026, PeriodMonth: 7})
	require.NoError(t, err)
	firstLine := linesByEmployee(first)[employeeID]
	assert.True(t, firstLine.Gross.Equal(decimal.NewFromInt(5000)))

	// A missed day surfaces after the run; the rerun picks it up from the
	// source data and replaces the prior run wholesale.
	seedClosedShift(t, ctx, employeeID, "2026-07-04", 150000)

	second, err := svc.Run(ctx, payroll.RunPayrollRequest{PeriodYear: 2026, PeriodMonth: 7, Rerun: true})
	require.NoError(t, err)
	secondLine := linesByEmployee(second)[employeeID]
	assert.True(t, secondLine.Gross.Equal(decimal.NewFromInt(15000)), "gross = %s", secondLine.Gross)

	var runs, lines int
	require.NoError(t, testPayrollDB.QueryRow(ctx, "SELECT COUNT(*) FROM payroll_runs").Scan(&runs))
	require.NoError(t, testPayrollDB.QueryRow(ctx, "SELECT COUNT(*) FROM payroll_lines").Scan(&lines))
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, lines)
}

func TestPayrollService_Run_DeductionCapAndCarryForward(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncatePayrollTables(t, ctx)

	createPayrollTestPlan(t, ctx, "INSIDE")
	employeeID := createPayrollTestEmployee(t, ctx, "INSIDE")

	// Gross for July: 5000 + 5000 = 10000.
	seedClosedShift(t, ctx, employeeID, "2026-07-03", 50000)
	seedClosedShift(t, ctx, employeeID, "2026-07-04", 50000)
	seedDeduction(t, ctx, employeeID, "2026-07-10", 8000)

	cap := decimal.NewFromInt(50)
	svc := newPayrollTestService(&cap)

	july, err := svc.Run(ctx, payroll.RunPayrollRequest{PeriodYear: 2026, PeriodMonth: 7})
	require.NoError(t, err)

	line := linesByEmployee(july)[employeeID]
	// The cap bounds collection at 50% of gross; the rest carries forward.
	assert.True(t, line.DeductionsApplied.Equal(decimal.NewFromInt(5000)), "applied = %s", line.DeductionsApplied)
	assert.True(t, line.NetPay.Equal(decimal.NewFromInt(5000)))
	assert.True(t, line.CarryForward.Equal(decimal.NewFromInt(3000)), "carry = %s", line.CarryForward)

	// August collects the remainder out of fresh gross.
	seedClosedShift(t, ctx, employeeID, "2026-08-02", 50000)
	seedClosedShift(t, ctx, employeeID, "2026-08-03", 50000)

	august, err := svc.Run(ctx, payroll.RunPayrollRequest{PeriodYear: 2026, PeriodMonth: 8})
	require.NoError(t, err)

	line = linesByEmployee(august)[employeeID]
	assert.True(t, line.DeductionsApplied.Equal(decimal.NewFromInt(3000)), "applied = %s", line.DeductionsApplied)
	assert.True(t, line.CarryForward.Equal(decimal.Zero))
	assert.True(t, line.NetPay.Equal(decimal.NewFromInt(7000)))
}

func TestPayrollService_Run_NoPlanYieldsZero(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncatePayrollTables(t, ctx)

	// No plan rows exist at all; the batch still completes with zero grosses.
	employeeID := createPayrollTestEmployee(t, ctx, "INSIDE")
	seedClosedShift(t, ctx, employeeID, "2026-07-03", 50000)

	svc := newPayrollTestService(nil)
	result, err := svc.Run(ctx, payroll.RunPayrollRequest{PeriodYear: 2026, PeriodMonth: 7})
	require.NoError(t, err)

	line := linesByEmployee(result)[employeeID]
	assert.True(t, line.Gross.Equal(decimal.Zero))
	assert.True(t, line.NetPay.Equal(decimal.Zero))
}

func TestPayrollService_Run_InvalidPeriod(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncatePayrollTables(t, ctx)

	svc := newPayrollTestService(nil)
	_, err := svc.Run(ctx, payroll.RunPayrollRequest{PeriodYear: 2026, PeriodMonth: 13})
	assert.Error(t, err)
}

func TestPayrollService_Run_ConcurrentFirstRuns(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncatePayrollTables(t, ctx)

	createPayrollTestPlan(t, ctx, "INSIDE")
	employeeID := createPayrollTestEmployee(t, ctx, "INSIDE")
	seedClosedShift(t, ctx, employeeID, "2026-07-03", 50000)

	svc := newPayrollTestService(nil)

	// Both runs pass the existence check before either commits; the period
	// unique constraint decides, and the loser gets the duplicate error
	// rather than a raw constraint violation.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Run(ctx, payroll.RunPayrollRequest{PeriodYear: 2026, PeriodMonth: 7})
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, payroll.ErrPayrollAlreadyExists):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	var runs int
	require.NoError(t, testPayrollDB.QueryRow(ctx, "SELECT COUNT(*) FROM payroll_runs").Scan(&runs))
	assert.Equal(t, 1, runs)
}

func TestPayrollService_Lines_InvalidPeriod(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncatePayrollTables(t, ctx)

	svc := newPayrollTestService(nil)
	_, err := svc.Lines(ctx, 2026, 0)
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}

func TestEmployeeRepository_Create_InvalidRole(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncatePayrollTables(t, ctx)

	employeeRepo := postgresql.NewEmployeeRepository(testPayrollDB)
	_, err := employeeRepo.Create(ctx, employee.Employee{
		FullName: "Night Manager",
		Role:     "MANAGER",
		IsActive: true,
	})
	assert.ErrorIs(t, err, employee.ErrInvalidRole)
}
