package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ayura-group/resto-backend-go/internal/domain/payroll"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) GetRunByPeriod(ctx context.Context, year, month int) (payroll.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_year, period_month, run_at
		FROM payroll_runs
		WHERE period_year = $1 AND period_month = $2
	`

	var run payroll.Run
	err := q.QueryRow(ctx, query, year, month).Scan(&run.ID, &run.PeriodYear, &run.PeriodMonth, &run.RunAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Run{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.Run{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	return run, nil
}

func (r *payrollRepository) InsertRun(ctx context.Context, run payroll.Run) (payroll.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (id, period_year, period_month, run_at)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, period_year, period_month, run_at
	`

	var created payroll.Run
	err := q.QueryRow(ctx, query, run.PeriodYear, run.PeriodMonth, run.RunAt).Scan(
		&created.ID, &created.PeriodYear, &created.PeriodMonth, &created.RunAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_period") {
			return payroll.Run{}, payroll.ErrPayrollAlreadyExists
		}
		return payroll.Run{}, fmt.Errorf("failed to insert payroll run: %w", err)
	}

	return created, nil
}

// DeleteRunByPeriod removes a prior run and its lines; the rerun path
// replaces, never merges.
func (r *payrollRepository) DeleteRunByPeriod(ctx context.Context, year, month int) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		DELETE FROM payroll_lines
		WHERE payroll_run_id IN (
			SELECT id FROM payroll_runs WHERE period_year = $1 AND period_month = $2
		)
	`, year, month)
	if err != nil {
		return fmt.Errorf("failed to delete payroll lines: %w", err)
	}

	_, err = q.Exec(ctx, `DELETE FROM payroll_runs WHERE period_year = $1 AND period_month = $2`, year, month)
	if err != nil {
		return fmt.Errorf("failed to delete payroll run: %w", err)
	}

	return nil
}

func (r *payrollRepository) InsertLine(ctx context.Context, line payroll.Line) (payroll.Line, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_lines (id, payroll_run_id, employee_id, gross, deductions_applied, net_pay, carry_forward, note)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, payroll_run_id, employee_id, gross, deductions_applied, net_pay, carry_forward, note
	`

	var created payroll.Line
	err := q.QueryRow(ctx, query,
		line.PayrollRunID, line.EmployeeID, line.Gross, line.DeductionsApplied,
		line.NetPay, line.CarryForward, line.Note,
	).Scan(
		&created.ID, &created.PayrollRunID, &created.EmployeeID, &created.Gross,
		&created.DeductionsApplied, &created.NetPay, &created.CarryForward, &created.Note,
	)
	if err != nil {
		return payroll.Line{}, fmt.Errorf("failed to insert payroll line: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) ListLines(ctx context.Context, runID string) ([]payroll.Line, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT l.id, l.payroll_run_id, l.employee_id, l.gross, l.deductions_applied,
			l.net_pay, l.carry_forward, l.note, e.full_name
		FROM payroll_lines l
		JOIN employees e ON l.employee_id = e.id
		WHERE l.payroll_run_id = $1
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll lines: %w", err)
	}
	defer rows.Close()

	var lines []payroll.Line
	for rows.Next() {
		var line payroll.Line
		if err := rows.Scan(
			&line.ID, &line.PayrollRunID, &line.EmployeeID, &line.Gross,
			&line.DeductionsApplied, &line.NetPay, &line.CarryForward, &line.Note,
			&line.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll lines: %w", err)
	}

	return lines, nil
}

func (r *payrollRepository) DeductionsTotalThrough(ctx context.Context, employeeID string, end time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM salary_deductions
		WHERE employee_id = $1 AND deduction_date < $2
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, end).Scan(&total); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to sum salary deductions: %w", err)
	}

	return total, nil
}

func (r *payrollRepository) DeductionsAppliedBefore(ctx context.Context, employeeID string, year, month int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(l.deductions_applied), 0)
		FROM payroll_lines l
		JOIN payroll_runs r ON l.payroll_run_id = r.id
		WHERE l.employee_id = $1
		  AND (r.period_year < $2 OR (r.period_year = $2 AND r.period_month < $3))
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, year, month).Scan(&total); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to sum applied deductions: %w", err)
	}

	return total, nil
}

func (r *payrollRepository) NetSalesByDay(ctx context.Context, employeeID string, start, end time.Time) (map[time.Time]decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT shift_date, SUM(net_sales)
		FROM shifts
		WHERE employee_id = $1 AND shift_date >= $2 AND shift_date < $3
		GROUP BY shift_date
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query net sales by day: %w", err)
	}
	defer rows.Close()

	totals := make(map[time.Time]decimal.Decimal)
	for rows.Next() {
		var day time.Time
		var net decimal.Decimal
		if err := rows.Scan(&day, &net); err != nil {
			return nil, fmt.Errorf("failed to scan net sales row: %w", err)
		}
		totals[day.UTC()] = net
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate net sales rows: %w", err)
	}

	return totals, nil
}
