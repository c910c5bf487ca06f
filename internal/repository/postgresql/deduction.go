package postgresql

import (
	"context"
	"fmt"

	"github.com/ayura-group/resto-backend-go/internal/domain/payroll"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
)

type deductionRepository struct {
	db *database.DB
}

func NewDeductionRepository(db *database.DB) payroll.DeductionRepository {
	return &deductionRepository{db: db}
}

func (r *deductionRepository) Insert(ctx context.Context, d payroll.Deduction) (payroll.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_deductions (id, employee_id, deduction_date, amount, reason, note)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, employee_id, deduction_date, amount, reason, note, created_at
	`

	var created payroll.Deduction
	err := q.QueryRow(ctx, query,
		d.EmployeeID, d.DeductionDate, d.Amount, d.Reason, d.Note,
	).Scan(
		&created.ID, &created.EmployeeID, &created.DeductionDate, &created.Amount,
		&created.Reason, &created.Note, &created.CreatedAt,
	)
	if err != nil {
		return payroll.Deduction{}, fmt.Errorf("failed to insert salary deduction: %w", err)
	}

	return created, nil
}

func (r *deductionRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, deduction_date, amount, reason, note, created_at
		FROM salary_deductions
		WHERE employee_id = $1
		ORDER BY deduction_date
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary deductions: %w", err)
	}
	defer rows.Close()

	var deductions []payroll.Deduction
	for rows.Next() {
		var d payroll.Deduction
		if err := rows.Scan(
			&d.ID, &d.EmployeeID, &d.DeductionDate, &d.Amount, &d.Reason, &d.Note, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary deduction: %w", err)
		}
		deductions = append(deductions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary deductions: %w", err)
	}

	return deductions, nil
}
