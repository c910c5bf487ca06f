package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/ayura-group/resto-backend-go/internal/domain/shift"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `id, employee_id, waiter_type, shift_date, opened_at, closed_at, gross_sales, net_sales, created_at, updated_at`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.WaiterType, &s.ShiftDate, &s.OpenedAt, &s.ClosedAt,
		&s.GrossSales, &s.NetSales, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *shiftRepository) Insert(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (id, employee_id, waiter_type, shift_date, opened_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING ` + shiftColumns

	created, err := scanShift(q.QueryRow(ctx, query, s.EmployeeID, s.WaiterType, s.ShiftDate, s.OpenedAt))
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to insert shift: %w", err)
	}

	return created, nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return s, nil
}

func (r *shiftRepository) GetByIDForUpdate(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1 FOR UPDATE`

	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to lock shift: %w", err)
	}

	return s, nil
}

// GetByEmployeeAndDay returns the employee's shift for a business day. A
// settled day may hold several shifts after rollover; the open one wins,
// falling back to the most recent.
func (r *shiftRepository) GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts
		WHERE employee_id = $1 AND shift_date = $2
		ORDER BY (closed_at IS NULL) DESC, created_at DESC
		LIMIT 1`

	s, err := scanShift(q.QueryRow(ctx, query, employeeID, day))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by employee and day: %w", err)
	}

	return s, nil
}

func (r *shiftRepository) HasOlderOpenShift(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM shifts
			WHERE employee_id = $1 AND shift_date < $2 AND closed_at IS NULL
		)
	`, employeeID, day).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check older open shifts: %w", err)
	}

	return exists, nil
}

func (r *shiftRepository) HasOtherOpenShiftOnDay(ctx context.Context, employeeID string, day time.Time, excludeShiftID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM shifts
			WHERE employee_id = $1 AND shift_date = $2 AND closed_at IS NULL AND id <> $3
		)
	`, employeeID, day, excludeShiftID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check open shifts for day: %w", err)
	}

	return exists, nil
}

func (r *shiftRepository) SetClosedAt(ctx context.Context, shiftID string, closedAt *time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET closed_at = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, shiftID, closedAt).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to update shift closed_at: %w", err)
	}

	return nil
}

func (r *shiftRepository) InsertLine(ctx context.Context, line shift.SaleLine) (shift.SaleLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sale_lines (id, shift_id, item_id, qty, unit, unit_price, total,
			commission_earned, commission_rate, line_date, note)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, shift_id, item_id, qty, unit, unit_price, total,
			commission_earned, commission_rate, line_date, note, created_at
	`

	var created shift.SaleLine
	err := q.QueryRow(ctx, query,
		line.ShiftID, line.ItemID, line.Qty, line.Unit, line.UnitPrice, line.Total,
		line.CommissionEarned, line.CommissionRate, line.LineDate, line.Note,
	).Scan(
		&created.ID, &created.ShiftID, &created.ItemID, &created.Qty, &created.Unit,
		&created.UnitPrice, &created.Total, &created.CommissionEarned, &created.CommissionRate,
		&created.LineDate, &created.Note, &created.CreatedAt,
	)
	if err != nil {
		return shift.SaleLine{}, fmt.Errorf("failed to insert sale line: %w", err)
	}

	return created, nil
}

func (r *shiftRepository) ListLines(ctx context.Context, shiftID string) ([]shift.SaleLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, shift_id, item_id, qty, unit, unit_price, total,
			commission_earned, commission_rate, line_date, note, created_at
		FROM sale_lines
		WHERE shift_id = $1
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sale lines: %w", err)
	}
	defer rows.Close()

	var lines []shift.SaleLine
	for rows.Next() {
		var line shift.SaleLine
		if err := rows.Scan(
			&line.ID, &line.ShiftID, &line.ItemID, &line.Qty, &line.Unit,
			&line.UnitPrice, &line.Total, &line.CommissionEarned, &line.CommissionRate,
			&line.LineDate, &line.Note, &line.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sale lines: %w", err)
	}

	return lines, nil
}

func (r *shiftRepository) AddToTotals(ctx context.Context, shiftID string, gross, net decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET gross_sales = gross_sales + $2,
			net_sales = net_sales + $3,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, shiftID, gross, net).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to update shift totals: %w", err)
	}

	return nil
}

func (r *shiftRepository) AppendEvent(ctx context.Context, event shift.Event) error {
	q := GetQuerier(ctx, r.db)

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	query := `
		INSERT INTO shift_events (id, shift_id, kind, payload)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := q.Exec(ctx, query, event.ID, event.ShiftID, event.Kind, event.Payload); err != nil {
		return fmt.Errorf("failed to append shift event: %w", err)
	}

	return nil
}

func (r *shiftRepository) ListEvents(ctx context.Context, shiftID string) ([]shift.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, shift_id, kind, payload, created_at
		FROM shift_events
		WHERE shift_id = $1
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift events: %w", err)
	}
	defer rows.Close()

	var events []shift.Event
	for rows.Next() {
		var e shift.Event
		if err := rows.Scan(&e.ID, &e.ShiftID, &e.Kind, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift events: %w", err)
	}

	return events, nil
}
