package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ayura-group/resto-backend-go/internal/domain/cashup"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type cashupRepository struct {
	db *database.DB
}

func NewCashupRepository(db *database.DB) cashup.CashupRepository {
	return &cashupRepository{db: db}
}

// Upsert writes the cash-up keyed by shift id: insert, or replace the
// existing row on conflict. This is what makes saveCashup idempotent through
// an evening of reconciliation resubmits.
func (r *cashupRepository) Upsert(ctx context.Context, c cashup.Cashup) (cashup.Cashup, error) {
	q := GetQuerier(ctx, r.db)

	snapshot, err := json.Marshal(c.Snapshot)
	if err != nil {
		return cashup.Cashup{}, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO shift_cashups (id, shift_id, snapshot, note, submitted_by)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		ON CONFLICT (shift_id) DO UPDATE SET
			snapshot = EXCLUDED.snapshot,
			note = EXCLUDED.note,
			submitted_by = EXCLUDED.submitted_by,
			updated_at = NOW()
		RETURNING id, shift_id, snapshot, note, submitted_by, created_at, updated_at
	`

	return scanCashup(q.QueryRow(ctx, query, c.ShiftID, snapshot, c.Note, c.SubmittedBy))
}

func (r *cashupRepository) GetByShiftID(ctx context.Context, shiftID string) (cashup.Cashup, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, shift_id, snapshot, note, submitted_by, created_at, updated_at
		FROM shift_cashups
		WHERE shift_id = $1
	`

	c, err := scanCashup(q.QueryRow(ctx, query, shiftID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return cashup.Cashup{}, cashup.ErrCashupNotFound
		}
		return cashup.Cashup{}, err
	}

	return c, nil
}

func (r *cashupRepository) ExistsForShift(ctx context.Context, shiftID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM shift_cashups WHERE shift_id = $1)`, shiftID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check cash-up existence: %w", err)
	}

	return exists, nil
}

func scanCashup(row pgx.Row) (cashup.Cashup, error) {
	var c cashup.Cashup
	var rawSnapshot []byte

	err := row.Scan(&c.ID, &c.ShiftID, &rawSnapshot, &c.Note, &c.SubmittedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return cashup.Cashup{}, err
		}
		return cashup.Cashup{}, fmt.Errorf("failed to scan cash-up: %w", err)
	}

	if err := json.Unmarshal(rawSnapshot, &c.Snapshot); err != nil {
		return cashup.Cashup{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return c, nil
}
