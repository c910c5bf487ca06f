package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ayura-group/resto-backend-go/internal/domain/commission"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type planRepository struct {
	db *database.DB
}

func NewPlanRepository(db *database.DB) commission.PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(ctx context.Context, plan commission.Plan) (commission.Plan, error) {
	q := GetQuerier(ctx, r.db)

	if !plan.Role.Valid() {
		return commission.Plan{}, commission.ErrInvalidRole
	}

	brackets, err := json.Marshal(plan.Brackets)
	if err != nil {
		return commission.Plan{}, fmt.Errorf("failed to marshal brackets: %w", err)
	}

	query := `
		INSERT INTO commission_plans (id, name, role, is_default, brackets)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, name, role, is_default, brackets, created_at, updated_at
	`

	return r.scanPlan(q.QueryRow(ctx, query, plan.Name, plan.Role, plan.IsDefault, brackets))
}

func (r *planRepository) GetByID(ctx context.Context, id string) (commission.Plan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, role, is_default, brackets, created_at, updated_at
		FROM commission_plans
		WHERE id = $1
	`

	plan, err := r.scanPlan(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return commission.Plan{}, commission.ErrPlanNotFound
		}
		return commission.Plan{}, err
	}

	return plan, nil
}

func (r *planRepository) GetDefaultByRole(ctx context.Context, role commission.Role) (commission.Plan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, role, is_default, brackets, created_at, updated_at
		FROM commission_plans
		WHERE role = $1 AND is_default = true
		ORDER BY created_at
		LIMIT 1
	`

	plan, err := r.scanPlan(q.QueryRow(ctx, query, role))
	if err != nil {
		if err == pgx.ErrNoRows {
			return commission.Plan{}, commission.ErrNoDefaultPlan
		}
		return commission.Plan{}, err
	}

	return plan, nil
}

func (r *planRepository) scanPlan(row pgx.Row) (commission.Plan, error) {
	var plan commission.Plan
	var rawBrackets []byte

	err := row.Scan(
		&plan.ID, &plan.Name, &plan.Role, &plan.IsDefault, &rawBrackets,
		&plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return commission.Plan{}, err
		}
		return commission.Plan{}, fmt.Errorf("failed to scan commission plan: %w", err)
	}

	// Stored bracket tables may predate the canonical key names; parse
	// tolerantly instead of failing the whole plan.
	brackets, err := commission.ParseBrackets(rawBrackets)
	if err != nil {
		return commission.Plan{}, fmt.Errorf("failed to parse brackets for plan %s: %w", plan.ID, err)
	}
	plan.Brackets = brackets

	return plan, nil
}
