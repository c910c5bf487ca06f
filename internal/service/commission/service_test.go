package commission

import (
	"context"
	"log/slog"
	"testing"

	"github.com/ayura-group/resto-backend-go/internal/domain/commission"
	"github.com/ayura-group/resto-backend-go/internal/domain/employee"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/ayura-group/resto-backend-go/internal/repository/postgresql"
	postgresqltest "github.com/ayura-group/resto-backend-go/internal/repository/postgresql/postgresql_test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCommissionDB *database.DB

func commissionTestInit(t *testing.T) {
	if testCommissionDB != nil {
		return
	}
	setup, err := postgresqltest.NewTestDatabase()
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	testCommissionDB = setup.DB
}

func truncateCommissionTables(t *testing.T, ctx context.Context) {
	for _, table := range []string{"employees", "commission_plans"} {
		_, err := testCommissionDB.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(t, err)
	}
}

func createCommissionTestPlan(t *testing.T, ctx context.Context, name, role string, isDefault bool, brackets string) string {
	var planID string
	err := testCommissionDB.QueryRow(ctx, `
		INSERT INTO commission_plans (id, name, role, is_default, brackets)
		VALUES (gen_random_uuid(), $1, $2, $3, $4::jsonb)
		RETURNING id
	`, name, role, isDefault, brackets).Scan(&planID)
	require.NoError(t, err)
	return planID
}

func newCommissionTestService() *CommissionServiceImpl {
	return NewCommissionService(postgresql.NewPlanRepository(testCommissionDB), slog.Default())
}

func TestCommissionService_ResolvePlan_ExplicitWinsOverDefault(t *testing.T) {
	ctx := context.Background()
	commissionTestInit(t)
	truncateCommissionTables(t, ctx)

	createCommissionTestPlan(t, ctx, "house default", "INSIDE", true,
		`[{"min":1,"max":100000,"fixed":2000}]`)
	explicitID := createCommissionTestPlan(t, ctx, "senior waiter", "INSIDE", false,
		`[{"min":1,"max":100000,"fixed":7500}]`)

	svc := newCommissionTestService()
	emp := employee.Employee{ID: "emp-1", Role: employee.RoleInside, CommissionPlanID: &explicitID}

	plan, err := svc.ResolvePlan(ctx, emp)
	require.NoError(t, err)
	assert.Equal(t, explicitID, plan.ID)

	result, err := svc.ComputeForEmployee(ctx, emp, decimal.NewFromInt(50000))
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(7500)))
}

func TestCommissionService_ResolvePlan_MissingExplicitFallsBack(t *testing.T) {
	ctx := context.Background()
	commissionTestInit(t)
	truncateCommissionTables(t, ctx)

	defaultID := createCommissionTestPlan(t, ctx, "house default", "INSIDE", true,
		`[{"min":1,"max":100000,"fixed":2000}]`)

	svc := newCommissionTestService()
	missing := "00000000-0000-0000-0000-000000000000"
	emp := employee.Employee{ID: "emp-1", Role: employee.RoleInside, CommissionPlanID: &missing}

	plan, err := svc.ResolvePlan(ctx, emp)
	require.NoError(t, err)
	assert.Equal(t, defaultID, plan.ID)
}

func TestCommissionService_ResolvePlan_NoPlanYieldsZero(t *testing.T) {
	ctx := context.Background()
	commissionTestInit(t)
	truncateCommissionTables(t, ctx)

	svc := newCommissionTestService()
	emp := employee.Employee{ID: "emp-1", Role: employee.RoleInside}

	plan, err := svc.ResolvePlan(ctx, emp)
	require.NoError(t, err)
	assert.Empty(t, plan.Brackets)

	result, err := svc.ComputeForEmployee(ctx, emp, decimal.NewFromInt(50000))
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.True(t, result.Amount.Equal(decimal.Zero))
}

func TestCommissionService_ResolvePlan_KitchenEarnsNothing(t *testing.T) {
	ctx := context.Background()
	commissionTestInit(t)
	truncateCommissionTables(t, ctx)

	createCommissionTestPlan(t, ctx, "house default", "INSIDE", true,
		`[{"min":1,"max":100000,"fixed":2000}]`)

	svc := newCommissionTestService()
	emp := employee.Employee{ID: "emp-1", Role: employee.RoleKitchen}

	result, err := svc.ComputeForEmployee(ctx, emp, decimal.NewFromInt(50000))
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.True(t, result.Amount.Equal(decimal.Zero))
}

func TestPlanRepository_Create_InvalidRole(t *testing.T) {
	ctx := context.Background()
	commissionTestInit(t)
	truncateCommissionTables(t, ctx)

	planRepo := postgresql.NewPlanRepository(testCommissionDB)
	_, err := planRepo.Create(ctx, commission.Plan{
		Name: "managers",
		Role: "MANAGER",
	})
	assert.ErrorIs(t, err, commission.ErrInvalidRole)
}
