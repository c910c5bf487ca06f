package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ayura-group/resto-backend-go/internal/config"
	domainPayroll "github.com/ayura-group/resto-backend-go/internal/domain/payroll"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/ayura-group/resto-backend-go/internal/pkg/logging"
	"github.com/ayura-group/resto-backend-go/internal/repository/postgresql"
	commissionService "github.com/ayura-group/resto-backend-go/internal/service/commission"
	payrollService "github.com/ayura-group/resto-backend-go/internal/service/payroll"
)

// payrollrun is the manual monthly settlement batch trigger. There is no
// scheduler: an operator runs it once the month's cash-ups are reconciled.
func main() {
	now := time.Now()
	year := flag.Int("year", now.Year(), "payroll period year")
	month := flag.Int("month", int(now.Month()), "payroll period month (1-12)")
	rerun := flag.Bool("rerun", false, "replace an existing run for the period")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.App.Env, cfg.App.LogLevel)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	payrollRepo := postgresql.NewPayrollRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	stockRepo := postgresql.NewStockRepository(db)
	planRepo := postgresql.NewPlanRepository(db)

	commissionSvc := commissionService.NewCommissionService(planRepo, logger)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		employeeRepo,
		stockRepo,
		commissionSvc,
		cfg.Payroll.DeductionCapPercent,
		logger,
	)

	result, err := payrollSvc.Run(context.Background(), domainPayroll.RunPayrollRequest{
		PeriodYear:  *year,
		PeriodMonth: *month,
		Rerun:       *rerun,
	})
	if err != nil {
		logger.Error("payroll run failed",
			slog.Int("year", *year),
			slog.Int("month", *month),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	for _, line := range result.Lines {
		logger.Info("payroll line",
			slog.String("employee_id", line.EmployeeID),
			slog.String("gross", line.Gross.String()),
			slog.String("deductions_applied", line.DeductionsApplied.String()),
			slog.String("net_pay", line.NetPay.String()),
			slog.String("carry_forward", line.CarryForward.String()),
		)
	}
}
