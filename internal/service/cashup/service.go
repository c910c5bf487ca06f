package cashup

import (
	"context"
	"log/slog"
	"time"

	"github.com/ayura-group/resto-backend-go/internal/domain/cashup"
	"github.com/ayura-group/resto-backend-go/internal/domain/item"
	"github.com/ayura-group/resto-backend-go/internal/domain/shift"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/ayura-group/resto-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CashupServiceImpl writes and reads end-of-shift reconciliation snapshots.
// A snapshot is keyed uniquely by shift; saving again replaces it wholesale,
// so resubmitting through an evening of reconciliation is safe.
type CashupServiceImpl struct {
	db         *database.DB
	cashupRepo cashup.CashupRepository
	shiftRepo  shift.ShiftRepository
	itemRepo   item.ItemRepository
	logger     *slog.Logger
}

func NewCashupService(
	db *database.DB,
	cashupRepo cashup.CashupRepository,
	shiftRepo shift.ShiftRepository,
	itemRepo item.ItemRepository,
	logger *slog.Logger,
) *CashupServiceImpl {
	return &CashupServiceImpl{
		db:         db,
		cashupRepo: cashupRepo,
		shiftRepo:  shiftRepo,
		itemRepo:   itemRepo,
		logger:     logger,
	}
}

// Save computes the shift's current summary and persists it keyed by shift
// id, inserting or overwriting as needed. Once saved, nothing mutates the
// snapshot except this same path.
func (s *CashupServiceImpl) Save(ctx context.Context, shiftID string, submittedBy, note *string) (cashup.Cashup, error) {
	var result cashup.Cashup
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		sh, err := s.shiftRepo.GetByID(txCtx, shiftID)
		if err != nil {
			return err
		}

		snapshot, err := s.buildSnapshot(txCtx, sh, submittedBy)
		if err != nil {
			return err
		}

		result, err = s.cashupRepo.Upsert(txCtx, cashup.Cashup{
			ShiftID:     sh.ID,
			Snapshot:    snapshot,
			Note:        note,
			SubmittedBy: submittedBy,
		})
		if err != nil {
			return err
		}

		return s.shiftRepo.AppendEvent(txCtx, shift.Event{
			ShiftID: sh.ID,
			Kind:    shift.EventCashupSaved,
		})
	})
	if err != nil {
		return cashup.Cashup{}, err
	}

	s.logger.Info("cash-up saved",
		slog.String("shift_id", result.ShiftID),
		slog.String("grand_total", result.Snapshot.GrandTotal.String()),
	)

	return result, nil
}

// Get returns the single stored cash-up for a shift.
func (s *CashupServiceImpl) Get(ctx context.Context, shiftID string) (cashup.Cashup, error) {
	return s.cashupRepo.GetByShiftID(ctx, shiftID)
}

func (s *CashupServiceImpl) buildSnapshot(ctx context.Context, sh shift.Shift, submittedBy *string) (cashup.Snapshot, error) {
	lines, err := s.shiftRepo.ListLines(ctx, sh.ID)
	if err != nil {
		return cashup.Snapshot{}, err
	}

	type agg struct {
		qty     decimal.Decimal
		cashDue decimal.Decimal
	}
	byItem := make(map[string]*agg)
	order := make([]string, 0, len(lines))
	grandTotal := decimal.Zero

	for _, line := range lines {
		a, ok := byItem[line.ItemID]
		if !ok {
			a = &agg{qty: decimal.Zero, cashDue: decimal.Zero}
			byItem[line.ItemID] = a
			order = append(order, line.ItemID)
		}
		a.qty = a.qty.Add(line.Qty)
		a.cashDue = a.cashDue.Add(line.Total)
		grandTotal = grandTotal.Add(line.Total)
	}

	items := make([]cashup.ItemSummary, 0, len(order))
	for _, itemID := range order {
		summary := cashup.ItemSummary{
			ItemID:  itemID,
			Qty:     byItem[itemID].qty,
			CashDue: byItem[itemID].cashDue,
		}
		if it, err := s.itemRepo.GetByID(ctx, itemID); err == nil {
			summary.ItemName = it.Name
			summary.Unit = it.Unit
		}
		items = append(items, summary)
	}

	return cashup.Snapshot{
		SchemaVersion: cashup.SnapshotSchemaVersion,
		ShiftID:       sh.ID,
		ShiftDate:     sh.ShiftDate,
		EmployeeID:    sh.EmployeeID,
		WaiterType:    string(sh.WaiterType),
		Items:         items,
		GrossSales:    sh.GrossSales,
		NetSales:      sh.NetSales,
		GrandTotal:    grandTotal,
		SubmittedBy:   submittedBy,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
