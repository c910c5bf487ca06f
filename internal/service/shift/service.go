package shift

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ayura-group/resto-backend-go/internal/domain/cashup"
	"github.com/ayura-group/resto-backend-go/internal/domain/shift"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/ayura-group/resto-backend-go/internal/pkg/shiftclock"
	"github.com/ayura-group/resto-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
)

// ShiftServiceImpl owns the shift lifecycle: open, line accumulation, close
// and reopen. Lifecycle mutations rely on conditional checks inside one
// transaction with the shift row locked, so close and add-line cannot
// interleave on the same shift.
type ShiftServiceImpl struct {
	db         *database.DB
	shiftRepo  shift.ShiftRepository
	cashupRepo cashup.CashupRepository
	clock      shiftclock.Clock
	logger     *slog.Logger
}

func NewShiftService(
	db *database.DB,
	shiftRepo shift.ShiftRepository,
	cashupRepo cashup.CashupRepository,
	clock shiftclock.Clock,
	logger *slog.Logger,
) *ShiftServiceImpl {
	return &ShiftServiceImpl{
		db:         db,
		shiftRepo:  shiftRepo,
		cashupRepo: cashupRepo,
		clock:      clock,
		logger:     logger,
	}
}

// Open returns the employee's shift for the business day, creating it if
// needed. Calling it twice with the same arguments returns the same shift,
// which is what makes caller-side retries safe.
func (s *ShiftServiceImpl) Open(ctx context.Context, req shift.OpenShiftRequest) (shift.Shift, error) {
	if err := req.Validate(); err != nil {
		return shift.Shift{}, err
	}

	day := s.clock.BusinessDay(req.BusinessDay)

	var result shift.Shift
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		existing, err := s.shiftRepo.GetByEmployeeAndDay(txCtx, req.EmployeeID, day)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, shift.ErrShiftNotFound) {
			return err
		}

		olderOpen, err := s.shiftRepo.HasOlderOpenShift(txCtx, req.EmployeeID, day)
		if err != nil {
			return err
		}
		if olderOpen {
			return shift.ErrPreviousOpenNotClosed
		}

		result, err = s.shiftRepo.Insert(txCtx, shift.Shift{
			EmployeeID: req.EmployeeID,
			WaiterType: shift.WaiterType(req.WaiterType),
			ShiftDate:  day,
			OpenedAt:   time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		return shift.Shift{}, err
	}

	return result, nil
}

// AddLine inserts a sale line and applies its total to the owning shift's
// gross/net in the same transaction. A CLOSED shift with no cash-up is
// transparently reopened; a settled shift rolls the line over into a fresh
// shift for the same employee, type and day, so settled numbers never move.
// The result carries the shift that actually received the line.
func (s *ShiftServiceImpl) AddLine(ctx context.Context, req shift.AddLineRequest) (shift.AddLineResult, error) {
	if err := req.Validate(); err != nil {
		return shift.AddLineResult{}, err
	}

	var result shift.AddLineResult
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		target, err := s.shiftRepo.GetByIDForUpdate(txCtx, req.ShiftID)
		if err != nil {
			return err
		}

		if !target.IsOpen() {
			settled, err := s.cashupRepo.ExistsForShift(txCtx, target.ID)
			if err != nil {
				return err
			}

			if settled {
				target, err = s.rolloverShift(txCtx, target)
				if err != nil {
					return err
				}
			} else {
				if err := s.shiftRepo.SetClosedAt(txCtx, target.ID, nil); err != nil {
					return err
				}
				target.ClosedAt = nil
				if err := s.appendEvent(txCtx, target.ID, shift.EventAutoReopened, map[string]any{
					"reason": "sale line accepted after close",
				}); err != nil {
					return err
				}
			}
		}

		total := req.Qty.Mul(req.UnitPrice)
		line, err := s.shiftRepo.InsertLine(txCtx, shift.SaleLine{
			ShiftID:   target.ID,
			ItemID:    req.ItemID,
			Qty:       req.Qty,
			Unit:      req.Unit,
			UnitPrice: req.UnitPrice,
			Total:     total,
			LineDate:  target.ShiftDate,
			Note:      req.Note,
		})
		if err != nil {
			return err
		}

		if err := s.shiftRepo.AddToTotals(txCtx, target.ID, total, total); err != nil {
			return err
		}
		target.GrossSales = target.GrossSales.Add(total)
		target.NetSales = target.NetSales.Add(total)

		result = shift.AddLineResult{Line: line, Shift: target}
		return nil
	})
	if err != nil {
		return shift.AddLineResult{}, err
	}

	if result.Shift.ID != req.ShiftID {
		s.logger.Info("sale line rolled over to a fresh shift",
			slog.String("requested_shift_id", req.ShiftID),
			slog.String("shift_id", result.Shift.ID),
		)
	}

	return result, nil
}

// Close sets closedAt on an open, unsettled shift.
func (s *ShiftServiceImpl) Close(ctx context.Context, shiftID string) (shift.Shift, error) {
	var result shift.Shift
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		sh, err := s.shiftRepo.GetByIDForUpdate(txCtx, shiftID)
		if err != nil {
			return err
		}
		if !sh.IsOpen() {
			return shift.ErrAlreadyClosed
		}

		settled, err := s.cashupRepo.ExistsForShift(txCtx, sh.ID)
		if err != nil {
			return err
		}
		if settled {
			return shift.ErrCashupAlreadyExists
		}

		now := time.Now().UTC()
		if err := s.shiftRepo.SetClosedAt(txCtx, sh.ID, &now); err != nil {
			return err
		}
		if err := s.appendEvent(txCtx, sh.ID, shift.EventClosed, nil); err != nil {
			return err
		}

		sh.ClosedAt = &now
		result = sh
		return nil
	})
	if err != nil {
		return shift.Shift{}, err
	}

	return result, nil
}

// Reopen clears closedAt on today's closed, unsettled shift.
func (s *ShiftServiceImpl) Reopen(ctx context.Context, shiftID string) (shift.Shift, error) {
	var result shift.Shift
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		sh, err := s.shiftRepo.GetByIDForUpdate(txCtx, shiftID)
		if err != nil {
			return err
		}

		if !sh.ShiftDate.Equal(s.clock.Today()) {
			return shift.ErrReopenOnlyToday
		}
		if sh.IsOpen() {
			return shift.ErrShiftNotClosed
		}

		settled, err := s.cashupRepo.ExistsForShift(txCtx, sh.ID)
		if err != nil {
			return err
		}
		if settled {
			return shift.ErrCashupExists
		}

		otherOpen, err := s.shiftRepo.HasOtherOpenShiftOnDay(txCtx, sh.EmployeeID, sh.ShiftDate, sh.ID)
		if err != nil {
			return err
		}
		if otherOpen {
			return shift.ErrEmployeeAlreadyOpenToday
		}

		if err := s.shiftRepo.SetClosedAt(txCtx, sh.ID, nil); err != nil {
			return err
		}
		if err := s.appendEvent(txCtx, sh.ID, shift.EventReopened, nil); err != nil {
			return err
		}

		sh.ClosedAt = nil
		result = sh
		return nil
	})
	if err != nil {
		return shift.Shift{}, err
	}

	return result, nil
}

// Get returns a shift by id.
func (s *ShiftServiceImpl) Get(ctx context.Context, shiftID string) (shift.Shift, error) {
	return s.shiftRepo.GetByID(ctx, shiftID)
}

// Events returns a shift's audit log, oldest first.
func (s *ShiftServiceImpl) Events(ctx context.Context, shiftID string) ([]shift.Event, error) {
	return s.shiftRepo.ListEvents(ctx, shiftID)
}

// rolloverShift opens a replacement shift for a settled one and records the
// lineage on the new shift's audit log. A retry still addressed at the settled
// shift lands on the replacement an earlier rollover already opened, so the
// employee never holds two open shifts on one day.
func (s *ShiftServiceImpl) rolloverShift(ctx context.Context, settled shift.Shift) (shift.Shift, error) {
	existing, err := s.shiftRepo.GetByEmployeeAndDay(ctx, settled.EmployeeID, settled.ShiftDate)
	if err != nil && !errors.Is(err, shift.ErrShiftNotFound) {
		return shift.Shift{}, err
	}
	if err == nil && existing.IsOpen() {
		return s.shiftRepo.GetByIDForUpdate(ctx, existing.ID)
	}

	fresh, err := s.shiftRepo.Insert(ctx, shift.Shift{
		EmployeeID: settled.EmployeeID,
		WaiterType: settled.WaiterType,
		ShiftDate:  settled.ShiftDate,
		OpenedAt:   time.Now().UTC(),
	})
	if err != nil {
		return shift.Shift{}, err
	}

	if err := s.appendEvent(ctx, fresh.ID, shift.EventRolloverOpened, map[string]any{
		"from_shift_id": settled.ID,
	}); err != nil {
		return shift.Shift{}, err
	}

	return fresh, nil
}

func (s *ShiftServiceImpl) appendEvent(ctx context.Context, shiftID string, kind shift.EventKind, payload map[string]any) error {
	var raw json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal event payload: %w", err)
		}
		raw = encoded
	}

	return s.shiftRepo.AppendEvent(ctx, shift.Event{
		ShiftID: shiftID,
		Kind:    kind,
		Payload: raw,
	})
}
