package stock

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ayura-group/resto-backend-go/internal/domain/item"
	"github.com/ayura-group/resto-backend-go/internal/domain/stock"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/ayura-group/resto-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// StockServiceImpl implements the stock ledger operations. Every decrement
// runs the guarded protocol: lock the item, recompute on-hand from the
// ledger, verify the decrement fits, insert, commit. The core never retries
// a rejected decrement; the caller resubmits with an adjusted amount.
type StockServiceImpl struct {
	db        *database.DB
	stockRepo stock.StockRepository
	itemRepo  item.ItemRepository
	logger    *slog.Logger
}

func NewStockService(
	db *database.DB,
	stockRepo stock.StockRepository,
	itemRepo item.ItemRepository,
	logger *slog.Logger,
) *StockServiceImpl {
	return &StockServiceImpl{
		db:        db,
		stockRepo: stockRepo,
		itemRepo:  itemRepo,
		logger:    logger,
	}
}

// OnHand returns the derived stock-on-hand figure for an item.
func (s *StockServiceImpl) OnHand(ctx context.Context, itemID string) (decimal.Decimal, error) {
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		return decimal.Decimal{}, err
	}
	return s.stockRepo.OnHand(ctx, itemID)
}

// Movements returns an item's ledger entries, oldest first.
func (s *StockServiceImpl) Movements(ctx context.Context, itemID string) ([]stock.StockMovement, error) {
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.stockRepo.ListMovements(ctx, itemID)
}

// RecordMovement appends one ledger entry. IN movements insert directly; OUT
// movements run inside the item's critical section.
func (s *StockServiceImpl) RecordMovement(ctx context.Context, req stock.RecordMovementRequest) (stock.StockMovement, error) {
	if err := req.Validate(); err != nil {
		return stock.StockMovement{}, err
	}
	if err := s.requireActiveItem(ctx, req.ItemID); err != nil {
		return stock.StockMovement{}, err
	}

	movement := stock.StockMovement{
		ItemID:    req.ItemID,
		Direction: stock.Direction(req.Direction),
		Quantity:  req.Quantity,
		UnitCost:  req.UnitCost,
		Note:      req.Note,
	}

	if movement.Direction == stock.DirectionIn {
		created, err := s.stockRepo.InsertMovement(ctx, movement)
		if err != nil {
			return stock.StockMovement{}, err
		}
		return created, nil
	}

	var created stock.StockMovement
	err := s.withItemLock(ctx, req.ItemID, req.Quantity, func(txCtx context.Context) error {
		var err error
		created, err = s.stockRepo.InsertMovement(txCtx, movement)
		return err
	})
	if err != nil {
		return stock.StockMovement{}, err
	}

	s.logger.Debug("stock movement recorded",
		slog.String("item_id", created.ItemID),
		slog.String("direction", string(created.Direction)),
		slog.String("quantity", created.Quantity.String()),
	)

	return created, nil
}

// CreateDispatch hands stock to a field waiter, decrementing on-hand under
// the item lock.
func (s *StockServiceImpl) CreateDispatch(ctx context.Context, req stock.CreateDispatchRequest) (stock.Dispatch, error) {
	if err := req.Validate(); err != nil {
		return stock.Dispatch{}, err
	}
	if err := s.requireActiveItem(ctx, req.ItemID); err != nil {
		return stock.Dispatch{}, err
	}

	dispatch := stock.Dispatch{
		WaiterID:      req.WaiterID,
		ItemID:        req.ItemID,
		QtyDispatched: req.Qty,
		PriceEach:     req.PriceEach,
		DispatchDate:  req.DispatchDate,
	}

	var created stock.Dispatch
	err := s.withItemLock(ctx, req.ItemID, req.Qty, func(txCtx context.Context) error {
		var err error
		created, err = s.stockRepo.InsertDispatch(txCtx, dispatch)
		return err
	})
	if err != nil {
		return stock.Dispatch{}, err
	}

	return created, nil
}

// CreateReturn settles a dispatch. The consistency check runs before any
// write: returned plus loss may never exceed the dispatched quantity, and a
// dispatch settles at most once. Returns only ever increase on-hand, so no
// item lock is needed.
func (s *StockServiceImpl) CreateReturn(ctx context.Context, req stock.CreateReturnRequest) (stock.Return, error) {
	if err := req.Validate(); err != nil {
		return stock.Return{}, err
	}

	dispatch, err := s.stockRepo.GetDispatchByID(ctx, req.DispatchID)
	if err != nil {
		return stock.Return{}, err
	}

	if req.QtyReturned.Add(req.LossQty).GreaterThan(dispatch.QtyDispatched) {
		return stock.Return{}, stock.ErrReturnExceedsDispatch
	}

	if _, err := s.stockRepo.GetReturnByDispatchID(ctx, req.DispatchID); err == nil {
		return stock.Return{}, stock.ErrDuplicateReturn
	} else if !errors.Is(err, stock.ErrReturnNotFound) {
		return stock.Return{}, err
	}

	created, err := s.stockRepo.InsertReturn(ctx, stock.Return{
		DispatchID:    req.DispatchID,
		QtyReturned:   req.QtyReturned,
		LossQty:       req.LossQty,
		CashCollected: req.CashCollected,
		Note:          req.Note,
	})
	if err != nil {
		return stock.Return{}, err
	}

	return created, nil
}

// CreateTableSale records an inside sale, decrementing on-hand at creation
// time under the item lock.
func (s *StockServiceImpl) CreateTableSale(ctx context.Context, req stock.CreateTableSaleRequest) (stock.TableSale, error) {
	if err := req.Validate(); err != nil {
		return stock.TableSale{}, err
	}
	if err := s.requireActiveItem(ctx, req.ItemID); err != nil {
		return stock.TableSale{}, err
	}

	sale := stock.TableSale{
		WaiterID:  req.WaiterID,
		TableCode: req.TableCode,
		ItemID:    req.ItemID,
		Qty:       req.Qty,
		PriceEach: req.PriceEach,
		Discount:  req.Discount,
		LossQty:   req.LossQty,
		SaleDate:  req.SaleDate,
	}

	var created stock.TableSale
	err := s.withItemLock(ctx, req.ItemID, req.Qty, func(txCtx context.Context) error {
		var err error
		created, err = s.stockRepo.InsertTableSale(txCtx, sale)
		return err
	})
	if err != nil {
		return stock.TableSale{}, err
	}

	return created, nil
}

// requireActiveItem gates the write paths: movements, dispatches and table
// sales may only reference items still on sale.
func (s *StockServiceImpl) requireActiveItem(ctx context.Context, itemID string) error {
	it, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !it.IsActive {
		return item.ErrItemInactive
	}
	return nil
}

// withItemLock runs insert inside the item's critical section: one
// transaction holding the advisory lock for the item, with on-hand
// recomputed and the decrement verified before anything is written. The lock
// dies with the transaction on commit or rollback.
func (s *StockServiceImpl) withItemLock(ctx context.Context, itemID string, decrease decimal.Decimal, insert func(txCtx context.Context) error) error {
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.stockRepo.AcquireItemLock(txCtx, itemID); err != nil {
			return err
		}

		onHand, err := s.stockRepo.OnHand(txCtx, itemID)
		if err != nil {
			return err
		}
		if onHand.LessThan(decrease) {
			return &stock.InsufficientStockError{
				ItemID:    itemID,
				OnHand:    onHand,
				Requested: decrease,
			}
		}

		return insert(txCtx)
	})
}
