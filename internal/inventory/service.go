package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/internal/catalog"
	"github.com/scentkart/scentkart-backend/pkg/db/models"
	"github.com/scentkart/scentkart-backend/pkg/enums"
	pkgerrors "github.com/scentkart/scentkart-backend/pkg/errors"
	"github.com/scentkart/scentkart-backend/pkg/logger"
	"github.com/scentkart/scentkart-backend/pkg/pagination"
)

const defaultRetryAttempts = 5

// errStockRace marks a lost compare-and-set so the retry loop can tell it
// apart from terminal failures.
var errStockRace = errors.New("stock level changed concurrently")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the inventory ledger: every stock change flows through a
// compare-and-set on the record plus an append-only movement row, committed
// together.
type Service interface {
	CreateRecord(ctx context.Context, input CreateRecordInput) (*models.InventoryRecord, error)
	GetRecord(ctx context.Context, recordID uuid.UUID) (*models.InventoryRecord, error)
	FindByVariant(ctx context.Context, key catalog.VariantKey) (*models.InventoryRecord, error)
	AddStock(ctx context.Context, input AdjustInput) (*models.InventoryRecord, error)
	DeductStock(ctx context.Context, input AdjustInput) (*models.InventoryRecord, error)
	SetStock(ctx context.Context, input SetStockInput) (*models.InventoryRecord, error)
	BulkAddStock(ctx context.Context, inputs []AdjustInput) *BulkAddResult
	History(ctx context.Context, recordID uuid.UUID, params pagination.Params) (*MovementList, error)
	List(ctx context.Context, params pagination.Params) (*RecordList, error)
	LowStock(ctx context.Context) ([]models.InventoryRecord, error)
	StockStatus(ctx context.Context, productID uuid.UUID) (*StockStatus, error)
}

type service struct {
	repo          Repository
	tx            txRunner
	logg          *logger.Logger
	retryAttempts uint64
}

// NewService builds the inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger, retryAttempts int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	attempts := uint64(defaultRetryAttempts)
	if retryAttempts > 0 {
		attempts = uint64(retryAttempts)
	}
	return &service{
		repo:          repo,
		tx:            tx,
		logg:          logg,
		retryAttempts: attempts,
	}, nil
}

func (s *service) CreateRecord(ctx context.Context, input CreateRecordInput) (*models.InventoryRecord, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.InitialStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial stock cannot be negative")
	}
	fragrance := input.Fragrance
	if fragrance == "" {
		fragrance = models.DefaultFragrance
	}
	threshold := input.LowStockThreshold
	if threshold <= 0 {
		threshold = 5
	}

	record := &models.InventoryRecord{
		ID:                uuid.New(),
		ProductID:         input.ProductID,
		ModelID:           input.ModelID,
		ColorID:           input.ColorID,
		Fragrance:         fragrance,
		SKU:               input.SKU,
		Stock:             input.InitialStock,
		LowStockThreshold: threshold,
		IsActive:          true,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, record); err != nil {
			return err
		}
		if input.InitialStock == 0 {
			return nil
		}
		return repo.InsertMovement(ctx, &models.StockMovement{
			ID:                uuid.New(),
			InventoryRecordID: record.ID,
			Type:              enums.StockMovementInitial,
			Quantity:          input.InitialStock,
			PreviousStock:     0,
			NewStock:          input.InitialStock,
			Reason:            "Initial stock",
			ActorID:           input.ActorID,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory record")
	}
	return record, nil
}

func (s *service) GetRecord(ctx context.Context, recordID uuid.UUID) (*models.InventoryRecord, error) {
	record, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
	}
	return record, nil
}

func (s *service) FindByVariant(ctx context.Context, key catalog.VariantKey) (*models.InventoryRecord, error) {
	record, err := s.repo.FindByVariant(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no inventory for variant")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
	}
	return record, nil
}

// AddStock raises the stock level and appends a ledger entry.
func (s *service) AddStock(ctx context.Context, input AdjustInput) (*models.InventoryRecord, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	movement := input.Movement
	if movement == "" {
		movement = enums.StockMovementAdded
	}
	return s.applyDelta(ctx, input.RecordID, input.Quantity, movement, input.Reason, input.Notes, input.ActorID)
}

// DeductStock lowers the stock level, never below zero, and appends a ledger
// entry. Shortfalls reject with the available count in the message.
func (s *service) DeductStock(ctx context.Context, input AdjustInput) (*models.InventoryRecord, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	movement := input.Movement
	if movement == "" {
		movement = enums.StockMovementDeducted
	}
	return s.applyDelta(ctx, input.RecordID, -input.Quantity, movement, input.Reason, input.Notes, input.ActorID)
}

// SetStock corrects the level to an absolute target. The ledger entry is
// delta-sized so history still replays to the current stock.
func (s *service) SetStock(ctx context.Context, input SetStockInput) (*models.InventoryRecord, error) {
	if input.Target < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	var out *models.InventoryRecord
	err := s.withStockRetry(ctx, func(ctx context.Context) error {
		record, err := s.GetRecord(ctx, input.RecordID)
		if err != nil {
			return err
		}
		delta := input.Target - record.Stock
		if delta == 0 {
			out = record
			return nil
		}
		movement := enums.StockMovementAdded
		quantity := delta
		if delta < 0 {
			movement = enums.StockMovementDeducted
			quantity = -delta
		}
		if err := s.commitSwap(ctx, record, input.Target, movement, quantity, input.Reason, input.Notes, input.ActorID); err != nil {
			return err
		}
		record.Stock = input.Target
		out = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BulkAddStock applies each addition independently and reports per-item
// outcomes. The call itself never fails; bad lines surface in Failed.
func (s *service) BulkAddStock(ctx context.Context, inputs []AdjustInput) *BulkAddResult {
	result := &BulkAddResult{
		Succeeded: []BulkAddItemResult{},
		Failed:    []BulkAddItemError{},
	}
	for _, input := range inputs {
		record, err := s.AddStock(ctx, input)
		if err != nil {
			appErr := pkgerrors.As(err)
			item := BulkAddItemError{RecordID: input.RecordID, Message: "stock addition failed"}
			if appErr != nil {
				item.Code = string(appErr.Code())
				item.Message = appErr.Message()
			}
			result.Failed = append(result.Failed, item)
			continue
		}
		result.Succeeded = append(result.Succeeded, BulkAddItemResult{
			RecordID: record.ID,
			NewStock: record.Stock,
		})
	}
	return result
}

func (s *service) History(ctx context.Context, recordID uuid.UUID, params pagination.Params) (*MovementList, error) {
	if _, err := s.GetRecord(ctx, recordID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListMovements(ctx, recordID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock movements")
	}
	return list, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*RecordList, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory records")
	}
	return list, nil
}

func (s *service) LowStock(ctx context.Context) ([]models.InventoryRecord, error) {
	records, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock records")
	}
	return records, nil
}

func (s *service) StockStatus(ctx context.Context, productID uuid.UUID) (*StockStatus, error) {
	records, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product inventory")
	}
	if len(records) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no inventory for product")
	}

	status := &StockStatus{
		ProductID: productID,
		Level:     StockLevelOut,
		Variants:  make([]VariantStatus, 0, len(records)),
	}
	anyAboveThreshold := false
	for _, record := range records {
		level := StockLevelOut
		switch {
		case record.Stock > record.LowStockThreshold:
			level = StockLevelIn
			anyAboveThreshold = true
		case record.Stock > 0:
			level = StockLevelLow
		}
		status.Total += record.Stock
		status.Variants = append(status.Variants, VariantStatus{
			RecordID:  record.ID,
			ModelID:   record.ModelID,
			ColorID:   record.ColorID,
			Fragrance: record.Fragrance,
			Stock:     record.Stock,
			Level:     level,
		})
	}
	switch {
	case anyAboveThreshold:
		status.Level = StockLevelIn
	case status.Total > 0:
		status.Level = StockLevelLow
	}
	return status, nil
}

// applyDelta runs one CAS attempt per retry tick: reload, bound-check, swap
// stock and append the movement in a single transaction.
func (s *service) applyDelta(ctx context.Context, recordID uuid.UUID, delta int, movement enums.StockMovementType, reason string, notes *string, actorID *uuid.UUID) (*models.InventoryRecord, error) {
	var out *models.InventoryRecord
	err := s.withStockRetry(ctx, func(ctx context.Context) error {
		record, err := s.GetRecord(ctx, recordID)
		if err != nil {
			return err
		}
		next := record.Stock + delta
		if next < 0 {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("insufficient stock: available %d, requested %d", record.Stock, -delta))
		}
		quantity := delta
		if quantity < 0 {
			quantity = -quantity
		}
		if err := s.commitSwap(ctx, record, next, movement, quantity, reason, notes, actorID); err != nil {
			return err
		}
		record.Stock = next
		out = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) commitSwap(ctx context.Context, record *models.InventoryRecord, next int, movement enums.StockMovementType, quantity int, reason string, notes *string, actorID *uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		swapped, err := repo.CompareAndSetStock(ctx, record.ID, record.Stock, next)
		if err != nil {
			return err
		}
		if !swapped {
			return errStockRace
		}
		return repo.InsertMovement(ctx, &models.StockMovement{
			ID:                uuid.New(),
			InventoryRecordID: record.ID,
			Type:              movement,
			Quantity:          quantity,
			PreviousStock:     record.Stock,
			NewStock:          next,
			Reason:            reason,
			Notes:             notes,
			ActorID:           actorID,
		})
	})
}

// withStockRetry retries fn only when the compare-and-set lost a race.
func (s *service) withStockRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(s.retryAttempts, retry.NewFibonacci(5*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if errors.Is(err, errStockRace) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil && errors.Is(err, errStockRace) {
		s.logg.Warn(ctx, "stock swap exhausted retries")
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "stock busy, retry the request")
	}
	return err
}
