package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/internal/catalog"
	"github.com/scentkart/scentkart-backend/pkg/db/models"
	"github.com/scentkart/scentkart-backend/pkg/pagination"
)

// Repository defines persistence operations for inventory records and their
// movement ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.InventoryRecord) (*models.InventoryRecord, error)
	FindByID(ctx context.Context, recordID uuid.UUID) (*models.InventoryRecord, error)
	FindByVariant(ctx context.Context, key catalog.VariantKey) (*models.InventoryRecord, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.InventoryRecord, error)
	List(ctx context.Context, params pagination.Params) (*RecordList, error)
	ListLowStock(ctx context.Context) ([]models.InventoryRecord, error)
	CompareAndSetStock(ctx context.Context, recordID uuid.UUID, expected, next int) (bool, error)
	InsertMovement(ctx context.Context, movement *models.StockMovement) error
	ListMovements(ctx context.Context, recordID uuid.UUID, params pagination.Params) (*MovementList, error)
}
