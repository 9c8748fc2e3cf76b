package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultFragrance is the fragrance key used when a variant has no explicit
// fragrance selection. Stored as a concrete value so the variant unique index
// stays honest (NULLs never collide in Postgres).
const DefaultFragrance = "Default"

// InventoryRecord tracks purchasable stock for one product variant. ModelID
// and ColorID are empty strings, not NULLs, when the axis does not apply.
type InventoryRecord struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID         uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_inventory_variant" json:"product_id"`
	ModelID           string          `gorm:"column:model_id;not null;default:'';uniqueIndex:idx_inventory_variant" json:"model_id"`
	ColorID           string          `gorm:"column:color_id;not null;default:'';uniqueIndex:idx_inventory_variant" json:"color_id"`
	Fragrance         string          `gorm:"column:fragrance;not null;default:'Default';uniqueIndex:idx_inventory_variant" json:"fragrance"`
	SKU               *string         `gorm:"column:sku" json:"sku,omitempty"`
	Stock             int             `gorm:"column:stock;not null;default:0" json:"stock"`
	LowStockThreshold int             `gorm:"column:low_stock_threshold;not null;default:5" json:"low_stock_threshold"`
	IsActive          bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Movements         []StockMovement `gorm:"foreignKey:InventoryRecordID;constraint:OnDelete:CASCADE" json:"movements,omitempty"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// IsLowStock reports whether the record sits at or below its threshold.
func (r InventoryRecord) IsLowStock() bool {
	return r.Stock <= r.LowStockThreshold
}
