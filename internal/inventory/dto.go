package inventory

import (
	"github.com/google/uuid"

	"github.com/scentkart/scentkart-backend/pkg/db/models"
	"github.com/scentkart/scentkart-backend/pkg/enums"
)

// StockLevel summarizes a product's availability across its variants.
type StockLevel string

const (
	StockLevelIn  StockLevel = "in-stock"
	StockLevelLow StockLevel = "low-stock"
	StockLevelOut StockLevel = "out-of-stock"
)

// RecordList wraps a page of inventory records plus the next page cursor.
type RecordList struct {
	Records    []models.InventoryRecord `json:"records"`
	NextCursor string                   `json:"next_cursor,omitempty"`
}

// MovementList wraps a page of ledger entries plus the next page cursor.
type MovementList struct {
	Movements  []models.StockMovement `json:"movements"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// CreateRecordInput carries the fields accepted when opening a variant's
// inventory. InitialStock seeds the ledger with an "initial" movement.
type CreateRecordInput struct {
	ProductID         uuid.UUID
	ModelID           string
	ColorID           string
	Fragrance         string
	SKU               *string
	InitialStock      int
	LowStockThreshold int
	ActorID           *uuid.UUID
}

// AdjustInput carries one add/deduct mutation against a record.
type AdjustInput struct {
	RecordID uuid.UUID
	Quantity int
	Reason   string
	Notes    *string
	ActorID  *uuid.UUID
	// Movement overrides the default ledger type (added / deducted). The
	// order workflow records deductions as "sold" and restores as "returned".
	Movement enums.StockMovementType
}

// SetStockInput carries an absolute stock correction.
type SetStockInput struct {
	RecordID uuid.UUID
	Target   int
	Reason   string
	Notes    *string
	ActorID  *uuid.UUID
}

// StockStatus reports availability for a product and each of its variants.
type StockStatus struct {
	ProductID uuid.UUID       `json:"product_id"`
	Level     StockLevel      `json:"level"`
	Total     int             `json:"total"`
	Variants  []VariantStatus `json:"variants"`
}

// VariantStatus is one variant row inside a StockStatus report.
type VariantStatus struct {
	RecordID  uuid.UUID  `json:"record_id"`
	ModelID   string     `json:"model_id,omitempty"`
	ColorID   string     `json:"color_id,omitempty"`
	Fragrance string     `json:"fragrance"`
	Stock     int        `json:"stock"`
	Level     StockLevel `json:"level"`
}

// BulkAddResult reports per-item outcomes for a bulk stock addition. The
// request as a whole succeeds; failures ride along per item.
type BulkAddResult struct {
	Succeeded []BulkAddItemResult `json:"succeeded"`
	Failed    []BulkAddItemError  `json:"failed"`
}

// BulkAddItemResult is one successful bulk line.
type BulkAddItemResult struct {
	RecordID uuid.UUID `json:"record_id"`
	NewStock int       `json:"new_stock"`
}

// BulkAddItemError is one failed bulk line.
type BulkAddItemError struct {
	RecordID uuid.UUID `json:"record_id"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
}
