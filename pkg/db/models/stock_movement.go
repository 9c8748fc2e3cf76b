package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/scentkart/scentkart-backend/pkg/enums"
)

// StockMovement is one append-only ledger entry against an inventory record.
// PreviousStock and NewStock freeze the before/after levels so the history
// replays to the current stock without consulting the record.
type StockMovement struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InventoryRecordID uuid.UUID               `gorm:"column:inventory_record_id;type:uuid;not null;index" json:"inventory_record_id"`
	Type              enums.StockMovementType `gorm:"column:type;not null" json:"type"`
	Quantity          int                     `gorm:"column:quantity;not null" json:"quantity"`
	PreviousStock     int                     `gorm:"column:previous_stock;not null" json:"previous_stock"`
	NewStock          int                     `gorm:"column:new_stock;not null" json:"new_stock"`
	Reason            string                  `gorm:"column:reason;not null" json:"reason"`
	Notes             *string                 `gorm:"column:notes" json:"notes,omitempty"`
	ActorID           *uuid.UUID              `gorm:"column:actor_id;type:uuid" json:"actor_id,omitempty"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
