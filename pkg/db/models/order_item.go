package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is a per-line snapshot taken at checkout. Unit price and discount
// are frozen here so later catalog or offer edits never rewrite an order.
type OrderItem struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID           uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ProductID         uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	InventoryRecordID uuid.UUID       `gorm:"column:inventory_record_id;type:uuid;not null" json:"inventory_record_id"`
	ProductName       string          `gorm:"column:product_name;not null" json:"product_name"`
	ModelID           string          `gorm:"column:model_id;not null;default:''" json:"model_id"`
	ColorID           string          `gorm:"column:color_id;not null;default:''" json:"color_id"`
	Fragrance         string          `gorm:"column:fragrance;not null;default:'Default'" json:"fragrance"`
	Quantity          int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice         decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	DiscountPercent   decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null" json:"discount_percent"`
	LineSubtotal      decimal.Decimal `gorm:"column:line_subtotal;type:numeric(12,2);not null" json:"line_subtotal"`
	LineSavings       decimal.Decimal `gorm:"column:line_savings;type:numeric(12,2);not null" json:"line_savings"`
	LineTotal         decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null" json:"line_total"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
