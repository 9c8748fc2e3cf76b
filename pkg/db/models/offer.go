package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Offer is a percentage discount scoped to a variant selection. ModelID and
// ColorID empty means the offer covers the whole product. At most one active
// offer may cover a scope at a time; the window is inclusive on both ends and
// open-ended when EndDate is nil.
type Offer struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	ModelID         string          `gorm:"column:model_id;not null;default:''" json:"model_id"`
	ColorID         string          `gorm:"column:color_id;not null;default:''" json:"color_id"`
	Label           string          `gorm:"column:label;not null" json:"label"`
	Description     *string         `gorm:"column:description" json:"description,omitempty"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null" json:"discount_percent"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	StartDate       time.Time       `gorm:"column:start_date;not null" json:"start_date"`
	EndDate         *time.Time      `gorm:"column:end_date" json:"end_date,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// IsLive reports whether the offer applies at the given instant.
func (o Offer) IsLive(now time.Time) bool {
	if !o.IsActive {
		return false
	}
	if now.Before(o.StartDate) {
		return false
	}
	if o.EndDate != nil && now.After(*o.EndDate) {
		return false
	}
	return true
}
