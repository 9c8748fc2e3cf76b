package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scentkart/scentkart-backend/pkg/enums"
	"github.com/scentkart/scentkart-backend/pkg/types"
)

// Product represents a storefront listing. Simple products expose colors
// directly; variable products nest colors under models. Purchasable stock is
// tracked per variant in InventoryRecord, never on the product itself.
type Product struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug           string               `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Name           string               `gorm:"column:name;not null" json:"name"`
	Brand          string               `gorm:"column:brand;not null" json:"brand"`
	Description    *string              `gorm:"column:description" json:"description,omitempty"`
	Type           enums.ProductType    `gorm:"column:type;not null;default:'simple'" json:"type"`
	Price          decimal.Decimal      `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	CompareAtPrice *decimal.Decimal     `gorm:"column:compare_at_price;type:numeric(12,2)" json:"compare_at_price,omitempty"`
	Colors         []types.ProductColor `gorm:"column:colors;type:jsonb;serializer:json" json:"colors"`
	Models         []types.ProductModel `gorm:"column:models;type:jsonb;serializer:json" json:"models"`
	Fragrances     []string             `gorm:"column:fragrances;type:jsonb;serializer:json" json:"fragrances"`
	IsActive       bool                 `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
