package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem persists one variant selection in a user's cart. The variant tuple
// is unique per user so repeat adds bump quantity instead of duplicating rows.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_user_variant" json:"user_id"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_user_variant" json:"product_id"`
	ModelID   string    `gorm:"column:model_id;not null;default:'';uniqueIndex:idx_cart_user_variant" json:"model_id"`
	ColorID   string    `gorm:"column:color_id;not null;default:'';uniqueIndex:idx_cart_user_variant" json:"color_id"`
	Fragrance string    `gorm:"column:fragrance;not null;default:'Default';uniqueIndex:idx_cart_user_variant" json:"fragrance"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
