package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/pkg/db/models"
)

// Repository defines persistence operations for cart items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	DeleteByID(ctx context.Context, userID, itemID uuid.UUID) error
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
}

// SessionStore is the expiring KV surface backing buy-now sessions.
type SessionStore interface {
	StoreBuyNowSession(ctx context.Context, userID, payload string, ttl time.Duration) error
	GetBuyNowSession(ctx context.Context, userID string) (string, error)
	ClearBuyNowSession(ctx context.Context, userID string) error
}
