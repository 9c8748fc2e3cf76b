package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/pkg/db/models"
)

// Repository defines persistence operations for the address book.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, addr *models.Address) (*models.Address, error)
	FindByID(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	ClearDefault(ctx context.Context, userID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}
