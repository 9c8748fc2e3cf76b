package offers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/pkg/db/models"
)

// Repository defines persistence operations for offers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	FindByID(ctx context.Context, offerID uuid.UUID) (*models.Offer, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Offer, error)
	ListActiveByProduct(ctx context.Context, productID uuid.UUID) ([]models.Offer, error)
	Deactivate(ctx context.Context, offerID uuid.UUID) error
}
