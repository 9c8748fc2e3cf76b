package offers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/internal/catalog"
	dbpkg "github.com/scentkart/scentkart-backend/pkg/db"
	"github.com/scentkart/scentkart-backend/pkg/db/models"
	pkgerrors "github.com/scentkart/scentkart-backend/pkg/errors"
	"github.com/scentkart/scentkart-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service resolves the discount that applies to a variant at a point in time
// and manages the offer lifecycle.
type Service interface {
	CreateOffer(ctx context.Context, input CreateOfferInput) (*models.Offer, error)
	DeactivateOffer(ctx context.Context, offerID uuid.UUID) error
	ListProductOffers(ctx context.Context, productID uuid.UUID) ([]models.Offer, error)
	ActiveOffer(ctx context.Context, key catalog.VariantKey, now time.Time) (*models.Offer, error)
	DiscountFor(ctx context.Context, key catalog.VariantKey, now time.Time) (decimal.Decimal, error)
}

// CreateOfferInput carries the fields accepted when opening an offer.
type CreateOfferInput struct {
	ProductID       uuid.UUID
	ModelID         string
	ColorID         string
	Label           string
	Description     *string
	DiscountPercent decimal.Decimal
	StartDate       time.Time
	EndDate         *time.Time
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the offers service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) CreateOffer(ctx context.Context, input CreateOfferInput) (*models.Offer, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if strings.TrimSpace(input.Label) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label required")
	}
	if input.DiscountPercent.LessThan(decimal.Zero) || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	}
	if input.StartDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start date required")
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date precedes start date")
	}

	offer := &models.Offer{
		ID:              uuid.New(),
		ProductID:       input.ProductID,
		ModelID:         input.ModelID,
		ColorID:         input.ColorID,
		Label:           strings.TrimSpace(input.Label),
		Description:     input.Description,
		DiscountPercent: input.DiscountPercent,
		IsActive:        true,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		active, err := repo.ListActiveByProduct(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active offers")
		}
		for _, existing := range active {
			if existing.ModelID == input.ModelID && existing.ColorID == input.ColorID {
				return pkgerrors.New(pkgerrors.CodeConflict, "an active offer already covers this scope")
			}
		}
		if _, err := repo.Create(ctx, offer); err != nil {
			// Racing writers land on the partial unique index.
			if dbpkg.IsUniqueViolation(err, "ux_offers_product_active") {
				return pkgerrors.New(pkgerrors.CodeConflict, "an active offer already covers this scope")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create offer")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *service) DeactivateOffer(ctx context.Context, offerID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, offerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	if err := s.repo.Deactivate(ctx, offerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate offer")
	}
	return nil
}

func (s *service) ListProductOffers(ctx context.Context, productID uuid.UUID) ([]models.Offer, error) {
	offers, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offers")
	}
	return offers, nil
}

// ActiveOffer returns the live offer covering the variant, or nil when none
// applies. A variant-scoped offer beats a product-wide one. Multiple live
// matches at the same scope are a data fault: the latest-updated offer wins
// and the anomaly is logged.
func (s *service) ActiveOffer(ctx context.Context, key catalog.VariantKey, now time.Time) (*models.Offer, error) {
	active, err := s.repo.ListActiveByProduct(ctx, key.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active offers")
	}

	var scoped, productWide []models.Offer
	for _, offer := range active {
		if !offer.IsLive(now) {
			continue
		}
		switch {
		case offer.ModelID == key.ModelID && offer.ColorID == key.ColorID:
			scoped = append(scoped, offer)
		case offer.ModelID == "" && offer.ColorID == "":
			productWide = append(productWide, offer)
		}
	}

	pick := func(matches []models.Offer) *models.Offer {
		if len(matches) == 0 {
			return nil
		}
		// Rows arrive ordered by updated_at DESC.
		if len(matches) > 1 {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"product_id":    key.ProductID.String(),
				"active_offers": len(matches),
			})
			s.logg.Warn(logCtx, "multiple live offers for one scope, using latest-updated")
		}
		return &matches[0]
	}

	if offer := pick(scoped); offer != nil {
		return offer, nil
	}
	return pick(productWide), nil
}

// DiscountFor returns the applicable discount percent, zero when no offer is
// live for the variant.
func (s *service) DiscountFor(ctx context.Context, key catalog.VariantKey, now time.Time) (decimal.Decimal, error) {
	offer, err := s.ActiveOffer(ctx, key, now)
	if err != nil {
		return decimal.Zero, err
	}
	if offer == nil {
		return decimal.Zero, nil
	}
	return offer.DiscountPercent, nil
}
