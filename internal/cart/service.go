package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/internal/catalog"
	"github.com/scentkart/scentkart-backend/pkg/db/models"
	pkgerrors "github.com/scentkart/scentkart-backend/pkg/errors"
	"github.com/scentkart/scentkart-backend/pkg/logger"
)

// Service manages the persistent cart and the short-lived buy-now session.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*models.CartItem, error)
	GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
	StartBuyNow(ctx context.Context, userID uuid.UUID, input AddItemInput) (*BuyNowSession, error)
	GetBuyNow(ctx context.Context, userID uuid.UUID) (*BuyNowSession, error)
	ClearBuyNow(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo       Repository
	catalogSvc catalog.Service
	sessions   SessionStore
	sessionTTL time.Duration
	logg       *logger.Logger
}

// NewService builds the cart service with the required dependencies.
func NewService(repo Repository, catalogSvc catalog.Service, sessions SessionStore, sessionTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if sessionTTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:       repo,
		catalogSvc: catalogSvc,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logg:       logg,
	}, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*models.CartItem, error) {
	resolved, err := s.resolve(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: resolved.Key.ProductID,
		ModelID:   resolved.Key.ModelID,
		ColorID:   resolved.Key.ColorID,
		Fragrance: resolved.Key.Fragrance,
		Quantity:  input.Quantity,
	}
	stored, err := s.repo.Upsert(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert cart item")
	}
	return stored, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	return items, nil
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and item id required")
	}
	if err := s.repo.DeleteByID(ctx, userID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	return nil
}

func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := s.repo.DeleteAllByUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// StartBuyNow parks a validated single-item selection in Redis so the
// follow-up order placement can read it back without trusting the client.
func (s *service) StartBuyNow(ctx context.Context, userID uuid.UUID, input AddItemInput) (*BuyNowSession, error) {
	resolved, err := s.resolve(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	session := &BuyNowSession{
		ProductID: resolved.Key.ProductID,
		ModelID:   resolved.Key.ModelID,
		ColorID:   resolved.Key.ColorID,
		Fragrance: resolved.Key.Fragrance,
		Quantity:  input.Quantity,
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode buy-now session")
	}
	if err := s.sessions.StoreBuyNowSession(ctx, userID.String(), string(payload), s.sessionTTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store buy-now session")
	}
	return session, nil
}

func (s *service) GetBuyNow(ctx context.Context, userID uuid.UUID) (*BuyNowSession, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	payload, err := s.sessions.GetBuyNowSession(ctx, userID.String())
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "buy-now session expired or missing")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buy-now session")
	}
	var session BuyNowSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode buy-now session")
	}
	return &session, nil
}

func (s *service) ClearBuyNow(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := s.sessions.ClearBuyNowSession(ctx, userID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear buy-now session")
	}
	return nil
}

func (s *service) resolve(ctx context.Context, userID uuid.UUID, input AddItemInput) (*catalog.ResolvedVariant, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return s.catalogSvc.Resolve(ctx, input.ProductID, catalog.Selection{
		ModelID:   input.ModelID,
		ColorID:   input.ColorID,
		Fragrance: input.Fragrance,
	})
}
