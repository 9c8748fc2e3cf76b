package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/pkg/db/models"
	"github.com/scentkart/scentkart-backend/pkg/enums"
	pkgerrors "github.com/scentkart/scentkart-backend/pkg/errors"
	"github.com/scentkart/scentkart-backend/pkg/logger"
	"github.com/scentkart/scentkart-backend/pkg/pagination"
	"github.com/scentkart/scentkart-backend/pkg/types"
)

// Service exposes catalog reads plus the variant resolution used by checkout.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]any) (*models.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, activeOnly bool) (*ProductList, error)
	Resolve(ctx context.Context, productID uuid.UUID, sel Selection) (*ResolvedVariant, error)
}

// CreateProductInput carries the fields accepted when listing a product.
type CreateProductInput struct {
	Slug           string
	Name           string
	Brand          string
	Description    *string
	Type           enums.ProductType
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Colors         []types.ProductColor
	Models         []types.ProductModel
	Fragrances     []string
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product type %q", input.Type))
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.Type == enums.ProductTypeSimple && len(input.Models) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "simple products cannot carry models")
	}
	if input.Type == enums.ProductTypeVariable && len(input.Models) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variable products require at least one model")
	}

	product := &models.Product{
		ID:             uuid.New(),
		Slug:           strings.TrimSpace(input.Slug),
		Name:           strings.TrimSpace(input.Name),
		Brand:          strings.TrimSpace(input.Brand),
		Description:    input.Description,
		Type:           input.Type,
		Price:          input.Price,
		CompareAtPrice: input.CompareAtPrice,
		Colors:         input.Colors,
		Models:         input.Models,
		Fragrances:     input.Fragrances,
		IsActive:       true,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]any) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updates provided")
	}
	if err := s.repo.Update(ctx, productID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.GetProduct(ctx, productID)
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, activeOnly bool) (*ProductList, error) {
	list, err := s.repo.List(ctx, params, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) Resolve(ctx context.Context, productID uuid.UUID, sel Selection) (*ResolvedVariant, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ResolveVariant(product, sel)
}
