package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scentkart/scentkart-backend/pkg/db/models"
	"github.com/scentkart/scentkart-backend/pkg/enums"
	pkgerrors "github.com/scentkart/scentkart-backend/pkg/errors"
	"github.com/scentkart/scentkart-backend/pkg/types"
)

// VariantKey identifies one purchasable inventory row. ModelID and ColorID
// are empty strings when the axis does not apply to the product.
type VariantKey struct {
	ProductID uuid.UUID
	ModelID   string
	ColorID   string
	Fragrance string
}

// Selection is the raw variant choice submitted by a client.
type Selection struct {
	ModelID   string
	ColorID   string
	Fragrance string
}

// ResolvedVariant carries the canonical key plus the display fields and unit
// price frozen onto order lines.
type ResolvedVariant struct {
	Key         VariantKey
	ProductName string
	ModelName   string
	ColorName   string
	UnitPrice   decimal.Decimal
}

// ResolveVariant validates a selection against the product's shape and
// returns the canonical variant. Simple products reject a model selection;
// variable products require one. A missing fragrance resolves to the default.
func ResolveVariant(product *models.Product, sel Selection) (*ResolvedVariant, error) {
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	fragrance, err := resolveFragrance(product, sel.Fragrance)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedVariant{
		Key: VariantKey{
			ProductID: product.ID,
			Fragrance: fragrance,
		},
		ProductName: product.Name,
		UnitPrice:   product.Price,
	}

	switch product.Type {
	case enums.ProductTypeSimple:
		if sel.ModelID != "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product has no models")
		}
		color, err := matchColor(product.Colors, sel.ColorID)
		if err != nil {
			return nil, err
		}
		if color != nil {
			resolved.Key.ColorID = color.ID
			resolved.ColorName = color.Name
		}

	case enums.ProductTypeVariable:
		if sel.ModelID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "model selection required")
		}
		model := findModel(product.Models, sel.ModelID)
		if model == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown model %q", sel.ModelID))
		}
		resolved.Key.ModelID = model.ID
		resolved.ModelName = model.Name
		color, err := matchColor(model.Colors, sel.ColorID)
		if err != nil {
			return nil, err
		}
		if color != nil {
			resolved.Key.ColorID = color.ID
			resolved.ColorName = color.Name
		}

	default:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unknown product type %q", product.Type))
	}

	return resolved, nil
}

func resolveFragrance(product *models.Product, requested string) (string, error) {
	if requested == "" {
		return models.DefaultFragrance, nil
	}
	if requested == models.DefaultFragrance {
		return models.DefaultFragrance, nil
	}
	for _, f := range product.Fragrances {
		if f == requested {
			return requested, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown fragrance %q", requested))
}

func findModel(ms []types.ProductModel, id string) *types.ProductModel {
	for i := range ms {
		if ms[i].ID == id {
			return &ms[i]
		}
	}
	return nil
}

// matchColor returns the selected color, nil when the product axis is unused.
// A selection is required whenever the color list is non-empty.
func matchColor(colors []types.ProductColor, id string) (*types.ProductColor, error) {
	if len(colors) == 0 {
		if id != "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product has no color options")
		}
		return nil, nil
	}
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "color selection required")
	}
	for i := range colors {
		if colors[i].ID == id {
			return &colors[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown color %q", id))
}
