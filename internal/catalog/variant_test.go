package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/scentkart/scentkart-backend/pkg/db/models"
	"github.com/scentkart/scentkart-backend/pkg/enums"
	pkgerrors "github.com/scentkart/scentkart-backend/pkg/errors"
	"github.com/scentkart/scentkart-backend/pkg/types"
)

func simpleProduct() *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     "Noir Intense",
		Type:     enums.ProductTypeSimple,
		Price:    decimal.NewFromInt(799),
		IsActive: true,
		Colors: []types.ProductColor{
			{ID: "black", Name: "Black"},
			{ID: "gold", Name: "Gold"},
		},
		Fragrances: []string{"Oud", "Amber"},
	}
}

func variableProduct() *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     "Aqua Mist",
		Type:     enums.ProductTypeVariable,
		Price:    decimal.NewFromInt(1299),
		IsActive: true,
		Models: []types.ProductModel{
			{ID: "50ml", Name: "50 ml", Colors: []types.ProductColor{{ID: "blue", Name: "Blue"}}},
			{ID: "100ml", Name: "100 ml"},
		},
	}
}

func TestResolveVariant_Simple(t *testing.T) {
	product := simpleProduct()

	resolved, err := ResolveVariant(product, Selection{ColorID: "gold", Fragrance: "Oud"})
	require.NoError(t, err)
	require.Equal(t, product.ID, resolved.Key.ProductID)
	require.Empty(t, resolved.Key.ModelID)
	require.Equal(t, "gold", resolved.Key.ColorID)
	require.Equal(t, "Oud", resolved.Key.Fragrance)
	require.Equal(t, "Gold", resolved.ColorName)
	require.True(t, resolved.UnitPrice.Equal(decimal.NewFromInt(799)))
}

func TestResolveVariant_SimpleRejectsModel(t *testing.T) {
	_, err := ResolveVariant(simpleProduct(), Selection{ModelID: "50ml", ColorID: "gold"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestResolveVariant_SimpleRequiresColorWhenOptionsExist(t *testing.T) {
	_, err := ResolveVariant(simpleProduct(), Selection{Fragrance: "Oud"})
	require.Error(t, err)

	_, err = ResolveVariant(simpleProduct(), Selection{ColorID: "silver"})
	require.Error(t, err)
}

func TestResolveVariant_Variable(t *testing.T) {
	product := variableProduct()

	resolved, err := ResolveVariant(product, Selection{ModelID: "50ml", ColorID: "blue"})
	require.NoError(t, err)
	require.Equal(t, "50ml", resolved.Key.ModelID)
	require.Equal(t, "blue", resolved.Key.ColorID)
	require.Equal(t, models.DefaultFragrance, resolved.Key.Fragrance)
	require.Equal(t, "50 ml", resolved.ModelName)
}

func TestResolveVariant_VariableRequiresModel(t *testing.T) {
	_, err := ResolveVariant(variableProduct(), Selection{})
	require.Error(t, err)

	_, err = ResolveVariant(variableProduct(), Selection{ModelID: "200ml"})
	require.Error(t, err)
}

func TestResolveVariant_ColorlessModelSkipsColorAxis(t *testing.T) {
	resolved, err := ResolveVariant(variableProduct(), Selection{ModelID: "100ml"})
	require.NoError(t, err)
	require.Empty(t, resolved.Key.ColorID)

	_, err = ResolveVariant(variableProduct(), Selection{ModelID: "100ml", ColorID: "blue"})
	require.Error(t, err)
}

func TestResolveVariant_FragranceDefaultsAndValidates(t *testing.T) {
	product := simpleProduct()

	resolved, err := ResolveVariant(product, Selection{ColorID: "black"})
	require.NoError(t, err)
	require.Equal(t, models.DefaultFragrance, resolved.Key.Fragrance)

	_, err = ResolveVariant(product, Selection{ColorID: "black", Fragrance: "Citrus"})
	require.Error(t, err)
}

func TestResolveVariant_InactiveProduct(t *testing.T) {
	product := simpleProduct()
	product.IsActive = false

	_, err := ResolveVariant(product, Selection{ColorID: "black"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
