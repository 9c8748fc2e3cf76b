package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/pkg/db/models"
	"github.com/scentkart/scentkart-backend/pkg/enums"
	"github.com/scentkart/scentkart-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}))
	return conn
}

func seedProduct(t *testing.T, db *gorm.DB, name string, createdAt time.Time, active bool) models.Product {
	t.Helper()
	product := models.Product{
		ID:        uuid.New(),
		Slug:      fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]),
		Name:      name,
		Brand:     "ScentKart",
		Type:      enums.ProductTypeSimple,
		Price:     decimal.NewFromInt(499),
		IsActive:  active,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestRepositoryFindBySlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedProduct(t, db, "Noir Intense", time.Now(), true)

	found, err := repo.FindBySlug(ctx, seeded.Slug)
	require.NoError(t, err)
	require.Equal(t, seeded.ID, found.ID)

	_, err = repo.FindBySlug(ctx, "missing-slug")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListPaginates(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedProduct(t, db, fmt.Sprintf("Product %d", i), base.Add(time.Duration(i)*time.Minute), true)
	}
	seedProduct(t, db, "Hidden", base, false)

	first, err := repo.List(ctx, pagination.Params{Limit: 2}, true)
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor}, true)
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
	require.Empty(t, second.NextCursor)

	all, err := repo.List(ctx, pagination.Params{Limit: 10}, false)
	require.NoError(t, err)
	require.Len(t, all.Products, 4)
}

func TestRepositoryUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedProduct(t, db, "Aqua Mist", time.Now(), true)

	require.NoError(t, repo.Update(ctx, seeded.ID, map[string]any{"is_active": false}))

	found, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.False(t, found.IsActive)
}
