package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/internal/catalog"
	"github.com/scentkart/scentkart-backend/pkg/db/models"
	"github.com/scentkart/scentkart-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:inventory_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.InventoryRecord{}, &models.StockMovement{}))
	return conn
}

func seedRecord(t *testing.T, db *gorm.DB, stock int) models.InventoryRecord {
	t.Helper()
	record := models.InventoryRecord{
		ID:                uuid.New(),
		ProductID:         uuid.New(),
		Fragrance:         models.DefaultFragrance,
		Stock:             stock,
		LowStockThreshold: 5,
		IsActive:          true,
	}
	require.NoError(t, db.Create(&record).Error)
	return record
}

func TestCompareAndSetStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := seedRecord(t, db, 10)

	swapped, err := repo.CompareAndSetStock(ctx, record.ID, 10, 7)
	require.NoError(t, err)
	require.True(t, swapped)

	// Stale expectation loses the race.
	swapped, err = repo.CompareAndSetStock(ctx, record.ID, 10, 4)
	require.NoError(t, err)
	require.False(t, swapped)

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	require.Equal(t, 7, found.Stock)
}

func TestFindByVariant(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	record := models.InventoryRecord{
		ID:        uuid.New(),
		ProductID: productID,
		ModelID:   "100ml",
		ColorID:   "gold",
		Fragrance: "Oud",
		Stock:     3,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&record).Error)

	found, err := repo.FindByVariant(ctx, catalog.VariantKey{
		ProductID: productID,
		ModelID:   "100ml",
		ColorID:   "gold",
		Fragrance: "Oud",
	})
	require.NoError(t, err)
	require.Equal(t, record.ID, found.ID)

	_, err = repo.FindByVariant(ctx, catalog.VariantKey{
		ProductID: productID,
		ModelID:   "100ml",
		ColorID:   "gold",
		Fragrance: models.DefaultFragrance,
	})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListLowStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedRecord(t, db, 3)
	seedRecord(t, db, 5)
	seedRecord(t, db, 20)

	inactive := seedRecord(t, db, 1)
	require.NoError(t, db.Model(&models.InventoryRecord{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	low, err := repo.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	require.LessOrEqual(t, low[0].Stock, low[1].Stock)
}

func TestListMovementsPaginates(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := seedRecord(t, db, 0)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		movement := models.StockMovement{
			ID:                uuid.New(),
			InventoryRecordID: record.ID,
			Type:              "added",
			Quantity:          1,
			PreviousStock:     i,
			NewStock:          i + 1,
			Reason:            "restock",
			CreatedAt:         base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&movement).Error)
	}

	first, err := repo.ListMovements(ctx, record.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Movements, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.ListMovements(ctx, record.ID, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Movements, 1)
	require.Empty(t, second.NextCursor)
}
