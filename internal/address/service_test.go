package address

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/pkg/db/models"
	pkgerrors "github.com/scentkart/scentkart-backend/pkg/errors"
	"github.com/scentkart/scentkart-backend/pkg/logger"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:address_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Address{}))

	logg := logger.New(logger.Options{ServiceName: "address-test", Output: io.Discard})
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, logg)
	require.NoError(t, err)
	return svc, db
}

func validInput() CreateAddressInput {
	return CreateAddressInput{
		FullName:   "Asha Rao",
		Phone:      "+91-9000000000",
		Line1:      "14 Lavender Lane",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
	}
}

func TestCreateAddress_FirstBecomesDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.CreateAddress(ctx, userID, validInput())
	require.NoError(t, err)
	require.True(t, first.IsDefault)
	require.Equal(t, "IN", first.Country)

	second, err := svc.CreateAddress(ctx, userID, validInput())
	require.NoError(t, err)
	require.False(t, second.IsDefault)
}

func TestCreateAddress_DefaultFlagMoves(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.CreateAddress(ctx, userID, validInput())
	require.NoError(t, err)

	input := validInput()
	input.IsDefault = true
	second, err := svc.CreateAddress(ctx, userID, input)
	require.NoError(t, err)
	require.True(t, second.IsDefault)

	reloaded, err := svc.GetAddress(ctx, userID, first.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsDefault)
}

func TestSetDefaultAddress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.CreateAddress(ctx, userID, validInput())
	require.NoError(t, err)
	second, err := svc.CreateAddress(ctx, userID, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.SetDefaultAddress(ctx, userID, second.ID))

	addrs, err := svc.ListAddresses(ctx, userID)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	require.Equal(t, second.ID, addrs[0].ID)
	require.True(t, addrs[0].IsDefault)
	require.False(t, addrs[1].IsDefault)

	_, reloadErr := svc.GetAddress(ctx, userID, first.ID)
	require.NoError(t, reloadErr)

	err = svc.SetDefaultAddress(ctx, userID, uuid.New())
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateAddress_IgnoresDefaultFlag(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	addr, err := svc.CreateAddress(ctx, userID, validInput())
	require.NoError(t, err)

	updated, err := svc.UpdateAddress(ctx, userID, addr.ID, map[string]any{
		"city":       "Mysuru",
		"is_default": false,
	})
	require.NoError(t, err)
	require.Equal(t, "Mysuru", updated.City)
	require.True(t, updated.IsDefault)
}

func TestDeleteAddress_ScopedToUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	addr, err := svc.CreateAddress(ctx, owner, validInput())
	require.NoError(t, err)

	err = svc.DeleteAddress(ctx, uuid.New(), addr.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	require.NoError(t, svc.DeleteAddress(ctx, owner, addr.ID))
}

func TestCreateAddress_Validates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := validInput()
	input.City = " "
	_, err := svc.CreateAddress(ctx, uuid.New(), input)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
