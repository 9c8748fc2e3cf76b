package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/pkg/db/models"
	pkgerrors "github.com/scentkart/scentkart-backend/pkg/errors"
	"github.com/scentkart/scentkart-backend/pkg/logger"
	"github.com/scentkart/scentkart-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages a user's saved shipping addresses.
type Service interface {
	CreateAddress(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*models.Address, error)
	GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, updates map[string]any) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error
}

// CreateAddressInput carries the fields accepted when saving an address.
type CreateAddressInput struct {
	FullName   string
	Phone      string
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the address service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) CreateAddress(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	country := strings.TrimSpace(input.Country)
	if country == "" {
		country = "IN"
	}
	addr := &models.Address{
		ID:         uuid.New(),
		UserID:     userID,
		FullName:   strings.TrimSpace(input.FullName),
		Phone:      strings.TrimSpace(input.Phone),
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      input.Line2,
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Country:    country,
		IsDefault:  input.IsDefault,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
		} else {
			// The first saved address becomes the default.
			existing, err := repo.ListByUser(ctx, userID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
			}
			if len(existing) == 0 {
				addr.IsDefault = true
			}
		}
		if _, err := repo.Create(ctx, addr); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *service) GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	addr, err := s.repo.FindByID(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return addr, nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	addrs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return addrs, nil
}

func (s *service) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, updates map[string]any) (*models.Address, error) {
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updates provided")
	}
	// The default flag moves through SetDefaultAddress so the
	// one-default-per-user invariant cannot be bypassed.
	delete(updates, "is_default")
	if err := s.repo.Update(ctx, userID, addressID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return s.GetAddress(ctx, userID, addressID)
}

func (s *service) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

// SetDefaultAddress flips the default flag to the given address, clearing the
// previous default in the same transaction.
func (s *service) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, userID, addressID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}
		if err := repo.ClearDefault(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
		}
		if err := repo.SetDefault(ctx, userID, addressID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
		}
		return nil
	})
}

// Snapshot converts a saved address into the form frozen onto orders.
func Snapshot(addr *models.Address) types.Address {
	snapshot := types.Address{
		FullName:   addr.FullName,
		Phone:      addr.Phone,
		Line1:      addr.Line1,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}
	if addr.Line2 != nil {
		snapshot.Line2 = *addr.Line2
	}
	return snapshot
}

func validateInput(input CreateAddressInput) error {
	switch {
	case strings.TrimSpace(input.FullName) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "full name required")
	case strings.TrimSpace(input.Phone) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "phone required")
	case strings.TrimSpace(input.Line1) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "address line required")
	case strings.TrimSpace(input.City) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "city required")
	case strings.TrimSpace(input.State) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "state required")
	case strings.TrimSpace(input.PostalCode) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "postal code required")
	}
	return nil
}
