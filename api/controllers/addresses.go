package controllers

import (
	"net/http"

	"github.com/scentkart/scentkart-backend/api/responses"
	"github.com/scentkart/scentkart-backend/api/validators"
	"github.com/scentkart/scentkart-backend/internal/address"
	"github.com/scentkart/scentkart-backend/pkg/logger"
)

type createAddressRequest struct {
	FullName   string  `json:"full_name" validate:"required,min=2,max=120"`
	Phone      string  `json:"phone" validate:"required,min=8,max=20"`
	Line1      string  `json:"line1" validate:"required,min=3,max=200"`
	Line2      *string `json:"line2,omitempty" validate:"omitempty,max=200"`
	City       string  `json:"city" validate:"required,max=100"`
	State      string  `json:"state" validate:"required,max=100"`
	PostalCode string  `json:"postal_code" validate:"required,min=4,max=12"`
	Country    string  `json:"country" validate:"omitempty,max=60"`
	IsDefault  bool    `json:"is_default"`
}

type updateAddressRequest struct {
	FullName   *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=120"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,min=8,max=20"`
	Line1      *string `json:"line1,omitempty" validate:"omitempty,min=3,max=200"`
	Line2      *string `json:"line2,omitempty" validate:"omitempty,max=200"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State      *string `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code,omitempty" validate:"omitempty,min=4,max=12"`
	Country    *string `json:"country,omitempty" validate:"omitempty,max=60"`
}

func AddressList(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addresses, err := svc.ListAddresses(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addresses)
	}
}

// AddressCreate saves a shipping address. The first saved address becomes
// the default automatically.
func AddressCreate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req createAddressRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addr, err := svc.CreateAddress(r.Context(), userID, address.CreateAddressInput{
			FullName:   req.FullName,
			Phone:      req.Phone,
			Line1:      req.Line1,
			Line2:      req.Line2,
			City:       req.City,
			State:      req.State,
			PostalCode: req.PostalCode,
			Country:    req.Country,
			IsDefault:  req.IsDefault,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, addr)
	}
}

func AddressDetail(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := parseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addr, err := svc.GetAddress(r.Context(), userID, addressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addr)
	}
}

// AddressUpdate applies a partial update. The default flag only moves
// through AddressSetDefault.
func AddressUpdate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := parseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateAddressRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updates := map[string]any{}
		if req.FullName != nil {
			updates["full_name"] = validators.SanitizeString(*req.FullName, 120)
		}
		if req.Phone != nil {
			updates["phone"] = validators.SanitizeString(*req.Phone, 20)
		}
		if req.Line1 != nil {
			updates["line1"] = validators.SanitizeString(*req.Line1, 200)
		}
		if req.Line2 != nil {
			updates["line2"] = validators.SanitizeString(*req.Line2, 200)
		}
		if req.City != nil {
			updates["city"] = validators.SanitizeString(*req.City, 100)
		}
		if req.State != nil {
			updates["state"] = validators.SanitizeString(*req.State, 100)
		}
		if req.PostalCode != nil {
			updates["postal_code"] = validators.SanitizeString(*req.PostalCode, 12)
		}
		if req.Country != nil {
			updates["country"] = validators.SanitizeString(*req.Country, 60)
		}

		addr, err := svc.UpdateAddress(r.Context(), userID, addressID, updates)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addr)
	}
}

func AddressDelete(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := parseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteAddress(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AddressSetDefault promotes one address to the caller's default.
func AddressSetDefault(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := parseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetDefaultAddress(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "default updated"})
	}
}
