package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scentkart/scentkart-backend/api/responses"
	"github.com/scentkart/scentkart-backend/api/validators"
	"github.com/scentkart/scentkart-backend/internal/catalog"
	"github.com/scentkart/scentkart-backend/internal/offers"
	"github.com/scentkart/scentkart-backend/pkg/logger"
)

type createOfferRequest struct {
	ProductID       uuid.UUID       `json:"product_id" validate:"required"`
	ModelID         string          `json:"model_id" validate:"max=64"`
	ColorID         string          `json:"color_id" validate:"max=64"`
	Label           string          `json:"label" validate:"required,min=2,max=120"`
	Description     *string         `json:"description,omitempty" validate:"omitempty,max=500"`
	DiscountPercent decimal.Decimal `json:"discount_percent" validate:"required"`
	StartDate       time.Time       `json:"start_date" validate:"required"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
}

// AdminOfferCreate opens a discount window on a product or variant scope.
func AdminOfferCreate(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOfferRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offer, err := svc.CreateOffer(r.Context(), offers.CreateOfferInput{
			ProductID:       req.ProductID,
			ModelID:         req.ModelID,
			ColorID:         req.ColorID,
			Label:           req.Label,
			Description:     req.Description,
			DiscountPercent: req.DiscountPercent,
			StartDate:       req.StartDate,
			EndDate:         req.EndDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, offer)
	}
}

// AdminOfferDeactivate retires an offer; the scope becomes free for a new one.
func AdminOfferDeactivate(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offerID, err := parseUUIDParam(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateOffer(r.Context(), offerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// ProductOffers lists every offer ever opened on a product.
func ProductOffers(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListProductOffers(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ProductActiveOffer resolves the offer currently applicable to a variant.
// Returns null data when no offer is live.
func ProductActiveOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		key := catalog.VariantKey{
			ProductID: productID,
			ModelID:   strings.TrimSpace(r.URL.Query().Get("model_id")),
			ColorID:   strings.TrimSpace(r.URL.Query().Get("color_id")),
		}
		offer, err := svc.ActiveOffer(r.Context(), key, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}
