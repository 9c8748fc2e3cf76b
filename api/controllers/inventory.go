package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/scentkart/scentkart-backend/api/middleware"
	"github.com/scentkart/scentkart-backend/api/responses"
	"github.com/scentkart/scentkart-backend/api/validators"
	"github.com/scentkart/scentkart-backend/internal/inventory"
	"github.com/scentkart/scentkart-backend/pkg/logger"
)

type createInventoryRequest struct {
	ProductID         uuid.UUID `json:"product_id" validate:"required"`
	ModelID           string    `json:"model_id" validate:"max=64"`
	ColorID           string    `json:"color_id" validate:"max=64"`
	Fragrance         string    `json:"fragrance" validate:"max=64"`
	SKU               *string   `json:"sku,omitempty" validate:"omitempty,max=64"`
	InitialStock      int       `json:"initial_stock" validate:"min=0"`
	LowStockThreshold int       `json:"low_stock_threshold" validate:"min=0"`
}

type adjustStockRequest struct {
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Reason   string  `json:"reason" validate:"required,min=3,max=200"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type setStockRequest struct {
	Stock  int     `json:"stock" validate:"min=0"`
	Reason string  `json:"reason" validate:"required,min=3,max=200"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type bulkAddStockRequest struct {
	Items []bulkAddStockItem `json:"items" validate:"required,min=1,dive"`
}

type bulkAddStockItem struct {
	RecordID uuid.UUID `json:"record_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
	Reason   string    `json:"reason" validate:"required,min=3,max=200"`
}

// InventoryCreate opens stock tracking for one variant.
func InventoryCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createInventoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.CreateRecord(r.Context(), inventory.CreateRecordInput{
			ProductID:         req.ProductID,
			ModelID:           req.ModelID,
			ColorID:           req.ColorID,
			Fragrance:         req.Fragrance,
			SKU:               req.SKU,
			InitialStock:      req.InitialStock,
			LowStockThreshold: req.LowStockThreshold,
			ActorID:           actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func InventoryList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func InventoryDetail(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID, err := parseUUIDParam(r, "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.GetRecord(r.Context(), recordID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// InventoryAddStock raises a variant's stock level.
func InventoryAddStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID, req, err := decodeAdjust(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.AddStock(r.Context(), inventory.AdjustInput{
			RecordID: recordID,
			Quantity: req.Quantity,
			Reason:   req.Reason,
			Notes:    req.Notes,
			ActorID:  actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// InventoryDeductStock lowers a variant's stock level; shortfalls reject.
func InventoryDeductStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID, req, err := decodeAdjust(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.DeductStock(r.Context(), inventory.AdjustInput{
			RecordID: recordID,
			Quantity: req.Quantity,
			Reason:   req.Reason,
			Notes:    req.Notes,
			ActorID:  actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// InventorySetStock corrects a variant to an absolute stock level.
func InventorySetStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID, err := parseUUIDParam(r, "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req setStockRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.SetStock(r.Context(), inventory.SetStockInput{
			RecordID: recordID,
			Target:   req.Stock,
			Reason:   req.Reason,
			Notes:    req.Notes,
			ActorID:  actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// InventoryBulkAddStock applies a batch of additions, reporting per-item
// outcomes with HTTP 200 even when some lines fail.
func InventoryBulkAddStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkAddStockRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inputs := make([]inventory.AdjustInput, 0, len(req.Items))
		for _, item := range req.Items {
			inputs = append(inputs, inventory.AdjustInput{
				RecordID: item.RecordID,
				Quantity: item.Quantity,
				Reason:   item.Reason,
				ActorID:  actorID(r),
			})
		}
		responses.WriteSuccess(w, svc.BulkAddStock(r.Context(), inputs))
	}
}

// InventoryHistory pages through a record's movement ledger.
func InventoryHistory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID, err := parseUUIDParam(r, "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.History(r.Context(), recordID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func InventoryLowStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// ProductStockStatus reports per-variant availability for the storefront.
func ProductStockStatus(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := svc.StockStatus(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

func decodeAdjust(r *http.Request) (uuid.UUID, *adjustStockRequest, error) {
	recordID, err := parseUUIDParam(r, "recordId")
	if err != nil {
		return uuid.Nil, nil, err
	}
	var req adjustStockRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		return uuid.Nil, nil, err
	}
	return recordID, &req, nil
}

// actorID extracts the acting user from the request context, nil when the
// route is unauthenticated.
func actorID(r *http.Request) *uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &parsed
}
