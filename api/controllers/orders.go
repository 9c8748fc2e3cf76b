package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/scentkart/scentkart-backend/api/responses"
	"github.com/scentkart/scentkart-backend/api/validators"
	"github.com/scentkart/scentkart-backend/internal/cart"
	"github.com/scentkart/scentkart-backend/internal/orders"
	"github.com/scentkart/scentkart-backend/pkg/enums"
	pkgerrors "github.com/scentkart/scentkart-backend/pkg/errors"
	"github.com/scentkart/scentkart-backend/pkg/logger"
	"github.com/scentkart/scentkart-backend/pkg/types"
)

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items" validate:"omitempty,dive"`
	ShippingAddress types.Address      `json:"shipping_address" validate:"required"`
	PaymentMethod   string             `json:"payment_method" validate:"required,oneof=cod card upi"`
	CheckoutMode    string             `json:"checkout_mode" validate:"omitempty,oneof=cart buy-now"`
}

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	ModelID   string `json:"model_id" validate:"max=64"`
	ColorID   string `json:"color_id" validate:"max=64"`
	Fragrance string `json:"fragrance" validate:"max=64"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=50"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderCreate places an order. Cart checkouts price the submitted items; a
// buy-now checkout ignores the body items and consumes the parked session.
func OrderCreate(svc orders.Service, cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode := enums.CheckoutModeCart
		if req.CheckoutMode != "" {
			mode, err = enums.ParseCheckoutMode(req.CheckoutMode)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid checkout mode"))
				return
			}
		}
		method, err := enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		items, err := checkoutItems(r, req, mode, cartSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), orders.CreateOrderInput{
			UserID:          userID,
			Items:           items,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   method,
			CheckoutMode:    mode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListOrders(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderCancel cancels the caller's order and restores its stock.
func OrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req cancelOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.CancelOrder(r.Context(), userID, orderID, validators.SanitizeString(req.Reason, 500))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminOrderDetail loads any order regardless of owner.
func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), uuid.Nil, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminOrderStatusUpdate advances an order through its lifecycle.
func AdminOrderStatusUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}
		order, err := svc.UpdateStatus(r.Context(), orderID, status, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// checkoutItems resolves the order lines for the chosen checkout mode.
func checkoutItems(r *http.Request, req createOrderRequest, mode enums.CheckoutMode, cartSvc cart.Service) ([]orders.OrderItemInput, error) {
	userID, err := requestUserID(r)
	if err != nil {
		return nil, err
	}
	if mode == enums.CheckoutModeBuyNow {
		session, err := cartSvc.GetBuyNow(r.Context(), userID)
		if err != nil {
			return nil, err
		}
		return []orders.OrderItemInput{{
			ProductID: session.ProductID,
			ModelID:   session.ModelID,
			ColorID:   session.ColorID,
			Fragrance: session.Fragrance,
			Quantity:  session.Quantity,
		}}, nil
	}

	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	items := make([]orders.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_id")
		}
		items = append(items, orders.OrderItemInput{
			ProductID: productID,
			ModelID:   item.ModelID,
			ColorID:   item.ColorID,
			Fragrance: item.Fragrance,
			Quantity:  item.Quantity,
		})
	}
	return items, nil
}
