package orders

import (
	"github.com/google/uuid"

	"github.com/scentkart/scentkart-backend/pkg/db/models"
	"github.com/scentkart/scentkart-backend/pkg/enums"
	"github.com/scentkart/scentkart-backend/pkg/types"
)

// OrderItemInput is one variant line submitted at checkout. Prices are never
// part of the input; the service reprices everything from the catalog.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	ModelID   string    `json:"model_id"`
	ColorID   string    `json:"color_id"`
	Fragrance string    `json:"fragrance"`
	Quantity  int       `json:"quantity"`
}

// CreateOrderInput carries a full checkout request.
type CreateOrderInput struct {
	UserID          uuid.UUID
	Items           []OrderItemInput
	ShippingAddress types.Address
	PaymentMethod   enums.PaymentMethod
	CheckoutMode    enums.CheckoutMode
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
