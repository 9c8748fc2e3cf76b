package cart

import (
	"time"

	"github.com/google/uuid"
)

// AddItemInput carries one variant selection being added to the cart.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	ModelID   string    `json:"model_id"`
	ColorID   string    `json:"color_id"`
	Fragrance string    `json:"fragrance"`
	Quantity  int       `json:"quantity"`
}

// BuyNowSession is the single-item checkout context parked in Redis between
// the buy-now tap and order placement.
type BuyNowSession struct {
	ProductID uuid.UUID `json:"product_id"`
	ModelID   string    `json:"model_id"`
	ColorID   string    `json:"color_id"`
	Fragrance string    `json:"fragrance"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}
