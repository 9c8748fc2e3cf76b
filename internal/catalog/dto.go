package catalog

import (
	"github.com/scentkart/scentkart-backend/pkg/db/models"
)

// ProductList wraps a page of products plus the next page cursor.
type ProductList struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}
