package enums

import "fmt"

// StockMovementType classifies an entry in an inventory record's ledger.
type StockMovementType string

const (
	StockMovementAdded    StockMovementType = "added"
	StockMovementDeducted StockMovementType = "deducted"
	StockMovementAdjusted StockMovementType = "adjusted"
	StockMovementInitial  StockMovementType = "initial"
	StockMovementSold     StockMovementType = "sold"
	StockMovementReturned StockMovementType = "returned"
)

var validStockMovementTypes = []StockMovementType{
	StockMovementAdded,
	StockMovementDeducted,
	StockMovementAdjusted,
	StockMovementInitial,
	StockMovementSold,
	StockMovementReturned,
}

// IsValid reports whether the value is a known StockMovementType.
func (s StockMovementType) IsValid() bool {
	for _, candidate := range validStockMovementTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockMovementType converts raw input into a StockMovementType.
func ParseStockMovementType(value string) (StockMovementType, error) {
	for _, candidate := range validStockMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock movement type %q", value)
}
