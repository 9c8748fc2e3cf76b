package enums

import "fmt"

// CheckoutMode records whether an order came from the persistent cart or a
// one-off buy-now flow.
type CheckoutMode string

const (
	CheckoutModeCart   CheckoutMode = "cart"
	CheckoutModeBuyNow CheckoutMode = "buy-now"
)

var validCheckoutModes = []CheckoutMode{
	CheckoutModeCart,
	CheckoutModeBuyNow,
}

// IsValid reports whether the value is a known CheckoutMode.
func (c CheckoutMode) IsValid() bool {
	for _, candidate := range validCheckoutModes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutMode converts raw input into a CheckoutMode.
func ParseCheckoutMode(value string) (CheckoutMode, error) {
	for _, candidate := range validCheckoutModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout mode %q", value)
}
