package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/scentkart/scentkart-backend/pkg/config"
)

// Calculator computes line and order amounts from catalog prices. All inputs
// come from the database; amounts submitted by clients are ignored.
type Calculator struct {
	taxPercent            decimal.Decimal
	shippingFee           decimal.Decimal
	freeShippingThreshold decimal.Decimal
}

// NewCalculator builds a calculator from the configured pricing policy.
func NewCalculator(cfg config.PricingConfig) Calculator {
	return Calculator{
		taxPercent:            decimal.NewFromFloat(cfg.TaxPercent),
		shippingFee:           decimal.NewFromFloat(cfg.ShippingFee),
		freeShippingThreshold: decimal.NewFromFloat(cfg.FreeShippingThreshold),
	}
}

// LineQuote is the priced result for one order line.
type LineQuote struct {
	UnitPrice       decimal.Decimal
	OfferUnitPrice  decimal.Decimal
	Quantity        int
	DiscountPercent decimal.Decimal
	Subtotal        decimal.Decimal
	Savings         decimal.Decimal
	Total           decimal.Decimal
}

// OrderQuote aggregates line quotes into order-level amounts.
type OrderQuote struct {
	Subtotal    decimal.Decimal
	Savings     decimal.Decimal
	NetSubtotal decimal.Decimal
	ShippingFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// QuoteLine prices a single line. The discounted unit price is rounded to 2
// places first, then multiplied out, so the per-unit price a customer sees is
// exactly what each unit costs on the order.
func (c Calculator) QuoteLine(unitPrice decimal.Decimal, quantity int, discountPercent decimal.Decimal) LineQuote {
	qty := decimal.NewFromInt(int64(quantity))
	subtotal := unitPrice.Mul(qty).Round(2)
	offerUnit := unitPrice.Mul(hundred.Sub(discountPercent)).Div(hundred).Round(2)
	total := offerUnit.Mul(qty).Round(2)
	return LineQuote{
		UnitPrice:       unitPrice,
		OfferUnitPrice:  offerUnit,
		Quantity:        quantity,
		DiscountPercent: discountPercent,
		Subtotal:        subtotal,
		Savings:         subtotal.Sub(total),
		Total:           total,
	}
}

// QuoteOrder sums line quotes and applies shipping and tax. Shipping is waived
// only when the net subtotal strictly exceeds the free-shipping threshold; an
// order landing exactly on the threshold still pays the fee. Tax applies to
// the net subtotal, not to shipping.
func (c Calculator) QuoteOrder(lines []LineQuote) OrderQuote {
	subtotal := decimal.Zero
	savings := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal)
		savings = savings.Add(line.Savings)
	}

	net := subtotal.Sub(savings)

	shipping := c.shippingFee
	if net.GreaterThan(c.freeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := net.Mul(c.taxPercent).Div(hundred).Round(2)

	return OrderQuote{
		Subtotal:    subtotal,
		Savings:     savings,
		NetSubtotal: net,
		ShippingFee: shipping,
		Tax:         tax,
		Total:       net.Add(shipping).Add(tax),
	}
}
