package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/scentkart/scentkart-backend/pkg/config"
)

func testCalculator() Calculator {
	return NewCalculator(config.PricingConfig{
		TaxPercent:            18,
		ShippingFee:           50,
		FreeShippingThreshold: 1000,
	})
}

func TestQuoteLine_AppliesDiscount(t *testing.T) {
	calc := testCalculator()

	line := calc.QuoteLine(decimal.NewFromInt(500), 2, decimal.NewFromInt(20))
	require.True(t, line.Subtotal.Equal(decimal.NewFromInt(1000)), "subtotal %s", line.Subtotal)
	require.True(t, line.Savings.Equal(decimal.NewFromInt(200)), "savings %s", line.Savings)
	require.True(t, line.Total.Equal(decimal.NewFromInt(800)), "total %s", line.Total)
}

func TestQuoteLine_RoundsToTwoPlaces(t *testing.T) {
	calc := testCalculator()

	line := calc.QuoteLine(decimal.NewFromFloat(99.99), 3, decimal.NewFromFloat(12.5))
	require.Equal(t, "299.97", line.Subtotal.StringFixed(2))
	require.Equal(t, "37.50", line.Savings.StringFixed(2))
	require.Equal(t, "262.47", line.Total.StringFixed(2))
}

func TestQuoteOrder_ChargesShippingBelowThreshold(t *testing.T) {
	calc := testCalculator()

	line := calc.QuoteLine(decimal.NewFromInt(500), 2, decimal.NewFromInt(20))
	quote := calc.QuoteOrder([]LineQuote{line})

	require.Equal(t, "800.00", quote.NetSubtotal.StringFixed(2))
	require.Equal(t, "50.00", quote.ShippingFee.StringFixed(2))
	require.Equal(t, "144.00", quote.Tax.StringFixed(2))
	require.Equal(t, "994.00", quote.Total.StringFixed(2))
}

func TestQuoteOrder_ThresholdIsStrict(t *testing.T) {
	calc := testCalculator()

	// Net subtotal lands exactly on 1000: shipping still applies.
	exact := calc.QuoteLine(decimal.NewFromInt(1000), 1, decimal.Zero)
	quote := calc.QuoteOrder([]LineQuote{exact})
	require.Equal(t, "1000.00", quote.NetSubtotal.StringFixed(2))
	require.Equal(t, "50.00", quote.ShippingFee.StringFixed(2))

	// One paisa over the threshold waives the fee.
	over := calc.QuoteLine(decimal.NewFromFloat(1000.01), 1, decimal.Zero)
	quote = calc.QuoteOrder([]LineQuote{over})
	require.Equal(t, "0.00", quote.ShippingFee.StringFixed(2))
}

func TestQuoteOrder_TaxExcludesShipping(t *testing.T) {
	calc := testCalculator()

	line := calc.QuoteLine(decimal.NewFromInt(100), 1, decimal.Zero)
	quote := calc.QuoteOrder([]LineQuote{line})

	// 18% of 100, not of 150.
	require.Equal(t, "18.00", quote.Tax.StringFixed(2))
	require.Equal(t, "168.00", quote.Total.StringFixed(2))
}

func TestQuoteOrder_MultipleLines(t *testing.T) {
	calc := testCalculator()

	lines := []LineQuote{
		calc.QuoteLine(decimal.NewFromInt(750), 2, decimal.NewFromInt(10)),
		calc.QuoteLine(decimal.NewFromFloat(249.50), 1, decimal.Zero),
	}
	quote := calc.QuoteOrder(lines)

	require.Equal(t, "1749.50", quote.Subtotal.StringFixed(2))
	require.Equal(t, "150.00", quote.Savings.StringFixed(2))
	require.Equal(t, "1599.50", quote.NetSubtotal.StringFixed(2))
	require.Equal(t, "0.00", quote.ShippingFee.StringFixed(2))
	require.Equal(t, "287.91", quote.Tax.StringFixed(2))
	require.Equal(t, "1887.41", quote.Total.StringFixed(2))
}

func TestQuoteOrder_IsDeterministic(t *testing.T) {
	calc := testCalculator()

	lines := []LineQuote{
		calc.QuoteLine(decimal.NewFromFloat(333.33), 3, decimal.NewFromFloat(7.5)),
	}
	first := calc.QuoteOrder(lines)
	second := calc.QuoteOrder(lines)

	require.True(t, first.Total.Equal(second.Total))
	require.True(t, first.Tax.Equal(second.Tax))
}
