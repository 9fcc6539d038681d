package agent

import (
	"github.com/shopspring/decimal"

	"vyapaar-backend/internal/model"
)

var (
	oneHundred = decimal.NewFromInt(100)
	decimalOne = decimal.NewFromInt(1)
)

// ResolvedItem is one priced line ready for posting: the product, the
// quantity, and the rate/tax snapshot that will be frozen into the
// transaction.
type ResolvedItem struct {
	Product  *model.Product
	Quantity decimal.Decimal
	Unit     string
	Rate     decimal.Decimal
	GSTRate  decimal.Decimal
	HSNCode  string
}

// Totals holds document-level amounts at full precision. Rounding to
// two decimals happens only when formatting for display, so per-line
// rounding error never compounds into the total.
type Totals struct {
	Subtotal  decimal.Decimal
	GSTAmount decimal.Decimal
	Total     decimal.Decimal
}

// PriceItems computes each line's amount and tax contribution and the
// exact document totals. Pure: same inputs always yield the same
// outputs.
func PriceItems(items []ResolvedItem) ([]model.TransactionItem, Totals) {
	lines := make([]model.TransactionItem, 0, len(items))
	subtotal := decimal.Zero
	gstAmount := decimal.Zero

	for _, item := range items {
		amount := item.Quantity.Mul(item.Rate)
		lineGST := amount.Mul(item.GSTRate).Div(oneHundred)

		subtotal = subtotal.Add(amount)
		gstAmount = gstAmount.Add(lineGST)

		lines = append(lines, model.TransactionItem{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			Rate:        item.Rate,
			GSTRate:     item.GSTRate,
			HSNCode:     item.HSNCode,
			Amount:      amount,
		})
	}

	return lines, Totals{
		Subtotal:  subtotal,
		GSTAmount: gstAmount,
		Total:     subtotal.Add(gstAmount),
	}
}

// FormatAmount renders a currency amount for display, rounded to two
// decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
