// File path: internal/document/totals.go
package document

import "math"

// LineTotal returns qty*unit_price minus the clamped discount for one item.
func LineTotal(item LineItem) float64 {
	gross := item.Qty * item.UnitPrice
	discount := clampDiscount(item.Discount, gross)
	return gross - discount
}

// ComputeTotals derives the aggregate totals from line items. Subtotal
// accumulates per-line totals net of discount; discount_total is reported
// separately and not subtracted again. Intermediate
// sums carry full precision; only the returned fields are rounded to two
// decimal places. Round-off, when enabled, rounds the grand total to the
// nearest integer, half away from zero.
func ComputeTotals(items []LineItem, shipping float64, roundOffEnabled bool) Totals {
	var subtotal, discountTotal, taxTotal float64
	for _, item := range items {
		gross := item.Qty * item.UnitPrice
		discount := clampDiscount(item.Discount, gross)
		net := gross - discount
		rate := item.TaxRate
		if rate < 0 {
			rate = 0
		}
		subtotal += net
		discountTotal += discount
		taxTotal += net * rate / 100
	}
	if shipping < 0 {
		shipping = 0
	}
	raw := subtotal + taxTotal + shipping
	var roundOff float64
	grand := raw
	if roundOffEnabled {
		roundOff = math.Round(raw) - raw
		grand = raw + roundOff
	}
	grand = round2(grand)
	return Totals{
		Subtotal:      round2(subtotal),
		DiscountTotal: round2(discountTotal),
		TaxTotal:      round2(taxTotal),
		Shipping:      round2(shipping),
		RoundOff:      round2(roundOff),
		GrandTotal:    grand,
		AmountInWords: AmountInWords(grand),
	}
}

func clampDiscount(discount, gross float64) float64 {
	if discount < 0 {
		return 0
	}
	if discount > gross {
		return gross
	}
	return discount
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
