// File path: internal/document/totals_test.go
package document

import (
	"math"
	"reflect"
	"testing"
)

func TestComputeTotalsReferenceItems(t *testing.T) {
	items := []LineItem{
		{Description: "Design", Qty: 1, UnitPrice: 28000, TaxRate: 18},
		{Description: "Development", Qty: 1, UnitPrice: 9000, TaxRate: 18},
	}
	totals := ComputeTotals(items, 0, true)
	if totals.Subtotal != 37000 {
		t.Fatalf("unexpected subtotal: %v", totals.Subtotal)
	}
	if totals.TaxTotal != 6660 {
		t.Fatalf("unexpected tax total: %v", totals.TaxTotal)
	}
	if totals.GrandTotal != 43660 {
		t.Fatalf("unexpected grand total: %v", totals.GrandTotal)
	}
	if totals.RoundOff != 0 {
		t.Fatalf("expected zero round off, got %v", totals.RoundOff)
	}
}

func TestComputeTotalsIdempotent(t *testing.T) {
	items := []LineItem{
		{Description: "Consulting", Qty: 3, UnitPrice: 1333.33, Discount: 100, TaxRate: 18},
		{Description: "Hosting", Qty: 1, UnitPrice: 750.50, TaxRate: 12},
	}
	first := ComputeTotals(items, 49.5, true)
	second := ComputeTotals(items, 49.5, true)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("totals not stable across recomputation: %+v vs %+v", first, second)
	}
}

func TestComputeTotalsRoundOff(t *testing.T) {
	items := []LineItem{
		{Description: "Service", Qty: 1, UnitPrice: 1000.40, TaxRate: 0},
	}
	totals := ComputeTotals(items, 0, true)
	if totals.GrandTotal != 1000 {
		t.Fatalf("expected grand total 1000, got %v", totals.GrandTotal)
	}
	if math.Abs(totals.RoundOff-(-0.40)) > 1e-9 {
		t.Fatalf("unexpected round off: %v", totals.RoundOff)
	}

	plain := ComputeTotals(items, 0, false)
	if plain.RoundOff != 0 {
		t.Fatalf("round off must be zero when disabled, got %v", plain.RoundOff)
	}
	if plain.GrandTotal != 1000.40 {
		t.Fatalf("unexpected grand total without round off: %v", plain.GrandTotal)
	}
}

func TestComputeTotalsDiscountAndShipping(t *testing.T) {
	items := []LineItem{
		{Description: "Licences", Qty: 2, UnitPrice: 500, Discount: 200, TaxRate: 10},
	}
	totals := ComputeTotals(items, 50, true)
	if totals.Subtotal != 800 {
		t.Fatalf("unexpected subtotal: %v", totals.Subtotal)
	}
	if totals.DiscountTotal != 200 {
		t.Fatalf("unexpected discount total: %v", totals.DiscountTotal)
	}
	if totals.TaxTotal != 80 {
		t.Fatalf("unexpected tax total: %v", totals.TaxTotal)
	}
	// 800 + 80 + 50
	if totals.GrandTotal != 930 {
		t.Fatalf("unexpected grand total: %v", totals.GrandTotal)
	}
}

func TestComputeTotalsSubtotalNetOfDiscount(t *testing.T) {
	items := []LineItem{
		{Description: "Licences", Qty: 2, UnitPrice: 500, Discount: 200},
	}
	totals := ComputeTotals(items, 0, false)
	if totals.Subtotal != 800 {
		t.Fatalf("subtotal must be net of line discounts, got %v", totals.Subtotal)
	}
	if totals.GrandTotal != 800 {
		t.Fatalf("discount must not be subtracted twice, got %v", totals.GrandTotal)
	}
}

func TestComputeTotalsClampsExcessDiscount(t *testing.T) {
	items := []LineItem{
		{Description: "Service", Qty: 1, UnitPrice: 100, Discount: 500, TaxRate: 18},
	}
	totals := ComputeTotals(items, 0, false)
	if totals.DiscountTotal != 100 {
		t.Fatalf("discount should clamp to line amount, got %v", totals.DiscountTotal)
	}
	if totals.TaxTotal != 0 {
		t.Fatalf("tax should apply to the discounted amount, got %v", totals.TaxTotal)
	}
	if totals.GrandTotal != 0 {
		t.Fatalf("unexpected grand total: %v", totals.GrandTotal)
	}
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	totals := ComputeTotals(nil, 0, true)
	if totals.Subtotal != 0 || totals.GrandTotal != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
	if totals.AmountInWords != "Zero Rupees Only" {
		t.Fatalf("unexpected words: %q", totals.AmountInWords)
	}
}

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "Zero Rupees Only"},
		{1, "One Rupees Only"},
		{43660, "Forty Three Thousand Six Hundred Sixty Rupees Only"},
		{100000, "One Lakh Rupees Only"},
		{12500000, "One Crore Twenty Five Lakh Rupees Only"},
		{1234.56, "One Thousand Two Hundred Thirty Four Rupees and Fifty Six Paise Only"},
	}
	for _, tc := range cases {
		if got := AmountInWords(tc.amount); got != tc.want {
			t.Fatalf("AmountInWords(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
