// File path: internal/document/repair_test.go
package document

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

var repairNow = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func TestRepairAlwaysYieldsValidOutput(t *testing.T) {
	inputs := []string{
		``,
		`not json at all`,
		`{"doc_type": "QUOTATION", "items": [{"qty": "three"`,
		`{"doc_type": 42, "items": "nope", "seller": []}`,
		`{"doc_type": "TAX_INVOICE", "items": [{"description": "X", "qty": -5, "unit_price": "100"}]}`,
		`[1, 2, 3]`,
		`"just a string"`,
		`{"doc_type": "QUOTATION", "currency": "Indian Rupees (INR)"}`,
	}
	for _, input := range inputs {
		bundle := Repair([]byte(input), "", repairNow)
		result := ValidateBundle(bundle)
		if !result.OK {
			t.Fatalf("repair of %q produced invalid bundle: %+v", input, result.Errors)
		}
	}
}

func TestRepairDateDefaulting(t *testing.T) {
	invoice := Repair([]byte(`{"doc_type":"TAX_INVOICE","dates":{"issue_date":"2025-01-01"}}`), "", repairNow)
	if invoice.Dates.DueDate != "2025-01-08" {
		t.Fatalf("unexpected due date: %q", invoice.Dates.DueDate)
	}
	quotation := Repair([]byte(`{"doc_type":"QUOTATION","dates":{"issue_date":"2025-01-01"}}`), "", repairNow)
	if quotation.Dates.ValidTill != "2025-01-16" {
		t.Fatalf("unexpected valid till: %q", quotation.Dates.ValidTill)
	}
}

func TestRepairDropsBackwardDates(t *testing.T) {
	bundle := Repair([]byte(`{"doc_type":"TAX_INVOICE","dates":{"issue_date":"2025-01-10","due_date":"2025-01-02"}}`), "", repairNow)
	if bundle.Dates.DueDate != "2025-01-17" {
		t.Fatalf("backward due date should be replaced by policy default, got %q", bundle.Dates.DueDate)
	}
}

func TestRepairInvalidIssueDateFallsBackToNow(t *testing.T) {
	bundle := Repair([]byte(`{"doc_type":"QUOTATION","dates":{"issue_date":"01/01/2025"}}`), "", repairNow)
	if bundle.Dates.IssueDate != "2025-01-01" {
		t.Fatalf("unexpected issue date: %q", bundle.Dates.IssueDate)
	}
}

func TestRepairCoercesNumericStringsAndClamps(t *testing.T) {
	raw := `{"doc_type":"QUOTATION","items":[
                {"description":"Design","qty":"2","unit_price":"1500","discount":-10,"tax_rate":18},
                {"description":"","qty":0,"unit_price":-99,"discount":5000}
        ]}`
	bundle := Repair([]byte(raw), "", repairNow)
	if len(bundle.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(bundle.Items))
	}
	first := bundle.Items[0]
	if first.Qty != 2 || first.UnitPrice != 1500 || first.Discount != 0 {
		t.Fatalf("unexpected first item: %+v", first)
	}
	second := bundle.Items[1]
	if second.Description != "Service" || second.Qty != 1 || second.UnitPrice != 0 || second.Discount != 0 {
		t.Fatalf("unexpected second item: %+v", second)
	}
}

func TestRepairSynthesizesDefaultItem(t *testing.T) {
	bundle := Repair([]byte(`{"doc_type":"TAX_INVOICE"}`), "", repairNow)
	if len(bundle.Items) != 1 {
		t.Fatalf("expected one synthesized item, got %d", len(bundle.Items))
	}
	item := bundle.Items[0]
	if item.Description != "Service" || item.Qty != 1 || item.Unit != "pcs" || item.UnitPrice != 0 {
		t.Fatalf("unexpected default item: %+v", item)
	}
	if bundle.DocMeta.DocNo != "INV-20250101" {
		t.Fatalf("unexpected generated doc no: %q", bundle.DocMeta.DocNo)
	}
}

func TestRepairRequestedDocTypeFallback(t *testing.T) {
	bundle := Repair([]byte(`{}`), DocTypeProjectBrief, repairNow)
	if bundle.DocType != DocTypeProjectBrief {
		t.Fatalf("expected requested doc type, got %q", bundle.DocType)
	}
	if bundle.ProjectBrief == nil {
		t.Fatal("expected project brief payload")
	}
	if len(bundle.ProjectBrief.BillingPlan) != 3 {
		t.Fatalf("expected default billing plan, got %+v", bundle.ProjectBrief.BillingPlan)
	}
}

func TestRepairRoundTripOnValidBundle(t *testing.T) {
	raw := `{
                "doc_type": "QUOTATION",
                "currency": "INR",
                "seller": {"name": "XYZ Solutions"},
                "buyer": {"name": "ACME Corp"},
                "dates": {"issue_date": "2025-01-01", "valid_till": "2025-01-16"},
                "items": [
                        {"description": "Design", "qty": 1, "unit_price": 28000, "discount": 0, "tax_rate": 18},
                        {"description": "Development", "qty": 1, "unit_price": 9000, "discount": 0, "tax_rate": 18}
                ],
                "totals": {"subtotal": 37000, "discount_total": 0, "tax_total": 6660, "shipping": 0, "grand_total": 43660},
                "terms": {"title": "Terms", "bullets": ["Payment within 7 days"]},
                "quotation": {"validity_days": 15}
        }`
	bundle := Repair([]byte(raw), "", repairNow)
	result := ValidateBundle(bundle)
	if !result.OK {
		t.Fatalf("round trip must stay valid, got %+v", result.Errors)
	}
	if math.Abs(bundle.Totals.GrandTotal-43660) > 0.01 {
		t.Fatalf("recomputed totals drifted: %v", bundle.Totals.GrandTotal)
	}
	if bundle.Seller.Name != "XYZ Solutions" || bundle.Buyer.Name != "ACME Corp" {
		t.Fatalf("parties must survive repair: %+v", bundle)
	}
	if len(bundle.Items) != 2 {
		t.Fatalf("items must survive repair, got %d", len(bundle.Items))
	}
}

func TestRepairBillingPlanNormalization(t *testing.T) {
	raw := `{"doc_type":"PROJECT_BRIEF","project_brief":{
                "objective":"Portal build",
                "billing_plan":[{"when":"Kickoff","percent":60},{"when":"Completion","percent":60}]
        }}`
	bundle := Repair([]byte(raw), "", repairNow)
	plan := bundle.ProjectBrief.BillingPlan
	var sum float64
	for _, part := range plan {
		sum += part.Percent
	}
	if math.Abs(sum-100) > 1e-6 {
		t.Fatalf("normalized plan must sum to 100, got %v (%+v)", sum, plan)
	}
	if plan[0].Percent != 50 || plan[1].Percent != 50 {
		t.Fatalf("expected proportional scaling, got %+v", plan)
	}
}

func TestRepairBillingPlanZeroPercents(t *testing.T) {
	raw := `{"doc_type":"PROJECT_BRIEF","project_brief":{
                "objective":"Portal build",
                "billing_plan":[{"when":"A","percent":0},{"when":"B","percent":0},{"when":"C","percent":0}]
        }}`
	bundle := Repair([]byte(raw), "", repairNow)
	plan := bundle.ProjectBrief.BillingPlan
	var sum float64
	for _, part := range plan {
		sum += part.Percent
	}
	if math.Abs(sum-100) > 1e-6 {
		t.Fatalf("zero plan must normalize to 100, got %v (%+v)", sum, plan)
	}
}

func TestRepairReplacesOverlongCurrency(t *testing.T) {
	bundle := Repair([]byte(`{"doc_type":"QUOTATION","currency":"Indian Rupees (INR)"}`), "", repairNow)
	if bundle.Currency != "INR" {
		t.Fatalf("expected fallback currency, got %q", bundle.Currency)
	}
	if result := ValidateBundle(bundle); !result.OK {
		t.Fatalf("repaired bundle must validate, got %+v", result.Errors)
	}

	kept := Repair([]byte(`{"doc_type":"QUOTATION","currency":"USD"}`), "", repairNow)
	if kept.Currency != "USD" {
		t.Fatalf("valid currency must survive repair, got %q", kept.Currency)
	}
}

func TestRepairTruncatesLongPartyName(t *testing.T) {
	long := strings.Repeat("A", 150)
	raw, err := json.Marshal(map[string]any{
		"doc_type": "QUOTATION",
		"seller":   map[string]any{"name": long},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	bundle := Repair(raw, "", repairNow)
	if len(bundle.Seller.Name) != 100 {
		t.Fatalf("expected truncated name, got %d chars", len(bundle.Seller.Name))
	}
}

func TestRepairBuildsUPIDeeplink(t *testing.T) {
	raw := `{
                "doc_type": "TAX_INVOICE",
                "seller": {"name": "XYZ Solutions", "bank": {"upi_id": "merchant@upi"}},
                "items": [{"description": "Service", "qty": 1, "unit_price": 50000, "tax_rate": 0}],
                "payment": {"mode": "UPI"}
        }`
	bundle := Repair([]byte(raw), "", repairNow)
	if bundle.Payment == nil {
		t.Fatal("expected payment block")
	}
	if bundle.Payment.VPA != "merchant@upi" {
		t.Fatalf("expected VPA from seller bank, got %q", bundle.Payment.VPA)
	}
	if !strings.HasPrefix(bundle.Payment.UPIDeeplink, "upi://pay?pa=merchant@upi&pn=XYZ%20Solutions&am=50000.00&cu=INR") {
		t.Fatalf("unexpected deeplink: %q", bundle.Payment.UPIDeeplink)
	}
}

func TestRepairExtractsFencedJSON(t *testing.T) {
	text := "Here is the bundle:\n```json\n{\"doc_type\":\"QUOTATION\",\"notes\":\"from fence\"}\n```\nDone."
	bundle := Repair([]byte(text), "", repairNow)
	if bundle.Notes != "from fence" {
		t.Fatalf("expected fenced payload to be used, got notes %q", bundle.Notes)
	}
}
