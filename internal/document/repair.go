// File path: internal/document/repair.go
package document

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/upi"
)

// Policy defaults applied by the repair engine. The date offsets exist in
// exactly one place; the prompt builder mirrors them as generator hints only.
const (
	invoiceDueDays     = 7
	quotationValidDays = 15
	defaultCurrency    = "INR"
	defaultLocale      = "en-IN"
	defaultUnit        = "pcs"
)

var defaultTermBullets = []string{
	"Prices exclusive of applicable taxes unless stated otherwise",
	"Payment terms as per agreement",
}

// Repair turns raw generator output into a structurally valid bundle. It
// never fails: unparseable input degrades to a minimal bundle of the
// requested doc type. The single clock read happens at the caller via now.
func Repair(raw []byte, docType DocType, now time.Time) DocumentBundle {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if obj, exErr := ExtractObject(string(raw)); exErr == nil {
			decoded = obj
		} else {
			decoded = map[string]any{}
		}
	}
	return RepairValue(decoded, docType, now)
}

// RepairValue repairs an already-decoded JSON value. Coercions and defaults
// are field-by-field per variant; unknown keys are dropped by construction.
func RepairValue(candidate any, docType DocType, now time.Time) DocumentBundle {
	obj, ok := candidate.(map[string]any)
	if !ok {
		obj = map[string]any{}
	}
	if parsed, ok := ParseDocType(asString(obj["doc_type"])); ok {
		docType = parsed
	}
	if docType == "" {
		docType = DocTypeQuotation
	}

	bundle := DocumentBundle{
		DocType:  docType,
		Currency: repairCurrency(asString(obj["currency"])),
		Locale:   firstNonEmpty(asString(obj["locale"]), defaultLocale),
		Seller:   repairParty(obj["seller"], "Seller"),
		Buyer:    repairParty(obj["buyer"], "Client"),
		DocMeta:  repairDocMeta(obj["doc_meta"], docType, now),
		Dates:    repairDates(obj["dates"], docType, now),
		Items:    repairItems(obj["items"]),
		Terms:    repairTerms(obj["terms"]),
		Notes:    asString(obj["notes"]),
		Branding: repairBranding(obj["branding"]),
	}
	if len(bundle.Items) == 0 {
		bundle.Items = []LineItem{defaultLineItem()}
	}

	switch docType {
	case DocTypeQuotation:
		bundle.Quotation = repairQuotation(obj["quotation"], bundle.Dates)
	case DocTypeTaxInvoice:
		bundle.Invoice = repairInvoice(obj["invoice"], bundle.Dates)
	case DocTypeProjectBrief:
		bundle.ProjectBrief = repairProjectBrief(obj["project_brief"], bundle.Notes, now)
	}

	shipping, _ := asFloat(childValue(obj, "totals", "shipping"))
	bundle.Totals = ComputeTotals(bundle.Items, shipping, true)
	bundle.Payment = repairPayment(obj["payment"], bundle)

	if result := ValidateBundle(bundle); !result.OK {
		// Last resort: guarantee at least one well-formed item and
		// consistent totals.
		bundle.Items = []LineItem{defaultLineItem()}
		bundle.Totals = ComputeTotals(bundle.Items, shipping, true)
		if again := ValidateBundle(bundle); !again.OK {
			// Nothing salvageable survived; rebuild from scratch so the
			// output is valid no matter what the candidate carried.
			return RepairValue(map[string]any{}, docType, now)
		}
	}
	return bundle
}

// repairCurrency keeps a supplied currency code only when it fits the 1-10
// character window; anything else falls back to INR.
func repairCurrency(raw string) string {
	if raw == "" || len(raw) > 10 {
		return defaultCurrency
	}
	return raw
}

func defaultLineItem() LineItem {
	return LineItem{Description: "Service", Qty: 1, Unit: defaultUnit, UnitPrice: 0}
}

func repairParty(raw any, fallbackName string) Party {
	obj := asMap(raw)
	name := strings.TrimSpace(asString(obj["name"]))
	if len(name) < 2 {
		name = fallbackName
	}
	if len(name) > 100 {
		name = name[:100]
	}
	party := Party{
		Name:    name,
		Address: asString(obj["address"]),
		Email:   asString(obj["email"]),
		Phone:   asString(obj["phone"]),
		GSTIN:   asString(obj["gstin"]),
		PAN:     asString(obj["pan"]),
	}
	if bank := asMap(obj["bank"]); len(bank) > 0 {
		party.Bank = &BankDetails{
			AccountName: asString(bank["account_name"]),
			AccountNo:   asString(bank["account_no"]),
			IFSC:        asString(bank["ifsc"]),
			UPIID:       asString(bank["upi_id"]),
		}
	}
	return party
}

func repairDocMeta(raw any, docType DocType, now time.Time) DocMeta {
	obj := asMap(raw)
	meta := DocMeta{
		DocNo: asString(obj["doc_no"]),
		RefNo: asString(obj["ref_no"]),
		PONo:  asString(obj["po_no"]),
	}
	if docType == DocTypeTaxInvoice && strings.TrimSpace(meta.DocNo) == "" {
		meta.DocNo = "INV-" + now.Format("20060102")
	}
	return meta
}

func repairDates(raw any, docType DocType, now time.Time) Dates {
	obj := asMap(raw)
	issue, issueOK := ParseDate(asString(obj["issue_date"]))
	if !issueOK {
		issue = now
	}
	dates := Dates{IssueDate: issue.Format(DateLayout)}

	due := asString(obj["due_date"])
	if parsed, ok := ParseDate(due); !ok || parsed.Before(issue) {
		due = ""
	}
	if due == "" && docType == DocTypeTaxInvoice {
		due = issue.AddDate(0, 0, invoiceDueDays).Format(DateLayout)
	}
	dates.DueDate = due

	validTill := asString(obj["valid_till"])
	if parsed, ok := ParseDate(validTill); !ok || parsed.Before(issue) {
		validTill = ""
	}
	if validTill == "" && docType == DocTypeQuotation {
		validTill = issue.AddDate(0, 0, quotationValidDays).Format(DateLayout)
	}
	dates.ValidTill = validTill
	return dates
}

func repairItems(raw any) []LineItem {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	items := make([]LineItem, 0, len(list))
	for _, entry := range list {
		obj := asMap(entry)
		if obj == nil {
			continue
		}
		qty, _ := asFloat(obj["qty"])
		if qty <= 0 {
			qty = 1
		}
		price, _ := asFloat(obj["unit_price"])
		if price < 0 {
			price = 0
		}
		discount, _ := asFloat(obj["discount"])
		discount = clampDiscount(discount, qty*price)
		taxRate, _ := asFloat(obj["tax_rate"])
		if taxRate < 0 {
			taxRate = 0
		}
		items = append(items, LineItem{
			Description: firstNonEmpty(asString(obj["description"]), "Service"),
			Qty:         qty,
			Unit:        firstNonEmpty(asString(obj["unit"]), defaultUnit),
			UnitPrice:   price,
			Discount:    discount,
			TaxRate:     taxRate,
			HSNSAC:      asString(obj["hsn_sac"]),
		})
	}
	return items
}

func repairTerms(raw any) Terms {
	obj := asMap(raw)
	terms := Terms{
		Title:   firstNonEmpty(asString(obj["title"]), "Terms & Conditions"),
		Bullets: asStringList(obj["bullets"]),
	}
	if len(terms.Bullets) == 0 {
		terms.Bullets = append([]string(nil), defaultTermBullets...)
	}
	return terms
}

func repairBranding(raw any) *Branding {
	obj := asMap(raw)
	if len(obj) == 0 {
		return nil
	}
	branding := Branding{
		AccentColor: asString(obj["accent_color"]),
		FooterText:  asString(obj["footer_text"]),
		LogoRef:     asString(obj["logo_ref"]),
	}
	if branding == (Branding{}) {
		return nil
	}
	return &branding
}

func repairQuotation(raw any, dates Dates) *Quotation {
	obj := asMap(raw)
	quotation := Quotation{
		ValidityDays:   int(floatOr(obj["validity_days"], 0)),
		AdvancePercent: floatOr(obj["advance_percent"], 0),
		Inclusions:     asStringList(obj["inclusions"]),
		Exclusions:     asStringList(obj["exclusions"]),
		Assumptions:    asStringList(obj["assumptions"]),
		DeliveryWindow: asString(obj["delivery_window"]),
	}
	if quotation.ValidityDays <= 0 {
		quotation.ValidityDays = quotationValidDays
		if issue, ok := ParseDate(dates.IssueDate); ok {
			if till, ok := ParseDate(dates.ValidTill); ok {
				if days := int(till.Sub(issue).Hours() / 24); days > 0 {
					quotation.ValidityDays = days
				}
			}
		}
	}
	if quotation.AdvancePercent < 0 {
		quotation.AdvancePercent = 0
	}
	if quotation.AdvancePercent > 100 {
		quotation.AdvancePercent = 100
	}
	return &quotation
}

func repairInvoice(raw any, dates Dates) *Invoice {
	obj := asMap(raw)
	invoice := Invoice{
		SupplyDate:    asString(obj["supply_date"]),
		PlaceOfSupply: firstNonEmpty(asString(obj["place_of_supply"]), "India"),
		ReverseCharge: asBool(obj["reverse_charge"]),
		EInvoiceIRN:   asString(obj["einvoice_irn"]),
		EInvoiceAckNo: asString(obj["einvoice_ack_no"]),
		Transport:     asString(obj["transport"]),
	}
	if _, ok := ParseDate(invoice.SupplyDate); !ok {
		invoice.SupplyDate = dates.IssueDate
	}
	return &invoice
}

func repairProjectBrief(raw any, notes string, now time.Time) *ProjectBrief {
	obj := asMap(raw)
	brief := ProjectBrief{
		Objective:    firstNonEmpty(asString(obj["objective"]), notes, "Project delivery as agreed"),
		Scope:        asStringList(obj["scope"]),
		Deliverables: asStringList(obj["deliverables"]),
		Assumptions:  asStringList(obj["assumptions"]),
		Risks:        asStringList(obj["risks"]),
		Milestones:   repairMilestones(obj["milestones"], now),
		TimelineDays: int(floatOr(obj["timeline_days"], 30)),
		BillingPlan:  normalizeBillingPlan(obj["billing_plan"]),
	}
	if len(brief.Scope) == 0 {
		brief.Scope = []string{"Scope as per requirement"}
	}
	if len(brief.Deliverables) == 0 {
		brief.Deliverables = []string{"Deliverables as per requirement"}
	}
	if brief.TimelineDays < 1 {
		brief.TimelineDays = 1
	}
	return &brief
}

func repairMilestones(raw any, now time.Time) []Milestone {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	milestones := make([]Milestone, 0, len(list))
	for _, entry := range list {
		obj := asMap(entry)
		if obj == nil {
			continue
		}
		start, startOK := ParseDate(asString(obj["start"]))
		if !startOK {
			start = now
		}
		end, endOK := ParseDate(asString(obj["end"]))
		if !endOK || end.Before(start) {
			end = start.AddDate(0, 0, 7)
		}
		fee, _ := asFloat(obj["fee"])
		if fee < 0 {
			fee = 0
		}
		milestones = append(milestones, Milestone{
			Name:  firstNonEmpty(asString(obj["name"]), "Milestone"),
			Start: start.Format(DateLayout),
			End:   end.Format(DateLayout),
			Fee:   fee,
		})
	}
	return milestones
}

// normalizeBillingPlan guarantees a non-empty plan whose percents sum to
// exactly 100. Supplied percents are scaled proportionally with the last part
// absorbing the rounding remainder.
func normalizeBillingPlan(raw any) []BillingPart {
	var parts []BillingPart
	if list, ok := raw.([]any); ok {
		for _, entry := range list {
			obj := asMap(entry)
			if obj == nil {
				continue
			}
			percent, _ := asFloat(obj["percent"])
			if percent < 0 {
				percent = 0
			}
			parts = append(parts, BillingPart{
				When:    firstNonEmpty(asString(obj["when"]), "Milestone"),
				Percent: percent,
			})
		}
	}
	if len(parts) == 0 {
		return []BillingPart{
			{When: "Project kickoff", Percent: 40},
			{When: "Midway", Percent: 40},
			{When: "Completion", Percent: 20},
		}
	}
	var total float64
	for _, part := range parts {
		total += part.Percent
	}
	if total == 0 {
		share := math.Floor(100 / float64(len(parts)))
		for i := range parts {
			parts[i].Percent = share
		}
		parts[len(parts)-1].Percent = 100 - share*float64(len(parts)-1)
		return parts
	}
	remainder := 100.0
	for i := range parts {
		if i == len(parts)-1 {
			parts[i].Percent = round2(remainder)
			break
		}
		scaled := math.Round(parts[i].Percent * 100 / total)
		if scaled > remainder {
			scaled = remainder
		}
		parts[i].Percent = scaled
		remainder -= scaled
	}
	return parts
}

func repairPayment(raw any, bundle DocumentBundle) *Payment {
	obj := asMap(raw)
	payment := Payment{
		Mode:         normalizePaymentMode(asString(obj["mode"])),
		Instructions: asString(obj["instructions"]),
		VPA:          asString(obj["vpa"]),
	}
	if payment.VPA == "" && bundle.Seller.Bank != nil {
		payment.VPA = bundle.Seller.Bank.UPIID
	}
	if len(obj) == 0 && payment.VPA == "" {
		return nil
	}
	if payment.Mode == PaymentUPI && upi.ValidVPA(payment.VPA) {
		link, err := upi.Deeplink(upi.Params{
			VPA:       payment.VPA,
			PayeeName: bundle.Seller.Name,
			Amount:    bundle.Totals.GrandTotal,
			Currency:  bundle.Currency,
			Note:      trimTo(bundle.Notes, 50),
			TxnRef:    bundle.DocMeta.DocNo,
		})
		if err == nil {
			payment.UPIDeeplink = link
		}
	}
	return &payment
}

func normalizePaymentMode(raw string) PaymentMode {
	switch PaymentMode(strings.ToUpper(strings.TrimSpace(raw))) {
	case PaymentUPI:
		return PaymentUPI
	case PaymentBankTransfer:
		return PaymentBankTransfer
	case PaymentOther:
		return PaymentOther
	case "":
		return ""
	default:
		return PaymentOther
	}
}

func childValue(obj map[string]any, keys ...string) any {
	var current any = obj
	for _, key := range keys {
		m := asMap(current)
		if m == nil {
			return nil
		}
		current = m[key]
	}
	return current
}

func asMap(raw any) map[string]any {
	obj, _ := raw.(map[string]any)
	return obj
}

func asString(raw any) string {
	str, _ := raw.(string)
	return strings.TrimSpace(str)
}

// asFloat coerces JSON numbers and numeric-looking strings.
func asFloat(raw any) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func floatOr(raw any, fallback float64) float64 {
	if value, ok := asFloat(raw); ok {
		return value
	}
	return fallback
}

func asBool(raw any) bool {
	switch value := raw.(type) {
	case bool:
		return value
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		return err == nil && parsed
	default:
		return false
	}
}

func asStringList(raw any) []string {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if str := asString(entry); str != "" {
			out = append(out, str)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func trimTo(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit])
}
