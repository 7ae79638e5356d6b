// File path: internal/document/validate.go
package document

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldError locates a single schema violation. Path is slash-delimited,
// JSON-pointer style ("items/0/qty").
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type Result struct {
	OK     bool         `json:"ok"`
	Errors []FieldError `json:"errors"`
}

// totalsTolerance bounds the accepted drift between supplied and recomputed
// totals after two-decimal rounding.
const totalsTolerance = 0.01

// Validate checks a decoded JSON value against the DocumentBundle schema and
// invariants. It is total: it never panics and never mutates the candidate,
// and returns an ordered violation list for any input shape.
func Validate(candidate any) Result {
	v := &checker{}
	obj, ok := candidate.(map[string]any)
	if !ok {
		v.add("", "document bundle must be a JSON object")
		return v.result()
	}

	docType := v.checkDocType(obj)
	v.checkString(obj, "currency", "currency", true, 1, 10)
	v.checkParty(obj, "seller")
	v.checkParty(obj, "buyer")
	issue := v.checkDates(obj, docType)
	v.checkDocMeta(obj, docType)
	items, itemsClean := v.checkItems(obj, docType)
	v.checkVariant(obj, docType, issue)
	v.checkTotals(obj, items, itemsClean)
	v.checkPayment(obj)

	return v.result()
}

// ValidateBundle runs the same checks against a typed bundle by round-tripping
// it through its JSON form.
func ValidateBundle(bundle DocumentBundle) Result {
	raw, err := json.Marshal(bundle)
	if err != nil {
		return Result{Errors: []FieldError{{Path: "", Message: "bundle not serializable"}}}
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Result{Errors: []FieldError{{Path: "", Message: "bundle not serializable"}}}
	}
	return Validate(decoded)
}

type checker struct {
	errors []FieldError
}

func (c *checker) add(path, message string) {
	c.errors = append(c.errors, FieldError{Path: path, Message: message})
}

func (c *checker) result() Result {
	if len(c.errors) == 0 {
		return Result{OK: true, Errors: []FieldError{}}
	}
	return Result{OK: false, Errors: c.errors}
}

func (c *checker) checkDocType(obj map[string]any) DocType {
	raw, ok := obj["doc_type"].(string)
	if !ok || raw == "" {
		c.add("doc_type", "doc_type is required")
		return ""
	}
	docType, ok := ParseDocType(raw)
	if !ok {
		c.add("doc_type", fmt.Sprintf("unknown doc_type %q", raw))
		return ""
	}
	return docType
}

func (c *checker) checkString(obj map[string]any, key, path string, required bool, minLen, maxLen int) string {
	raw, present := obj[key]
	if !present || raw == nil {
		if required {
			c.add(path, key+" is required")
		}
		return ""
	}
	str, ok := raw.(string)
	if !ok {
		c.add(path, key+" must be a string")
		return ""
	}
	trimmed := strings.TrimSpace(str)
	if required && trimmed == "" {
		c.add(path, key+" must not be empty")
		return ""
	}
	if trimmed != "" && len(trimmed) < minLen {
		c.add(path, fmt.Sprintf("%s must be at least %d characters", key, minLen))
	}
	if maxLen > 0 && len(trimmed) > maxLen {
		c.add(path, fmt.Sprintf("%s must be at most %d characters", key, maxLen))
	}
	return trimmed
}

func (c *checker) checkParty(obj map[string]any, key string) {
	raw, present := obj[key]
	if !present || raw == nil {
		c.add(key, key+" is required")
		return
	}
	party, ok := raw.(map[string]any)
	if !ok {
		c.add(key, key+" must be an object")
		return
	}
	c.checkString(party, "name", key+"/name", true, 2, 100)
}

func (c *checker) checkDates(obj map[string]any, docType DocType) string {
	raw, present := obj["dates"]
	if !present || raw == nil {
		c.add("dates", "dates is required")
		return ""
	}
	dates, ok := raw.(map[string]any)
	if !ok {
		c.add("dates", "dates must be an object")
		return ""
	}
	issue := c.checkString(dates, "issue_date", "dates/issue_date", true, 0, 0)
	issueDate, issueOK := ParseDate(issue)
	if issue != "" && !issueOK {
		c.add("dates/issue_date", "issue_date must be an ISO calendar date (YYYY-MM-DD)")
	}
	for _, key := range []string{"due_date", "valid_till"} {
		value := c.checkString(dates, key, "dates/"+key, false, 0, 0)
		if value == "" {
			continue
		}
		parsed, ok := ParseDate(value)
		if !ok {
			c.add("dates/"+key, key+" must be an ISO calendar date (YYYY-MM-DD)")
			continue
		}
		if issueOK && parsed.Before(issueDate) {
			c.add("dates/"+key, key+" must be on or after issue_date")
		}
	}
	return issue
}

func (c *checker) checkDocMeta(obj map[string]any, docType DocType) {
	raw, present := obj["doc_meta"]
	if !present || raw == nil {
		if docType == DocTypeTaxInvoice {
			c.add("doc_meta/doc_no", "doc_no is required for TAX_INVOICE")
		}
		return
	}
	meta, ok := raw.(map[string]any)
	if !ok {
		c.add("doc_meta", "doc_meta must be an object")
		return
	}
	if docType == DocTypeTaxInvoice {
		if docNo, _ := meta["doc_no"].(string); strings.TrimSpace(docNo) == "" {
			c.add("doc_meta/doc_no", "doc_no is required for TAX_INVOICE")
		}
	}
}

// checkItems validates the line items and returns the cleanly parsed items for
// totals cross-checking. itemsClean reports whether every item converted
// without violations.
func (c *checker) checkItems(obj map[string]any, docType DocType) ([]LineItem, bool) {
	raw, present := obj["items"]
	list, isList := raw.([]any)
	if !present || raw == nil || !isList {
		if docType == DocTypeProjectBrief && (!present || raw == nil) {
			return nil, false
		}
		c.add("items", "items must be an array")
		return nil, false
	}
	if len(list) == 0 && (docType == DocTypeQuotation || docType == DocTypeTaxInvoice) {
		c.add("items", "at least one line item is required")
		return nil, false
	}
	before := len(c.errors)
	items := make([]LineItem, 0, len(list))
	for i, entry := range list {
		path := fmt.Sprintf("items/%d", i)
		itemObj, ok := entry.(map[string]any)
		if !ok {
			c.add(path, "line item must be an object")
			continue
		}
		c.checkString(itemObj, "description", path+"/description", true, 1, 0)
		qty, qtyOK := c.checkNumber(itemObj, "qty", path+"/qty", true)
		if qtyOK && qty <= 0 {
			c.add(path+"/qty", "qty must be greater than zero")
		}
		price, priceOK := c.checkNumber(itemObj, "unit_price", path+"/unit_price", true)
		if priceOK && price < 0 {
			c.add(path+"/unit_price", "unit_price must be non-negative")
		}
		discount, discountOK := c.checkNumber(itemObj, "discount", path+"/discount", false)
		if discountOK {
			if discount < 0 {
				c.add(path+"/discount", "discount must be non-negative")
			} else if qtyOK && priceOK && discount > qty*price {
				c.add(path+"/discount", "discount must not exceed qty*unit_price")
			}
		}
		taxRate, taxOK := c.checkNumber(itemObj, "tax_rate", path+"/tax_rate", false)
		if taxOK && taxRate < 0 {
			c.add(path+"/tax_rate", "tax_rate must be non-negative")
		}
		desc, _ := itemObj["description"].(string)
		unit, _ := itemObj["unit"].(string)
		hsn, _ := itemObj["hsn_sac"].(string)
		items = append(items, LineItem{
			Description: desc,
			Qty:         qty,
			Unit:        unit,
			UnitPrice:   price,
			Discount:    discount,
			TaxRate:     taxRate,
			HSNSAC:      hsn,
		})
	}
	return items, len(c.errors) == before
}

// checkNumber enforces that a field carrying money or quantity is a JSON
// number. Numeric strings are reported distinctly so callers can tell a
// repairable value from garbage.
func (c *checker) checkNumber(obj map[string]any, key, path string, required bool) (float64, bool) {
	raw, present := obj[key]
	if !present || raw == nil {
		if required {
			c.add(path, key+" is required")
			return 0, false
		}
		return 0, true
	}
	switch value := raw.(type) {
	case float64:
		return value, true
	case string:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			c.add(path, key+" must be a number, not a numeric string")
		} else {
			c.add(path, key+" must be a number")
		}
		return 0, false
	default:
		c.add(path, key+" must be a number")
		return 0, false
	}
}

func (c *checker) checkVariant(obj map[string]any, docType DocType, issue string) {
	switch docType {
	case DocTypeQuotation:
		if _, ok := obj["quotation"].(map[string]any); !ok {
			c.add("quotation", "quotation payload is required for QUOTATION")
		}
	case DocTypeTaxInvoice:
		payload, ok := obj["invoice"].(map[string]any)
		if !ok {
			c.add("invoice", "invoice payload is required for TAX_INVOICE")
			return
		}
		c.checkString(payload, "place_of_supply", "invoice/place_of_supply", true, 1, 0)
		supply := c.checkString(payload, "supply_date", "invoice/supply_date", true, 0, 0)
		if supply != "" {
			if _, ok := ParseDate(supply); !ok {
				c.add("invoice/supply_date", "supply_date must be an ISO calendar date (YYYY-MM-DD)")
			}
		}
	case DocTypeProjectBrief:
		payload, ok := obj["project_brief"].(map[string]any)
		if !ok {
			c.add("project_brief", "project_brief payload is required for PROJECT_BRIEF")
			return
		}
		c.checkString(payload, "objective", "project_brief/objective", true, 1, 0)
		c.checkStringList(payload, "scope", "project_brief/scope")
		c.checkStringList(payload, "deliverables", "project_brief/deliverables")
		c.checkMilestones(payload)
		c.checkBillingPlan(payload)
	}
}

func (c *checker) checkStringList(obj map[string]any, key, path string) {
	raw, present := obj[key]
	list, ok := raw.([]any)
	if !present || !ok || len(list) == 0 {
		c.add(path, key+" must be a non-empty list")
		return
	}
	for i, entry := range list {
		str, ok := entry.(string)
		if !ok || strings.TrimSpace(str) == "" {
			c.add(fmt.Sprintf("%s/%d", path, i), "entry must be a non-empty string")
		}
	}
}

func (c *checker) checkMilestones(payload map[string]any) {
	raw, present := payload["milestones"]
	if !present || raw == nil {
		return
	}
	list, ok := raw.([]any)
	if !ok {
		c.add("project_brief/milestones", "milestones must be an array")
		return
	}
	for i, entry := range list {
		path := fmt.Sprintf("project_brief/milestones/%d", i)
		milestone, ok := entry.(map[string]any)
		if !ok {
			c.add(path, "milestone must be an object")
			continue
		}
		start, _ := milestone["start"].(string)
		end, _ := milestone["end"].(string)
		startDate, startOK := ParseDate(start)
		endDate, endOK := ParseDate(end)
		if !startOK {
			c.add(path+"/start", "start must be an ISO calendar date (YYYY-MM-DD)")
		}
		if !endOK {
			c.add(path+"/end", "end must be an ISO calendar date (YYYY-MM-DD)")
		}
		if startOK && endOK && endDate.Before(startDate) {
			c.add(path+"/end", "end must be on or after start")
		}
	}
}

func (c *checker) checkBillingPlan(payload map[string]any) {
	raw, present := payload["billing_plan"]
	list, ok := raw.([]any)
	if !present || !ok || len(list) == 0 {
		c.add("project_brief/billing_plan", "billing_plan must be a non-empty list")
		return
	}
	var sum float64
	clean := true
	for i, entry := range list {
		path := fmt.Sprintf("project_brief/billing_plan/%d", i)
		part, ok := entry.(map[string]any)
		if !ok {
			c.add(path, "billing part must be an object")
			clean = false
			continue
		}
		percent, percentOK := c.checkNumber(part, "percent", path+"/percent", true)
		if !percentOK {
			clean = false
			continue
		}
		if percent < 0 || percent > 100 {
			c.add(path+"/percent", "percent must be between 0 and 100")
			clean = false
			continue
		}
		sum += percent
	}
	if clean && math.Abs(sum-100) > 1e-6 {
		c.add("project_brief/billing_plan", fmt.Sprintf("billing plan percents must sum to 100, got %g", sum))
	}
}

// checkTotals verifies the derived totals against a recompute from the parsed
// items. The cross-check is skipped when the items themselves had violations,
// so item errors are not double-reported through the totals.
func (c *checker) checkTotals(obj map[string]any, items []LineItem, itemsClean bool) {
	raw, present := obj["totals"]
	if !present || raw == nil {
		c.add("totals", "totals is required")
		return
	}
	totals, ok := raw.(map[string]any)
	if !ok {
		c.add("totals", "totals must be an object")
		return
	}
	for _, key := range []string{"subtotal", "discount_total", "tax_total", "shipping", "grand_total"} {
		value, numOK := c.checkNumber(totals, key, "totals/"+key, false)
		if numOK && value < 0 {
			c.add("totals/"+key, key+" must be non-negative")
		}
	}
	if !itemsClean || len(items) == 0 {
		return
	}
	shipping, _ := totals["shipping"].(float64)
	grand, grandOK := totals["grand_total"].(float64)
	if !grandOK {
		c.add("totals/grand_total", "grand_total is required")
		return
	}
	plain := ComputeTotals(items, shipping, false)
	rounded := ComputeTotals(items, shipping, true)
	if math.Abs(grand-plain.GrandTotal) > totalsTolerance && math.Abs(grand-rounded.GrandTotal) > totalsTolerance {
		c.add("totals/grand_total", fmt.Sprintf("grand_total %.2f does not match computed total %.2f", grand, rounded.GrandTotal))
	}
}

func (c *checker) checkPayment(obj map[string]any) {
	raw, present := obj["payment"]
	if !present || raw == nil {
		return
	}
	payment, ok := raw.(map[string]any)
	if !ok {
		c.add("payment", "payment must be an object")
		return
	}
	mode, _ := payment["mode"].(string)
	if mode == "" {
		return
	}
	switch PaymentMode(mode) {
	case PaymentUPI, PaymentBankTransfer, PaymentOther:
	default:
		c.add("payment/mode", fmt.Sprintf("unknown payment mode %q", mode))
	}
}
