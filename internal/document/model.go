// File path: internal/document/model.go
package document

import "time"

// DocType discriminates the bundle variants. Exactly one variant payload is
// populated for a given doc type.
type DocType string

const (
	DocTypeQuotation    DocType = "QUOTATION"
	DocTypeTaxInvoice   DocType = "TAX_INVOICE"
	DocTypeProjectBrief DocType = "PROJECT_BRIEF"
)

// DocTypes lists the supported doc types in canonical order.
func DocTypes() []DocType {
	return []DocType{DocTypeQuotation, DocTypeTaxInvoice, DocTypeProjectBrief}
}

// ParseDocType normalizes a raw string into a known DocType.
func ParseDocType(raw string) (DocType, bool) {
	switch DocType(raw) {
	case DocTypeQuotation, DocTypeTaxInvoice, DocTypeProjectBrief:
		return DocType(raw), true
	}
	return "", false
}

// DateLayout is the ISO calendar date format used throughout the bundle.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date string.
func ParseDate(raw string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type BankDetails struct {
	AccountName string `json:"account_name,omitempty"`
	AccountNo   string `json:"account_no,omitempty"`
	IFSC        string `json:"ifsc,omitempty"`
	UPIID       string `json:"upi_id,omitempty"`
}

type Party struct {
	Name    string       `json:"name"`
	Address string       `json:"address,omitempty"`
	Email   string       `json:"email,omitempty"`
	Phone   string       `json:"phone,omitempty"`
	GSTIN   string       `json:"gstin,omitempty"`
	PAN     string       `json:"pan,omitempty"`
	Bank    *BankDetails `json:"bank,omitempty"`
}

type DocMeta struct {
	DocNo string `json:"doc_no,omitempty"`
	RefNo string `json:"ref_no,omitempty"`
	PONo  string `json:"po_no,omitempty"`
}

type Dates struct {
	IssueDate string `json:"issue_date"`
	DueDate   string `json:"due_date,omitempty"`
	ValidTill string `json:"valid_till,omitempty"`
}

type LineItem struct {
	Description string  `json:"description"`
	Qty         float64 `json:"qty"`
	Unit        string  `json:"unit,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	TaxRate     float64 `json:"tax_rate"`
	HSNSAC      string  `json:"hsn_sac,omitempty"`
}

// Totals is derived data only. The pipeline recomputes it from items and never
// trusts generator-supplied values.
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	DiscountTotal float64 `json:"discount_total"`
	TaxTotal      float64 `json:"tax_total"`
	Shipping      float64 `json:"shipping"`
	RoundOff      float64 `json:"round_off"`
	GrandTotal    float64 `json:"grand_total"`
	AmountInWords string  `json:"amount_in_words,omitempty"`
}

type Terms struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

type PaymentMode string

const (
	PaymentUPI          PaymentMode = "UPI"
	PaymentBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentOther        PaymentMode = "OTHER"
)

type Payment struct {
	Mode         PaymentMode `json:"mode,omitempty"`
	Instructions string      `json:"instructions,omitempty"`
	VPA          string      `json:"vpa,omitempty"`
	UPIDeeplink  string      `json:"upi_deeplink,omitempty"`
}

// Branding is cosmetic and validated only for well-formedness.
type Branding struct {
	AccentColor string `json:"accent_color,omitempty"`
	FooterText  string `json:"footer_text,omitempty"`
	LogoRef     string `json:"logo_ref,omitempty"`
}

type Quotation struct {
	ValidityDays   int      `json:"validity_days"`
	AdvancePercent float64  `json:"advance_percent,omitempty"`
	Inclusions     []string `json:"inclusions,omitempty"`
	Exclusions     []string `json:"exclusions,omitempty"`
	Assumptions    []string `json:"assumptions,omitempty"`
	DeliveryWindow string   `json:"delivery_window,omitempty"`
}

type Invoice struct {
	SupplyDate    string `json:"supply_date"`
	PlaceOfSupply string `json:"place_of_supply"`
	ReverseCharge bool   `json:"reverse_charge"`
	EInvoiceIRN   string `json:"einvoice_irn,omitempty"`
	EInvoiceAckNo string `json:"einvoice_ack_no,omitempty"`
	Transport     string `json:"transport,omitempty"`
}

type Milestone struct {
	Name  string  `json:"name"`
	Start string  `json:"start"`
	End   string  `json:"end"`
	Fee   float64 `json:"fee,omitempty"`
}

type BillingPart struct {
	When    string  `json:"when"`
	Percent float64 `json:"percent"`
}

type ProjectBrief struct {
	Objective    string        `json:"objective"`
	Scope        []string      `json:"scope"`
	Deliverables []string      `json:"deliverables"`
	Assumptions  []string      `json:"assumptions,omitempty"`
	Risks        []string      `json:"risks,omitempty"`
	Milestones   []Milestone   `json:"milestones"`
	TimelineDays int           `json:"timeline_days,omitempty"`
	BillingPlan  []BillingPart `json:"billing_plan"`
}

// DocumentBundle is the root value returned to callers. Pipeline stages treat
// it as an immutable value: each stage returns a new bundle rather than
// mutating in place.
type DocumentBundle struct {
	DocType  DocType    `json:"doc_type"`
	Currency string     `json:"currency"`
	Locale   string     `json:"locale,omitempty"`
	Seller   Party      `json:"seller"`
	Buyer    Party      `json:"buyer"`
	DocMeta  DocMeta    `json:"doc_meta"`
	Dates    Dates      `json:"dates"`
	Items    []LineItem `json:"items"`
	Totals   Totals     `json:"totals"`
	Terms    Terms      `json:"terms"`
	Notes    string     `json:"notes,omitempty"`
	Payment  *Payment   `json:"payment,omitempty"`
	Branding *Branding  `json:"branding,omitempty"`

	Quotation    *Quotation    `json:"quotation,omitempty"`
	Invoice      *Invoice      `json:"invoice,omitempty"`
	ProjectBrief *ProjectBrief `json:"project_brief,omitempty"`
}
