// File path: internal/prompt/prompt.go
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/document"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/provider"
)

const systemInstruction = "You are an expert commercial-docs drafter for India-focused SMEs.\n" +
	"Output STRICT JSON matching the provided JSON Schema for DocumentBundle.\n" +
	"No markdown, no comments, no extra keys.\n" +
	"Prefer INR context and GST. For quotations set valid_till = issue_date + 14..15 days; " +
	"for invoices set due_date = issue_date + 7 days unless specified.\n" +
	"Use conservative defaults when ambiguous."

const defaultTemperature = 0.2

// Request carries the caller's drafting inputs into prompt construction.
type Request struct {
	Requirement    string
	DocTypes       []document.DocType
	Currency       string
	SellerDefaults map[string]any
	BuyerHint      string
}

// Build renders the generation packet for one draft request. Model is left
// for the provider resolution step to fill.
func Build(req Request) provider.Packet {
	docTypes := req.DocTypes
	if len(docTypes) == 0 {
		docTypes = []document.DocType{document.DocTypeQuotation}
	}
	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = "INR"
	}
	var user strings.Builder
	fmt.Fprintf(&user, "Requirement:\n%s\n\n", strings.TrimSpace(req.Requirement))
	user.WriteString("Preferences:\n")
	fmt.Fprintf(&user, "- doc_types: %s\n", joinDocTypes(docTypes))
	fmt.Fprintf(&user, "- currency: %s\n", currency)
	fmt.Fprintf(&user, "- seller_defaults: %s\n", renderDefaults(req.SellerDefaults))
	fmt.Fprintf(&user, "- buyer_hint: %s\n\n", valueOrNone(req.BuyerHint))
	user.WriteString("Return exactly one JSON object of type DocumentBundle.\n")
	user.WriteString("Schema name: DocumentBundle")
	return provider.Packet{
		System:      systemInstruction,
		User:        user.String(),
		Temperature: defaultTemperature,
		Schema:      document.Schema(),
	}
}

func joinDocTypes(docTypes []document.DocType) string {
	names := make([]string, len(docTypes))
	for i, dt := range docTypes {
		names[i] = string(dt)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func renderDefaults(defaults map[string]any) string {
	if len(defaults) == 0 {
		return "none"
	}
	encoded, err := json.Marshal(defaults)
	if err != nil {
		return "none"
	}
	return string(encoded)
}

func valueOrNone(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "none"
	}
	return v
}
