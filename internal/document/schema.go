// File path: internal/document/schema.go
package document

// Schema returns the JSON Schema for DocumentBundle handed to
// schema-constrained generation backends. It mirrors the validator's checks;
// the validator stays authoritative because not every backend enforces a
// schema at generation time.
func Schema() map[string]any {
	partySchema := map[string]any{
		"type":     "object",
		"required": []string{"name"},
		"properties": map[string]any{
			"name":    map[string]any{"type": "string", "minLength": 2, "maxLength": 100},
			"address": map[string]any{"type": "string"},
			"email":   map[string]any{"type": "string"},
			"phone":   map[string]any{"type": "string"},
			"gstin":   map[string]any{"type": "string"},
			"pan":     map[string]any{"type": "string"},
			"bank": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"account_name": map[string]any{"type": "string"},
					"account_no":   map[string]any{"type": "string"},
					"ifsc":         map[string]any{"type": "string"},
					"upi_id":       map[string]any{"type": "string"},
				},
			},
		},
	}
	itemSchema := map[string]any{
		"type":     "object",
		"required": []string{"description", "qty", "unit_price"},
		"properties": map[string]any{
			"description": map[string]any{"type": "string", "minLength": 1},
			"qty":         map[string]any{"type": "number", "exclusiveMinimum": 0},
			"unit":        map[string]any{"type": "string"},
			"unit_price":  map[string]any{"type": "number", "minimum": 0},
			"discount":    map[string]any{"type": "number", "minimum": 0},
			"tax_rate":    map[string]any{"type": "number", "minimum": 0},
			"hsn_sac":     map[string]any{"type": "string"},
		},
	}
	dateSchema := map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}
	milestoneSchema := map[string]any{
		"type":     "object",
		"required": []string{"name", "start", "end"},
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"start": dateSchema,
			"end":   dateSchema,
			"fee":   map[string]any{"type": "number", "minimum": 0},
		},
	}
	billingPartSchema := map[string]any{
		"type":     "object",
		"required": []string{"when", "percent"},
		"properties": map[string]any{
			"when":    map[string]any{"type": "string"},
			"percent": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		},
	}
	return map[string]any{
		"$schema":  "https://json-schema.org/draft/2020-12/schema",
		"title":    "DocumentBundle",
		"type":     "object",
		"required": []string{"doc_type", "currency", "seller", "buyer", "dates", "items", "terms"},
		"properties": map[string]any{
			"doc_type": map[string]any{
				"type": "string",
				"enum": []string{string(DocTypeQuotation), string(DocTypeTaxInvoice), string(DocTypeProjectBrief)},
			},
			"currency": map[string]any{"type": "string"},
			"locale":   map[string]any{"type": "string"},
			"seller":   partySchema,
			"buyer":    partySchema,
			"doc_meta": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"doc_no": map[string]any{"type": "string"},
					"ref_no": map[string]any{"type": "string"},
					"po_no":  map[string]any{"type": "string"},
				},
			},
			"dates": map[string]any{
				"type":     "object",
				"required": []string{"issue_date"},
				"properties": map[string]any{
					"issue_date": dateSchema,
					"due_date":   dateSchema,
					"valid_till": dateSchema,
				},
			},
			"items": map[string]any{"type": "array", "minItems": 1, "items": itemSchema},
			"totals": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"subtotal":       map[string]any{"type": "number"},
					"discount_total": map[string]any{"type": "number"},
					"tax_total":      map[string]any{"type": "number"},
					"shipping":       map[string]any{"type": "number", "minimum": 0},
					"round_off":      map[string]any{"type": "number"},
					"grand_total":    map[string]any{"type": "number"},
				},
			},
			"terms": map[string]any{
				"type":     "object",
				"required": []string{"bullets"},
				"properties": map[string]any{
					"title":   map[string]any{"type": "string"},
					"bullets": map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "string"}},
				},
			},
			"notes": map[string]any{"type": "string"},
			"payment": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"mode":         map[string]any{"type": "string", "enum": []string{"UPI", "BANK_TRANSFER", "OTHER"}},
					"instructions": map[string]any{"type": "string"},
					"vpa":          map[string]any{"type": "string"},
				},
			},
			"branding": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"accent_color": map[string]any{"type": "string"},
					"footer_text":  map[string]any{"type": "string"},
					"logo_ref":     map[string]any{"type": "string"},
				},
			},
			"quotation": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"validity_days":   map[string]any{"type": "integer", "minimum": 1},
					"advance_percent": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
					"inclusions":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"exclusions":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"assumptions":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"delivery_window": map[string]any{"type": "string"},
				},
			},
			"invoice": map[string]any{
				"type":     "object",
				"required": []string{"supply_date", "place_of_supply"},
				"properties": map[string]any{
					"supply_date":     dateSchema,
					"place_of_supply": map[string]any{"type": "string"},
					"reverse_charge":  map[string]any{"type": "boolean"},
					"einvoice_irn":    map[string]any{"type": "string"},
					"einvoice_ack_no": map[string]any{"type": "string"},
					"transport":       map[string]any{"type": "string"},
				},
			},
			"project_brief": map[string]any{
				"type":     "object",
				"required": []string{"objective", "scope", "deliverables", "billing_plan"},
				"properties": map[string]any{
					"objective":     map[string]any{"type": "string", "minLength": 1},
					"scope":         map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "string"}},
					"deliverables":  map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "string"}},
					"assumptions":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"risks":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"milestones":    map[string]any{"type": "array", "items": milestoneSchema},
					"timeline_days": map[string]any{"type": "integer", "minimum": 1},
					"billing_plan":  map[string]any{"type": "array", "minItems": 1, "items": billingPartSchema},
				},
			},
		},
	}
}
