// File path: internal/draft/orchestrator_test.go
package draft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/document"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/provider"
)

type stubBackend struct {
	name     string
	response string
	err      error
	lastReq  provider.Packet
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Invoke(ctx context.Context, packet provider.Packet) (string, error) {
	s.lastReq = packet
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubBackend) Capabilities() provider.Capabilities { return provider.Capabilities{} }

func (s *stubBackend) Models() []provider.ModelInfo { return nil }

type stubResolver struct {
	backend provider.Backend
	model   string
	err     error
}

func (s *stubResolver) Resolve(workspace, overrideProvider, overrideModel string) (provider.Backend, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.backend, s.model, nil
}

const validQuotationJSON = `{
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

func newTestOrchestrator(backend *stubBackend) *Orchestrator {
	resolver := &stubResolver{backend: backend, model: "test-model"}
	orch := NewOrchestrator(resolver, nil, time.Second)
	orch.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }
	return orch
}

func TestGenerateValidOutput(t *testing.T) {
	backend := &stubBackend{name: "stub", response: validQuotationJSON}
	orch := newTestOrchestrator(backend)
	result, err := orch.Generate(context.Background(), Request{
		RequestID:   "req-1",
		Workspace:   "default",
		Requirement: "Quotation for a website",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Repaired {
		t.Fatal("valid output must not be marked repaired")
	}
	if result.Provider != "stub" || result.Model != "test-model" {
		t.Fatalf("unexpected provenance: %s %s", result.Provider, result.Model)
	}
	if result.Bundle.Totals.GrandTotal != 43660 {
		t.Fatalf("totals not recomputed: %v", result.Bundle.Totals.GrandTotal)
	}
	if backend.lastReq.Model != "test-model" {
		t.Fatalf("model not passed to backend: %q", backend.lastReq.Model)
	}
	if backend.lastReq.Schema == nil {
		t.Fatal("schema not passed to backend")
	}
	if vr := document.ValidateBundle(result.Bundle); !vr.OK {
		t.Fatalf("orchestrator output must validate: %+v", vr.Errors)
	}
}

func TestGenerateInvalidOutputIsRepaired(t *testing.T) {
	backend := &stubBackend{name: "stub", response: `{"doc_type": "TAX_INVOICE", "items": [{"qty": "2"}]}`}
	orch := newTestOrchestrator(backend)
	result, err := orch.Generate(context.Background(), Request{Requirement: "Invoice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Repaired {
		t.Fatal("invalid output must be marked repaired")
	}
	if len(result.Issues) == 0 {
		t.Fatal("expected recorded validation issues")
	}
	if vr := document.ValidateBundle(result.Bundle); !vr.OK {
		t.Fatalf("repaired output must validate: %+v", vr.Errors)
	}
	if result.Bundle.DocType != document.DocTypeTaxInvoice {
		t.Fatalf("doc type lost in repair: %q", result.Bundle.DocType)
	}
}

func TestGenerateNonJSONOutputIsRepaired(t *testing.T) {
	backend := &stubBackend{name: "stub", response: "I cannot produce JSON today."}
	orch := newTestOrchestrator(backend)
	result, err := orch.Generate(context.Background(), Request{
		Requirement: "Brief",
		DocTypes:    []document.DocType{document.DocTypeProjectBrief},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Repaired {
		t.Fatal("non-JSON output must be marked repaired")
	}
	if result.Bundle.DocType != document.DocTypeProjectBrief {
		t.Fatalf("requested doc type must drive synthesis, got %q", result.Bundle.DocType)
	}
	if vr := document.ValidateBundle(result.Bundle); !vr.OK {
		t.Fatalf("synthesized output must validate: %+v", vr.Errors)
	}
}

func TestGenerateProviderError(t *testing.T) {
	backend := &stubBackend{name: "stub", err: errors.New("boom")}
	orch := newTestOrchestrator(backend)
	_, err := orch.Generate(context.Background(), Request{Requirement: "Anything"})
	var draftErr *Error
	if !errors.As(err, &draftErr) || draftErr.Code != CodeProviderError {
		t.Fatalf("expected PROVIDER_ERROR, got %v", err)
	}
}

func TestGenerateTimeout(t *testing.T) {
	backend := &stubBackend{name: "stub", err: context.DeadlineExceeded}
	orch := newTestOrchestrator(backend)
	_, err := orch.Generate(context.Background(), Request{Requirement: "Anything"})
	var draftErr *Error
	if !errors.As(err, &draftErr) || draftErr.Code != CodeTimeout {
		t.Fatalf("expected TIMEOUT, got %v", err)
	}
}

func TestGenerateNoProvider(t *testing.T) {
	resolver := &stubResolver{err: provider.ErrNoProvider}
	orch := NewOrchestrator(resolver, nil, time.Second)
	_, err := orch.Generate(context.Background(), Request{Requirement: "Anything"})
	var draftErr *Error
	if !errors.As(err, &draftErr) || draftErr.Code != CodeNoProvider {
		t.Fatalf("expected NO_PROVIDER_AVAILABLE, got %v", err)
	}
}
