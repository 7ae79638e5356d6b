// File path: internal/draft/orchestrator.go
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/common"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/document"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/history"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/prompt"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/provider"
)

// Error codes surfaced to the transport layer.
const (
	CodeNoProvider    = "NO_PROVIDER_AVAILABLE"
	CodeProviderError = "PROVIDER_ERROR"
	CodeTimeout       = "TIMEOUT"
)

// Error is a drafting failure with a stable machine code.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Request is one draft invocation.
type Request struct {
	RequestID        string
	Workspace        string
	OverrideProvider string
	OverrideModel    string

	Requirement    string
	DocTypes       []document.DocType
	Currency       string
	SellerDefaults map[string]any
	BuyerHint      string
}

// Result carries the finished bundle plus provenance for the response.
type Result struct {
	Bundle   document.DocumentBundle
	Provider string
	Model    string
	Repaired bool
	Issues   []document.FieldError
}

// Resolver picks the backend and model for a request. The provider registry
// is the production implementation.
type Resolver interface {
	Resolve(workspace, overrideProvider, overrideModel string) (provider.Backend, string, error)
}

// Orchestrator runs the generate, validate, repair pipeline.
type Orchestrator struct {
	registry Resolver
	history  *history.Store
	timeout  time.Duration
	now      func() time.Time
}

func NewOrchestrator(registry Resolver, store *history.Store, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Orchestrator{registry: registry, history: store, timeout: timeout, now: time.Now}
}

// Generate produces a valid DocumentBundle for the request, repairing the
// provider output when it fails validation. The returned bundle always
// carries recomputed totals.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	logger := common.Logger()
	backend, model, err := o.registry.Resolve(req.Workspace, req.OverrideProvider, req.OverrideModel)
	if err != nil {
		if errors.Is(err, provider.ErrNoProvider) {
			return Result{}, &Error{Code: CodeNoProvider, Message: "no generation provider is configured", Err: err}
		}
		return Result{}, &Error{Code: CodeProviderError, Message: "provider resolution failed", Err: err}
	}

	packet := prompt.Build(prompt.Request{
		Requirement:    req.Requirement,
		DocTypes:       req.DocTypes,
		Currency:       req.Currency,
		SellerDefaults: req.SellerDefaults,
		BuyerHint:      req.BuyerHint,
	})
	packet.Model = model

	invokeCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	logger.Info("draft: invoking provider", "request_id", req.RequestID,
		"provider", backend.Name(), "model", model, "workspace", req.Workspace)
	text, err := backend.Invoke(invokeCtx, packet)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || invokeCtx.Err() != nil {
			return Result{}, &Error{Code: CodeTimeout, Message: "provider did not respond in time", Err: err}
		}
		return Result{}, &Error{Code: CodeProviderError, Message: "provider invocation failed", Err: err}
	}

	result := o.finish(text, req, backend.Name(), model)
	o.record(ctx, req, result)
	return result, nil
}

// finish turns raw provider text into a valid bundle. Unparseable or invalid
// output goes through repair, so this step cannot fail.
func (o *Orchestrator) finish(text string, req Request, providerName, model string) Result {
	logger := common.Logger()
	now := o.now()
	docType := requestedDocType(req.DocTypes)

	candidate, err := document.ExtractObject(text)
	if err != nil {
		logger.Warn("draft: provider output is not JSON; repairing from scratch",
			"request_id", req.RequestID, "error", err)
		bundle := document.RepairValue(map[string]any{}, docType, now)
		return Result{Bundle: bundle, Provider: providerName, Model: model, Repaired: true,
			Issues: []document.FieldError{{Path: "$", Message: "output was not valid JSON"}}}
	}

	validation := document.Validate(candidate)
	if !validation.OK {
		logger.Info("draft: generated bundle failed validation; repairing",
			"request_id", req.RequestID, "violations", len(validation.Errors))
		bundle := document.RepairValue(candidate, docType, now)
		return Result{Bundle: bundle, Provider: providerName, Model: model, Repaired: true,
			Issues: validation.Errors}
	}

	bundle, err := decodeBundle(candidate)
	if err != nil {
		logger.Warn("draft: valid bundle failed decoding; repairing",
			"request_id", req.RequestID, "error", err)
		repaired := document.RepairValue(candidate, docType, now)
		return Result{Bundle: repaired, Provider: providerName, Model: model, Repaired: true,
			Issues: []document.FieldError{{Path: "$", Message: "bundle decoding failed"}}}
	}
	bundle.Totals = document.ComputeTotals(bundle.Items, bundle.Totals.Shipping, true)
	return Result{Bundle: bundle, Provider: providerName, Model: model}
}

func (o *Orchestrator) record(ctx context.Context, req Request, result Result) {
	if o.history == nil {
		return
	}
	encoded, err := json.Marshal(result.Bundle)
	if err != nil {
		return
	}
	rec := history.Record{
		RequestID:   req.RequestID,
		Workspace:   req.Workspace,
		Provider:    result.Provider,
		Model:       result.Model,
		DocType:     string(result.Bundle.DocType),
		Requirement: req.Requirement,
		Repaired:    result.Repaired,
		Bundle:      string(encoded),
		CreatedAt:   o.now().UTC(),
	}
	if err := o.history.Append(ctx, rec); err != nil {
		common.Logger().Warn("draft: history append failed", "request_id", req.RequestID, "error", err)
	}
}

func requestedDocType(docTypes []document.DocType) document.DocType {
	if len(docTypes) > 0 {
		return docTypes[0]
	}
	return document.DocTypeQuotation
}

func decodeBundle(candidate map[string]any) (document.DocumentBundle, error) {
	encoded, err := json.Marshal(candidate)
	if err != nil {
		return document.DocumentBundle{}, err
	}
	var bundle document.DocumentBundle
	if err := json.Unmarshal(encoded, &bundle); err != nil {
		return document.DocumentBundle{}, err
	}
	return bundle, nil
}
