// File path: internal/api/draft_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/common"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/document"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/draft"
)

type draftRequest struct {
	Prompt         string         `json:"prompt"`
	Prefer         []string       `json:"prefer"`
	Currency       string         `json:"currency"`
	Provider       string         `json:"provider"`
	Model          string         `json:"model"`
	WorkspaceID    string         `json:"workspace_id"`
	SellerDefaults map[string]any `json:"seller_defaults"`
	BuyerHint      string         `json:"buyer_hint"`
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidationError, "request body must be JSON", nil)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, r, http.StatusBadRequest, codeValidationError, "prompt is required", nil)
		return
	}
	workspace := strings.TrimSpace(req.WorkspaceID)
	if workspace == "" {
		workspace = workspaceFrom(r)
	}
	docTypes, badType := parseDocTypes(req.Prefer)
	if badType != "" {
		writeError(w, r, http.StatusBadRequest, codeValidationError,
			fmt.Sprintf("unknown doc type %q", badType), nil)
		return
	}
	if ok, wait := s.limiter.allow(clientIP(r) + "|" + workspace); !ok {
		writeError(w, r, statusForCode(codeRateLimited), codeRateLimited,
			fmt.Sprintf("draft rate limit reached; retry in %ds", int(wait.Seconds())+1),
			map[string]any{"retry_after_seconds": int(wait.Seconds()) + 1})
		return
	}
	overrideProvider := firstHeaderOrField(r, headerProvider, req.Provider)
	overrideModel := firstHeaderOrField(r, headerModel, req.Model)

	result, err := s.orchestrator.Generate(r.Context(), draft.Request{
		RequestID:        requestIDFrom(r.Context()),
		Workspace:        workspace,
		OverrideProvider: overrideProvider,
		OverrideModel:    overrideModel,
		Requirement:      req.Prompt,
		DocTypes:         docTypes,
		Currency:         req.Currency,
		SellerDefaults:   req.SellerDefaults,
		BuyerHint:        req.BuyerHint,
	})
	if err != nil {
		var draftErr *draft.Error
		if errors.As(err, &draftErr) {
			code := draftErrorCode(draftErr.Code)
			writeError(w, r, statusForCode(code), code, draftErr.Message, nil)
			return
		}
		writeError(w, r, http.StatusInternalServerError, codeInternal, "draft generation failed", nil)
		return
	}
	logger.Info("api: draft generated", "request_id", requestIDFrom(r.Context()),
		"provider", result.Provider, "model", result.Model, "repaired", result.Repaired)
	w.Header().Set(headerProvider, result.Provider)
	w.Header().Set(headerModel, result.Model)
	writeJSON(w, http.StatusOK, result.Bundle)
}

func parseDocTypes(prefer []string) ([]document.DocType, string) {
	var docTypes []document.DocType
	for _, raw := range prefer {
		dt, ok := document.ParseDocType(strings.ToUpper(strings.TrimSpace(raw)))
		if !ok {
			return nil, raw
		}
		docTypes = append(docTypes, dt)
	}
	return docTypes, ""
}

func firstHeaderOrField(r *http.Request, header, field string) string {
	if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
		return v
	}
	return strings.TrimSpace(field)
}

func draftErrorCode(code string) string {
	switch code {
	case draft.CodeNoProvider:
		return codeNoProvider
	case draft.CodeTimeout:
		return codeTimeout
	case draft.CodeProviderError:
		return codeProviderError
	default:
		return codeInternal
	}
}
