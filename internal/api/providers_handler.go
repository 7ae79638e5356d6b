// File path: internal/api/providers_handler.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/common"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/provider"
)

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"providers": s.registry.Describe()})
}

type providerSelectRequest struct {
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	WorkspaceID string `json:"workspace_id"`
}

func (s *Server) handleProviderSelect(w http.ResponseWriter, r *http.Request) {
	var req providerSelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidationError, "request body must be JSON", nil)
		return
	}
	if strings.TrimSpace(req.Provider) == "" {
		writeError(w, r, http.StatusBadRequest, codeValidationError, "provider is required", nil)
		return
	}
	workspace := strings.TrimSpace(req.WorkspaceID)
	if workspace == "" {
		workspace = workspaceFrom(r)
	}
	sel, err := s.registry.SelectActive(workspace, req.Provider, req.Model)
	if err != nil {
		if errors.Is(err, provider.ErrNoProvider) {
			writeError(w, r, statusForCode(codeNoProvider), codeNoProvider, err.Error(), nil)
			return
		}
		writeError(w, r, http.StatusBadRequest, codeValidationError, err.Error(), nil)
		return
	}
	common.Logger().Info("api: provider selected", "workspace", workspace,
		"provider", sel.Provider, "model", sel.Model)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "active": map[string]any{
		"provider":     sel.Provider,
		"model":        sel.Model,
		"workspace_id": workspace,
	}})
}

func (s *Server) handleProviderActive(w http.ResponseWriter, r *http.Request) {
	workspace := strings.TrimSpace(r.URL.Query().Get("workspace_id"))
	if workspace == "" {
		workspace = workspaceFrom(r)
	}
	sel, err := s.registry.Active(workspace)
	if err != nil {
		writeError(w, r, statusForCode(codeNoProvider), codeNoProvider, "no provider is configured", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"provider":     sel.Provider,
		"model":        sel.Model,
		"workspace_id": workspace,
	})
}
