// File path: internal/api/history_handler.go
package api

import (
	"net/http"
	"strconv"
	"strings"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, map[string]any{"drafts": []any{}, "count": 0})
		return
	}
	workspace := strings.TrimSpace(r.URL.Query().Get("workspace_id"))
	if workspace == "" {
		workspace = workspaceFrom(r)
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, codeValidationError, "limit must be an integer", nil)
			return
		}
		limit = parsed
	}
	records, err := s.history.Recent(r.Context(), workspace, limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, codeInternal, "unable to load history", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": records, "count": len(records)})
}
