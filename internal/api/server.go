// File path: internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/common"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/draft"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/history"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/provider"
)

// Drafter produces a finished bundle for one draft request. The orchestrator
// is the production implementation.
type Drafter interface {
	Generate(ctx context.Context, req draft.Request) (draft.Result, error)
}

type Server struct {
	router       chi.Router
	registry     *provider.Registry
	orchestrator Drafter
	history      *history.Store
	limiter      *rateLimiter
	version      string
}

// Config controls the server's request-level policies.
type Config struct {
	Version            string
	DraftRatePerMinute int
}

func NewServer(registry *provider.Registry, orch Drafter, store *history.Store, cfg Config) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		registry:     registry,
		orchestrator: orch,
		history:      store,
		limiter:      newRateLimiter(cfg.DraftRatePerMinute, time.Minute),
		version:      cfg.Version,
	}
	s.routes()
	common.Logger().Info("api: server configured", "version", cfg.Version,
		"draft_rate_per_minute", cfg.DraftRatePerMinute)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(requestID)
	s.router.Use(requestLogger)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/v1/healthz", s.handleHealth)

	s.router.Get("/v1/providers", s.handleProviders)
	s.router.Post("/v1/providers/select", s.handleProviderSelect)
	s.router.Get("/v1/providers/active", s.handleProviderActive)

	s.router.Post("/v1/draft", s.handleDraft)
	s.router.Post("/v1/validate", s.handleValidate)
	s.router.Post("/v1/repair", s.handleRepair)
	s.router.Post("/v1/compute/totals", s.handleComputeTotals)
	s.router.Post("/v1/upi/deeplink", s.handleUPIDeeplink)

	s.router.Get("/v1/history", s.handleHistory)
	s.router.Get("/v1/logs", s.handleLogs)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "version": s.version})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := common.LogEntries()
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
