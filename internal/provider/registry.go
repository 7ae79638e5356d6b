// File path: internal/provider/registry.go
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/common"
)

const (
	baseURLGroq       = "https://api.groq.com/openai/v1"
	baseURLOpenRouter = "https://openrouter.ai/api/v1"
)

// ErrNoProvider is returned when no backend has credentials configured.
var ErrNoProvider = errors.New("no provider available")

// Credentials holds the per-provider API keys. A provider with an empty key
// is not registered.
type Credentials struct {
	OpenRouterKey string
	GroqKey       string
	OpenAIKey     string
	GeminiKey     string
}

// Info describes one provider for discovery responses. Providers without
// credentials are listed as disabled.
type Info struct {
	Name         string      `json:"name"`
	Enabled      bool        `json:"enabled"`
	DefaultModel string      `json:"default_model"`
	Models       []ModelInfo `json:"models"`
}

// Model catalogues are static. Listing endpoints differ per provider and the
// drafting flow only needs a stable default plus a short pick list.
var (
	openRouterModels = []ModelInfo{
		{ID: "openrouter/auto", SupportsJSONSchema: false},
		{ID: "meta-llama/llama-3.1-70b-instruct", SupportsJSONSchema: false},
	}
	groqModels = []ModelInfo{
		{ID: "llama-3.1-70b-versatile", SupportsJSONSchema: false},
		{ID: "llama-3.1-8b-instant", SupportsJSONSchema: false},
	}
	openAIModels = []ModelInfo{
		{ID: "gpt-4o", SupportsJSONSchema: true},
		{ID: "gpt-4o-mini", SupportsJSONSchema: true},
	}
	geminiModels = []ModelInfo{
		{ID: "gemini-1.5-pro", SupportsJSONSchema: false},
		{ID: "gemini-1.5-flash", SupportsJSONSchema: false},
	}
)

var providerOrder = []string{"openrouter", "groq", "openai", "gemini"}

var defaultModels = map[string]string{
	"openrouter": "openrouter/auto",
	"groq":       "llama-3.1-70b-versatile",
	"openai":     "gpt-4o-mini",
	"gemini":     "gemini-1.5-flash",
}

// Registry holds the configured backends and the per-workspace selections.
type Registry struct {
	backends   map[string]Backend
	selections *SelectionStore

	defaultProvider string
	defaultModel    string
}

// NewRegistry registers a backend for every provider whose credentials are
// present. defaultProvider and defaultModel seed workspaces with no explicit
// selection; when the configured default is unavailable, the first available
// provider in canonical order takes its place.
func NewRegistry(ctx context.Context, creds Credentials, defaultProvider, defaultModel string) (*Registry, error) {
	logger := common.Logger()
	backends := make(map[string]Backend)
	if creds.OpenRouterKey != "" {
		backends["openrouter"] = NewOpenAICompatible("openrouter", creds.OpenRouterKey, baseURLOpenRouter,
			Capabilities{SupportsJSONObject: true}, openRouterModels)
	}
	if creds.GroqKey != "" {
		backends["groq"] = NewOpenAICompatible("groq", creds.GroqKey, baseURLGroq,
			Capabilities{SupportsJSONObject: true}, groqModels)
	}
	if creds.OpenAIKey != "" {
		backends["openai"] = NewOpenAICompatible("openai", creds.OpenAIKey, "",
			Capabilities{SupportsJSONSchema: true, SupportsJSONObject: true}, openAIModels)
	}
	if creds.GeminiKey != "" {
		gemini, err := NewGemini(ctx, creds.GeminiKey, geminiModels)
		if err != nil {
			return nil, err
		}
		backends["gemini"] = gemini
	}
	reg := &Registry{
		backends:        backends,
		selections:      NewSelectionStore(),
		defaultProvider: defaultProvider,
		defaultModel:    defaultModel,
	}
	if _, ok := backends[defaultProvider]; !ok {
		for _, name := range providerOrder {
			if _, ok := backends[name]; ok {
				reg.defaultProvider = name
				reg.defaultModel = defaultModels[name]
				break
			}
		}
	}
	if reg.defaultModel == "" {
		reg.defaultModel = defaultModels[reg.defaultProvider]
	}
	if len(backends) == 0 {
		logger.Warn("provider: no credentials configured; drafting is unavailable")
	} else {
		logger.Info("provider: registry ready", "providers", len(backends),
			"default_provider", reg.defaultProvider, "default_model", reg.defaultModel)
	}
	return reg, nil
}

// Describe lists every known provider in canonical order, including
// unavailable ones so callers can see what credentials would unlock.
func (r *Registry) Describe() []Info {
	infos := make([]Info, 0, len(providerOrder))
	for _, name := range providerOrder {
		backend, ok := r.backends[name]
		info := Info{Name: name, Enabled: ok, DefaultModel: defaultModels[name]}
		if ok {
			info.Models = backend.Models()
		}
		infos = append(infos, info)
	}
	return infos
}

// SelectActive pins a workspace to a provider. An empty model pins the
// provider's default model.
func (r *Registry) SelectActive(workspace, providerName, model string) (Selection, error) {
	if _, known := defaultModels[providerName]; !known {
		return Selection{}, fmt.Errorf("unknown provider %q", providerName)
	}
	if _, ok := r.backends[providerName]; !ok {
		return Selection{}, fmt.Errorf("provider %q is not configured: %w", providerName, ErrNoProvider)
	}
	if model == "" {
		model = defaultModels[providerName]
	}
	sel := Selection{Provider: providerName, Model: model}
	r.selections.Set(workspace, sel)
	common.Logger().Info("provider: workspace selection updated", "workspace", workspace,
		"provider", providerName, "model", model)
	return sel, nil
}

// Active returns the workspace's effective selection, falling back to the
// registry default when the workspace has never selected.
func (r *Registry) Active(workspace string) (Selection, error) {
	if sel, ok := r.selections.Get(workspace); ok {
		return sel, nil
	}
	if r.defaultProvider == "" {
		return Selection{}, ErrNoProvider
	}
	return Selection{Provider: r.defaultProvider, Model: r.defaultModel}, nil
}

// Resolve picks the backend and model for one draft request. A provider
// override resolves against that provider's default model unless a model
// override accompanies it; a bare model override reuses the active provider.
func (r *Registry) Resolve(workspace, overrideProvider, overrideModel string) (Backend, string, error) {
	if len(r.backends) == 0 {
		return nil, "", ErrNoProvider
	}
	sel, err := r.Active(workspace)
	if err != nil {
		return nil, "", err
	}
	providerName := sel.Provider
	model := sel.Model
	if overrideProvider != "" {
		providerName = overrideProvider
		model = defaultModels[overrideProvider]
	}
	if overrideModel != "" {
		model = overrideModel
	}
	backend, ok := r.backends[providerName]
	if !ok {
		return nil, "", fmt.Errorf("provider %q is not configured: %w", providerName, ErrNoProvider)
	}
	if model == "" {
		model = defaultModels[providerName]
	}
	return backend, model, nil
}
