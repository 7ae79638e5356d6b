// File path: internal/provider/provider.go
package provider

import "context"

// Packet carries one generation request to a backend. System and User are
// already rendered prompt text; Schema is the structured-output target handed
// to backends that can enforce it.
type Packet struct {
	System      string
	User        string
	Model       string
	Temperature float64
	Schema      map[string]any
}

// Capabilities reports which structured-output modes a backend supports.
// Backends without either fall back to instruction-only JSON.
type Capabilities struct {
	SupportsJSONSchema bool
	SupportsJSONObject bool
}

type ModelInfo struct {
	ID                 string `json:"id"`
	SupportsJSONSchema bool   `json:"supports_json_schema"`
}

// Backend is a single configured generation provider.
type Backend interface {
	Name() string
	Invoke(ctx context.Context, packet Packet) (string, error)
	Capabilities() Capabilities
	Models() []ModelInfo
}
