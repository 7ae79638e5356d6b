// File path: internal/provider/gemini.go
package provider

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/common"
)

// Gemini adapts the Google GenAI SDK. Schema enforcement is unavailable
// through the chat surface used here, so it runs in JSON-object mode and
// relies on the downstream validator.
type Gemini struct {
	client *genai.Client
	models []ModelInfo
}

func NewGemini(ctx context.Context, apiKey string, models []ModelInfo) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	common.Logger().Info("provider: gemini backend configured")
	return &Gemini{client: client, models: models}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Capabilities() Capabilities {
	return Capabilities{SupportsJSONObject: true}
}

func (g *Gemini) Models() []ModelInfo {
	out := make([]ModelInfo, len(g.models))
	copy(out, g.models)
	return out
}

func (g *Gemini) Invoke(ctx context.Context, packet Packet) (string, error) {
	logger := common.Logger()
	logger.Debug("provider: sending generate content", "provider", "gemini", "model", packet.Model)
	contents := []*genai.Content{
		genai.NewContentFromText(packet.User, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(packet.System, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(float32(packet.Temperature)),
	}
	result, err := g.client.Models.GenerateContent(ctx, packet.Model, contents, config)
	if err != nil {
		logger.Error("provider: generate content failed", "provider", "gemini", "error", err)
		return "", err
	}
	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("provider gemini: empty response")
	}
	logger.Debug("provider: generate content succeeded", "provider", "gemini")
	return text, nil
}
