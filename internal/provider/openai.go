// File path: internal/provider/openai.go
package provider

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/common"
)

// OpenAICompatible talks to any endpoint speaking the OpenAI chat completions
// protocol. It backs the openai, groq, and openrouter providers, which differ
// only in base URL, credentials, and model catalogue.
type OpenAICompatible struct {
	name   string
	client openai.Client
	caps   Capabilities
	models []ModelInfo
}

func NewOpenAICompatible(name, apiKey, baseURL string, caps Capabilities, models []ModelInfo) *OpenAICompatible {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	common.Logger().Info("provider: openai-compatible backend configured", "provider", name, "base_url", baseURL)
	return &OpenAICompatible{
		name:   name,
		client: openai.NewClient(opts...),
		caps:   caps,
		models: models,
	}
}

func (o *OpenAICompatible) Name() string { return o.name }

func (o *OpenAICompatible) Capabilities() Capabilities { return o.caps }

func (o *OpenAICompatible) Models() []ModelInfo {
	out := make([]ModelInfo, len(o.models))
	copy(out, o.models)
	return out
}

func (o *OpenAICompatible) Invoke(ctx context.Context, packet Packet) (string, error) {
	logger := common.Logger()
	logger.Debug("provider: sending chat completion", "provider", o.name, "model", packet.Model)
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(packet.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(packet.System),
			openai.UserMessage(packet.User),
		},
		Temperature: openai.Float(packet.Temperature),
	}
	switch {
	case o.caps.SupportsJSONSchema && packet.Schema != nil:
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "document_bundle",
					Schema: packet.Schema,
					Strict: openai.Bool(true),
				},
			},
		}
	case o.caps.SupportsJSONObject:
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("provider: chat completion failed", "provider", o.name, "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("provider %s: no choices returned", o.name)
	}
	logger.Debug("provider: chat completion succeeded", "provider", o.name)
	return resp.Choices[0].Message.Content, nil
}
