package openai

import (
	"encoding/json"
	"fmt"

	vellum "github.com/penfolio/vellum-llm-go"
)

// chatCompletionRequest is the OpenAI-compatible request body.
type chatCompletionRequest struct {
	Model    string           `json:"model"`
	Messages []vellum.Message `json:"messages"`

	// MaxTokens is the classic output ceiling; o-series models use
	// MaxCompletionTokens instead (the shared reasoning+output limit).
	MaxTokens           *int `json:"max_tokens,omitempty"`
	MaxCompletionTokens *int `json:"max_completion_tokens,omitempty"`

	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	Stop             []string `json:"stop,omitempty"`
	Seed             *int     `json:"seed,omitempty"`

	// ReasoningEffort is only populated for o-series models.
	ReasoningEffort *string `json:"reasoning_effort,omitempty"`

	Stream bool `json:"stream,omitempty"`
}

// buildChatCompletionRequest constructs the request body shared by
// GenerateResponse and StreamResponse. OpenRouter keeps the "vendor/model"
// prefix on the wire; the other compatible vendors take the bare identifier.
func buildChatCompletionRequest(vendor vellum.VendorID, req *vellum.GenerateRequest, stream bool) ([]byte, error) {
	params := req.Params
	if params == nil {
		params = &vellum.RequestParams{}
	}

	model := req.Model
	if vendor != vellum.VendorOpenRouter {
		model = vellum.StripVendorPrefix(model)
	}

	messages := make([]vellum.Message, 0, len(req.Messages)+1)
	if params.System != nil {
		messages = append(messages, vellum.Message{Role: vellum.RoleSystem, Content: *params.System})
	}
	messages = append(messages, req.Messages...)

	body := chatCompletionRequest{
		Model:            model,
		Messages:         messages,
		Temperature:      params.Temperature,
		TopP:             params.TopP,
		FrequencyPenalty: params.FrequencyPenalty,
		PresencePenalty:  params.PresencePenalty,
		Stop:             params.Stop,
		Seed:             params.Seed,
		Stream:           stream,
	}

	if params.MaxTokens != nil {
		if params.ReasoningEffort != nil {
			body.MaxCompletionTokens = params.MaxTokens
		} else {
			body.MaxTokens = params.MaxTokens
		}
	}
	body.ReasoningEffort = params.ReasoningEffort

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", vendor, err)
	}
	return raw, nil
}
