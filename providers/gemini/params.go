package gemini

import (
	"encoding/json"
	"fmt"

	vellum "github.com/penfolio/vellum-llm-go"
)

// Gemini generateContent request body. Field names follow the REST API's
// camelCase convention.
type generateContentRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens  *int            `json:"maxOutputTokens,omitempty"`
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"topP,omitempty"`
	StopSequences    []string        `json:"stopSequences,omitempty"`
	ThinkingConfig   *thinkingConfig `json:"thinkingConfig,omitempty"`
	FrequencyPenalty *float64        `json:"frequencyPenalty,omitempty"`
	PresencePenalty  *float64        `json:"presencePenalty,omitempty"`
	Seed             *int            `json:"seed,omitempty"`
}

// thinkingConfig carries either a numeric budget (Gemini 2.5 family, where an
// explicit 0 disables thinking and must stay on the wire) or a qualitative
// level (Gemini 3 family).
type thinkingConfig struct {
	ThinkingBudget *int   `json:"thinkingBudget,omitempty"`
	ThinkingLevel  string `json:"thinkingLevel,omitempty"`
}

// buildGenerateContentRequest constructs the request body shared by
// GenerateResponse and StreamResponse.
func buildGenerateContentRequest(req *vellum.GenerateRequest) ([]byte, error) {
	params := req.Params
	if params == nil {
		params = &vellum.RequestParams{}
	}

	body := generateContentRequest{
		GenerationConfig: generationConfig{
			MaxOutputTokens:  params.MaxTokens,
			Temperature:      params.Temperature,
			TopP:             params.TopP,
			StopSequences:    params.Stop,
			FrequencyPenalty: params.FrequencyPenalty,
			PresencePenalty:  params.PresencePenalty,
			Seed:             params.Seed,
		},
	}

	var system []part
	if params.System != nil {
		system = append(system, part{Text: *params.System})
	}

	for _, m := range req.Messages {
		switch m.Role {
		case vellum.RoleSystem:
			system = append(system, part{Text: m.Content})
		case vellum.RoleAssistant:
			// Gemini calls the assistant role "model".
			body.Contents = append(body.Contents, content{Role: "model", Parts: []part{{Text: m.Content}}})
		case vellum.RoleUser:
			body.Contents = append(body.Contents, content{Role: "user", Parts: []part{{Text: m.Content}}})
		default:
			return nil, fmt.Errorf("%w: unknown message role %q", vellum.ErrInvalidRequest, m.Role)
		}
	}
	if len(system) > 0 {
		body.SystemInstruction = &content{Parts: system}
	}

	if params.ThinkingBudget != nil {
		body.GenerationConfig.ThinkingConfig = &thinkingConfig{ThinkingBudget: params.ThinkingBudget}
	} else if params.ThinkingLevel != nil {
		body.GenerationConfig.ThinkingConfig = &thinkingConfig{ThinkingLevel: *params.ThinkingLevel}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling gemini request: %w", err)
	}
	return raw, nil
}
