package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/tidwall/sjson"

	vellum "github.com/penfolio/vellum-llm-go"
)

// buildMessageParams constructs Anthropic API parameters from a
// GenerateRequest. The SDK's param types own the wire field names and
// omission rules; the thinking config is only attached when the budget
// calculator produced a positive allowance.
func buildMessageParams(req *vellum.GenerateRequest) (anthropic.MessageNewParams, error) {
	params := req.Params
	if params == nil {
		params = &vellum.RequestParams{}
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	var system []anthropic.TextBlockParam
	for _, m := range req.Messages {
		switch m.Role {
		case vellum.RoleSystem:
			system = append(system, anthropic.TextBlockParam{
				Type: "text",
				Text: m.Content,
			})
		case vellum.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case vellum.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("%w: unknown message role %q", vellum.ErrInvalidRequest, m.Role)
		}
	}

	apiParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(vellum.StripVendorPrefix(req.Model)),
		Messages:  messages,
		MaxTokens: int64(params.GetMaxTokens(4096)),
	}

	if params.Temperature != nil {
		apiParams.Temperature = anthropic.Float(*params.Temperature)
	}
	if params.TopP != nil {
		apiParams.TopP = anthropic.Float(*params.TopP)
	}
	if len(params.Stop) > 0 {
		apiParams.StopSequences = params.Stop
	}

	// System prompt: explicit param wins over system-role messages.
	if params.System != nil {
		apiParams.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: *params.System,
			},
		}
	} else if len(system) > 0 {
		apiParams.System = system
	}

	if params.ThinkingBudget != nil && *params.ThinkingBudget > 0 {
		apiParams.Thinking = anthropic.ThinkingConfigParamOfEnabled(int64(*params.ThinkingBudget))
	}

	return apiParams, nil
}

// buildMessageBody marshals the SDK params into the request body and flips
// the stream flag (the SDK sets it internally when using its own transport,
// which this package does not).
func buildMessageBody(req *vellum.GenerateRequest, stream bool) ([]byte, error) {
	apiParams, err := buildMessageParams(req)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(apiParams)
	if err != nil {
		return nil, fmt.Errorf("marshaling anthropic request: %w", err)
	}
	if stream {
		raw, err = sjson.SetBytes(raw, "stream", true)
		if err != nil {
			return nil, fmt.Errorf("setting stream flag: %w", err)
		}
	}
	return raw, nil
}
