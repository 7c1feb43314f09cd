package anthropic

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	vellum "github.com/penfolio/vellum-llm-go"
)

// StreamResponse generates a streaming response from Claude.
//
// Anthropic's SSE stream carries typed events: message_start (model, input
// usage), content_block_delta (text_delta / thinking_delta), message_delta
// (stop reason, output usage), message_stop. Only text deltas are forwarded
// as prose; thinking deltas are the model's internal deliberation and are
// not part of the generated text.
func (p *Provider) StreamResponse(ctx context.Context, req *vellum.GenerateRequest) (<-chan vellum.StreamEvent, error) {
	if !p.SupportsModel(req.Model) {
		return nil, &vellum.ResolutionError{
			Model:  req.Model,
			Vendor: vellum.VendorAnthropic,
			Reason: "model not supported by Anthropic (must start with 'claude-')",
			Err:    vellum.ErrInvalidModel,
		}
	}

	body, err := buildMessageBody(req, true)
	if err != nil {
		return nil, err
	}

	httpReq, err := p.buildHTTPRequest(ctx, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic HTTP request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, p.handleErrorResponse(resp)
	}

	eventChan := make(chan vellum.StreamEvent, 10) // Buffered to prevent blocking

	go func() {
		defer close(eventChan)

		var meta vellum.StreamMetadata

		err := vellum.StreamSSE(ctx, resp.Body, p.logger, func(payload []byte) error {
			switch gjson.GetBytes(payload, "type").String() {
			case "message_start":
				meta.Model = gjson.GetBytes(payload, "message.model").String()
				meta.InputTokens = int(gjson.GetBytes(payload, "message.usage.input_tokens").Int())
			case "content_block_delta":
				if gjson.GetBytes(payload, "delta.type").String() == "text_delta" {
					if text := gjson.GetBytes(payload, "delta.text").String(); text != "" {
						eventChan <- vellum.StreamEvent{Delta: &vellum.TextDelta{Text: text}}
					}
				}
			case "message_delta":
				if sr := gjson.GetBytes(payload, "delta.stop_reason").String(); sr != "" {
					meta.StopReason = sr
				}
				if u := gjson.GetBytes(payload, "usage.output_tokens"); u.Exists() {
					meta.OutputTokens = int(u.Int())
				}
			case "error":
				return &vellum.ProviderError{
					Vendor:  vellum.VendorAnthropic,
					Message: gjson.GetBytes(payload, "error.message").String(),
				}
			}
			return nil
		})
		if err != nil {
			eventChan <- vellum.StreamEvent{Error: err}
			return
		}

		eventChan <- vellum.StreamEvent{Metadata: &meta}
	}()

	return eventChan, nil
}
