package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	vellum "github.com/penfolio/vellum-llm-go"
)

// StreamResponse generates a streaming response over SSE framing.
func (p *Provider) StreamResponse(ctx context.Context, req *vellum.GenerateRequest) (<-chan vellum.StreamEvent, error) {
	if !p.SupportsModel(req.Model) {
		return nil, &vellum.ResolutionError{
			Model:  req.Model,
			Vendor: p.vendor,
			Reason: "model not supported by this connection",
			Err:    vellum.ErrInvalidModel,
		}
	}

	body, err := buildChatCompletionRequest(p.vendor, req, true)
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
		return nil, fmt.Errorf("%s HTTP request failed: %w", p.vendor, err)
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
			if m := gjson.GetBytes(payload, "model").String(); m != "" {
				meta.Model = m
			}
			if fr := gjson.GetBytes(payload, "choices.0.finish_reason").String(); fr != "" {
				meta.StopReason = mapFinishReason(fr)
			}
			if u := gjson.GetBytes(payload, "usage"); u.Exists() {
				meta.InputTokens = int(u.Get("prompt_tokens").Int())
				meta.OutputTokens = int(u.Get("completion_tokens").Int())
			}

			if text, ok := vellum.ExtractText(payload); ok {
				eventChan <- vellum.StreamEvent{Delta: &vellum.TextDelta{Text: text}}
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
