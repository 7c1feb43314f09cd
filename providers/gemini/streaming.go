package gemini

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	vellum "github.com/penfolio/vellum-llm-go"
)

// StreamResponse generates a streaming response from Gemini.
//
// The body is a raw JSON-object sequence, not SSE: each brace-balanced object
// carries candidates[].content.parts[].text, and one object can yield several
// deltas when a candidate holds multiple parts.
func (p *Provider) StreamResponse(ctx context.Context, req *vellum.GenerateRequest) (<-chan vellum.StreamEvent, error) {
	if !p.SupportsModel(req.Model) {
		return nil, &vellum.ResolutionError{
			Model:  req.Model,
			Vendor: vellum.VendorGoogle,
			Reason: "model not supported by Gemini (must start with 'gemini-')",
			Err:    vellum.ErrInvalidModel,
		}
	}

	body, err := buildGenerateContentRequest(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := p.buildHTTPRequest(ctx, "streamGenerateContent", req.Model, body)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini HTTP request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, p.handleErrorResponse(resp)
	}

	eventChan := make(chan vellum.StreamEvent, 10) // Buffered to prevent blocking

	go func() {
		defer close(eventChan)

		var meta vellum.StreamMetadata

		err := vellum.StreamJSONFrames(ctx, resp.Body, p.logger, func(frame []byte) error {
			if m := gjson.GetBytes(frame, "modelVersion").String(); m != "" {
				meta.Model = m
			}
			if fr := gjson.GetBytes(frame, "candidates.0.finishReason").String(); fr != "" {
				meta.StopReason = mapFinishReason(fr)
			}
			if u := gjson.GetBytes(frame, "usageMetadata"); u.Exists() {
				meta.InputTokens = int(u.Get("promptTokenCount").Int())
				meta.OutputTokens = int(u.Get("candidatesTokenCount").Int())
			}

			for _, text := range vellum.ExtractCandidateTexts(frame) {
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
