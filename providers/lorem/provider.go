package lorem

import (
	"context"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	vellum "github.com/penfolio/vellum-llm-go"
)

// Provider is a mock vendor that generates lorem ipsum text.
// Used for offline drafting, examples, and tests without real API keys.
// The lorem vendor never requires a credential.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the vendor identifier.
func (p *Provider) Name() vellum.VendorID {
	return vellum.VendorLorem
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-slow", "lorem-test"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(vellum.StripVendorPrefix(model), "lorem-")
}

// streamDelay returns the delay between words based on the model name.
//   - lorem-slow: 2 words/second
//   - lorem-fast: 30 words/second
//   - anything else: 10 words/second
func streamDelay(model string) time.Duration {
	if strings.Contains(model, "slow") {
		return 500 * time.Millisecond
	}
	if strings.Contains(model, "fast") {
		return 33 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// wordBudget derives a word count from the request: the word-count policy if
// set, otherwise max_tokens divided by the same 1.3 ratio the budget
// calculator uses.
func wordBudget(params *vellum.RequestParams) int {
	if params != nil && params.WordCount != nil && *params.WordCount > 0 {
		return *params.WordCount
	}
	maxTokens := params.GetMaxTokens(130)
	words := int(float64(maxTokens) / 1.3)
	if words < 1 {
		words = 1
	}
	return words
}

func (p *Provider) validate(req *vellum.GenerateRequest) error {
	if !p.SupportsModel(req.Model) {
		return &vellum.ResolutionError{
			Model:  req.Model,
			Vendor: vellum.VendorLorem,
			Reason: "model not supported by Lorem provider (must start with 'lorem-')",
			Err:    vellum.ErrInvalidModel,
		}
	}
	return nil
}

// GenerateResponse generates a complete lorem ipsum response (blocking).
func (p *Provider) GenerateResponse(ctx context.Context, req *vellum.GenerateRequest) (*vellum.GenerateResponse, error) {
	if err := p.validate(req); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, vellum.CancelledError(ctx)
	default:
	}

	words := wordBudget(req.Params)
	var text strings.Builder
	for i := 0; i < words; i++ {
		if i > 0 {
			text.WriteByte(' ')
		}
		text.WriteString(p.generator.Word(2, 12))
	}

	return &vellum.GenerateResponse{
		Text:         text.String(),
		Model:        req.Model,
		OutputTokens: vellum.TokensForWords(words),
		StopReason:   "end_turn",
	}, nil
}

// StreamResponse streams lorem ipsum word by word. Speed varies with the
// model name (lorem-slow, lorem-fast).
func (p *Provider) StreamResponse(ctx context.Context, req *vellum.GenerateRequest) (<-chan vellum.StreamEvent, error) {
	if err := p.validate(req); err != nil {
		return nil, err
	}

	words := wordBudget(req.Params)
	delay := streamDelay(req.Model)

	eventChan := make(chan vellum.StreamEvent, 10)

	go func() {
		defer close(eventChan)

		for i := 0; i < words; i++ {
			select {
			case <-ctx.Done():
				eventChan <- vellum.StreamEvent{Error: vellum.CancelledError(ctx)}
				return
			case <-time.After(delay):
			}

			delta := p.generator.Word(2, 12)
			if i > 0 {
				delta = " " + delta
			}
			eventChan <- vellum.StreamEvent{Delta: &vellum.TextDelta{Text: delta}}
		}

		eventChan <- vellum.StreamEvent{Metadata: &vellum.StreamMetadata{
			Model:        req.Model,
			OutputTokens: vellum.TokensForWords(words),
			StopReason:   "end_turn",
		}}
	}()

	return eventChan, nil
}

var _ vellum.Provider = (*Provider)(nil)
