package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"

	vellum "github.com/penfolio/vellum-llm-go"
)

// Provider implements the vellum.Provider interface for OpenAI's
// chat-completions API and the compatible APIs that reuse its wire format
// (OpenRouter, LM Studio). The vendor tag decides the endpoint and whether
// model identifiers keep their "vendor/model" prefix on the wire.
type Provider struct {
	vendor     vellum.VendorID
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL overrides the vendor's default endpoint.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		if baseURL != "" {
			p.baseURL = baseURL
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider creates an OpenAI provider with the given API key.
func NewProvider(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai requires an API key", vellum.ErrMissingCredential)
	}
	return NewCompatProvider(vellum.VendorOpenAI, apiKey, opts...)
}

// NewCompatProvider creates a provider for any OpenAI-compatible vendor.
// The key may be empty for vendors that allow unauthenticated endpoints
// (LM Studio pointed at a local server); the resolver enforces the
// per-vendor credential policy before this constructor runs.
func NewCompatProvider(vendor vellum.VendorID, apiKey string, opts ...Option) (*Provider, error) {
	p := &Provider{
		vendor:     vendor,
		apiKey:     apiKey,
		baseURL:    vendor.DefaultBaseURL(),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.baseURL == "" {
		return nil, fmt.Errorf("vendor '%s' has no endpoint configured", vendor)
	}
	return p, nil
}

// Name returns the vendor identifier.
func (p *Provider) Name() vellum.VendorID {
	return p.vendor
}

// SupportsModel returns true if this provider supports the given model.
// OpenRouter requires "provider/model" format; the other compatible vendors
// accept any non-empty identifier (the resolver already matched the
// connection's advertised list).
func (p *Provider) SupportsModel(model string) bool {
	if strings.TrimSpace(model) == "" {
		return false
	}
	if p.vendor == vellum.VendorOpenRouter {
		return strings.Contains(model, "/")
	}
	return true
}

// GenerateResponse generates a non-streaming response.
func (p *Provider) GenerateResponse(ctx context.Context, req *vellum.GenerateRequest) (*vellum.GenerateResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, &vellum.ResolutionError{
			Model:  req.Model,
			Vendor: p.vendor,
			Reason: "model not supported by this connection",
			Err:    vellum.ErrInvalidModel,
		}
	}

	body, err := buildChatCompletionRequest(p.vendor, req, false)
	if err != nil {
		return nil, err
	}

	httpReq, err := p.buildHTTPRequest(ctx, body)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s HTTP request failed: %w", p.vendor, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", p.vendor, err)
	}

	text := gjson.GetBytes(raw, "choices.0.message.content").String()
	if text == "" {
		text = gjson.GetBytes(raw, "choices.0.text").String()
	}

	return &vellum.GenerateResponse{
		Text:         text,
		Model:        gjson.GetBytes(raw, "model").String(),
		InputTokens:  int(gjson.GetBytes(raw, "usage.prompt_tokens").Int()),
		OutputTokens: int(gjson.GetBytes(raw, "usage.completion_tokens").Int()),
		StopReason:   mapFinishReason(gjson.GetBytes(raw, "choices.0.finish_reason").String()),
	}, nil
}

// buildHTTPRequest creates the POST to /chat/completions with auth headers.
func (p *Provider) buildHTTPRequest(ctx context.Context, body []byte) (*http.Request, error) {
	url := strings.TrimSuffix(p.baseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", p.vendor, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	return httpReq, nil
}

// handleErrorResponse converts a non-200 response into a ProviderError.
// The body is read with a cap; credentials never appear in the message.
func (p *Provider) handleErrorResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := gjson.GetBytes(raw, "error.message").String()
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = resp.Status
	}
	return &vellum.ProviderError{
		Vendor:     p.vendor,
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}

// mapFinishReason normalizes OpenAI finish reasons to library stop reasons.
func mapFinishReason(reason string) string {
	switch reason {
	case "stop":
		return "end_turn"
	case "length":
		return "max_tokens"
	case "":
		return ""
	default:
		return reason
	}
}

var _ vellum.Provider = (*Provider)(nil)
