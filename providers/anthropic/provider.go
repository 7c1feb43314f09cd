package anthropic

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

const anthropicVersion = "2023-06-01"

// Provider implements the vellum.Provider interface for Anthropic (Claude)
// models. Request bodies are built with the official SDK's parameter types,
// but transport stays in this package: connections may point at custom
// endpoints (proxies, gateways), and streaming responses are parsed by the
// shared SSE decoder so cancellation and malformed-frame recovery behave the
// same as for every other vendor.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL overrides the default https://api.anthropic.com endpoint.
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

// NewProvider creates a new Anthropic provider with the given API key.
func NewProvider(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: anthropic requires an API key", vellum.ErrMissingCredential)
	}

	p := &Provider{
		apiKey:     apiKey,
		baseURL:    vellum.VendorAnthropic.DefaultBaseURL(),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns the vendor identifier.
func (p *Provider) Name() vellum.VendorID {
	return vellum.VendorAnthropic
}

// SupportsModel returns true if this provider supports the given model.
// Anthropic models start with "claude-".
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(vellum.StripVendorPrefix(model), "claude-")
}

// GenerateResponse generates a non-streaming response from Claude.
func (p *Provider) GenerateResponse(ctx context.Context, req *vellum.GenerateRequest) (*vellum.GenerateResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, &vellum.ResolutionError{
			Model:  req.Model,
			Vendor: vellum.VendorAnthropic,
			Reason: "model not supported by Anthropic (must start with 'claude-')",
			Err:    vellum.ErrInvalidModel,
		}
	}

	body, err := buildMessageBody(req, false)
	if err != nil {
		return nil, err
	}

	httpReq, err := p.buildHTTPRequest(ctx, body)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading anthropic response: %w", err)
	}

	var text strings.Builder
	gjson.GetBytes(raw, "content").ForEach(func(_, block gjson.Result) bool {
		if block.Get("type").String() == "text" {
			text.WriteString(block.Get("text").String())
		}
		return true
	})

	return &vellum.GenerateResponse{
		Text:         text.String(),
		Model:        gjson.GetBytes(raw, "model").String(),
		InputTokens:  int(gjson.GetBytes(raw, "usage.input_tokens").Int()),
		OutputTokens: int(gjson.GetBytes(raw, "usage.output_tokens").Int()),
		StopReason:   gjson.GetBytes(raw, "stop_reason").String(),
	}, nil
}

// buildHTTPRequest creates the POST to /v1/messages with Anthropic headers.
func (p *Provider) buildHTTPRequest(ctx context.Context, body []byte) (*http.Request, error) {
	url := strings.TrimSuffix(p.baseURL, "/") + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating anthropic request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	return httpReq, nil
}

// handleErrorResponse converts a non-200 response into a ProviderError.
func (p *Provider) handleErrorResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := gjson.GetBytes(raw, "error.message").String()
	if msg == "" {
		msg = resp.Status
	}
	return &vellum.ProviderError{
		Vendor:     vellum.VendorAnthropic,
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}

var _ vellum.Provider = (*Provider)(nil)
