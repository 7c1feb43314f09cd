package gemini

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

// Provider implements the vellum.Provider interface for Google's Gemini API.
//
// Gemini's streamGenerateContent endpoint does not emit SSE framing: the
// response is one long JSON array of pretty-printed objects spread across
// chunks, so streaming goes through the brace-counting frame decoder instead
// of the SSE decoder.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL overrides the default generativelanguage endpoint.
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

// NewProvider creates a new Gemini provider with the given API key.
func NewProvider(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: google requires an API key", vellum.ErrMissingCredential)
	}

	p := &Provider{
		apiKey:     apiKey,
		baseURL:    vellum.VendorGoogle.DefaultBaseURL(),
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
	return vellum.VendorGoogle
}

// SupportsModel returns true if this provider supports the given model.
// Gemini models start with "gemini-".
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(wireModel(model), "gemini-")
}

// wireModel normalizes a model identifier to the bare name the API expects.
func wireModel(model string) string {
	return strings.TrimPrefix(vellum.StripVendorPrefix(model), "models/")
}

// GenerateResponse generates a non-streaming response from Gemini.
func (p *Provider) GenerateResponse(ctx context.Context, req *vellum.GenerateRequest) (*vellum.GenerateResponse, error) {
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

	httpReq, err := p.buildHTTPRequest(ctx, "generateContent", req.Model, body)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading gemini response: %w", err)
	}

	var text strings.Builder
	for _, t := range vellum.ExtractCandidateTexts(raw) {
		text.WriteString(t)
	}

	return &vellum.GenerateResponse{
		Text:         text.String(),
		Model:        gjson.GetBytes(raw, "modelVersion").String(),
		InputTokens:  int(gjson.GetBytes(raw, "usageMetadata.promptTokenCount").Int()),
		OutputTokens: int(gjson.GetBytes(raw, "usageMetadata.candidatesTokenCount").Int()),
		StopReason:   mapFinishReason(gjson.GetBytes(raw, "candidates.0.finishReason").String()),
	}, nil
}

// buildHTTPRequest creates the POST to /models/{model}:{method}.
func (p *Provider) buildHTTPRequest(ctx context.Context, method, model string, body []byte) (*http.Request, error) {
	url := fmt.Sprintf("%s/models/%s:%s", strings.TrimSuffix(p.baseURL, "/"), wireModel(model), method)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)
	return httpReq, nil
}

// handleErrorResponse converts a non-200 response into a ProviderError.
func (p *Provider) handleErrorResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := gjson.GetBytes(raw, "error.message").String()
	if msg == "" {
		msg = gjson.GetBytes(raw, "0.error.message").String()
	}
	if msg == "" {
		msg = resp.Status
	}
	return &vellum.ProviderError{
		Vendor:     vellum.VendorGoogle,
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}

// mapFinishReason normalizes Gemini finish reasons to library stop reasons.
func mapFinishReason(reason string) string {
	switch reason {
	case "STOP":
		return "end_turn"
	case "MAX_TOKENS":
		return "max_tokens"
	case "":
		return ""
	default:
		return strings.ToLower(reason)
	}
}

var _ vellum.Provider = (*Provider)(nil)
