// Package gateway ties the library together for the common case: resolve the
// model to a connection, compute the token budget, and stream the response
// through the matching vendor adapter.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	vellum "github.com/penfolio/vellum-llm-go"
	"github.com/penfolio/vellum-llm-go/providers/anthropic"
	"github.com/penfolio/vellum-llm-go/providers/gemini"
	"github.com/penfolio/vellum-llm-go/providers/lorem"
	"github.com/penfolio/vellum-llm-go/providers/openai"
)

// Gateway is the high-level entry point for generation. It owns a resolver
// over the caller's connections and secrets, and constructs a provider
// adapter per request from the resolved connection.
type Gateway struct {
	resolver   *vellum.Resolver
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient sets the HTTP client passed down to vendor adapters.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		if c != nil {
			g.httpClient = c
		}
	}
}

// WithLogger sets the diagnostic logger. Warnings from validation and budget
// advisories go here; request content and credentials never do.
func WithLogger(l *log.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Gateway over the given connection source and secret store.
// secrets may be nil when every connection carries its own key.
func New(source vellum.ConnectionSource, secrets vellum.SecretStore, opts ...Option) *Gateway {
	g := &Gateway{
		resolver: vellum.NewResolver(source, secrets),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Stream resolves the request's model, folds in the token budget when a word
// count is set, and streams the response from the matched vendor.
//
// All preconditions surface synchronously as the returned error, before any
// network I/O: empty requests (ErrEmptyRequest), invalid parameters,
// resolution failures. Once the channel is returned, failures arrive as
// StreamEvent.Error and the channel is closed after the final event.
func (g *Gateway) Stream(ctx context.Context, req *vellum.GenerateRequest) (<-chan vellum.StreamEvent, error) {
	resolved, prepared, err := g.prepare(req)
	if err != nil {
		return nil, err
	}

	provider, err := g.providerFor(resolved)
	if err != nil {
		return nil, err
	}

	return provider.StreamResponse(ctx, prepared)
}

// Generate is the blocking form of Stream: it accumulates deltas into a
// single response. Both paths go through the same resolution, budget, and
// parsing pipeline.
func (g *Gateway) Generate(ctx context.Context, req *vellum.GenerateRequest) (*vellum.GenerateResponse, error) {
	events, err := g.Stream(ctx, req)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	resp := &vellum.GenerateResponse{Model: req.Model}
	for event := range events {
		switch {
		case event.Error != nil:
			return nil, event.Error
		case event.Delta != nil:
			text.WriteString(event.Delta.Text)
		case event.Metadata != nil:
			if event.Metadata.Model != "" {
				resp.Model = event.Metadata.Model
			}
			resp.InputTokens = event.Metadata.InputTokens
			resp.OutputTokens = event.Metadata.OutputTokens
			resp.StopReason = event.Metadata.StopReason
		}
	}
	resp.Text = text.String()
	return resp, nil
}

// prepare runs the synchronous half of a request: precondition checks,
// resolution, budget fold-in, and advisory validation.
func (g *Gateway) prepare(req *vellum.GenerateRequest) (*vellum.ResolvedConnection, *vellum.GenerateRequest, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, nil, fmt.Errorf("%w: request has no messages", vellum.ErrEmptyRequest)
	}
	if err := vellum.ValidateRequestParams(req.Params); err != nil {
		return nil, nil, err
	}

	resolved, err := g.resolver.Resolve(req.Model)
	if err != nil {
		return nil, nil, err
	}

	prepared := &vellum.GenerateRequest{
		Messages: req.Messages,
		Model:    req.Model,
		Params:   req.Params.Clone(),
	}

	if prepared.Params.WordCount != nil {
		budget := vellum.ComputeBudget(req.Model, *prepared.Params.WordCount, prepared.Params.GetReasoning(false))
		prepared.Params.ApplyBudget(budget)
		if budget.Warning != "" {
			g.logger.Warn("token budget advisory", "model", req.Model, "warning", budget.Warning)
		}
	}

	for _, w := range vellum.GetValidationWarnings(resolved.Connection.Vendor, prepared) {
		g.logger.Warn("request validation", "code", w.Code, "field", w.Field, "message", w.Message)
	}

	return resolved, prepared, nil
}

// providerFor constructs the vendor adapter for a resolved connection.
func (g *Gateway) providerFor(resolved *vellum.ResolvedConnection) (vellum.Provider, error) {
	vendor := resolved.Connection.Vendor

	switch vendor {
	case vellum.VendorAnthropic:
		return anthropic.NewProvider(resolved.APIKey,
			anthropic.WithBaseURL(resolved.BaseURL),
			anthropic.WithHTTPClient(g.httpClient),
			anthropic.WithLogger(g.logger))
	case vellum.VendorGoogle:
		return gemini.NewProvider(resolved.APIKey,
			gemini.WithBaseURL(resolved.BaseURL),
			gemini.WithHTTPClient(g.httpClient),
			gemini.WithLogger(g.logger))
	case vellum.VendorOpenAI, vellum.VendorOpenRouter, vellum.VendorLMStudio:
		return openai.NewCompatProvider(vendor, resolved.APIKey,
			openai.WithBaseURL(resolved.BaseURL),
			openai.WithHTTPClient(g.httpClient),
			openai.WithLogger(g.logger))
	case vellum.VendorLorem:
		return lorem.NewProvider(), nil
	default:
		return nil, fmt.Errorf("vendor '%s' has no provider adapter", vendor)
	}
}
