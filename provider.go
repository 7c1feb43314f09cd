package vellum

import (
	"context"
)

// Provider defines the interface that all vendor adapters must implement.
// This abstraction allows supporting multiple vendors (Anthropic, OpenAI,
// Google, etc.) while maintaining a consistent interface.
//
// Types used by this interface:
//   - GenerateRequest, Message: defined in request.go
//   - GenerateResponse: defined in response.go
//   - StreamEvent: defined in streaming.go
type Provider interface {
	// GenerateResponse generates a complete response (blocking).
	// Used for non-streaming scenarios or as fallback.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// StreamResponse generates a streaming response (non-blocking).
	// Returns a channel that emits StreamEvents as they arrive.
	// The channel is closed when streaming completes or encounters an error.
	//
	// Usage:
	//   eventChan, err := provider.StreamResponse(ctx, req)
	//   if err != nil { return err }
	//   for event := range eventChan {
	//     if event.Error != nil { handle error }
	//     if event.Delta != nil { process delta }
	//     if event.Metadata != nil { streaming complete }
	//   }
	StreamResponse(ctx context.Context, req *GenerateRequest) (<-chan StreamEvent, error)

	// Name returns the vendor identifier (e.g., "anthropic", "openai", "lorem")
	Name() VendorID

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}
