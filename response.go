package vellum

// GenerateResponse contains a vendor's complete (non-streaming) response.
type GenerateResponse struct {
	// Text is the generated text, accumulated from all deltas.
	Text string

	// Model is the model that was used (may differ from request if aliased)
	Model string

	// InputTokens is the number of tokens in the input, when reported
	InputTokens int

	// OutputTokens is the number of tokens in the output, when reported
	OutputTokens int

	// StopReason indicates why generation stopped (e.g., "end_turn", "max_tokens")
	StopReason string
}
