package vellum

// StreamEvent represents a single event in a streaming response.
// Each event contains either a text delta, metadata (completion), or an error.
type StreamEvent struct {
	// Delta contains incremental text for real-time UI updates (nil if metadata/error)
	Delta *TextDelta

	// Metadata contains final response data when streaming completes (nil until end)
	Metadata *StreamMetadata

	// Error contains any error that occurred during streaming (nil if successful).
	// Deltas already emitted before the error remain valid; nothing is retracted.
	Error error
}

// TextDelta is one incremental fragment of generated text, emitted as soon as
// it is decoded from the vendor's wire format. Deltas arrive strictly in the
// order the bytes were received.
type TextDelta struct {
	Text string
}

// StreamMetadata contains completion information sent when streaming finishes.
// This is sent as the final event before the channel closes.
type StreamMetadata struct {
	// Model is the model that was used (may differ from request if aliased)
	Model string

	// InputTokens is the number of tokens in the input, when reported
	InputTokens int

	// OutputTokens is the number of tokens in the output, when reported
	OutputTokens int

	// StopReason indicates why generation stopped (e.g., "end_turn", "max_tokens")
	StopReason string
}
