package vellum

// GenerateRequest contains the parameters for a text generation request.
type GenerateRequest struct {
	// Messages contains the conversation history.
	// Each message has a Role (system/user/assistant) and plain-text Content.
	Messages []Message

	// Model is the model identifier (e.g., "claude-sonnet-4-20250514",
	// "google/gemini-2.5-flash"). Opaque to the gateway beyond resolution
	// and budget classification; never persisted by this library.
	Model string

	// Params contains request parameters (temperature, max_tokens, word-count
	// budget policy, etc.). Provider adapters extract what they support.
	Params *RequestParams
}

// Message represents a single message in the conversation.
type Message struct {
	// Role is "system", "user", or "assistant"
	Role string `json:"role"`

	// Content is the plain-text message body
	Content string `json:"content"`
}

// Conversation roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
