package vellum

import "strings"

// VendorID represents a unique AI vendor identifier.
// Using a typed constant prevents typos and provides compile-time safety.
type VendorID string

// Known vendor identifiers
const (
	// VendorAnthropic is Anthropic's Claude API
	VendorAnthropic VendorID = "anthropic"

	// VendorOpenAI is OpenAI's GPT API
	VendorOpenAI VendorID = "openai"

	// VendorGoogle is Google's Gemini API
	VendorGoogle VendorID = "google"

	// VendorOpenRouter is OpenRouter's unified OpenAI-compatible API
	VendorOpenRouter VendorID = "openrouter"

	// VendorLMStudio is LM Studio's OpenAI-compatible API, usually self-hosted
	VendorLMStudio VendorID = "lmstudio"

	// VendorLorem is the mock Lorem vendor for offline drafting and testing
	VendorLorem VendorID = "lorem"
)

// String returns the string representation of the vendor ID
func (v VendorID) String() string {
	return string(v)
}

// IsValid returns true if the vendor ID is a known vendor
func (v VendorID) IsValid() bool {
	switch v {
	case VendorAnthropic, VendorOpenAI, VendorGoogle, VendorOpenRouter, VendorLMStudio, VendorLorem:
		return true
	default:
		return false
	}
}

// DefaultBaseURL returns the vendor's well-known hosted endpoint.
// Connections may override this with a custom endpoint (proxies, local servers).
func (v VendorID) DefaultBaseURL() string {
	switch v {
	case VendorAnthropic:
		return "https://api.anthropic.com"
	case VendorOpenAI:
		return "https://api.openai.com/v1"
	case VendorGoogle:
		return "https://generativelanguage.googleapis.com/v1beta"
	case VendorOpenRouter:
		return "https://openrouter.ai/api/v1"
	case VendorLMStudio:
		return "https://api.lmstudio.ai/v1"
	default:
		return ""
	}
}

// StripVendorPrefix returns a model identifier without an optional "vendor/"
// prefix ("google/gemini-2.5-pro" -> "gemini-2.5-pro"). OpenRouter is the one
// vendor whose wire format keeps the prefix.
func StripVendorPrefix(model string) string {
	if i := strings.LastIndex(model, "/"); i >= 0 {
		return model[i+1:]
	}
	return model
}
