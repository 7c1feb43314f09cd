package vellum

import "fmt"

// RequestParams represents LLM request parameters across vendors.
// All fields are optional pointers to distinguish "not set" from "set to zero
// value". Vendor adapters extract what they support and ignore the rest.
type RequestParams struct {
	// ===== Core Parameters (Most Vendors) =====

	// MaxTokens sets the maximum number of tokens to generate.
	// When WordCount is set, the gateway overwrites this from the computed
	// TokenBudget before dispatch.
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0-2.0)
	Temperature *float64 `json:"temperature,omitempty"`

	// TopP (nucleus sampling) - cumulative probability cutoff (0.0-1.0)
	TopP *float64 `json:"top_p,omitempty"`

	// Stop sequences - generation stops if any of these are generated
	Stop []string `json:"stop,omitempty"`

	// Seed for deterministic sampling (if supported by the vendor)
	Seed *int `json:"seed,omitempty"`

	// System prompt override
	System *string `json:"system,omitempty"`

	// ===== OpenAI-Specific Parameters =====

	// FrequencyPenalty reduces repetition of token sequences (-2.0 to 2.0)
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`

	// PresencePenalty reduces repetition of topics (-2.0 to 2.0)
	PresencePenalty *float64 `json:"presence_penalty,omitempty"`

	// ===== Length / Reasoning Policy =====

	// WordCount is the target prose length in words. When set, the gateway
	// computes a TokenBudget from it and folds the result into the request.
	WordCount *int `json:"word_count,omitempty"`

	// Reasoning toggles the model's thinking/reasoning allowance. Accepted
	// for every model; only affects reasoning-capable families.
	Reasoning *bool `json:"reasoning,omitempty"`

	// ===== Budget Outputs (set by the gateway, not callers) =====

	// ThinkingBudget is the numeric thinking allowance in tokens
	// (Claude >=3.7, Gemini >=2.5).
	ThinkingBudget *int `json:"thinking_budget,omitempty"`

	// ThinkingLevel is the qualitative thinking level (Gemini 3):
	// "minimal", "low", "medium", "high".
	ThinkingLevel *string `json:"thinking_level,omitempty"`

	// ReasoningEffort is the OpenAI o-series effort setting: "low", "medium", "high".
	ReasoningEffort *string `json:"reasoning_effort,omitempty"`
}

// ValidateRequestParams validates request parameters.
func ValidateRequestParams(params *RequestParams) error {
	if params == nil {
		return nil // nil params is valid
	}

	if params.Temperature != nil {
		if *params.Temperature < 0.0 || *params.Temperature > 2.0 {
			return fmt.Errorf("%w: temperature must be between 0.0 and 2.0, got %f", ErrInvalidRequest, *params.Temperature)
		}
	}

	if params.TopP != nil {
		if *params.TopP < 0.0 || *params.TopP > 1.0 {
			return fmt.Errorf("%w: top_p must be between 0.0 and 1.0, got %f", ErrInvalidRequest, *params.TopP)
		}
	}

	if params.MaxTokens != nil {
		if *params.MaxTokens < 1 {
			return fmt.Errorf("%w: max_tokens must be positive, got %d", ErrInvalidRequest, *params.MaxTokens)
		}
	}

	if params.WordCount != nil {
		if *params.WordCount < 0 {
			return fmt.Errorf("%w: word_count must be non-negative, got %d", ErrInvalidRequest, *params.WordCount)
		}
	}

	if params.FrequencyPenalty != nil {
		if *params.FrequencyPenalty < -2.0 || *params.FrequencyPenalty > 2.0 {
			return fmt.Errorf("%w: frequency_penalty must be between -2.0 and 2.0, got %f", ErrInvalidRequest, *params.FrequencyPenalty)
		}
	}

	if params.PresencePenalty != nil {
		if *params.PresencePenalty < -2.0 || *params.PresencePenalty > 2.0 {
			return fmt.Errorf("%w: presence_penalty must be between -2.0 and 2.0, got %f", ErrInvalidRequest, *params.PresencePenalty)
		}
	}

	return nil
}

// GetMaxTokens returns max_tokens with default fallback.
func (rp *RequestParams) GetMaxTokens(defaultValue int) int {
	if rp != nil && rp.MaxTokens != nil {
		return *rp.MaxTokens
	}
	return defaultValue
}

// GetTemperature returns temperature with default fallback.
func (rp *RequestParams) GetTemperature(defaultValue float64) float64 {
	if rp != nil && rp.Temperature != nil {
		return *rp.Temperature
	}
	return defaultValue
}

// GetReasoning returns the reasoning toggle with default fallback.
func (rp *RequestParams) GetReasoning(defaultValue bool) bool {
	if rp != nil && rp.Reasoning != nil {
		return *rp.Reasoning
	}
	return defaultValue
}

// Clone returns a shallow copy, so the gateway can fold budget values in
// without mutating the caller's struct.
func (rp *RequestParams) Clone() *RequestParams {
	if rp == nil {
		return &RequestParams{}
	}
	cp := *rp
	return &cp
}

// ApplyBudget folds a computed TokenBudget into the params.
func (rp *RequestParams) ApplyBudget(b TokenBudget) {
	if b.MaxOutputTokens > 0 {
		rp.MaxTokens = intPtr(b.MaxOutputTokens)
	}
	rp.ThinkingBudget = b.ThinkingBudget
	rp.ThinkingLevel = b.ThinkingLevel
	rp.ReasoningEffort = b.ReasoningEffort
}
