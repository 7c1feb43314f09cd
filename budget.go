package vellum

import (
	"math"
	"strconv"
	"strings"
)

// wordsToTokensRatio converts a prose word count into an output-token
// estimate. English prose averages roughly 1.3 tokens per word.
const wordsToTokensRatio = 1.3

// Vendor-specific reasoning allowances.
const (
	// geminiThinkingBudget is the fixed thinking allowance for Gemini >=2.5
	// models, added on top of the output estimate.
	geminiThinkingBudget = 8192

	// claudeThinkingBudget is the thinking allowance for Claude >=3.7 models.
	// Anthropic counts it inside max_tokens, so it is added to the estimate.
	claudeThinkingBudget = 4096

	// openAIReasoningFloor is the minimum completion-token headroom for
	// o1/o3 models, whose reasoning tokens share the completion limit.
	openAIReasoningFloor = 25000
)

// sharedLimitWarning is attached to o1/o3 budgets: reasoning and visible
// output draw from the same completion-token limit, so heavy deliberation
// shortens the visible text.
const sharedLimitWarning = "reasoning and output tokens share a single completion limit; deep reasoning reduces visible output"

// TokenBudget is the per-request output-token policy for one model.
// It is produced fresh per request and immutable once returned.
//
// MaxOutputTokens is the value to send as the vendor's output ceiling
// (max_tokens / max_output_tokens / max_completion_tokens). At most one of
// ThinkingBudget, ThinkingLevel, or ReasoningEffort is populated, matching
// how the model's vendor expresses reasoning allowances.
type TokenBudget struct {
	MaxOutputTokens int     `json:"max_output_tokens"`
	ThinkingBudget  *int    `json:"thinking_budget,omitempty"`
	ThinkingLevel   *string `json:"thinking_level,omitempty"`
	ReasoningEffort *string `json:"reasoning_effort,omitempty"`

	// Warning carries an advisory note for the caller (never an error).
	Warning string `json:"warning,omitempty"`

	// ExpectedOutputTokens is the un-clamped word->token estimate, for
	// caller-side progress and length display. Thinking allowances are
	// never folded into it.
	ExpectedOutputTokens int `json:"expected_output_tokens"`
}

// TokensForWords estimates output tokens for a target word count:
// ceil(words * 1.3). Zero or negative word counts yield zero.
func TokensForWords(words int) int {
	if words <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words) * wordsToTokensRatio))
}

// IsReasoningModel reports whether a model identifier names a
// reasoning-capable model. The classification is a pure string-pattern check,
// independent of budget computation:
//
//   - Gemini: versions >= 2.5, or explicit "thinking" variants
//   - OpenAI: o1* and o3* identifiers
//   - Anthropic: Claude versions >= 3.7 (3.7 and 4.x)
//
// Vendor prefixes ("google/gemini-2.5-pro") are ignored. Anything else is
// non-reasoning.
func IsReasoningModel(model string) bool {
	base := baseModelName(model)
	switch {
	case strings.HasPrefix(base, "gemini"):
		if strings.Contains(base, "thinking") {
			return true
		}
		v, ok := geminiVersion(base)
		return ok && v >= 2.5
	case strings.HasPrefix(base, "o1") || strings.HasPrefix(base, "o3"):
		return true
	case strings.HasPrefix(base, "claude"):
		v, ok := claudeVersion(base)
		return ok && v >= 3.7
	default:
		return false
	}
}

// ComputeBudget computes the request token policy for a model, target word
// count, and reasoning toggle. The reasoning flag is accepted for every model
// but only affects reasoning-capable families. The returned ceiling never
// exceeds the model's documented maximum output capacity; oversized sums are
// clamped, not rejected.
func ComputeBudget(model string, wordCount int, reasoning bool) TokenBudget {
	est := TokensForWords(wordCount)
	ceiling := MaxOutputCapacity(model)
	base := baseModelName(model)

	budget := TokenBudget{ExpectedOutputTokens: est}

	switch {
	case strings.HasPrefix(base, "gemini"):
		v, _ := geminiVersion(base)
		switch {
		case int(v) == 3:
			// Gemini 3 expresses reasoning qualitatively, no numeric budget.
			if reasoning {
				budget.ThinkingLevel = stringPtr("high")
			} else {
				budget.ThinkingLevel = stringPtr("minimal")
			}
			budget.MaxOutputTokens = clampTokens(est, ceiling)
		case v >= 2.5 || strings.Contains(base, "thinking"):
			if reasoning {
				budget.ThinkingBudget = intPtr(geminiThinkingBudget)
				budget.MaxOutputTokens = clampTokens(est+geminiThinkingBudget, ceiling)
			} else {
				budget.ThinkingBudget = intPtr(0)
				budget.MaxOutputTokens = clampTokens(est, ceiling)
			}
		default:
			budget.MaxOutputTokens = clampTokens(est, ceiling)
		}

	case strings.HasPrefix(base, "o1") || strings.HasPrefix(base, "o3"):
		if reasoning {
			budget.ReasoningEffort = stringPtr("high")
			budget.Warning = sharedLimitWarning
		} else {
			budget.ReasoningEffort = stringPtr("low")
		}
		budget.MaxOutputTokens = clampTokens(openAIReasoningFloor+est, ceiling)

	case strings.HasPrefix(base, "claude"):
		v, ok := claudeVersion(base)
		if ok && v >= 3.7 && reasoning {
			budget.ThinkingBudget = intPtr(claudeThinkingBudget)
			budget.MaxOutputTokens = clampTokens(est+claudeThinkingBudget, ceiling)
		} else {
			budget.MaxOutputTokens = clampTokens(est, ceiling)
		}

	default:
		budget.MaxOutputTokens = clampTokens(est, ceiling)
	}

	return budget
}

// MaxOutputCapacity returns the documented maximum output tokens for a model.
// The capability registry is consulted first; unknown models fall back to
// conservative per-family defaults.
func MaxOutputCapacity(model string) int {
	if v, ok := GetCapabilityRegistry().MaxOutputTokens(model); ok && v > 0 {
		return v
	}

	base := baseModelName(model)
	switch {
	case strings.HasPrefix(base, "o1") || strings.HasPrefix(base, "o3"):
		return 100000
	case strings.HasPrefix(base, "gemini"):
		if v, ok := geminiVersion(base); ok && v >= 2.5 {
			return 65536
		}
		return 8192
	case strings.HasPrefix(base, "claude"):
		if v, ok := claudeVersion(base); ok && v >= 3.7 {
			return 64000
		}
		return 8192
	default:
		return 16384
	}
}

func clampTokens(n, ceiling int) int {
	if ceiling > 0 && n > ceiling {
		return ceiling
	}
	return n
}

// baseModelName strips an optional vendor prefix ("google/gemini-2.5-pro")
// and normalizes case.
func baseModelName(model string) string {
	model = strings.ToLower(strings.TrimSpace(model))
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	return model
}

// geminiVersion extracts the numeric version from a Gemini identifier
// ("gemini-2.5-flash" -> 2.5, "gemini-3-pro-preview" -> 3).
func geminiVersion(base string) (float64, bool) {
	rest := strings.TrimPrefix(base, "gemini-")
	if rest == base {
		return 0, false
	}
	seg, _, _ := strings.Cut(rest, "-")
	v, err := strconv.ParseFloat(seg, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// claudeVersion extracts the numeric version from a Claude identifier.
// Anthropic has used both dotted and hyphenated forms, with the generation
// before or after the tier name: "claude-3-5-sonnet-20241022" -> 3.5,
// "claude-3.7-sonnet" -> 3.7, "claude-sonnet-4-20250514" -> 4,
// "claude-opus-4-1" -> 4.1. Date-like trailing numbers are not minor versions.
func claudeVersion(base string) (float64, bool) {
	if !strings.HasPrefix(base, "claude") {
		return 0, false
	}

	var nums []float64
	var dotted []bool
	for _, tok := range strings.Split(base, "-") {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		nums = append(nums, v)
		dotted = append(dotted, strings.Contains(tok, "."))
	}
	if len(nums) == 0 {
		return 0, false
	}

	major := nums[0]
	if dotted[0] {
		return major, true
	}
	if len(nums) > 1 && !dotted[1] && nums[1] < 10 {
		return major + nums[1]/10, true
	}
	return major, true
}
