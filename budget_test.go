package vellum

import (
	"testing"
)

func TestTokensForWords(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{"zero words", 0, 0},
		{"negative words", -5, 0},
		{"one word rounds up", 1, 2},
		{"ten words", 10, 13},
		{"hundred words", 100, 130},
		{"five hundred words", 500, 650},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokensForWords(tt.words); got != tt.want {
				t.Errorf("TokensForWords(%d) = %d, want %d", tt.words, got, tt.want)
			}
		})
	}
}

func TestIsReasoningModel(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"gemini-2.5-pro", true},
		{"gemini-2.5-flash", true},
		{"gemini-3-pro-preview", true},
		{"gemini-2.0-flash", false},
		{"gemini-2.0-flash-thinking-exp", true},
		{"gemini-1.5-pro", false},
		{"o1", true},
		{"o1-mini", true},
		{"o3-mini", true},
		{"gpt-4o", false},
		{"claude-3-5-sonnet-20241022", false},
		{"claude-3-7-sonnet-20250219", true},
		{"claude-3.7-sonnet", true},
		{"claude-sonnet-4-20250514", true},
		{"claude-opus-4-1", true},
		{"google/gemini-2.5-pro", true},
		{"lorem-fast", false},
		{"mistral-large", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := IsReasoningModel(tt.model); got != tt.want {
				t.Errorf("IsReasoningModel(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestClaudeVersion(t *testing.T) {
	tests := []struct {
		model string
		want  float64
		ok    bool
	}{
		{"claude-3-5-sonnet-20241022", 3.5, true},
		{"claude-3-7-sonnet-20250219", 3.7, true},
		{"claude-3.7-sonnet", 3.7, true},
		{"claude-sonnet-4-20250514", 4.0, true},
		{"claude-opus-4-1", 4.1, true},
		{"claude-opus-4-1-20250805", 4.1, true},
		{"claude-instant", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, ok := claudeVersion(tt.model)
			if ok != tt.ok || got != tt.want {
				t.Errorf("claudeVersion(%q) = (%v, %v), want (%v, %v)", tt.model, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestGeminiVersion(t *testing.T) {
	tests := []struct {
		model string
		want  float64
		ok    bool
	}{
		{"gemini-1.5-flash", 1.5, true},
		{"gemini-2.0-flash", 2.0, true},
		{"gemini-2.5-pro", 2.5, true},
		{"gemini-3-pro-preview", 3.0, true},
		{"gemini-exp-1206", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, ok := geminiVersion(tt.model)
			if ok != tt.ok || got != tt.want {
				t.Errorf("geminiVersion(%q) = (%v, %v), want (%v, %v)", tt.model, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestComputeBudget_NonReasoningModels(t *testing.T) {
	// The reasoning toggle must not change the budget for models without
	// reasoning support.
	models := []string{"gpt-4o", "gemini-2.0-flash", "claude-3-5-sonnet-20241022", "lorem-fast"}

	for _, model := range models {
		t.Run(model, func(t *testing.T) {
			off := ComputeBudget(model, 500, false)
			on := ComputeBudget(model, 500, true)

			if off.MaxOutputTokens != 650 {
				t.Errorf("MaxOutputTokens = %d, want 650", off.MaxOutputTokens)
			}
			if off.ExpectedOutputTokens != 650 {
				t.Errorf("ExpectedOutputTokens = %d, want 650", off.ExpectedOutputTokens)
			}
			if off.ThinkingBudget != nil || off.ThinkingLevel != nil || off.ReasoningEffort != nil {
				t.Error("non-reasoning model should carry no reasoning fields")
			}
			if on.MaxOutputTokens != off.MaxOutputTokens {
				t.Errorf("reasoning toggle changed budget: %d vs %d", on.MaxOutputTokens, off.MaxOutputTokens)
			}
		})
	}
}

func TestComputeBudget_Claude(t *testing.T) {
	t.Run("claude 4 with reasoning adds thinking budget to max", func(t *testing.T) {
		b := ComputeBudget("claude-sonnet-4-20250514", 500, true)
		if b.ThinkingBudget == nil || *b.ThinkingBudget != 4096 {
			t.Fatalf("ThinkingBudget = %v, want 4096", b.ThinkingBudget)
		}
		if b.MaxOutputTokens != 650+4096 {
			t.Errorf("MaxOutputTokens = %d, want %d", b.MaxOutputTokens, 650+4096)
		}
		if b.ExpectedOutputTokens != 650 {
			t.Errorf("ExpectedOutputTokens = %d, want 650 (thinking never folded in)", b.ExpectedOutputTokens)
		}
	})

	t.Run("claude 4 without reasoning", func(t *testing.T) {
		b := ComputeBudget("claude-sonnet-4-20250514", 500, false)
		if b.ThinkingBudget != nil {
			t.Errorf("ThinkingBudget = %v, want nil", b.ThinkingBudget)
		}
		if b.MaxOutputTokens != 650 {
			t.Errorf("MaxOutputTokens = %d, want 650", b.MaxOutputTokens)
		}
	})

	t.Run("claude 3.5 ignores reasoning toggle", func(t *testing.T) {
		b := ComputeBudget("claude-3-5-sonnet-20241022", 500, true)
		if b.ThinkingBudget != nil {
			t.Errorf("ThinkingBudget = %v, want nil for claude < 3.7", b.ThinkingBudget)
		}
		if b.MaxOutputTokens != 650 {
			t.Errorf("MaxOutputTokens = %d, want 650", b.MaxOutputTokens)
		}
	})

	t.Run("oversized sum clamps to capacity", func(t *testing.T) {
		// claude-opus-4-20250514 caps at 32000 output tokens.
		b := ComputeBudget("claude-opus-4-20250514", 30000, true)
		if b.MaxOutputTokens != 32000 {
			t.Errorf("MaxOutputTokens = %d, want 32000 (clamped)", b.MaxOutputTokens)
		}
		if b.ExpectedOutputTokens != 39000 {
			t.Errorf("ExpectedOutputTokens = %d, want 39000 (un-clamped estimate)", b.ExpectedOutputTokens)
		}
	})
}

func TestComputeBudget_Gemini(t *testing.T) {
	t.Run("gemini 2.5 with reasoning", func(t *testing.T) {
		b := ComputeBudget("gemini-2.5-pro", 500, true)
		if b.ThinkingBudget == nil || *b.ThinkingBudget != 8192 {
			t.Fatalf("ThinkingBudget = %v, want 8192", b.ThinkingBudget)
		}
		if b.MaxOutputTokens != 650+8192 {
			t.Errorf("MaxOutputTokens = %d, want %d", b.MaxOutputTokens, 650+8192)
		}
	})

	t.Run("gemini 2.5 without reasoning sends explicit zero budget", func(t *testing.T) {
		b := ComputeBudget("gemini-2.5-pro", 500, false)
		if b.ThinkingBudget == nil || *b.ThinkingBudget != 0 {
			t.Fatalf("ThinkingBudget = %v, want explicit 0 (disables default thinking)", b.ThinkingBudget)
		}
		if b.MaxOutputTokens != 650 {
			t.Errorf("MaxOutputTokens = %d, want 650", b.MaxOutputTokens)
		}
	})

	t.Run("gemini 3 uses qualitative levels", func(t *testing.T) {
		on := ComputeBudget("gemini-3-pro-preview", 500, true)
		if on.ThinkingLevel == nil || *on.ThinkingLevel != "high" {
			t.Errorf("ThinkingLevel = %v, want high", on.ThinkingLevel)
		}
		if on.ThinkingBudget != nil {
			t.Error("gemini 3 should not carry a numeric thinking budget")
		}

		off := ComputeBudget("gemini-3-pro-preview", 500, false)
		if off.ThinkingLevel == nil || *off.ThinkingLevel != "minimal" {
			t.Errorf("ThinkingLevel = %v, want minimal", off.ThinkingLevel)
		}
	})

	t.Run("gemini 2.0 gets no thinking config", func(t *testing.T) {
		b := ComputeBudget("gemini-2.0-flash", 500, true)
		if b.ThinkingBudget != nil || b.ThinkingLevel != nil {
			t.Error("gemini 2.0 should carry no thinking config")
		}
	})
}

func TestComputeBudget_OpenAIReasoning(t *testing.T) {
	t.Run("o3 with reasoning", func(t *testing.T) {
		b := ComputeBudget("o3-mini", 500, true)
		if b.ReasoningEffort == nil || *b.ReasoningEffort != "high" {
			t.Fatalf("ReasoningEffort = %v, want high", b.ReasoningEffort)
		}
		if b.MaxOutputTokens != 25000+650 {
			t.Errorf("MaxOutputTokens = %d, want %d", b.MaxOutputTokens, 25000+650)
		}
		if b.Warning == "" {
			t.Error("shared completion-limit advisory should be set when reasoning is on")
		}
	})

	t.Run("o3 without reasoning keeps the floor", func(t *testing.T) {
		b := ComputeBudget("o3-mini", 500, false)
		if b.ReasoningEffort == nil || *b.ReasoningEffort != "low" {
			t.Fatalf("ReasoningEffort = %v, want low", b.ReasoningEffort)
		}
		if b.MaxOutputTokens != 25000+650 {
			t.Errorf("MaxOutputTokens = %d, want %d", b.MaxOutputTokens, 25000+650)
		}
		if b.Warning != "" {
			t.Errorf("Warning = %q, want empty when reasoning is off", b.Warning)
		}
	})
}

func TestMaxOutputCapacity(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		// Registry hits.
		{"gpt-4o", 16384},
		{"claude-3-5-sonnet-20241022", 8192},
		{"claude-sonnet-4-20250514", 64000},
		{"gemini-2.5-pro", 65536},
		{"o3-mini", 100000},
		// Family fallbacks for unlisted models.
		{"o3-unlisted", 100000},
		{"gemini-2.5-unlisted", 65536},
		{"gemini-1.0-pro", 8192},
		{"claude-5-haiku", 64000},
		{"claude-2", 8192},
		{"mistral-large", 16384},
		// Vendor prefixes are ignored.
		{"anthropic/claude-sonnet-4-20250514", 64000},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := MaxOutputCapacity(tt.model); got != tt.want {
				t.Errorf("MaxOutputCapacity(%q) = %d, want %d", tt.model, got, tt.want)
			}
		})
	}
}
