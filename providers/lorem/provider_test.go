package lorem

import (
	"context"
	"errors"
	"testing"
	"time"

	vellum "github.com/penfolio/vellum-llm-go"
)

func intPtr(i int) *int { return &i }

func TestProvider_SupportsModel(t *testing.T) {
	p := NewProvider()

	tests := []struct {
		model string
		want  bool
	}{
		{"lorem-fast", true},
		{"lorem-slow", true},
		{"lorem-test", true},
		{"lorem/lorem-fast", true},
		{"gpt-4o", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := p.SupportsModel(tt.model); got != tt.want {
			t.Errorf("SupportsModel(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestProvider_GenerateResponse(t *testing.T) {
	p := NewProvider()

	t.Run("word count drives the output length", func(t *testing.T) {
		req := &vellum.GenerateRequest{
			Model:    "lorem-fast",
			Messages: []vellum.Message{{Role: vellum.RoleUser, Content: "hi"}},
			Params:   &vellum.RequestParams{WordCount: intPtr(25)},
		}
		resp, err := p.GenerateResponse(context.Background(), req)
		if err != nil {
			t.Fatalf("GenerateResponse() error = %v", err)
		}
		if resp.Text == "" {
			t.Error("expected generated text")
		}
		if resp.OutputTokens != vellum.TokensForWords(25) {
			t.Errorf("OutputTokens = %d, want %d", resp.OutputTokens, vellum.TokensForWords(25))
		}
		if resp.StopReason != "end_turn" {
			t.Errorf("StopReason = %s", resp.StopReason)
		}
	})

	t.Run("unsupported model", func(t *testing.T) {
		req := &vellum.GenerateRequest{
			Model:    "gpt-4o",
			Messages: []vellum.Message{{Role: vellum.RoleUser, Content: "hi"}},
		}
		if _, err := p.GenerateResponse(context.Background(), req); !errors.Is(err, vellum.ErrInvalidModel) {
			t.Errorf("error = %v, want ErrInvalidModel", err)
		}
	})
}

func TestProvider_StreamResponse(t *testing.T) {
	p := NewProvider()

	req := &vellum.GenerateRequest{
		Model:    "lorem-fast",
		Messages: []vellum.Message{{Role: vellum.RoleUser, Content: "hi"}},
		Params:   &vellum.RequestParams{WordCount: intPtr(5)},
	}

	events, err := p.StreamResponse(context.Background(), req)
	if err != nil {
		t.Fatalf("StreamResponse() error = %v", err)
	}

	var deltas int
	var meta *vellum.StreamMetadata
	for event := range events {
		if event.Error != nil {
			t.Fatalf("stream error: %v", event.Error)
		}
		if event.Delta != nil {
			deltas++
		}
		if event.Metadata != nil {
			meta = event.Metadata
		}
	}

	if deltas != 5 {
		t.Errorf("got %d deltas, want one per word", deltas)
	}
	if meta == nil {
		t.Fatal("no metadata event received")
	}
	if meta.Model != "lorem-fast" {
		t.Errorf("Model = %s", meta.Model)
	}
}

func TestProvider_StreamResponse_Cancellation(t *testing.T) {
	p := NewProvider()

	ctx, cancel := context.WithCancel(context.Background())
	req := &vellum.GenerateRequest{
		Model:    "lorem-slow", // 500ms per word leaves time to cancel
		Messages: []vellum.Message{{Role: vellum.RoleUser, Content: "hi"}},
		Params:   &vellum.RequestParams{WordCount: intPtr(100)},
	}

	events, err := p.StreamResponse(ctx, req)
	if err != nil {
		t.Fatal(err)
	}

	time.AfterFunc(50*time.Millisecond, cancel)

	var streamErr error
	var eventsAfterError int
	for event := range events {
		if streamErr != nil {
			eventsAfterError++
		}
		if event.Error != nil {
			streamErr = event.Error
		}
	}

	if !vellum.IsCancelled(streamErr) {
		t.Errorf("stream error = %v, want a cancellation", streamErr)
	}
	if eventsAfterError != 0 {
		t.Errorf("%d events emitted after the cancellation error", eventsAfterError)
	}
}

func TestStreamDelay(t *testing.T) {
	if streamDelay("lorem-slow") <= streamDelay("lorem-medium") {
		t.Error("slow models should stream slower than medium ones")
	}
	if streamDelay("lorem-fast") >= streamDelay("lorem-medium") {
		t.Error("fast models should stream faster than medium ones")
	}
}
