package vellum

import (
	"context"
	"strings"
	"testing"
)

func TestJSONFrameDecoder_Feed(t *testing.T) {
	t.Run("two objects in one chunk", func(t *testing.T) {
		dec := NewJSONFrameDecoder()
		frames := dec.Feed([]byte(`[{"a":1},{"b":2}]`))
		if len(frames) != 2 {
			t.Fatalf("got %d frames, want 2", len(frames))
		}
		if string(frames[0]) != `{"a":1}` || string(frames[1]) != `{"b":2}` {
			t.Errorf("frames = %q, want array punctuation trimmed", frames)
		}
	})

	t.Run("nested objects emit a single frame", func(t *testing.T) {
		dec := NewJSONFrameDecoder()
		frames := dec.Feed([]byte(`{"a":{"b":{"c":3}}}`))
		if len(frames) != 1 {
			t.Fatalf("got %d frames, want 1", len(frames))
		}
		if dec.Depth() != 0 {
			t.Errorf("Depth() = %d, want 0", dec.Depth())
		}
	})

	t.Run("pretty-printed object split across chunks", func(t *testing.T) {
		input := "[\n  {\n    \"candidates\": [\n      {\"text\": \"hi\"}\n    ]\n  },\n  {\"done\": true}\n]"

		for split := 1; split < len(input); split++ {
			dec := NewJSONFrameDecoder()
			frames := dec.Feed([]byte(input[:split]))
			frames = append(frames, dec.Feed([]byte(input[split:]))...)
			if len(frames) != 2 {
				t.Fatalf("split at %d: got %d frames, want 2", split, len(frames))
			}
		}
	})

	t.Run("depth returns to zero between frames", func(t *testing.T) {
		dec := NewJSONFrameDecoder()
		dec.Feed([]byte(`{"a":`))
		if dec.Depth() != 1 {
			t.Fatalf("Depth() = %d mid-object, want 1", dec.Depth())
		}
		dec.Feed([]byte(`1}`))
		if dec.Depth() != 0 {
			t.Errorf("Depth() = %d after close, want 0", dec.Depth())
		}
	})
}

func TestStreamJSONFrames(t *testing.T) {
	t.Run("back-to-back objects produce separate frames", func(t *testing.T) {
		input := `[{"n":1},{"n":2}]`
		body := &recordingBody{Reader: strings.NewReader(input)}

		var seen []string
		err := StreamJSONFrames(context.Background(), body, nil, func(frame []byte) error {
			seen = append(seen, string(frame))
			return nil
		})
		if err != nil {
			t.Fatalf("StreamJSONFrames() error = %v", err)
		}
		if len(seen) != 2 {
			t.Fatalf("got %d frames, want 2", len(seen))
		}
		if body.closes != 1 {
			t.Errorf("body closed %d times, want 1", body.closes)
		}
	})

	t.Run("balanced but malformed object is skipped", func(t *testing.T) {
		// {"bad":} balances its braces but is not valid JSON.
		input := `[{"n":1},{"bad":},{"n":2}]`
		body := &recordingBody{Reader: strings.NewReader(input)}

		var seen []string
		err := StreamJSONFrames(context.Background(), body, nil, func(frame []byte) error {
			seen = append(seen, string(frame))
			return nil
		})
		if err != nil {
			t.Fatalf("StreamJSONFrames() error = %v", err)
		}
		if len(seen) != 2 || seen[0] != `{"n":1}` || seen[1] != `{"n":2}` {
			t.Errorf("frames = %q, want the two valid objects", seen)
		}
	})

	t.Run("unterminated residue at EOF is dropped", func(t *testing.T) {
		input := `[{"n":1},{"trunc`
		body := &recordingBody{Reader: strings.NewReader(input)}

		var seen int
		err := StreamJSONFrames(context.Background(), body, nil, func([]byte) error {
			seen++
			return nil
		})
		if err != nil {
			t.Fatalf("StreamJSONFrames() error = %v", err)
		}
		if seen != 1 {
			t.Errorf("got %d frames, want 1", seen)
		}
	})

	t.Run("cancellation closes the body once", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		body := &recordingBody{Reader: strings.NewReader(`[{"n":1}]`)}
		err := StreamJSONFrames(ctx, body, nil, func([]byte) error {
			t.Error("no frames expected after cancellation")
			return nil
		})
		if !IsCancelled(err) {
			t.Fatalf("error = %v, want a cancellation", err)
		}
		if body.closes != 1 {
			t.Errorf("body closed %d times, want 1", body.closes)
		}
	})
}
