package vellum

import (
	"bytes"
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

// JSONFrameDecoder reassembles a stream of raw, possibly pretty-printed JSON
// objects that arrive without SSE framing (Gemini's streamGenerateContent
// wire format: an array of objects spread across many chunks).
//
// It counts every '{' and '}' byte unconditionally, emitting a frame whenever
// the nesting depth returns to zero. Braces inside JSON string values are
// counted too; that is a known approximation inherited from the original
// parser and kept for compatibility. Array punctuation around objects is
// trimmed before a frame is emitted.
//
// A decoder belongs to exactly one response body and is not safe for
// concurrent use.
type JSONFrameDecoder struct {
	depth int
	buf   bytes.Buffer
}

// NewJSONFrameDecoder creates a decoder with empty state.
func NewJSONFrameDecoder() *JSONFrameDecoder {
	return &JSONFrameDecoder{}
}

// Feed appends a chunk and returns every top-level object completed by it.
// Brace bytes are ASCII, so feeding is safe across UTF-8 rune boundaries.
func (d *JSONFrameDecoder) Feed(chunk []byte) [][]byte {
	var frames [][]byte
	for _, b := range chunk {
		d.buf.WriteByte(b)
		switch b {
		case '{':
			d.depth++
		case '}':
			d.depth--
			if d.depth == 0 {
				frame := bytes.Trim(d.buf.Bytes(), " \t\r\n,[]")
				if len(frame) > 0 {
					out := make([]byte, len(frame))
					copy(out, frame)
					frames = append(frames, out)
				}
				d.buf.Reset()
			}
		}
	}
	return frames
}

// Depth returns the current brace-nesting depth.
func (d *JSONFrameDecoder) Depth() int {
	return d.depth
}

// StreamJSONFrames drains a raw JSON-object response body, invoking onFrame
// for every brace-balanced object that is valid JSON. A balanced chunk that
// fails to decode is logged and dropped; the stream continues with subsequent
// input.
//
// Termination and cancellation semantics match StreamSSE: cancellation is
// checked before each read and surfaces as ErrStreamCancelled, and the body
// is closed on every exit path.
func StreamJSONFrames(ctx context.Context, body io.ReadCloser, logger *log.Logger, onFrame func(frame []byte) error) error {
	defer body.Close()
	if logger == nil {
		logger = log.Default()
	}

	dec := NewJSONFrameDecoder()
	buf := make([]byte, streamReadBufferSize)
	for {
		select {
		case <-ctx.Done():
			return CancelledError(ctx)
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			for _, frame := range dec.Feed(buf[:n]) {
				if !gjson.ValidBytes(frame) {
					logger.Warn("skipping malformed object frame", "frame_bytes", len(frame))
					continue
				}
				if cbErr := onFrame(frame); cbErr != nil {
					return cbErr
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
