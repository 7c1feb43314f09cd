package vellum

import (
	"bytes"
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

const (
	sseDataPrefix = "data: "
	sseDoneMarker = "[DONE]"

	streamReadBufferSize = 4096
)

// SSEDecoder is an incremental decoder for Server-Sent-Events framing.
// Chunks are fed in as they arrive off the wire; the decoder buffers the
// trailing partial line between chunks, so splitting the same bytes at
// different boundaries always yields the same payload sequence.
//
// A decoder belongs to exactly one response body and is not safe for
// concurrent use.
type SSEDecoder struct {
	buf  []byte
	done bool
}

// NewSSEDecoder creates a decoder with empty state.
func NewSSEDecoder() *SSEDecoder {
	return &SSEDecoder{}
}

// Feed appends a chunk and returns the data payload of every line completed
// by it. Blank lines, comment lines (leading ':'), and lines without the
// "data: " prefix are ignored. The literal payload "[DONE]" terminates the
// stream: Done() reports true and any buffered residue is discarded.
func (d *SSEDecoder) Feed(chunk []byte) [][]byte {
	if d.done {
		return nil
	}
	d.buf = append(d.buf, chunk...)

	var payloads [][]byte
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimSuffix(d.buf[:i], []byte("\r"))
		d.buf = d.buf[i+1:]

		if len(line) == 0 || line[0] == ':' {
			continue
		}
		if !bytes.HasPrefix(line, []byte(sseDataPrefix)) {
			continue
		}
		payload := line[len(sseDataPrefix):]
		if string(payload) == sseDoneMarker {
			d.done = true
			d.buf = nil
			break
		}

		out := make([]byte, len(payload))
		copy(out, payload)
		payloads = append(payloads, out)
	}
	return payloads
}

// Done reports whether the stream was terminated by a "[DONE]" payload.
func (d *SSEDecoder) Done() bool {
	return d.done
}

// StreamSSE drains an SSE response body, invoking onPayload for every decoded
// data payload that is valid JSON. Malformed payloads are logged and skipped;
// they never abort the stream. A residual partial line at end-of-stream is
// dropped, not flushed.
//
// Cancellation is checked before each read and surfaces as ErrStreamCancelled.
// The body is closed on every exit path. A non-nil error from onPayload stops
// the stream and is returned as-is.
func StreamSSE(ctx context.Context, body io.ReadCloser, logger *log.Logger, onPayload func(payload []byte) error) error {
	defer body.Close()
	if logger == nil {
		logger = log.Default()
	}

	dec := NewSSEDecoder()
	buf := make([]byte, streamReadBufferSize)
	for {
		select {
		case <-ctx.Done():
			return CancelledError(ctx)
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			for _, payload := range dec.Feed(buf[:n]) {
				if !gjson.ValidBytes(payload) {
					logger.Warn("skipping malformed stream frame", "frame_bytes", len(payload))
					continue
				}
				if cbErr := onPayload(payload); cbErr != nil {
					return cbErr
				}
			}
		}
		if dec.Done() {
			return nil
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
