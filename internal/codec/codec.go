// Package codec frames and unframes newline-delimited JSON (NDJSON) messages
// over a byte stream with a hard, configurable size cap and bounded-memory
// buffering.
// file: internal/codec/codec.go
package codec

import (
	"bytes"
	"encoding/json"

	"github.com/dustin/go-humanize"
)

// compactThreshold is the read-cursor offset past which Decode compacts the
// internal buffer, amortizing the cost of partial consumption.
const compactThreshold = 4 * 1024

// Result is one decoded NDJSON line: either a syntactically valid JSON
// message, or a per-line parse failure. A failed line never kills framing —
// the caller sees the error and moves on to the next message.
type Result struct {
	Message json.RawMessage
	Err     error
}

// Codec holds the append buffer and read cursor for one byte stream. It is
// not safe for concurrent use; callers serialize access (the dispatch loop
// owns exactly one codec per connection).
type Codec struct {
	maxMessageSize int
	buf            []byte
	cursor         int
}

// New returns a Codec enforcing maxMessageSize as the hard cap on both
// unread buffered bytes and any single message.
func New(maxMessageSize int) *Codec {
	return &Codec{maxMessageSize: maxMessageSize}
}

// Buffered returns the number of unread bytes currently held, for tests
// asserting the size-cap invariant (I6 / P3).
func (c *Codec) Buffered() int {
	return len(c.buf) - c.cursor
}

// Reset discards all buffered state, as Decode does internally on a
// MessageTooLarge failure.
func (c *Codec) Reset() {
	c.buf = nil
	c.cursor = 0
}

// Decode feeds one chunk of newly-arrived bytes through the framer and
// returns every complete message that chunk (combined with any bytes
// buffered from prior calls) newly terminates. The order of emitted results
// matches the order newlines were encountered.
//
// A MessageTooLargeError is fatal to the current framing state: all buffered
// bytes are discarded and the caller must treat this connection's framing as
// reset (the next Decode call starts fresh). Per-line JSON errors are
// carried in the returned Result slice and do not reset anything; framing
// resumes at the next line.
func (c *Codec) Decode(chunk []byte) ([]Result, error) {
	pending := c.Buffered() + len(chunk)
	if pending > c.maxMessageSize {
		c.Reset()
		return nil, &MessageTooLargeError{Size: pending, Max: c.maxMessageSize}
	}

	if c.cursor >= compactThreshold {
		c.compact()
	}

	c.buf = append(c.buf, chunk...)

	var results []Result
	for {
		idx := bytes.IndexByte(c.buf[c.cursor:], '\n')
		if idx < 0 {
			break
		}
		lineEnd := c.cursor + idx
		line := c.buf[c.cursor:lineEnd]
		line = bytes.TrimSuffix(line, []byte("\r"))
		c.cursor = lineEnd + 1

		if len(line) > c.maxMessageSize {
			c.Reset()
			return results, &MessageTooLargeError{Size: len(line), Max: c.maxMessageSize}
		}

		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		if !json.Valid(line) {
			results = append(results, Result{Err: &JSONError{Cause: errInvalidJSON(line)}})
			continue
		}

		msg := make(json.RawMessage, len(line))
		copy(msg, line)
		results = append(results, Result{Message: msg})
	}

	return results, nil
}

// compact slides unread bytes to the front of the buffer and resets the
// cursor, bounding the buffer's backing array growth across a long-lived
// connection.
func (c *Codec) compact() {
	remaining := c.buf[c.cursor:]
	compacted := make([]byte, len(remaining))
	copy(compacted, remaining)
	c.buf = compacted
	c.cursor = 0
}

// Encode serializes a message to UTF-8 JSON with a trailing newline. No CR
// is ever emitted on output, even though a trailing CR on input is
// tolerated by Decode.
func Encode(msg []byte) []byte {
	out := make([]byte, 0, len(msg)+1)
	out = append(out, msg...)
	out = append(out, '\n')
	return out
}

// MessageTooLargeError reports that a message (or the aggregate pending
// buffer) exceeded the configured maximum message size.
type MessageTooLargeError struct {
	Size int
	Max  int
}

func (e *MessageTooLargeError) Error() string {
	return "message too large: " + humanize.Bytes(uint64(e.Size)) + " exceeds limit of " + humanize.Bytes(uint64(e.Max))
}

// JSONError reports a per-line JSON parse failure. It does not reset codec
// state; the caller logs it and framing continues on the next line.
type JSONError struct {
	Cause error
}

func (e *JSONError) Error() string { return "invalid json: " + e.Cause.Error() }
func (e *JSONError) Unwrap() error { return e.Cause }

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

func errInvalidJSON(line []byte) error {
	// json.Valid does not surface a reason, so re-run Unmarshal to recover one.
	var v interface{}
	if err := json.Unmarshal(line, &v); err != nil {
		return err
	}
	return &parseError{msg: "invalid json"}
}
