// Package transport delivers and consumes framed JSON-RPC messages over a
// bidirectional byte channel, propagating cancellation and reporting
// closure, independent of the concrete carrier (stdio, in-memory, websocket).
// file: internal/transport/transport.go
package transport

import (
	"context"
	"encoding/json"
)

// Transport is a bidirectional framed channel polymorphic over
// {Recv, Send, Close}. Implementations must check ctx for cancellation
// before any blocking syscall and return ErrCancelled rather than block
// past that point.
type Transport interface {
	// Recv blocks for the next framed message, or returns ErrClosed on a
	// graceful end-of-stream, ErrCancelled if ctx was cancelled first.
	Recv(ctx context.Context) (json.RawMessage, error)

	// Send writes one framed message. Concurrent Send calls (including
	// calls made through NotificationSender) are serialized so writes stay
	// atomic at whole-message granularity.
	Send(ctx context.Context, msg json.RawMessage) error

	// Close releases the underlying carrier. Idempotent.
	Close() error

	// NotificationSender returns a send-only handle safe to invoke from
	// handler goroutines concurrently with the main loop's Recv.
	NotificationSender() Sender
}

// Sender is the send-only capability handlers use to emit progress and log
// notifications asynchronously while the dispatch loop may be blocked in
// Recv.
type Sender interface {
	Send(ctx context.Context, msg json.RawMessage) error
}

// senderFunc adapts a Send method value to the Sender interface.
type senderFunc func(ctx context.Context, msg json.RawMessage) error

func (f senderFunc) Send(ctx context.Context, msg json.RawMessage) error { return f(ctx, msg) }

// calculatePreview renders a short, control-character-safe preview of a
// message for log lines, so a malformed or huge payload never corrupts or
// floods the log stream.
func calculatePreview(data []byte) string {
	const maxPreview = 120
	out := make([]byte, 0, maxPreview)
	for _, b := range data {
		if len(out) >= maxPreview {
			out = append(out, '.', '.', '.')
			break
		}
		if b < 0x20 || b == 0x7f {
			out = append(out, ' ')
			continue
		}
		out = append(out, b)
	}
	return string(out)
}
