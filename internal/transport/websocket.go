// file: internal/transport/websocket.go
package transport

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dkoosis/cowgnition-mcp/internal/codec"
	"github.com/dkoosis/cowgnition-mcp/internal/logging"
	"nhooyr.io/websocket"
)

// wsTransport adapts a websocket connection to Transport. One JSON-RPC
// message maps to one text websocket frame; the codec's size cap and JSON
// validity check still apply per frame since the wire protocol's invariants
// do not relax across carriers.
type wsTransport struct {
	conn           *websocket.Conn
	maxMessageSize int
	writeMu        sync.Mutex
	logger         logging.Logger
}

// NewWebSocket adapts an already-accepted websocket connection to Transport,
// demonstrating the "carriers delegated to collaborators" line of §4.2
// against a concrete library rather than stdio alone.
func NewWebSocket(conn *websocket.Conn, maxMessageSize int, logger logging.Logger) Transport {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	conn.SetReadLimit(int64(maxMessageSize))
	return &wsTransport{
		conn:           conn,
		maxMessageSize: maxMessageSize,
		logger:         logger.WithField("component", "transport.websocket"),
	}
}

func (t *wsTransport) Recv(ctx context.Context) (json.RawMessage, error) {
	_, data, err := t.conn.Read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		if websocket.CloseStatus(err) != -1 {
			return nil, ErrClosed
		}
		return nil, &IOError{Cause: err}
	}

	if len(data) > t.maxMessageSize {
		return nil, &CodecError{Cause: &codec.MessageTooLargeError{Size: len(data), Max: t.maxMessageSize}}
	}
	if !json.Valid(data) {
		return nil, &CodecError{Cause: &codec.JSONError{Cause: errNotJSON}}
	}

	msg := make(json.RawMessage, len(data))
	copy(msg, data)
	return msg, nil
}

func (t *wsTransport) Send(ctx context.Context, msg json.RawMessage) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.logger.Debug("sending message", "preview", calculatePreview(msg))
	if err := t.conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return &IOError{Cause: err}
	}
	return nil
}

func (t *wsTransport) NotificationSender() Sender {
	return senderFunc(t.Send)
}

func (t *wsTransport) Close() error {
	return t.conn.Close(websocket.StatusNormalClosure, "session shutdown")
}

var errNotJSON = &notJSONError{}

type notJSONError struct{}

func (e *notJSONError) Error() string { return "frame is not valid json" }
