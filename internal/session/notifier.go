// file: internal/session/notifier.go
package session

import (
	"context"
	"encoding/json"

	"github.com/dkoosis/cowgnition-mcp/internal/jsonrpc"
	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
)

// sessionNotifier adapts the session's transport notification sender to the
// mcptypes.ProgressNotifier interface handlers see.
type sessionNotifier struct {
	s *Session
}

func (s *Session) notifier() mcptypes.ProgressNotifier {
	return &sessionNotifier{s: s}
}

func (n *sessionNotifier) Progress(ctx context.Context, progress float64, total *float64, message string) error {
	notif, err := jsonrpc.NewNotification("notifications/progress", mcptypes.ProgressParams{
		Progress: progress,
		Total:    total,
		Message:  message,
	})
	if err != nil {
		return err
	}
	return n.send(ctx, notif)
}

func (n *sessionNotifier) Log(ctx context.Context, level string, message string, data json.RawMessage) error {
	payload := struct {
		Level string          `json:"level"`
		Data  json.RawMessage `json:"data,omitempty"`
	}{Level: level, Data: data}
	if message != "" {
		payload.Data = json.RawMessage(`"` + message + `"`)
	}
	notif, err := jsonrpc.NewNotification("notifications/message", payload)
	if err != nil {
		return err
	}
	return n.send(ctx, notif)
}

func (n *sessionNotifier) send(ctx context.Context, notif *jsonrpc.Notification) error {
	data, err := json.Marshal(notif)
	if err != nil {
		return err
	}
	return n.s.transport.NotificationSender().Send(ctx, data)
}
