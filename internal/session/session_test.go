// file: internal/session/session_test.go
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/cowgnition-mcp/internal/logging"
	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
	"github.com/dkoosis/cowgnition-mcp/internal/router"
	"github.com/dkoosis/cowgnition-mcp/internal/transport"
)

// newTestSession wires a Session over an in-memory buffer pair so tests can
// write request lines in and read response lines out without real I/O.
func newTestSession(t *testing.T, rt *router.Router) (*Session, *bytes.Buffer, func([]byte)) {
	t.Helper()
	var out bytes.Buffer
	in := bytes.NewBuffer(nil)
	tr := transport.NewReaderWriter(in, &out, nil, 1<<20, logging.GetNoopLogger())

	s, err := New(Config{ServerName: "test", ServerVersion: "0.0.1", DefaultTimeoutSecs: 5}, tr, rt, nil, logging.GetNoopLogger())
	require.NoError(t, err)

	feed := func(line []byte) {
		in.Write(line)
		in.WriteByte('\n')
	}
	return s, &out, feed
}

func TestInitializeHandshakeThenPing(t *testing.T) {
	rt := router.New(router.PolicyError, nil)
	s, out, feed := newTestSession(t, rt)

	feed([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"c","version":"1"}}}`))
	feed([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	feed([]byte(`{"jsonrpc":"2.0","id":2,"method":"ping"}`))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.GreaterOrEqual(t, len(lines), 2)

	var initResp struct {
		ID     int                       `json:"id"`
		Result mcptypes.InitializeResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(lines[0], &initResp))
	assert.Equal(t, "test", initResp.Result.ServerInfo.Name)
}

func TestOperationalMethodBeforeInitializeIsRejected(t *testing.T) {
	rt := router.New(router.PolicyError, nil)
	s, out, feed := newTestSession(t, rt)

	feed([]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	go func() { _ = s.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)

	var resp struct {
		Error *struct {
			Code int `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &resp))
	require.NotNil(t, resp.Error)
}
