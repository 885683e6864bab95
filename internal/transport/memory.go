// file: internal/transport/memory.go
package transport

import (
	"io"

	"github.com/dkoosis/cowgnition-mcp/internal/logging"
)

// nopCloser adapts an io.Writer/io.Reader that must not be closed by the
// transport (stdin/stdout belong to the process, not the connection).
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewStdioDefault wires a Transport directly to the process's stdin/stdout,
// the default carrier per §4.2. Per the NDJSON invariant, callers must never
// write anything else to stdout — all logging goes to stderr.
func NewStdioDefault(stdin io.Reader, stdout io.Writer, maxMessageSize int, logger logging.Logger) Transport {
	return NewStdio(stdin, stdout, nopCloser{}, maxMessageSize, logger)
}

// NewReaderWriter builds a Transport over an arbitrary reader/writer pair,
// the generic "testing" variant named in §4.2. closer may be nil.
func NewReaderWriter(r io.Reader, w io.Writer, closer io.Closer, maxMessageSize int, logger logging.Logger) Transport {
	if closer == nil {
		closer = nopCloser{}
	}
	return NewStdio(r, w, closer, maxMessageSize, logger)
}
