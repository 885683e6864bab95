// file: internal/transport/stdio.go
package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/dkoosis/cowgnition-mcp/internal/codec"
	"github.com/dkoosis/cowgnition-mcp/internal/logging"
)

const readChunkSize = 64 * 1024

// readResult is the outcome of one underlying Read call, shuttled back from
// the background goroutine that performs it so Recv can select on ctx.Done()
// without blocking past a cancellation.
type readResult struct {
	n   int
	err error
}

// stdioTransport frames NDJSON messages over an arbitrary reader/writer
// pair. Used directly for stdin/stdout, and for tests against in-memory
// pipes.
type stdioTransport struct {
	codec  *codec.Codec
	reader *bufio.Reader
	writer io.Writer
	closer io.Closer
	logger logging.Logger

	writeMu sync.Mutex

	closeMu sync.RWMutex
	closed  bool

	pending []codec.Result
	eof     bool
}

// NewStdio returns a Transport framing NDJSON over the given reader/writer,
// closed via closer when Close is called. Pass os.Stdin/os.Stdout for the
// default carrier; pass closer as a no-op closer for pipes that outlive the
// transport.
func NewStdio(reader io.Reader, writer io.Writer, closer io.Closer, maxMessageSize int, logger logging.Logger) Transport {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &stdioTransport{
		codec:  codec.New(maxMessageSize),
		reader: bufio.NewReaderSize(reader, readChunkSize),
		writer: writer,
		closer: closer,
		logger: logger.WithField("component", "transport.stdio"),
	}
}

func (t *stdioTransport) Recv(ctx context.Context) (json.RawMessage, error) {
	for {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}

		if len(t.pending) > 0 {
			r := t.pending[0]
			t.pending = t.pending[1:]
			if r.Err != nil {
				t.logger.Warn("discarding malformed line", "error", r.Err)
				return nil, &CodecError{Cause: r.Err}
			}
			return r.Message, nil
		}

		if t.eof {
			return nil, ErrClosed
		}

		buf := make([]byte, readChunkSize)
		ch := make(chan readResult, 1)
		go func() {
			n, err := t.reader.Read(buf)
			ch <- readResult{n: n, err: err}
		}()

		select {
		case <-ctx.Done():
			return nil, ErrCancelled
		case res := <-ch:
			if res.n > 0 {
				results, decErr := t.codec.Decode(buf[:res.n])
				if decErr != nil {
					t.logger.Error("framing failure, discarding buffered state", "error", decErr)
					return nil, &CodecError{Cause: decErr}
				}
				t.pending = results
			}
			if res.err != nil {
				if errors.Is(res.err, io.EOF) {
					t.eof = true
				} else {
					return nil, &IOError{Cause: res.err}
				}
			}
		}
	}
}

func (t *stdioTransport) Send(ctx context.Context, msg json.RawMessage) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.logger.Debug("sending message", "preview", calculatePreview(msg))
	if _, err := t.writer.Write(codec.Encode(msg)); err != nil {
		return &IOError{Cause: err}
	}
	return nil
}

func (t *stdioTransport) NotificationSender() Sender {
	return senderFunc(t.Send)
}

func (t *stdioTransport) Close() error {
	t.closeMu.Lock()
	defer t.closeMu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}
