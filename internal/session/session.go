// Package session implements the per-connection handshake state machine and
// the single-threaded cooperative dispatch loop (§4.4).
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dkoosis/cowgnition-mcp/internal/logging"
	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
	"github.com/dkoosis/cowgnition-mcp/internal/router"
	"github.com/dkoosis/cowgnition-mcp/internal/tasks"
	"github.com/dkoosis/cowgnition-mcp/internal/transport"
)

// activeRequest is the bookkeeping record kept in the active-requests map
// while a request is in flight: its budget (for exhaustion checks) and the
// cancel func that fires its context when a cancellation notification or
// shutdown arrives.
type activeRequest struct {
	budget *mcptypes.Budget
	cancel context.CancelFunc
}

// Config bundles the knobs a Session needs beyond its collaborators.
type Config struct {
	ServerName         string
	ServerVersion      string
	DefaultTimeoutSecs int
	RequestsPerSecond  float64 // 0 means unlimited.
	ErrorMasking       bool
}

// Session owns one connection's handshake state, active-request bookkeeping,
// and the dispatch loop that drives it. Exactly one goroutine calls Run; the
// cancellation-notification path and handler-issued notifications are the
// only other concurrent accessors of its guarded state.
type Session struct {
	ID string

	cfg       Config
	logger    logging.Logger
	transport transport.Transport
	router    *router.Router
	tasks     *tasks.Manager
	lifecycle *Lifecycle
	state     *mcptypes.SharedState
	limiter   *rate.Limiter

	logLevel logLevelHolder

	activeMu sync.Mutex
	active   map[string]*activeRequest

	subMu      sync.Mutex
	subscribed map[string]bool
}

// New builds a Session ready to Run over transport. tasks may be nil if the
// task manager is not installed for this server.
func New(cfg Config, tr transport.Transport, rt *router.Router, tm *tasks.Manager, logger logging.Logger) (*Session, error) {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	lifecycle, err := NewLifecycle(logger)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Session{
		ID:        uuid.NewString(),
		cfg:       cfg,
		logger:    logger.WithField("session", "dispatch"),
		transport: tr,
		router:    rt,
		tasks:     tm,
		lifecycle: lifecycle,
		state:     mcptypes.NewSharedState(),
		limiter:   limiter,
		logLevel:   newLogLevelHolder(int(logging.LevelError)),
		active:     make(map[string]*activeRequest),
		subscribed: make(map[string]bool),
	}, nil
}

// insertActive registers a request's cancellation handle, overwriting (and
// logging) any pre-existing entry under the same id per §4.4 step 5.
func (s *Session) insertActive(id string, entry *activeRequest) {
	s.activeMu.Lock()
	defer s.activeMu.Unlock()
	if _, exists := s.active[id]; exists {
		s.logger.Warn("duplicate request id in active-requests map, overwriting", "id", id)
	}
	s.active[id] = entry
}

func (s *Session) removeActive(id string) {
	s.activeMu.Lock()
	defer s.activeMu.Unlock()
	delete(s.active, id)
}

// cancelActive fires the cancellation handle for id if present, returning
// whether it was found.
func (s *Session) cancelActive(id string) bool {
	s.activeMu.Lock()
	defer s.activeMu.Unlock()
	entry, ok := s.active[id]
	if !ok {
		return false
	}
	entry.budget.Trip()
	entry.cancel()
	return true
}
