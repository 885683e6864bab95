// file: internal/session/state.go
package session

import (
	"fmt"

	"github.com/dkoosis/cowgnition-mcp/internal/fsm"
	"github.com/dkoosis/cowgnition-mcp/internal/logging"
	"github.com/dkoosis/cowgnition-mcp/internal/rpcerr"
)

// Lifecycle states per §4.4: Uninitialized -> Initializing -> Initialized -> Shutdown.
const (
	StateUninitialized fsm.State = "uninitialized"
	StateInitializing  fsm.State = "initializing"
	StateInitialized   fsm.State = "initialized"
	StateShutdown      fsm.State = "shutdown"
)

const (
	eventInitializeRequest fsm.Event = "initialize_request"
	eventClientInitialized fsm.Event = "client_initialized"
	eventTransportClosed   fsm.Event = "transport_closed"
	eventOperationalCall   fsm.Event = "operational_call"
)

// methodsAllowedBeforeInit are the only methods a client may call before the
// initialize/initialized handshake completes.
var methodsAllowedBeforeInit = map[string]bool{
	"initialize": true,
	"ping":       true,
}

// Lifecycle tracks a single session's position in the handshake, rejecting
// operational methods sent out of sequence.
type Lifecycle struct {
	fsm.FSM
	logger logging.Logger
}

// NewLifecycle builds a Lifecycle starting in Uninitialized.
func NewLifecycle(logger logging.Logger) (*Lifecycle, error) {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	log := logger.WithField("component", "session_lifecycle")

	builder := fsm.NewFSM(StateUninitialized, log)
	builder.AddTransition(fsm.Transition{
		From:  []fsm.State{StateUninitialized},
		Event: eventInitializeRequest,
		To:    StateInitializing,
	})
	builder.AddTransition(fsm.Transition{
		From:  []fsm.State{StateInitializing},
		Event: eventClientInitialized,
		To:    StateInitialized,
	})
	builder.AddTransition(fsm.Transition{
		From:  []fsm.State{StateInitialized},
		Event: eventOperationalCall,
		To:    StateInitialized,
	})
	builder.AddTransition(fsm.Transition{
		From:  []fsm.State{StateUninitialized, StateInitializing, StateInitialized},
		Event: eventTransportClosed,
		To:    StateShutdown,
	})

	if err := builder.Build(); err != nil {
		return nil, rpcerr.Wrap(err, "failed to build session lifecycle")
	}
	return &Lifecycle{FSM: builder, logger: log}, nil
}

// ValidateMethod reports whether method may be called in the current state,
// per the handshake rule: only initialize/ping are allowed pre-init.
func (l *Lifecycle) ValidateMethod(method string) error {
	state := l.CurrentState()
	if state == StateInitialized {
		return nil
	}
	if methodsAllowedBeforeInit[method] {
		return nil
	}
	return rpcerr.ErrorWithDetails(
		rpcerr.Newf("method %q not allowed before initialization", method),
		rpcerr.CategoryRPC, rpcerr.CodeInvalidRequest,
		map[string]interface{}{"method": method, "state": fmt.Sprintf("%v", state)},
	)
}
