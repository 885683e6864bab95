// file: internal/session/dispatch.go
package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dkoosis/cowgnition-mcp/internal/jsonrpc"
	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
	"github.com/dkoosis/cowgnition-mcp/internal/rpcerr"
	"github.com/dkoosis/cowgnition-mcp/internal/transport"
)

// Run drives the single-threaded dispatch loop for the session's lifetime,
// returning nil on graceful shutdown (transport closed or ctx cancelled) and
// a non-nil error only for conditions the loop cannot recover from.
func (s *Session) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			s.logger.Info("context cancelled, shutting down session")
			return nil
		}

		raw, err := s.transport.Recv(ctx)
		if err != nil {
			if errors.Is(err, transport.ErrClosed) || errors.Is(err, transport.ErrCancelled) {
				s.logger.Info("transport closed, shutting down session")
				return nil
			}
			var ioErr *transport.IOError
			var codecErr *transport.CodecError
			if errors.As(err, &ioErr) || errors.As(err, &codecErr) {
				s.logger.Warn("recoverable transport error, continuing", "error", err)
				continue
			}
			s.logger.Warn("unrecognized transport error, continuing", "error", err)
			continue
		}

		s.handleMessage(ctx, raw)
	}
}

func (s *Session) handleMessage(ctx context.Context, raw json.RawMessage) {
	var msg jsonrpc.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.logger.Warn("failed to parse message envelope", "error", err)
		return
	}

	switch {
	case msg.IsResponse():
		// The server never issues outbound requests of its own, so inbound
		// responses have no correlated caller; ignore per §4.4 step 3.
		return
	case msg.IsRequest():
		req, _ := msg.ToRequest()
		s.handleRequest(ctx, req)
	case msg.IsNotification():
		notif, _ := msg.ToNotification()
		s.handleNotification(ctx, notif)
	default:
		s.logger.Warn("message is neither request, response, nor notification")
	}
}

func (s *Session) handleRequest(ctx context.Context, req *jsonrpc.Request) {
	if s.limiter != nil && !s.limiter.Allow() {
		s.sendError(ctx, req.ID, rpcerr.Newf("rate limit exceeded"), rpcerr.CodeInternalError)
		return
	}

	if err := s.lifecycle.ValidateMethod(req.Method); err != nil {
		s.sendError(ctx, req.ID, err, rpcerr.GetErrorCode(err))
		return
	}

	idStr := string(req.ID)
	budget := mcptypes.NewBudget(s.cfg.DefaultTimeoutSecs)
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.insertActive(idStr, &activeRequest{budget: budget, cancel: cancel})
	defer s.removeActive(idStr)

	if budget.Exhausted() {
		s.sendError(ctx, req.ID, rpcerr.New("request budget exhausted before dispatch"), rpcerr.CodeRequestCancelled)
		return
	}

	rc := &mcptypes.RequestContext{
		Context:      reqCtx,
		RequestID:    req.ID,
		Budget:       budget,
		SessionState: s.state,
		Notifier:     s.notifier(),
	}
	if meta := extractProgressToken(req.Params); meta != nil {
		rc.ProgressToken = meta
	}

	result, err := s.dispatch(rc, req.Method, req.Params)
	if err != nil {
		s.sendError(ctx, req.ID, err, rpcerr.GetErrorCode(err))
		return
	}
	s.sendResult(ctx, req.ID, result)
}

func (s *Session) handleNotification(ctx context.Context, notif *jsonrpc.Notification) {
	switch notif.Method {
	case "notifications/cancelled":
		var params mcptypes.CancelledParams
		if err := notif.ParseParams(&params); err != nil {
			s.logger.Warn("malformed cancelled notification", "error", err)
			return
		}
		if !s.cancelActive(string(params.RequestID)) {
			s.logger.Info("cancellation for unknown or completed request id", "requestId", string(params.RequestID))
		}
	case "notifications/initialized":
		if err := s.lifecycle.Transition(ctx, eventClientInitialized, nil); err != nil {
			s.logger.Warn("unexpected initialized notification", "error", err)
		}
	default:
		budget := mcptypes.NewBudget(s.cfg.DefaultTimeoutSecs)
		rc := &mcptypes.RequestContext{Context: ctx, Budget: budget, SessionState: s.state, Notifier: s.notifier()}
		if _, err := s.dispatch(rc, notif.Method, notif.Params); err != nil {
			s.logger.Warn("notification handler failed", "method", notif.Method, "error", err)
		}
	}
}

func extractProgressToken(params json.RawMessage) json.RawMessage {
	if len(params) == 0 {
		return nil
	}
	var withMeta struct {
		Meta *mcptypes.Meta `json:"_meta"`
	}
	if err := json.Unmarshal(params, &withMeta); err != nil || withMeta.Meta == nil {
		return nil
	}
	return withMeta.Meta.ProgressToken
}

func (s *Session) sendResult(ctx context.Context, id json.RawMessage, result interface{}) {
	resp, err := jsonrpc.NewResponse(id, result, nil)
	if err != nil {
		s.logger.Error("failed to build response", "error", err)
		return
	}
	s.send(ctx, resp)
}

func (s *Session) sendError(ctx context.Context, id json.RawMessage, err error, code int) {
	rpcErr := jsonrpc.FromError(err)
	if s.cfg.ErrorMasking && !isProtocolCode(code) {
		rpcErr = jsonrpc.NewError(rpcerr.CodeInternalError, "internal server error")
	}
	resp, buildErr := jsonrpc.NewResponse(id, nil, rpcErr)
	if buildErr != nil {
		s.logger.Error("failed to build error response", "error", buildErr)
		return
	}
	s.send(ctx, resp)
}

func isProtocolCode(code int) bool {
	switch code {
	case rpcerr.CodeParseError, rpcerr.CodeInvalidRequest, rpcerr.CodeMethodNotFound, rpcerr.CodeInvalidParams:
		return true
	default:
		return false
	}
}

func (s *Session) send(ctx context.Context, resp *jsonrpc.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	if err := s.transport.Send(ctx, data); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}
