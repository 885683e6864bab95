// file: internal/session/handlers.go
package session

import (
	"context"
	"encoding/json"

	"github.com/dkoosis/cowgnition-mcp/internal/logging"
	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
	"github.com/dkoosis/cowgnition-mcp/internal/rpcerr"
)

// dispatch resolves method to a built-in handler or the router, per §4.4's
// built-in method list. Task methods are only reachable when a task manager
// is installed.
func (s *Session) dispatch(rc *mcptypes.RequestContext, method string, params json.RawMessage) (interface{}, error) {
	switch method {
	case "initialize":
		return s.handleInitialize(rc, params)
	case "ping":
		return struct{}{}, nil
	case "logging/setLevel":
		return s.handleSetLevel(params)
	case "resources/subscribe":
		return s.handleSubscribe(params, true)
	case "resources/unsubscribe":
		return s.handleSubscribe(params, false)
	case "tools/list":
		return mcptypes.ListToolsResult{Tools: s.router.ListTools()}, nil
	case "tools/call":
		return s.handleCallTool(rc, params)
	case "resources/list":
		return mcptypes.ListResourcesResult{Resources: s.router.ListResources()}, nil
	case "resources/templates/list":
		return mcptypes.ListResourceTemplatesResult{ResourceTemplates: s.router.ListResourceTemplates()}, nil
	case "resources/read":
		return s.handleReadResource(rc, params)
	case "prompts/list":
		return mcptypes.ListPromptsResult{Prompts: s.router.ListPrompts()}, nil
	case "prompts/get":
		return s.handleGetPrompt(rc, params)
	case "tasks/submit", "tasks/list", "tasks/show", "tasks/cancel", "tasks/stats":
		return s.dispatchTaskMethod(method, params)
	default:
		return nil, rpcerr.ErrorWithDetails(rpcerr.New("method not found"), rpcerr.CategoryRPC, rpcerr.CodeMethodNotFound,
			map[string]interface{}{"method": method})
	}
}

func (s *Session) handleInitialize(rc *mcptypes.RequestContext, params json.RawMessage) (interface{}, error) {
	if err := s.lifecycle.Transition(rc, eventInitializeRequest, nil); err != nil {
		return nil, rpcerr.Wrap(err, "initialize out of sequence")
	}

	var req mcptypes.InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, rpcerr.ErrorWithDetails(rpcerr.Wrap(err, "invalid initialize params"),
				rpcerr.CategoryRPC, rpcerr.CodeInvalidParams, nil)
		}
	}

	return mcptypes.InitializeResult{
		ProtocolVersion: req.ProtocolVersion,
		Capabilities: mcptypes.Capabilities{
			Tools:     &mcptypes.ToolsCapability{},
			Resources: &mcptypes.ResourcesCapability{Subscribe: true},
			Prompts:   &mcptypes.PromptsCapability{},
		},
		ServerInfo: mcptypes.ServerInfo{Name: s.cfg.ServerName, Version: s.cfg.ServerVersion},
	}, nil
}

func (s *Session) handleSetLevel(params json.RawMessage) (interface{}, error) {
	var p mcptypes.SetLevelParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpcerr.ErrorWithDetails(rpcerr.Wrap(err, "invalid setLevel params"),
			rpcerr.CategoryRPC, rpcerr.CodeInvalidParams, nil)
	}
	s.logLevel.Set(int(logging.ParseLevel(p.Level)))
	return nil, nil
}

func (s *Session) handleSubscribe(params json.RawMessage, subscribe bool) (interface{}, error) {
	var p mcptypes.SubscribeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpcerr.ErrorWithDetails(rpcerr.Wrap(err, "invalid subscribe params"),
			rpcerr.CategoryRPC, rpcerr.CodeInvalidParams, nil)
	}

	if subscribe {
		if _, err := s.router.ReadResource(&mcptypes.RequestContext{Context: context.Background(), SessionState: s.state}, p.URI); err != nil {
			return nil, err
		}
		s.subMu.Lock()
		s.subscribed[p.URI] = true
		s.subMu.Unlock()
		return struct{}{}, nil
	}

	s.subMu.Lock()
	delete(s.subscribed, p.URI)
	s.subMu.Unlock()
	return struct{}{}, nil
}

func (s *Session) handleCallTool(rc *mcptypes.RequestContext, params json.RawMessage) (interface{}, error) {
	var p mcptypes.CallToolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpcerr.ErrorWithDetails(rpcerr.Wrap(err, "invalid call params"),
			rpcerr.CategoryRPC, rpcerr.CodeInvalidParams, nil)
	}

	content, err := s.router.CallTool(rc, p.Name, p.Arguments)
	if err != nil {
		if code := rpcerr.GetErrorCode(err); code == rpcerr.CodeToolNotFound || code == rpcerr.CodeInvalidParams {
			return nil, err
		}
		return mcptypes.CallToolResult{
			Content: []mcptypes.Content{mcptypes.TextContent(err.Error())},
			IsError: true,
		}, nil
	}
	return mcptypes.CallToolResult{Content: content, IsError: false}, nil
}

func (s *Session) handleReadResource(rc *mcptypes.RequestContext, params json.RawMessage) (interface{}, error) {
	var p mcptypes.ReadResourceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpcerr.ErrorWithDetails(rpcerr.Wrap(err, "invalid read params"),
			rpcerr.CategoryRPC, rpcerr.CodeInvalidParams, nil)
	}
	content, err := s.router.ReadResource(rc, p.URI)
	if err != nil {
		return nil, err
	}
	return mcptypes.ReadResourceResult{Contents: content}, nil
}

func (s *Session) handleGetPrompt(rc *mcptypes.RequestContext, params json.RawMessage) (interface{}, error) {
	var p mcptypes.GetPromptParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpcerr.ErrorWithDetails(rpcerr.Wrap(err, "invalid get-prompt params"),
			rpcerr.CategoryRPC, rpcerr.CodeInvalidParams, nil)
	}
	description, messages, err := s.router.GetPrompt(rc, p.Name, p.Arguments)
	if err != nil {
		return nil, err
	}
	return mcptypes.GetPromptResult{Description: description, Messages: messages}, nil
}
