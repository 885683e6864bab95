// file: cmd/server/examples.go
package main

import (
	"context"
	"encoding/json"
	"runtime"
	"time"

	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
	"github.com/dkoosis/cowgnition-mcp/internal/router"
)

var echoSchema = json.RawMessage(`{
	"type": "object",
	"required": ["message"],
	"properties": {
		"message": {"type": "string"}
	}
}`)

// registerExampleHandlers installs a minimal demonstration tool, resource,
// and prompt so a freshly started server has something to list and call.
func registerExampleHandlers(rt *router.Router) {
	_ = rt.RegisterTool(mcptypes.ToolDefinition{
		Name:        "echo",
		Description: "Echoes the message argument back as text content.",
		InputSchema: echoSchema,
	}, func(ctx *mcptypes.RequestContext, args json.RawMessage) ([]mcptypes.Content, error) {
		var params struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, err
		}
		return []mcptypes.Content{mcptypes.TextContent(params.Message)}, nil
	})

	_ = rt.RegisterResource(mcptypes.ResourceDefinition{
		URI:         "server://info",
		Name:        "Server Info",
		Description: "Runtime information about this server process.",
		MimeType:    "application/json",
	}, func(ctx *mcptypes.RequestContext, uri string, params map[string]string) ([]mcptypes.Content, error) {
		info, _ := json.Marshal(map[string]string{
			"goVersion": runtime.Version(),
			"os":        runtime.GOOS,
			"arch":      runtime.GOARCH,
		})
		return []mcptypes.Content{{Type: "text", Text: string(info), MimeType: "application/json"}}, nil
	})

	_ = rt.RegisterPrompt(mcptypes.PromptDefinition{
		Name:        "greeting",
		Description: "Produces a friendly greeting for the named recipient.",
		Arguments:   []mcptypes.PromptArgument{{Name: "name", Required: true}},
	}, func(ctx *mcptypes.RequestContext, args map[string]string) (string, []mcptypes.PromptMessage, error) {
		msg := mcptypes.PromptMessage{Role: "user", Content: mcptypes.TextContent("Say hello to " + args["name"] + ".")}
		return "a friendly greeting prompt", []mcptypes.PromptMessage{msg}, nil
	})
}

// registerExampleTasks installs a demonstration background task type so
// tasks/submit has something registered to exercise on a fresh server.
func registerExampleTasks(tm taskRegistrar) {
	_ = tm.Register("sleep", func(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
		var p struct {
			Seconds int `json:"seconds"`
		}
		_ = json.Unmarshal(params, &p)
		select {
		case <-time.After(time.Duration(p.Seconds) * time.Second):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return json.RawMessage(`{"slept":true}`), nil
	})
}

// taskRegistrar is the subset of *tasks.Manager this file needs, named
// locally so examples.go doesn't have to import the tasks package just to
// spell out the concrete type.
type taskRegistrar interface {
	Register(taskType string, handler mcptypes.TaskHandler) error
}
