// file: internal/mcptypes/types.go
package mcptypes

import (
	"context"
	"encoding/json"
	"time"
)

// --- Content variants (tool return / resource read) -----------------------

// Content is a single content item returned by a tool call or a resource
// read: text, a base64-encoded image, or an embedded resource.
type Content struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	Data     string           `json:"data,omitempty"`
	MimeType string           `json:"mimeType,omitempty"`
	Resource *EmbeddedResource `json:"resource,omitempty"`
}

// EmbeddedResource is the payload of a {type:"resource"} content item.
type EmbeddedResource struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// TextContent builds a {type:"text"} content item.
func TextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// ImageContent builds a {type:"image"} content item.
func ImageContent(base64Data, mimeType string) Content {
	return Content{Type: "image", Data: base64Data, MimeType: mimeType}
}

// ResourceContent builds a {type:"resource"} content item.
func ResourceContent(res EmbeddedResource) Content {
	return Content{Type: "resource", Resource: &res}
}

// --- Handler registry definitions ------------------------------------------

// ToolDefinition describes a registered tool's metadata and JSON Schema.
// InputSchema is stored raw so the router can compile it once and cache the
// compiled validator.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ToolHandler is the callable behind a tool registration. Application
// errors are returned as Go errors and converted by the session's tools/call
// handler into {isError:true} results; the handler itself never builds that
// envelope.
type ToolHandler func(ctx *RequestContext, args json.RawMessage) ([]Content, error)

// ResourceDefinition describes a registered resource or resource template.
// Exactly one of URI/URITemplate is set.
type ResourceDefinition struct {
	URI         string `json:"uri,omitempty"`
	URITemplate string `json:"uriTemplate,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceHandler is the callable behind a resource registration. params
// carries the captured template bindings (empty for concrete URIs).
type ResourceHandler func(ctx *RequestContext, uri string, params map[string]string) ([]Content, error)

// PromptArgument describes one named, optionally-required prompt argument.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptDefinition describes a registered prompt.
type PromptDefinition struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptMessage is one role-tagged message a prompt handler returns.
type PromptMessage struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// PromptHandler is the callable behind a prompt registration.
type PromptHandler func(ctx *RequestContext, args map[string]string) (description string, messages []PromptMessage, err error)

// --- Per-request context ----------------------------------------------------

// RequestContext is the per-request aggregate threaded into every handler:
// cancellation, a deadline budget, the request identifier, the owning
// session's shared state, and a notification sender. Passed explicitly
// rather than fetched from ambient storage, per §9.
type RequestContext struct {
	context.Context

	RequestID      json.RawMessage
	ProgressToken  json.RawMessage
	Budget         *Budget
	SessionState   *SharedState
	Notifier       ProgressNotifier
}

// CancelRequested reports whether the request's budget has been tripped or
// its context cancelled, the single checkpoint a cooperative handler polls.
func (c *RequestContext) CancelRequested() bool {
	if c.Context.Err() != nil {
		return true
	}
	return c.Budget.Exhausted()
}

// ProgressNotifier lets a handler emit notifications/progress without
// re-threading the progress token the caller attached via _meta.
type ProgressNotifier interface {
	Progress(ctx context.Context, progress float64, total *float64, message string) error
	Log(ctx context.Context, level string, message string, data json.RawMessage) error
}

// --- Tasks -------------------------------------------------------------------

// TaskStatus is one point in a task's monotonic lifecycle.
type TaskStatus string

const (
	TaskPending   TaskStatus = "Pending"
	TaskRunning   TaskStatus = "Running"
	TaskCompleted TaskStatus = "Completed"
	TaskFailed    TaskStatus = "Failed"
	TaskCancelled TaskStatus = "Cancelled"
)

// IsTerminal reports whether s is one of the three terminal statuses.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskCompleted || s == TaskFailed || s == TaskCancelled
}

// TaskInfo is the externally-visible snapshot of a task's state.
type TaskInfo struct {
	ID          string     `json:"id"`
	TaskType    string     `json:"taskType"`
	Status      TaskStatus `json:"status"`
	Progress    *float64   `json:"progress,omitempty"`
	Message     string     `json:"message,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// TaskResult is the stored outcome of a terminated task.
type TaskResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// TaskHandler is the asynchronous callable registered for a task type.
type TaskHandler func(ctx context.Context, params json.RawMessage) (json.RawMessage, error)

// --- Session -----------------------------------------------------------------

// ClientInfo identifies the connecting client, echoed from `initialize`.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerInfo identifies this server, returned from `initialize`.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capabilities is the negotiated capability set exchanged during
// `initialize`. Either side may omit sub-objects it does not support.
type Capabilities struct {
	Tools     *ToolsCapability     `json:"tools,omitempty"`
	Resources *ResourcesCapability `json:"resources,omitempty"`
	Prompts   *PromptsCapability   `json:"prompts,omitempty"`
}

// ToolsCapability advertises tool-related server features.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ResourcesCapability advertises resource-related server features.
type ResourcesCapability struct {
	Subscribe   bool `json:"subscribe,omitempty"`
	ListChanged bool `json:"listChanged,omitempty"`
}

// PromptsCapability advertises prompt-related server features.
type PromptsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// InitializeParams is the `initialize` request's params.
type InitializeParams struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ClientInfo      ClientInfo   `json:"clientInfo"`
}

// InitializeResult is the `initialize` response's result.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
	Instructions    string       `json:"instructions,omitempty"`
}

// --- Method request/response envelopes --------------------------------------

// Meta carries the out-of-band `_meta` object some requests attach.
type Meta struct {
	ProgressToken json.RawMessage `json:"progressToken,omitempty"`
}

// CallToolParams is `tools/call`'s params.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Meta      *Meta           `json:"_meta,omitempty"`
}

// CallToolResult is `tools/call`'s result. IsError signals an application
// (not protocol) failure per the MCP convention: the call still succeeds at
// the JSON-RPC layer.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError"`
}

// ListToolsResult is `tools/list`'s result.
type ListToolsResult struct {
	Tools      []ToolDefinition `json:"tools"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// ListResourcesResult is `resources/list`'s result.
type ListResourcesResult struct {
	Resources  []ResourceDefinition `json:"resources"`
	NextCursor string               `json:"nextCursor,omitempty"`
}

// ListResourceTemplatesResult is `resources/templates/list`'s result.
type ListResourceTemplatesResult struct {
	ResourceTemplates []ResourceDefinition `json:"resourceTemplates"`
}

// ReadResourceParams is `resources/read`'s params.
type ReadResourceParams struct {
	URI  string `json:"uri"`
	Meta *Meta  `json:"_meta,omitempty"`
}

// ReadResourceResult is `resources/read`'s result.
type ReadResourceResult struct {
	Contents []Content `json:"contents"`
}

// SubscribeParams is `resources/subscribe` and `resources/unsubscribe`'s params.
type SubscribeParams struct {
	URI string `json:"uri"`
}

// ListPromptsResult is `prompts/list`'s result.
type ListPromptsResult struct {
	Prompts    []PromptDefinition `json:"prompts"`
	NextCursor string             `json:"nextCursor,omitempty"`
}

// GetPromptParams is `prompts/get`'s params.
type GetPromptParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
	Meta      *Meta             `json:"_meta,omitempty"`
}

// GetPromptResult is `prompts/get`'s result.
type GetPromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

// SetLevelParams is `logging/setLevel`'s params.
type SetLevelParams struct {
	Level string `json:"level"`
}

// CancelledParams is `notifications/cancelled`'s params.
type CancelledParams struct {
	RequestID     json.RawMessage `json:"requestId"`
	Reason        string          `json:"reason,omitempty"`
	AwaitCleanup  bool            `json:"awaitCleanup,omitempty"`
}

// ProgressParams is `notifications/progress`'s params.
type ProgressParams struct {
	ProgressToken json.RawMessage `json:"progressToken"`
	Progress      float64         `json:"progress"`
	Total         *float64        `json:"total,omitempty"`
	Message       string          `json:"message,omitempty"`
}

// SubmitTaskParams is `tasks/submit`'s params.
type SubmitTaskParams struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
}

// SubmitTaskResult is `tasks/submit`'s result.
type SubmitTaskResult struct {
	ID string `json:"id"`
}

// ListTasksParams is `tasks/list`'s params.
type ListTasksParams struct {
	Status string `json:"status,omitempty"`
}

// ListTasksResult is `tasks/list`'s result.
type ListTasksResult struct {
	Tasks []TaskInfo `json:"tasks"`
}

// ShowTaskParams is `tasks/show`'s params.
type ShowTaskParams struct {
	ID string `json:"id"`
}

// CancelTaskParams is `tasks/cancel`'s params.
type CancelTaskParams struct {
	ID     string `json:"id"`
	Reason string `json:"reason,omitempty"`
}

// TaskStats is `tasks/stats`'s result.
type TaskStats struct {
	Active   int            `json:"active"`
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}
