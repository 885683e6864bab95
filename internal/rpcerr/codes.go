// Package rpcerr defines the error taxonomy shared by every subsystem: JSON-RPC
// error codes, category tags, and the helpers used to carry both through a
// cockroachdb/errors chain down to the wire.
// file: internal/rpcerr/codes.go
package rpcerr

// Categories group related failures for logging and for GetErrorCategory.
const (
	CategoryRPC      = "rpc"
	CategoryTool     = "tool"
	CategoryResource = "resource"
	CategoryPrompt   = "prompt"
	CategoryTask     = "task"
	CategoryConfig   = "config"
	CategoryCodec    = "codec"
	CategoryTransport = "transport"
)

// Error codes. The standard JSON-RPC 2.0 range plus the application
// extensions §3/§7 of the runtime's error taxonomy define.
const (
	CodeParseError       = -32700
	CodeInvalidRequest   = -32600
	CodeMethodNotFound   = -32601
	CodeInvalidParams    = -32602
	CodeInternalError    = -32603
	CodeRequestCancelled = -32800

	// Custom application codes, -32000 to -32099 per the JSON-RPC reserved
	// server-error range.
	CodeResourceNotFound = -32000
	CodeToolNotFound     = -32001
	CodeTaskNotFound     = -32002
)

// UserFacingMessage returns a stable, human-readable message for a code when
// no more specific message is available.
func UserFacingMessage(code int) string {
	switch code {
	case CodeParseError:
		return "failed to parse request"
	case CodeInvalidRequest:
		return "invalid request"
	case CodeMethodNotFound:
		return "method not found"
	case CodeInvalidParams:
		return "invalid params"
	case CodeRequestCancelled:
		return "request cancelled"
	case CodeResourceNotFound:
		return "resource not found"
	case CodeToolNotFound:
		return "tool not found"
	case CodeTaskNotFound:
		return "task not found"
	default:
		return "internal error"
	}
}
