// file: internal/jsonrpc/convert.go
package jsonrpc

import (
	"encoding/json"

	cgerr "github.com/dkoosis/cowgnition-mcp/internal/rpcerr"
)

// FromError converts an application error into a wire-ready JSON-RPC Error,
// using the code/category/properties attached via rpcerr.ErrorWithDetails
// when present, and CodeInternalError otherwise.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	code := cgerr.GetErrorCode(err)
	rpcErr := &Error{
		Code:    code,
		Message: cgerr.UserFacingMessage(code),
	}

	props := cgerr.GetErrorProperties(err)
	if len(props) > 0 {
		if data, marshalErr := json.Marshal(props); marshalErr == nil {
			rpcErr.Data = data
		}
	}

	return rpcErr
}

// NewError builds a bare JSON-RPC Error with no structured data.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorWithData builds a JSON-RPC Error carrying a structured data payload.
func NewErrorWithData(code int, message string, data interface{}) *Error {
	e := &Error{Code: code, Message: message}
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			e.Data = raw
		}
	}
	return e
}
