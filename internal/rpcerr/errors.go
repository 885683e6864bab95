// file: internal/rpcerr/errors.go
package rpcerr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors checked via errors.Is by the Is*Error helpers below.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrToolNotFound      = errors.New("tool not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidArguments  = errors.New("invalid arguments")
)

// New creates a new error carrying a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error carrying a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// Wrap adds a message and stack frame to an existing error.
func Wrap(cause error, message string) error {
	return errors.Wrap(cause, message)
}

// Wrapf adds a formatted message and stack frame to an existing error.
func Wrapf(cause error, format string, args ...interface{}) error {
	return errors.Wrapf(cause, format, args...)
}

// ErrorWithDetails attaches a category and JSON-RPC code to err as detail
// strings ("category:VALUE", "code:VALUE"), plus one "key:value" detail per
// entry in properties, recoverable via GetErrorCategory/GetErrorCode/
// GetErrorProperties.
func ErrorWithDetails(err error, category string, code int, properties map[string]interface{}) error {
	if err == nil {
		return nil
	}
	err = errors.WithDetail(err, "category:"+category)
	err = errors.WithDetail(err, "code:"+strconv.Itoa(code))
	for k, v := range properties {
		err = errors.WithDetail(err, k+":"+toDetailString(v))
	}
	return err
}

func toDetailString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// IsResourceNotFoundError reports whether err (or its chain) is a resource-not-found error.
func IsResourceNotFoundError(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}

// IsToolNotFoundError reports whether err (or its chain) is a tool-not-found error.
func IsToolNotFoundError(err error) bool {
	return errors.Is(err, ErrToolNotFound)
}

// IsTaskNotFoundError reports whether err (or its chain) is a task-not-found error.
func IsTaskNotFoundError(err error) bool {
	return errors.Is(err, ErrTaskNotFound)
}

// IsInvalidArgumentsError reports whether err (or its chain) is an invalid-arguments error.
func IsInvalidArgumentsError(err error) bool {
	return errors.Is(err, ErrInvalidArguments)
}

// GetErrorCategory recovers the category attached via ErrorWithDetails, or
// "" if none was attached.
func GetErrorCategory(err error) string {
	for _, detail := range errors.GetAllDetails(err) {
		if rest, ok := strings.CutPrefix(detail, "category:"); ok {
			return rest
		}
	}
	return ""
}

// GetErrorCode recovers the JSON-RPC code attached via ErrorWithDetails,
// defaulting to CodeInternalError if none was attached or it didn't parse.
func GetErrorCode(err error) int {
	for _, detail := range errors.GetAllDetails(err) {
		if rest, ok := strings.CutPrefix(detail, "code:"); ok {
			if code, parseErr := strconv.Atoi(rest); parseErr == nil {
				return code
			}
		}
	}
	return CodeInternalError
}

var propertyDetail = regexp.MustCompile(`^([^:]+):(.+)$`)

// GetErrorProperties recovers the key:value details attached via
// ErrorWithDetails, excluding the reserved "category" and "code" keys.
func GetErrorProperties(err error) map[string]interface{} {
	properties := make(map[string]interface{})
	for _, detail := range errors.GetAllDetails(err) {
		matches := propertyDetail.FindStringSubmatch(detail)
		if len(matches) != 3 {
			continue
		}
		key, value := matches[1], matches[2]
		if key == "category" || key == "code" {
			continue
		}
		if n, convErr := strconv.Atoi(value); convErr == nil {
			properties[key] = n
		} else if b, convErr := strconv.ParseBool(value); convErr == nil {
			properties[key] = b
		} else {
			properties[key] = value
		}
	}
	return properties
}

// ErrorToMap converts err into a JSON-RPC-shaped error map: code, message,
// and an optional data payload built from the error's non-sensitive
// properties.
func ErrorToMap(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	code := GetErrorCode(err)
	result := map[string]interface{}{
		"code":    code,
		"message": UserFacingMessage(code),
	}

	data := make(map[string]interface{})
	for k, v := range GetErrorProperties(err) {
		if !containsSensitiveKeyword(k) {
			data[k] = v
		}
	}
	if len(data) > 0 {
		result["data"] = data
	}
	return result
}

func containsSensitiveKeyword(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range []string{"token", "password", "secret", "key", "auth", "credential", "session", "cookie"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// NewInternalError builds a CategoryRPC/CodeInternalError error carrying the
// given context properties, wrapping cause if non-nil.
func NewInternalError(message string, cause error, properties map[string]interface{}) error {
	var base error
	if cause == nil {
		base = New(message)
	} else {
		base = Wrap(cause, message)
	}
	return ErrorWithDetails(base, CategoryRPC, CodeInternalError, properties)
}
