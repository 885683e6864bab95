// file: internal/router/tools.go
package router

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
	"github.com/dkoosis/cowgnition-mcp/internal/rpcerr"
	"github.com/dkoosis/cowgnition-mcp/pkg/util/validation"
)

// baseName returns the final "/"-separated segment of name, so a mounted
// tool name like "sub/echo" is validated against its own base identifier
// rather than the full mounted path.
func baseName(name string) string {
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// RegisterTool adds a tool definition and its handler, applying the
// router's duplicate policy if name is already registered.
func (r *Router) RegisterTool(def mcptypes.ToolDefinition, handler mcptypes.ToolHandler) error {
	if def.Name == "" {
		return rpcerr.New("tool name must not be empty")
	}
	if handler == nil {
		return rpcerr.Newf("tool %q has no handler", def.Name)
	}
	if base := baseName(def.Name); !validation.ValidateToolName(base) {
		return rpcerr.Newf("tool name %q is not a valid identifier", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.tools[def.Name]
	proceed, err := r.resolveDuplicate("tool", def.Name, exists)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	r.tools[def.Name] = &toolEntry{def: def, handler: handler}
	r.schema.invalidate(def.Name)
	return nil
}

// ListTools returns every registered tool definition, sorted by name for a
// stable listing order.
func (r *Router) ListTools() []mcptypes.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mcptypes.ToolDefinition, 0, len(r.tools))
	for _, entry := range r.tools {
		out = append(out, entry.def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ValidateToolArguments validates args against name's input schema without
// invoking the tool, returning every violation found (empty slice if args
// are valid).
func (r *Router) ValidateToolArguments(name string, args json.RawMessage) ([]Violation, error) {
	r.mu.RLock()
	entry, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, rpcerr.ErrorWithDetails(rpcerr.ErrToolNotFound, rpcerr.CategoryTool, rpcerr.CodeToolNotFound,
			map[string]interface{}{"name": name})
	}
	if len(entry.def.InputSchema) == 0 {
		return nil, nil
	}
	return r.schema.validateArguments(name, entry.def.InputSchema, args)
}

// CallTool validates args against the tool's input schema and, if valid,
// invokes its handler.
func (r *Router) CallTool(ctx *mcptypes.RequestContext, name string, args json.RawMessage) ([]mcptypes.Content, error) {
	r.mu.RLock()
	entry, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, rpcerr.ErrorWithDetails(rpcerr.ErrToolNotFound, rpcerr.CategoryTool, rpcerr.CodeToolNotFound,
			map[string]interface{}{"name": name})
	}

	if len(entry.def.InputSchema) > 0 {
		violations, err := r.schema.validateArguments(name, entry.def.InputSchema, args)
		if err != nil {
			return nil, rpcerr.Wrap(err, "schema validation failed")
		}
		if len(violations) > 0 {
			return nil, rpcerr.ErrorWithDetails(rpcerr.ErrInvalidArguments, rpcerr.CategoryTool, rpcerr.CodeInvalidParams,
				map[string]interface{}{"violations": violations})
		}
	}

	return entry.handler(ctx, args)
}
