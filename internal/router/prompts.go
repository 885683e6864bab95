// file: internal/router/prompts.go
package router

import (
	"sort"

	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
	"github.com/dkoosis/cowgnition-mcp/internal/rpcerr"
)

// RegisterPrompt adds a prompt definition and its handler, applying the
// router's duplicate policy if name is already registered.
func (r *Router) RegisterPrompt(def mcptypes.PromptDefinition, handler mcptypes.PromptHandler) error {
	if def.Name == "" {
		return rpcerr.New("prompt name must not be empty")
	}
	if handler == nil {
		return rpcerr.Newf("prompt %q has no handler", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.prompts[def.Name]
	proceed, err := r.resolveDuplicate("prompt", def.Name, exists)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	r.prompts[def.Name] = &promptEntry{def: def, handler: handler}
	return nil
}

// ListPrompts returns every registered prompt definition, sorted by name.
func (r *Router) ListPrompts() []mcptypes.PromptDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mcptypes.PromptDefinition, 0, len(r.prompts))
	for _, entry := range r.prompts {
		out = append(out, entry.def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetPrompt resolves name against the registry, checks that every
// required argument is present, and invokes its handler.
func (r *Router) GetPrompt(ctx *mcptypes.RequestContext, name string, args map[string]string) (string, []mcptypes.PromptMessage, error) {
	r.mu.RLock()
	entry, ok := r.prompts[name]
	r.mu.RUnlock()
	if !ok {
		return "", nil, rpcerr.Newf("prompt not found: %s", name)
	}

	for _, arg := range entry.def.Arguments {
		if !arg.Required {
			continue
		}
		if _, present := args[arg.Name]; !present {
			return "", nil, rpcerr.ErrorWithDetails(rpcerr.ErrInvalidArguments, rpcerr.CategoryPrompt, rpcerr.CodeInvalidParams,
				map[string]interface{}{"missing": arg.Name})
		}
	}

	return entry.handler(ctx, args)
}
