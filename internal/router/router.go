// Package router resolves incoming tools/resources/prompts calls against
// registered definitions, validates arguments, and invokes handlers (§4.3).
package router

import (
	"regexp"
	"sync"

	"github.com/dkoosis/cowgnition-mcp/internal/logging"
	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
	"github.com/dkoosis/cowgnition-mcp/internal/rpcerr"
)

var mountPrefixPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type toolEntry struct {
	def     mcptypes.ToolDefinition
	handler mcptypes.ToolHandler
}

type resourceEntry struct {
	def        mcptypes.ResourceDefinition
	handler    mcptypes.ResourceHandler
	isTemplate bool
}

type promptEntry struct {
	def     mcptypes.PromptDefinition
	handler mcptypes.PromptHandler
}

// Router holds the three method-scoped registries (tools, resources,
// prompts) and resolves method calls against them. A single Router may be
// mounted inside another under a name prefix, letting independently built
// sub-routers compose without name collisions.
type Router struct {
	mu sync.RWMutex

	policy DuplicatePolicy
	logger logging.Logger
	schema *schemaCache

	tools     map[string]*toolEntry
	resources []*resourceEntry // exact-URI entries precede template entries.
	prompts   map[string]*promptEntry
}

// New returns an empty Router enforcing policy on duplicate registrations.
func New(policy DuplicatePolicy, logger logging.Logger) *Router {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Router{
		policy:    policy,
		logger:    logger,
		schema:    newSchemaCache(256),
		tools:     make(map[string]*toolEntry),
		resources: nil,
		prompts:   make(map[string]*promptEntry),
	}
}

// resolveDuplicate reports whether a new registration should proceed,
// applying policy; exists indicates the slot was already occupied.
func (r *Router) resolveDuplicate(kind, key string, exists bool) (proceed bool, err error) {
	if !exists {
		return true, nil
	}
	switch r.policy {
	case PolicyError:
		return false, rpcerr.Newf("%s %q is already registered", kind, key)
	case PolicyWarn:
		r.logger.Warn("duplicate registration, keeping original", "kind", kind, "name", key)
		return false, nil
	case PolicyReplace:
		return true, nil
	case PolicyIgnore:
		return false, nil
	default:
		return false, rpcerr.Newf("%s %q is already registered", kind, key)
	}
}

// Mount copies every registration from other into r, prefixing tool and
// prompt names and resource URIs with "prefix/". prefix must match
// [A-Za-z0-9_-]+.
func (r *Router) Mount(prefix string, other *Router) error {
	if !mountPrefixPattern.MatchString(prefix) {
		return rpcerr.Newf("invalid mount prefix %q", prefix)
	}

	other.mu.RLock()
	defer other.mu.RUnlock()

	for name, entry := range other.tools {
		def := entry.def
		def.Name = prefix + "/" + name
		if err := r.RegisterTool(def, entry.handler); err != nil {
			return err
		}
	}
	for _, entry := range other.resources {
		def := entry.def
		if def.URITemplate != "" {
			def.URITemplate = prefix + "/" + def.URITemplate
		} else {
			def.URI = prefix + "/" + def.URI
		}
		if err := r.RegisterResource(def, entry.handler); err != nil {
			return err
		}
	}
	for name, entry := range other.prompts {
		def := entry.def
		def.Name = prefix + "/" + name
		if err := r.RegisterPrompt(def, entry.handler); err != nil {
			return err
		}
	}
	return nil
}
