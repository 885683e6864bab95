// file: internal/router/resources.go
package router

import (
	"sort"

	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
	"github.com/dkoosis/cowgnition-mcp/internal/rpcerr"
	resourceurl "github.com/dkoosis/cowgnition-mcp/pkg/util/url"
	"github.com/dkoosis/cowgnition-mcp/pkg/util/validation"
)

// RegisterResource adds a static resource (def.URI set) or a templated
// resource (def.URITemplate set), applying the router's duplicate policy.
// Exact-URI resources are tried before templates on lookup, so register
// order among templates only matters when more than one template could
// match the same URI.
func (r *Router) RegisterResource(def mcptypes.ResourceDefinition, handler mcptypes.ResourceHandler) error {
	isTemplate := def.URITemplate != ""
	key := def.URI
	if isTemplate {
		key = def.URITemplate
	}
	if key == "" {
		return rpcerr.New("resource must set URI or URITemplate")
	}
	if handler == nil {
		return rpcerr.Newf("resource %q has no handler", key)
	}
	if def.MimeType != "" && !validation.ValidateMimeType(def.MimeType) {
		return rpcerr.Newf("resource %q has malformed mime type %q", key, def.MimeType)
	}
	if !isTemplate {
		if _, _, err := resourceurl.ParseResourceURI(def.URI); err != nil {
			return rpcerr.Newf("resource URI %q is malformed: %v", def.URI, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existingIdx := -1
	for i, e := range r.resources {
		if (e.isTemplate && e.def.URITemplate == key) || (!e.isTemplate && e.def.URI == key) {
			existingIdx = i
			break
		}
	}

	proceed, err := r.resolveDuplicate("resource", key, existingIdx >= 0)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	entry := &resourceEntry{def: def, handler: handler, isTemplate: isTemplate}
	if existingIdx >= 0 {
		r.resources[existingIdx] = entry
		return nil
	}

	if isTemplate {
		r.resources = append(r.resources, entry)
		return nil
	}
	// Exact-URI resources sort ahead of templates so lookups prefer them.
	r.resources = append([]*resourceEntry{entry}, r.resources...)
	return nil
}

// ListResources returns every static (non-template) resource, sorted by URI.
func (r *Router) ListResources() []mcptypes.ResourceDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []mcptypes.ResourceDefinition
	for _, e := range r.resources {
		if !e.isTemplate {
			out = append(out, e.def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// ListResourceTemplates returns every templated resource, sorted by
// template.
func (r *Router) ListResourceTemplates() []mcptypes.ResourceDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []mcptypes.ResourceDefinition
	for _, e := range r.resources {
		if e.isTemplate {
			out = append(out, e.def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URITemplate < out[j].URITemplate })
	return out
}

// resolveResource finds the entry matching uri, trying exact matches first
// (the order resources are stored in), then templates, returning any
// parameters extracted from a template match.
func (r *Router) resolveResource(uri string) (*resourceEntry, map[string]string, error) {
	for _, e := range r.resources {
		if !e.isTemplate && e.def.URI == uri {
			return e, nil, nil
		}
	}
	for _, e := range r.resources {
		if !e.isTemplate {
			continue
		}
		if params, ok := matchTemplate(e.def.URITemplate, uri); ok {
			return e, params, nil
		}
	}
	return nil, nil, rpcerr.ErrorWithDetails(rpcerr.ErrResourceNotFound, rpcerr.CategoryResource, rpcerr.CodeResourceNotFound,
		map[string]interface{}{"uri": uri})
}

// ReadResource resolves uri against the registry and invokes its handler.
func (r *Router) ReadResource(ctx *mcptypes.RequestContext, uri string) ([]mcptypes.Content, error) {
	r.mu.RLock()
	entry, params, err := r.resolveResource(uri)
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return entry.handler(ctx, uri, params)
}
