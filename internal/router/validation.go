// file: internal/router/validation.go
package router

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dkoosis/cowgnition-mcp/internal/rpcerr"
)

// Violation is a single schema-validation failure, reported with a path in
// dotted/bracket-index notation (root.a.b[3]) rather than the library's
// native JSON-Pointer form, per the wire format tools are expected to
// surface to callers.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// schemaCache compiles and caches per-tool JSON Schemas. Draft2020 is
// assumed; each tool's raw schema document is kept alongside the compiled
// form so violation messages can recover the expected type/enum/etc. that
// the library's own error text does not reliably spell out.
type schemaCache struct {
	compiled *lru.Cache[string, *compiledSchema]
}

type compiledSchema struct {
	schema *jsonschema.Schema
	raw    map[string]interface{}
}

func newSchemaCache(size int) *schemaCache {
	if size <= 0 {
		size = 256
	}
	c, _ := lru.New[string, *compiledSchema](size)
	return &schemaCache{compiled: c}
}

// compile parses and compiles a tool's input schema, keyed by tool name so a
// re-registration under PolicyReplace invalidates the stale cache entry.
func (c *schemaCache) compile(name string, schemaDoc json.RawMessage) (*compiledSchema, error) {
	if cs, ok := c.compiled.Get(name); ok {
		return cs, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(schemaDoc, &raw); err != nil {
		return nil, rpcerr.Wrap(err, "invalid tool input schema")
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	resourceName := "tool://" + name + "/input-schema.json"
	if err := compiler.AddResource(resourceName, strings.NewReader(string(schemaDoc))); err != nil {
		return nil, rpcerr.Wrap(err, "invalid tool input schema")
	}
	sch, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, rpcerr.Wrap(err, "failed to compile tool input schema")
	}

	cs := &compiledSchema{schema: sch, raw: raw}
	c.compiled.Add(name, cs)
	return cs, nil
}

func (c *schemaCache) invalidate(name string) {
	c.compiled.Remove(name)
}

// validateArguments validates args against name's compiled schema, returning
// every leaf violation (not just the first) per the requirement that callers
// see the complete set of problems in one round trip.
func (c *schemaCache) validateArguments(name string, schemaDoc json.RawMessage, args json.RawMessage) ([]Violation, error) {
	cs, err := c.compile(name, schemaDoc)
	if err != nil {
		return nil, err
	}

	var instance interface{}
	if len(args) == 0 {
		instance = map[string]interface{}{}
	} else if err := json.Unmarshal(args, &instance); err != nil {
		return []Violation{{Path: "root", Message: "invalid JSON: " + err.Error()}}, nil
	}

	err = cs.schema.Validate(instance)
	if err == nil {
		return nil, nil
	}

	valErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []Violation{{Path: "root", Message: err.Error()}}, nil
	}

	var violations []Violation
	collectLeafViolations(valErr, cs.raw, &violations)
	if len(violations) == 0 {
		violations = append(violations, Violation{Path: "root", Message: valErr.Error()})
	}
	return violations, nil
}

// collectLeafViolations walks the ValidationError tree and emits one
// Violation per leaf cause (a node with no further Causes); intermediate
// nodes only restate "doesn't validate against schema" and carry no
// independent information.
func collectLeafViolations(e *jsonschema.ValidationError, rawSchema map[string]interface{}, out *[]Violation) {
	if len(e.Causes) > 0 {
		for _, cause := range e.Causes {
			collectLeafViolations(cause, rawSchema, out)
		}
		return
	}

	path := formatPath(strings.Split(e.InstanceLocation, "/"))
	*out = append(*out, Violation{
		Path:    path,
		Message: formatMessage(e, rawSchema, path),
	})
}

// formatPath converts the segments of a JSON-Pointer-style location
// ("/a/b/3", split on "/") into dotted bracket-index notation ("root.a.b[3]").
func formatPath(location []string) string {
	var b strings.Builder
	b.WriteString("root")
	for _, seg := range location {
		if seg == "" {
			continue
		}
		if n, err := strconv.Atoi(seg); err == nil {
			fmt.Fprintf(&b, "[%d]", n)
			continue
		}
		b.WriteByte('.')
		b.WriteString(seg)
	}
	return b.String()
}

// formatMessage builds a human-readable message for a leaf validation
// failure. For "type" keyword mismatches it re-derives the expected type
// from the tool's raw schema rather than trusting the library's own
// phrasing, guaranteeing a stable "expected type X" wording regardless of
// library version.
func formatMessage(e *jsonschema.ValidationError, rawSchema map[string]interface{}, path string) string {
	kw := lastSegment(strings.Split(e.KeywordLocation, "/"))
	if kw == "type" {
		if t := lookupSchemaType(rawSchema, strings.Split(e.InstanceLocation, "/")); t != "" {
			return fmt.Sprintf("%s: expected type %s", path, t)
		}
	}
	return fmt.Sprintf("%s: %s", path, e.Message)
}

func lastSegment(keywordLocation []string) string {
	if len(keywordLocation) == 0 {
		return ""
	}
	return keywordLocation[len(keywordLocation)-1]
}

// lookupSchemaType walks rawSchema along instanceLocation, following
// "properties"/"items" the way the instance path implies, and returns the
// "type" value found at that point (empty if absent or not a string).
func lookupSchemaType(rawSchema map[string]interface{}, instanceLocation []string) string {
	node := rawSchema
	for _, seg := range instanceLocation {
		if seg == "" {
			continue
		}
		if _, err := strconv.Atoi(seg); err == nil {
			items, ok := node["items"].(map[string]interface{})
			if !ok {
				return ""
			}
			node = items
			continue
		}
		props, ok := node["properties"].(map[string]interface{})
		if !ok {
			return ""
		}
		next, ok := props[seg].(map[string]interface{})
		if !ok {
			return ""
		}
		node = next
	}
	t, _ := node["type"].(string)
	return t
}
