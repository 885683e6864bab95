// file: internal/router/router_test.go
package router

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
)

func echoToolHandler(ctx *mcptypes.RequestContext, args json.RawMessage) ([]mcptypes.Content, error) {
	return []mcptypes.Content{mcptypes.TextContent(string(args))}, nil
}

func TestRegisterToolDuplicatePolicyError(t *testing.T) {
	r := New(PolicyError, nil)
	def := mcptypes.ToolDefinition{Name: "echo"}
	require.NoError(t, r.RegisterTool(def, echoToolHandler))

	err := r.RegisterTool(def, echoToolHandler)
	assert.Error(t, err)
}

func TestRegisterToolDuplicatePolicyWarnKeepsOriginal(t *testing.T) {
	r := New(PolicyWarn, nil)
	first := mcptypes.ToolDefinition{Name: "echo", Description: "first"}
	second := mcptypes.ToolDefinition{Name: "echo", Description: "second"}
	require.NoError(t, r.RegisterTool(first, echoToolHandler))
	require.NoError(t, r.RegisterTool(second, echoToolHandler))

	tools := r.ListTools()
	require.Len(t, tools, 1)
	assert.Equal(t, "first", tools[0].Description)
}

func TestRegisterToolDuplicatePolicyReplaceOverwrites(t *testing.T) {
	r := New(PolicyReplace, nil)
	first := mcptypes.ToolDefinition{Name: "echo", Description: "first"}
	second := mcptypes.ToolDefinition{Name: "echo", Description: "second"}
	require.NoError(t, r.RegisterTool(first, echoToolHandler))
	require.NoError(t, r.RegisterTool(second, echoToolHandler))

	tools := r.ListTools()
	require.Len(t, tools, 1)
	assert.Equal(t, "second", tools[0].Description)
}

func TestRegisterToolDuplicatePolicyIgnoreKeepsOriginalSilently(t *testing.T) {
	r := New(PolicyIgnore, nil)
	first := mcptypes.ToolDefinition{Name: "echo", Description: "first"}
	second := mcptypes.ToolDefinition{Name: "echo", Description: "second"}
	require.NoError(t, r.RegisterTool(first, echoToolHandler))
	require.NoError(t, r.RegisterTool(second, echoToolHandler))

	tools := r.ListTools()
	require.Len(t, tools, 1)
	assert.Equal(t, "first", tools[0].Description)
}

func TestCallToolNotFound(t *testing.T) {
	r := New(PolicyError, nil)
	_, err := r.CallTool(nil, "missing", nil)
	assert.Error(t, err)
}

var nestedObjectSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"user": {
			"type": "object",
			"properties": {
				"msg": {"type": "string"}
			}
		}
	}
}`)

func TestCallToolSchemaValidationReportsFormattedPathAndExpectedType(t *testing.T) {
	r := New(PolicyError, nil)
	def := mcptypes.ToolDefinition{Name: "notify", InputSchema: nestedObjectSchema}
	require.NoError(t, r.RegisterTool(def, echoToolHandler))

	args := json.RawMessage(`{"user": {"msg": 42}}`)
	violations, err := r.ValidateToolArguments("notify", args)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "root.user.msg", violations[0].Path)
	assert.Contains(t, violations[0].Message, "expected type string")
}

func TestCallToolSchemaValidationEnumeratesMultipleViolations(t *testing.T) {
	r := New(PolicyError, nil)
	schema := json.RawMessage(`{
		"type": "object",
		"required": ["a", "b"],
		"properties": {
			"a": {"type": "string"},
			"b": {"type": "number"}
		}
	}`)
	def := mcptypes.ToolDefinition{Name: "pair", InputSchema: schema}
	require.NoError(t, r.RegisterTool(def, echoToolHandler))

	args := json.RawMessage(`{"a": 1, "b": "x"}`)
	violations, err := r.ValidateToolArguments("pair", args)
	require.NoError(t, err)
	assert.Len(t, violations, 2)
}

func TestValidArgumentsProduceNoViolations(t *testing.T) {
	r := New(PolicyError, nil)
	def := mcptypes.ToolDefinition{Name: "notify", InputSchema: nestedObjectSchema}
	require.NoError(t, r.RegisterTool(def, echoToolHandler))

	violations, err := r.ValidateToolArguments("notify", json.RawMessage(`{"user": {"msg": "hi"}}`))
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func resourceHandler(ctx *mcptypes.RequestContext, uri string, params map[string]string) ([]mcptypes.Content, error) {
	return []mcptypes.Content{mcptypes.TextContent(params["name"])}, nil
}

func TestReadResourceExactMatchPreferredOverTemplate(t *testing.T) {
	r := New(PolicyError, nil)
	require.NoError(t, r.RegisterResource(mcptypes.ResourceDefinition{URITemplate: "file:///{name}"}, resourceHandler))
	require.NoError(t, r.RegisterResource(mcptypes.ResourceDefinition{URI: "file:///fixed.txt"}, resourceHandler))

	content, err := r.ReadResource(nil, "file:///fixed.txt")
	require.NoError(t, err)
	require.Len(t, content, 1)
	assert.Equal(t, "", content[0].Text)
}

func TestReadResourceTemplateMatchExtractsParams(t *testing.T) {
	r := New(PolicyError, nil)
	require.NoError(t, r.RegisterResource(mcptypes.ResourceDefinition{URITemplate: "file:///{name}"}, resourceHandler))

	content, err := r.ReadResource(nil, "file:///report.txt")
	require.NoError(t, err)
	require.Len(t, content, 1)
	assert.Equal(t, "report.txt", content[0].Text)
}

func TestReadResourceNotFound(t *testing.T) {
	r := New(PolicyError, nil)
	_, err := r.ReadResource(nil, "file:///nope.txt")
	assert.Error(t, err)
}

func TestMountPrefixesNamesAndURIs(t *testing.T) {
	sub := New(PolicyError, nil)
	require.NoError(t, sub.RegisterTool(mcptypes.ToolDefinition{Name: "echo"}, echoToolHandler))
	require.NoError(t, sub.RegisterResource(mcptypes.ResourceDefinition{URI: "file:///a.txt"}, resourceHandler))

	parent := New(PolicyError, nil)
	require.NoError(t, parent.Mount("sub", sub))

	tools := parent.ListTools()
	require.Len(t, tools, 1)
	assert.Equal(t, "sub/echo", tools[0].Name)

	resources := parent.ListResources()
	require.Len(t, resources, 1)
	assert.Equal(t, "sub/file:///a.txt", resources[0].URI)
}

func TestMountRejectsInvalidPrefix(t *testing.T) {
	parent := New(PolicyError, nil)
	sub := New(PolicyError, nil)
	err := parent.Mount("bad prefix!", sub)
	assert.Error(t, err)
}

func promptHandler(ctx *mcptypes.RequestContext, args map[string]string) (string, []mcptypes.PromptMessage, error) {
	return "desc", []mcptypes.PromptMessage{{Role: "user", Content: mcptypes.TextContent(args["topic"])}}, nil
}

func TestGetPromptRequiresMandatoryArgument(t *testing.T) {
	r := New(PolicyError, nil)
	def := mcptypes.PromptDefinition{
		Name:      "summarize",
		Arguments: []mcptypes.PromptArgument{{Name: "topic", Required: true}},
	}
	require.NoError(t, r.RegisterPrompt(def, promptHandler))

	_, _, err := r.GetPrompt(nil, "summarize", map[string]string{})
	assert.Error(t, err)

	_, messages, err := r.GetPrompt(nil, "summarize", map[string]string{"topic": "go"})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "go", messages[0].Content.Text)
}
