package message

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// schemaMessage mirrors the consolidated-array wire format for schema
// generation. The runtime types use custom (un)marshaling, so the schema is
// reflected from this plain shape instead.
type schemaMessage struct {
	Role    string        `json:"role" jsonschema:"enum=user,enum=assistant,enum=system,enum=tool"`
	Content []schemaBlock `json:"content" jsonschema_description:"Block array; a bare string is also accepted and treated as one text block"`
}

type schemaBlock struct {
	Text       *string           `json:"text,omitempty"`
	ToolUse    *schemaToolUse    `json:"toolUse,omitempty"`
	ToolResult *schemaToolResult `json:"toolResult,omitempty"`
}

type schemaToolUse struct {
	ToolUseID string `json:"toolUseId"`
	Name      string `json:"name"`
	Input     any    `json:"input,omitempty"`
}

type schemaToolResult struct {
	ToolUseID string `json:"toolUseId"`
	Content   any    `json:"content,omitempty"`
	Status    string `json:"status,omitempty" jsonschema:"enum=success,enum=error"`
}

// GenerateSchema creates a JSON Schema from the given Go type via
// reflection.
func GenerateSchema(value any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v := reflect.New(t).Interface()
	return reflector.Reflect(v)
}

// ConsolidatedSchema returns the JSON Schema of the consolidated
// message-array interchange format.
func ConsolidatedSchema() *jsonschema.Schema {
	return GenerateSchema([]schemaMessage{})
}
