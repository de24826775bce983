package message

import (
	"bytes"
	"encoding/json"
)

// BlockType discriminates the content block union.
type BlockType string

const (
	BlockText       BlockType = "text"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
)

// ToolUse is a tool invocation requested by the assistant.
type ToolUse struct {
	ID    string          `json:"toolUseId"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input,omitempty"`
}

// ToolResult is the outcome of a tool invocation, carried back in a
// user-role message. Content may be a bare string, a block array of the
// form [{"text": ...}], or arbitrary JSON.
type ToolResult struct {
	ID      string          `json:"toolUseId"`
	Content json.RawMessage `json:"content,omitempty"`
	Status  string          `json:"status,omitempty"`
}

// IsError reports whether the tool execution failed.
func (tr ToolResult) IsError() bool {
	return tr.Status == "error"
}

// OutputText renders the result content for display: the text of the first
// text element when content is a block array, the string itself when content
// is a bare string, otherwise the indented JSON form.
func (tr ToolResult) OutputText() string {
	if len(tr.Content) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(tr.Content, &asString); err == nil {
		return asString
	}
	var elems []struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(tr.Content, &elems); err == nil && len(elems) > 0 && elems[0].Text != nil {
		return *elems[0].Text
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, tr.Content, "", "  "); err != nil {
		return string(tr.Content)
	}
	return buf.String()
}

// ContentBlock is one typed unit within a message. Exactly one of Text,
// ToolUse, ToolResult is meaningful, per Type. Blocks of unknown shape are
// kept as opaque text so visualization degrades instead of aborting.
type ContentBlock struct {
	Type       BlockType
	Text       string
	Opaque     bool
	ToolUse    *ToolUse
	ToolResult *ToolResult

	raw json.RawMessage
}

func opaqueBlock(raw json.RawMessage) ContentBlock {
	return ContentBlock{
		Type:   BlockText,
		Text:   string(raw),
		Opaque: true,
		raw:    append(json.RawMessage(nil), raw...),
	}
}

// Raw returns the original serialized form of the block, if it was parsed
// off the wire.
func (b ContentBlock) Raw() json.RawMessage {
	return b.raw
}

type blockWire struct {
	Text       *string     `json:"text"`
	ToolUse    *ToolUse    `json:"toolUse"`
	ToolResult *ToolResult `json:"toolResult"`
}

// UnmarshalJSON dispatches on the block's wire shape. Unknown shapes become
// opaque text blocks, never errors.
func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	*b = ContentBlock{raw: append(json.RawMessage(nil), data...)}

	// A bare string element is valid content and means plain text.
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		b.Type = BlockText
		b.Text = text
		return nil
	}

	var wire blockWire
	if err := json.Unmarshal(data, &wire); err != nil {
		*b = opaqueBlock(data)
		return nil
	}

	switch {
	case wire.ToolUse != nil:
		b.Type = BlockToolUse
		b.ToolUse = wire.ToolUse
	case wire.ToolResult != nil:
		b.Type = BlockToolResult
		b.ToolResult = wire.ToolResult
	case wire.Text != nil:
		b.Type = BlockText
		b.Text = *wire.Text
	default:
		*b = opaqueBlock(data)
	}
	return nil
}

// MarshalJSON re-emits the original bytes when available so exports are
// byte-deterministic; blocks constructed in memory are serialized in the
// canonical wire shape.
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	if len(b.raw) > 0 {
		return b.raw, nil
	}
	switch b.Type {
	case BlockToolUse:
		return json.Marshal(struct {
			ToolUse *ToolUse `json:"toolUse"`
		}{b.ToolUse})
	case BlockToolResult:
		return json.Marshal(struct {
			ToolResult *ToolResult `json:"toolResult"`
		}{b.ToolResult})
	default:
		return json.Marshal(struct {
			Text string `json:"text"`
		}{b.Text})
	}
}
