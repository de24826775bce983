package message

import (
	"encoding/json"
	"fmt"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Valid reports whether the role is one of the recognized values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleTool:
		return true
	}
	return false
}

// Message is one turn of a captured agent conversation.
//
// SequenceNumber is assigned externally: the consolidator sets it from the
// filename's message number, or from the array position for consolidated
// single-file input. It is not part of the wire format.
type Message struct {
	Role           Role
	Content        []ContentBlock
	SequenceNumber int

	// contentIsString records that the wire content was a bare string,
	// so export reproduces the original shape.
	contentIsString bool
}

// NewTextMessage builds an in-memory message with a single text block.
func NewTextMessage(role Role, text string) Message {
	return Message{
		Role:    role,
		Content: []ContentBlock{{Type: BlockText, Text: text}},
	}
}

type messageWire struct {
	Role    *string         `json:"role"`
	Content json.RawMessage `json:"content,omitempty"`
}

// UnmarshalJSON parses the capture wire format. A missing or unrecognized
// role yields a *MalformedMessageError; everything else degrades rather
// than failing.
func (m *Message) UnmarshalJSON(data []byte) error {
	var wire messageWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Role == nil {
		return &MalformedMessageError{Reason: "missing role"}
	}
	role := Role(*wire.Role)
	if !role.Valid() {
		return &MalformedMessageError{Reason: fmt.Sprintf("unrecognized role %q", *wire.Role)}
	}
	m.Role = role
	m.Content = nil
	m.contentIsString = false

	if len(wire.Content) == 0 || string(wire.Content) == "null" {
		return nil
	}

	// content may be a bare string: treat it as one text block.
	var text string
	if err := json.Unmarshal(wire.Content, &text); err == nil {
		m.Content = []ContentBlock{{Type: BlockText, Text: text}}
		m.contentIsString = true
		return nil
	}

	var blocks []ContentBlock
	if err := json.Unmarshal(wire.Content, &blocks); err != nil {
		// Not a string and not a block array. Keep the raw form visible
		// instead of rejecting the message.
		m.Content = []ContentBlock{opaqueBlock(wire.Content)}
		return nil
	}
	m.Content = blocks
	return nil
}

// MarshalJSON emits the wire format. Blocks that came off the wire are
// re-emitted byte-for-byte, which keeps exports deterministic.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.contentIsString && len(m.Content) == 1 {
		return json.Marshal(struct {
			Role    Role   `json:"role"`
			Content string `json:"content"`
		}{m.Role, m.Content[0].Text})
	}
	return json.Marshal(struct {
		Role    Role           `json:"role"`
		Content []ContentBlock `json:"content"`
	}{m.Role, m.Content})
}
