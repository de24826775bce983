package graph

import (
	"encoding/json"

	"agentviz/pkg/message"
)

// Kind classifies what a node represents in the conversation.
type Kind string

const (
	KindUserTurn      Kind = "user_turn"
	KindAssistantText Kind = "assistant_text"
	KindToolCall      Kind = "tool_call"
	KindFinalResponse Kind = "final_response"
)

// Detail carries the full original content behind a node, for on-demand
// inspection in the rendered artifact. Only the fields relevant to the
// node's kind are set.
type Detail struct {
	Text      string          `json:"text,omitempty"`
	ToolName  string          `json:"tool_name,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Status    string          `json:"status,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// Node is one renderable unit of the conversation.
type Node struct {
	ID    string       `json:"id"`
	Kind  Kind         `json:"kind"`
	Label string       `json:"label"`
	Role  message.Role `json:"role"`

	// Initial marks the first user turn of the conversation.
	Initial bool `json:"initial,omitempty"`
	// Unmatched marks an orphaned tool result whose tool_use_id never
	// referenced a pending call.
	Unmatched bool `json:"unmatched,omitempty"`
	// Pending marks a tool call that never received a result.
	Pending bool `json:"pending,omitempty"`
	// Opaque marks a node degraded from an unrecognized content block.
	Opaque bool `json:"opaque,omitempty"`

	OrderIndex int    `json:"order_index"`
	Detail     Detail `json:"detail"`
}

// Edge is a directed link between two nodes in emission order.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the derived node/edge view of one conversation. It is built once
// per rendering pass and never mutated afterwards.
type Graph struct {
	AgentName string  `json:"agent_name"`
	Timestamp string  `json:"timestamp,omitempty"`
	Nodes     []*Node `json:"nodes"`
	Edges     []Edge  `json:"edges"`
}
