package graph

import (
	"fmt"
	"strings"

	"agentviz/pkg/conversation"
	"agentviz/pkg/logger"
	"agentviz/pkg/message"
)

const labelMax = 48

type builder struct {
	g       *Graph
	pending map[string]*Node
	seen    map[Edge]struct{}
	prev    *Node

	userSeen bool
	// finalCandidate is the last text node emitted from the conversation's
	// last message, if that message was an assistant turn.
	finalCandidate *Node
}

// Build derives the node/edge graph from an ordered conversation.
//
// Each message contributes nodes in its original block order: text blocks
// become prose nodes, tool uses become tool_call nodes, and tool results
// are folded into the detail of the call they answer. A result whose id
// matches no earlier call becomes an orphaned node flagged as unmatched,
// and a call that never receives a result is flagged as pending. Every
// emitted node is chained to the previous one, so the graph is a connected
// DAG whose topological order equals emission order.
func Build(conv *conversation.Conversation) (*Graph, error) {
	if conv == nil || len(conv.Messages) == 0 {
		return nil, conversation.ErrEmptyConversation
	}

	b := &builder{
		g: &Graph{
			AgentName: conv.AgentName,
			Timestamp: conv.Timestamp,
			Nodes:     []*Node{},
			Edges:     []Edge{},
		},
		pending: make(map[string]*Node),
		seen:    make(map[Edge]struct{}),
	}

	lastIdx := len(conv.Messages) - 1
	for i, msg := range conv.Messages {
		b.addMessage(msg, i == lastIdx)
	}

	for _, n := range b.pending {
		n.Pending = true
	}
	if len(b.pending) == 0 && b.finalCandidate != nil && b.finalCandidate.Kind == KindAssistantText {
		b.finalCandidate.Kind = KindFinalResponse
	}

	return b.g, nil
}

func (b *builder) addMessage(msg message.Message, last bool) {
	switch msg.Role {
	case message.RoleAssistant, message.RoleSystem:
		for _, block := range msg.Content {
			switch block.Type {
			case message.BlockToolUse:
				b.addToolUse(msg.Role, block)
			case message.BlockToolResult:
				b.addToolResult(msg.Role, block)
			default:
				if block.Opaque {
					b.addOpaque(msg.Role, KindAssistantText, block)
					continue
				}
				n := b.emit(&Node{
					Kind:   KindAssistantText,
					Role:   msg.Role,
					Label:  truncate(block.Text),
					Detail: Detail{Text: block.Text},
				})
				if last && msg.Role == message.RoleAssistant {
					b.finalCandidate = n
				}
			}
		}
	default:
		// User and tool turns: tool results resolve immediately in block
		// order; the prose collapses into one turn node, emitted where the
		// first text block sits so orphaned results never jump ahead of it.
		var texts []string
		for _, block := range msg.Content {
			if block.Type == message.BlockText && !block.Opaque {
				texts = append(texts, block.Text)
			}
		}
		turnEmitted := false
		for _, block := range msg.Content {
			switch block.Type {
			case message.BlockToolResult:
				b.addToolResult(msg.Role, block)
			case message.BlockToolUse:
				b.addToolUse(msg.Role, block)
			default:
				if block.Opaque {
					b.addOpaque(msg.Role, KindUserTurn, block)
					continue
				}
				if turnEmitted {
					continue
				}
				turnEmitted = true
				text := strings.Join(texts, "\n\n")
				n := b.emit(&Node{
					Kind:   KindUserTurn,
					Role:   msg.Role,
					Label:  truncate(text),
					Detail: Detail{Text: text},
				})
				if !b.userSeen {
					n.Initial = true
					b.userSeen = true
				}
			}
		}
	}
}

func (b *builder) addToolUse(role message.Role, block message.ContentBlock) {
	tu := block.ToolUse
	n := b.emit(&Node{
		Kind:  KindToolCall,
		Role:  role,
		Label: tu.Name,
		Detail: Detail{
			ToolName:  tu.Name,
			ToolUseID: tu.ID,
			Input:     tu.Input,
		},
	})
	if tu.ID != "" {
		b.pending[tu.ID] = n
	}
}

func (b *builder) addToolResult(role message.Role, block message.ContentBlock) {
	tr := block.ToolResult
	if n, ok := b.pending[tr.ID]; ok {
		// A call and its result are one causal unit; the result lands in
		// the originating node's detail instead of becoming a new node.
		n.Detail.Result = tr.Content
		n.Detail.Status = tr.Status
		n.Detail.IsError = tr.IsError()
		delete(b.pending, tr.ID)
		return
	}

	logger.Warn("[Graph] Tool result without a matching call", "tool_use_id", tr.ID)
	label := "Unmatched result"
	if txt := tr.OutputText(); txt != "" {
		label = truncate(txt)
	}
	b.emit(&Node{
		Kind:      KindToolCall,
		Role:      role,
		Label:     label,
		Unmatched: true,
		Detail: Detail{
			ToolUseID: tr.ID,
			Result:    tr.Content,
			Status:    tr.Status,
			IsError:   tr.IsError(),
		},
	})
}

func (b *builder) addOpaque(role message.Role, kind Kind, block message.ContentBlock) {
	b.emit(&Node{
		Kind:   kind,
		Role:   role,
		Label:  "Unrecognized content",
		Opaque: true,
		Detail: Detail{
			Text: block.Text,
			Raw:  block.Raw(),
		},
	})
}

func (b *builder) emit(n *Node) *Node {
	n.OrderIndex = len(b.g.Nodes)
	n.ID = fmt.Sprintf("n%d", n.OrderIndex+1)
	if b.prev != nil {
		b.edge(b.prev.ID, n.ID)
	}
	b.g.Nodes = append(b.g.Nodes, n)
	b.prev = n
	return n
}

func (b *builder) edge(from, to string) {
	e := Edge{From: from, To: to}
	if _, ok := b.seen[e]; ok {
		return
	}
	b.seen[e] = struct{}{}
	b.g.Edges = append(b.g.Edges, e)
}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "(empty)"
	}
	r := []rune(s)
	if len(r) <= labelMax {
		return s
	}
	return string(r[:labelMax]) + "..."
}
