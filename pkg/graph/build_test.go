package graph

import (
	"encoding/json"
	"errors"
	"testing"

	"agentviz/pkg/conversation"
	"agentviz/pkg/message"
)

func mustMessage(t *testing.T, raw string) message.Message {
	t.Helper()
	msg, err := message.ParseMessage([]byte(raw))
	if err != nil {
		t.Fatalf("failed to parse message %s: %v", raw, err)
	}
	return msg
}

func buildFrom(t *testing.T, raws ...string) *Graph {
	t.Helper()
	msgs := make([]message.Message, 0, len(raws))
	for _, raw := range raws {
		msgs = append(msgs, mustMessage(t, raw))
	}
	conv, err := conversation.FromMessages("agent", msgs)
	if err != nil {
		t.Fatalf("failed to build conversation: %v", err)
	}
	g, err := Build(conv)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestBuildToolCycle(t *testing.T) {
	// A user request, a tool call, and its result form two nodes joined by
	// one edge: the result folds into the call node.
	g := buildFrom(t,
		`{"role": "user", "content": "Hello"}`,
		`{"role": "assistant", "content": [{"toolUse": {"toolUseId": "t1", "name": "read_file", "input": {"path": "a.txt"}}}]}`,
		`{"role": "user", "content": [{"toolResult": {"toolUseId": "t1", "content": "contents", "status": "success"}}]}`,
	)

	if len(g.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(g.Edges))
	}

	user := g.Nodes[0]
	if user.Kind != KindUserTurn || !user.Initial {
		t.Fatalf("first node = %+v, want initial user_turn", user)
	}
	if user.Label != "Hello" {
		t.Fatalf("first node label = %q, want %q", user.Label, "Hello")
	}

	call := g.Nodes[1]
	if call.Kind != KindToolCall || call.Label != "read_file" {
		t.Fatalf("second node = %+v, want tool_call read_file", call)
	}
	if call.Pending || call.Unmatched {
		t.Fatalf("resolved call must not be pending or unmatched: %+v", call)
	}
	if string(call.Detail.Input) != `{"path": "a.txt"}` {
		t.Fatalf("call input = %s", call.Detail.Input)
	}
	if string(call.Detail.Result) != `"contents"` || call.Detail.Status != "success" {
		t.Fatalf("call result not merged: %+v", call.Detail)
	}

	if g.Edges[0] != (Edge{From: user.ID, To: call.ID}) {
		t.Fatalf("edge = %+v", g.Edges[0])
	}
}

func TestBuildUnmatchedResult(t *testing.T) {
	g := buildFrom(t,
		`{"role": "user", "content": "go"}`,
		`{"role": "user", "content": [{"toolResult": {"toolUseId": "ghost", "content": "late", "status": "success"}}]}`,
	)

	if len(g.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(g.Nodes))
	}
	orphan := g.Nodes[1]
	if !orphan.Unmatched || orphan.Kind != KindToolCall {
		t.Fatalf("orphan = %+v, want unmatched tool_call", orphan)
	}
	if orphan.Detail.ToolUseID != "ghost" {
		t.Fatalf("orphan tool_use_id = %q", orphan.Detail.ToolUseID)
	}
	// The orphan is labeled with the result text it carries.
	if orphan.Label != "late" {
		t.Fatalf("orphan label = %q, want %q", orphan.Label, "late")
	}
}

func TestBuildUserTextBeforeOrphanResult(t *testing.T) {
	// Within one user message the text block comes first, so its node must
	// precede the orphan emitted for the unmatched result.
	g := buildFrom(t,
		`{"role": "user", "content": [{"text": "go"}, {"toolResult": {"toolUseId": "ghost", "content": "late", "status": "success"}}]}`,
	)

	if len(g.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(g.Nodes))
	}
	if g.Nodes[0].Kind != KindUserTurn || !g.Nodes[0].Initial {
		t.Fatalf("first node = %+v, want initial user_turn", g.Nodes[0])
	}
	if !g.Nodes[1].Unmatched {
		t.Fatalf("second node = %+v, want unmatched tool_call", g.Nodes[1])
	}

	// Reversed block order keeps the orphan first.
	g = buildFrom(t,
		`{"role": "user", "content": [{"toolResult": {"toolUseId": "ghost", "content": "late", "status": "success"}}, {"text": "go"}]}`,
	)
	if !g.Nodes[0].Unmatched || g.Nodes[1].Kind != KindUserTurn {
		t.Fatalf("reversed order not preserved: %+v %+v", g.Nodes[0], g.Nodes[1])
	}
}

func TestBuildPendingCall(t *testing.T) {
	g := buildFrom(t,
		`{"role": "user", "content": "go"}`,
		`{"role": "assistant", "content": [{"text": "working on it"}, {"toolUse": {"toolUseId": "t1", "name": "search", "input": {}}}]}`,
	)

	if len(g.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(g.Nodes))
	}
	call := g.Nodes[2]
	if !call.Pending {
		t.Fatalf("unresolved call must be flagged pending: %+v", call)
	}
	// An open call means the trailing assistant text is not a final answer.
	if g.Nodes[1].Kind != KindAssistantText {
		t.Fatalf("text node = %+v, want assistant_text", g.Nodes[1])
	}
}

func TestBuildFinalResponse(t *testing.T) {
	g := buildFrom(t,
		`{"role": "user", "content": "Hello"}`,
		`{"role": "assistant", "content": [{"toolUse": {"toolUseId": "t1", "name": "search", "input": {}}}]}`,
		`{"role": "user", "content": [{"toolResult": {"toolUseId": "t1", "content": "ok", "status": "success"}}]}`,
		`{"role": "assistant", "content": "All done."}`,
	)

	last := g.Nodes[len(g.Nodes)-1]
	if last.Kind != KindFinalResponse {
		t.Fatalf("last node = %+v, want final_response", last)
	}

	// Earlier assistant text stays assistant_text.
	g = buildFrom(t,
		`{"role": "user", "content": "Hello"}`,
		`{"role": "assistant", "content": "thinking"}`,
		`{"role": "user", "content": "more"}`,
	)
	if g.Nodes[1].Kind != KindAssistantText {
		t.Fatalf("mid-conversation text = %+v, want assistant_text", g.Nodes[1])
	}
}

func TestBuildWithinMessageBlockOrder(t *testing.T) {
	g := buildFrom(t,
		`{"role": "user", "content": "go"}`,
		`{"role": "assistant", "content": [{"text": "first I will"}, {"toolUse": {"toolUseId": "t1", "name": "list", "input": {}}}, {"text": "then report"}]}`,
	)

	kinds := []Kind{KindUserTurn, KindAssistantText, KindToolCall, KindAssistantText}
	if len(g.Nodes) != len(kinds) {
		t.Fatalf("got %d nodes, want %d", len(g.Nodes), len(kinds))
	}
	for i, want := range kinds {
		if g.Nodes[i].Kind != want {
			t.Fatalf("node %d kind = %s, want %s", i, g.Nodes[i].Kind, want)
		}
		if g.Nodes[i].OrderIndex != i {
			t.Fatalf("node %d order_index = %d", i, g.Nodes[i].OrderIndex)
		}
	}
	if len(g.Edges) != 3 {
		t.Fatalf("got %d edges, want 3", len(g.Edges))
	}
}

func TestBuildOpaqueDegradation(t *testing.T) {
	g := buildFrom(t,
		`{"role": "user", "content": "go"}`,
		`{"role": "assistant", "content": [{"text": "known"}, {"mystery": {"shape": 42}}]}`,
	)

	// One node per recognizable block plus one opaque node.
	if len(g.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(g.Nodes))
	}
	opaque := g.Nodes[2]
	if !opaque.Opaque {
		t.Fatalf("unrecognized block must become an opaque node: %+v", opaque)
	}
	if len(opaque.Detail.Raw) == 0 {
		t.Fatalf("opaque node must carry the raw block")
	}
}

func TestBuildSystemRoleCarried(t *testing.T) {
	g := buildFrom(t,
		`{"role": "system", "content": "You are helpful."}`,
		`{"role": "user", "content": "hi"}`,
	)

	if g.Nodes[0].Role != message.RoleSystem {
		t.Fatalf("system role lost: %+v", g.Nodes[0])
	}
	// Initial marks the first user turn, not the system prompt.
	if g.Nodes[0].Initial || !g.Nodes[1].Initial {
		t.Fatalf("initial flag misplaced: %+v %+v", g.Nodes[0], g.Nodes[1])
	}
}

func TestBuildEmptyConversation(t *testing.T) {
	_, err := Build(&conversation.Conversation{AgentName: "agent"})
	if !errors.Is(err, conversation.ErrEmptyConversation) {
		t.Fatalf("got %v, want ErrEmptyConversation", err)
	}
}

func TestBuildLabelTruncation(t *testing.T) {
	long := ""
	for i := 0; i < 20; i++ {
		long += "0123456789"
	}
	g := buildFrom(t, `{"role": "user", "content": "`+long+`"}`)

	label := g.Nodes[0].Label
	if len([]rune(label)) != labelMax+3 {
		t.Fatalf("label length = %d, want %d", len([]rune(label)), labelMax+3)
	}
	if g.Nodes[0].Detail.Text != long {
		t.Fatalf("detail must keep the full text")
	}
}

func TestBuildDeterministicSerialization(t *testing.T) {
	raws := []string{
		`{"role": "user", "content": "Hello"}`,
		`{"role": "assistant", "content": [{"toolUse": {"toolUseId": "t1", "name": "read_file", "input": {"path": "a.txt"}}}]}`,
		`{"role": "user", "content": [{"toolResult": {"toolUseId": "t1", "content": "contents", "status": "success"}}]}`,
	}

	a, err := json.Marshal(buildFrom(t, raws...))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	b, err := json.Marshal(buildFrom(t, raws...))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("graph serialization is not deterministic")
	}
}
