package visualizer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agentviz/pkg/conversation"
	"agentviz/pkg/graph"
	"agentviz/pkg/message"
)

func sampleConversation(t *testing.T) *conversation.Conversation {
	t.Helper()
	raws := []string{
		`{"role": "user", "content": "Summarize **a.txt** for me"}`,
		`{"role": "assistant", "content": [{"toolUse": {"toolUseId": "t1", "name": "read_file", "input": {"path": "a.txt"}}}]}`,
		`{"role": "user", "content": [{"toolResult": {"toolUseId": "t1", "content": "contents", "status": "success"}}]}`,
		`{"role": "assistant", "content": "The file says: contents"}`,
	}
	msgs := make([]message.Message, 0, len(raws))
	for _, raw := range raws {
		msg, err := message.ParseMessage([]byte(raw))
		if err != nil {
			t.Fatalf("failed to parse message: %v", err)
		}
		msgs = append(msgs, msg)
	}
	conv, err := conversation.FromMessages("test-agent", msgs)
	if err != nil {
		t.Fatalf("failed to build conversation: %v", err)
	}
	return conv
}

func TestRenderSelfContained(t *testing.T) {
	g, err := graph.Build(sampleConversation(t))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	content, err := Render(g)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	html := string(content)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"test-agent",
		"read_file",
		"const vizData =",
		markdownRuntimeURL,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("artifact missing %q", want)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	conv := sampleConversation(t)

	render := func() []byte {
		g, err := graph.Build(conv)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		content, err := Render(g)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		return content
	}

	if !bytes.Equal(render(), render()) {
		t.Fatalf("rendering the same conversation twice produced different bytes")
	}
}

func TestWriteArtifactAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.html")

	if err := WriteArtifact(path, []byte("hello")); err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("artifact content = %q", data)
	}

	// No temp files may survive a successful publish.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("failed to list output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("output dir has %d entries, want 1", len(entries))
	}
}

func TestVisualizeDirectory(t *testing.T) {
	msgDir := t.TempDir()
	files := map[string]string{
		"20250101000001-demo-msg1-user.json":      `{"role": "user", "content": "hi"}`,
		"20250101000002-demo-msg2-assistant.json": `{"role": "assistant", "content": "hello"}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(msgDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	v := New(t.TempDir())
	res, err := v.VisualizeDirectory(context.Background(), msgDir, "", "")
	if err != nil {
		t.Fatalf("VisualizeDirectory failed: %v", err)
	}
	if res.AgentName != "demo" {
		t.Fatalf("agent = %q, want demo", res.AgentName)
	}
	if filepath.Base(res.Path) != "20250101000001-demo.html" {
		t.Fatalf("artifact name = %s", filepath.Base(res.Path))
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
}

func TestRoundTripMatchesDirectGraph(t *testing.T) {
	msgDir := t.TempDir()
	files := map[string]string{
		"20250101000001-demo-msg1-user.json":      `{"role": "user", "content": "Hello"}`,
		"20250101000002-demo-msg2-assistant.json": `{"role": "assistant", "content": [{"toolUse": {"toolUseId": "t1", "name": "read_file", "input": {"path": "a.txt"}}}]}`,
		"20250101000003-demo-msg3-user.json":      `{"role": "user", "content": [{"toolResult": {"toolUseId": "t1", "content": "contents", "status": "success"}}]}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(msgDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	src := conversation.NewDirSource(msgDir)
	conv, err := conversation.Consolidate(context.Background(), src, "")
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}
	direct, err := graph.Build(conv)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	exported, err := conversation.ExportConsolidated(conv)
	if err != nil {
		t.Fatalf("ExportConsolidated failed: %v", err)
	}
	loaded, err := conversation.LoadConsolidated(conv.AgentName, exported)
	if err != nil {
		t.Fatalf("LoadConsolidated failed: %v", err)
	}
	indirect, err := graph.Build(loaded)
	if err != nil {
		t.Fatalf("Build from consolidated failed: %v", err)
	}

	if len(direct.Nodes) != len(indirect.Nodes) {
		t.Fatalf("node counts differ: %d vs %d", len(direct.Nodes), len(indirect.Nodes))
	}
	for i := range direct.Nodes {
		if direct.Nodes[i].Kind != indirect.Nodes[i].Kind || direct.Nodes[i].Label != indirect.Nodes[i].Label {
			t.Fatalf("node %d differs: %+v vs %+v", i, direct.Nodes[i], indirect.Nodes[i])
		}
	}
	if len(direct.Edges) != len(indirect.Edges) {
		t.Fatalf("edge counts differ: %d vs %d", len(direct.Edges), len(indirect.Edges))
	}
	for i := range direct.Edges {
		if direct.Edges[i] != indirect.Edges[i] {
			t.Fatalf("edge %d differs: %+v vs %+v", i, direct.Edges[i], indirect.Edges[i])
		}
	}
}
