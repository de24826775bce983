package capture

import (
	"context"
	"testing"
	"time"

	"agentviz/pkg/conversation"
	"agentviz/pkg/message"
)

func testWriter(t *testing.T, dir string) *Writer {
	t.Helper()
	w := NewWriter(NewLocalSink(dir), "test-agent")
	base := time.Date(2025, 1, 7, 14, 30, 22, 0, time.UTC)
	n := 0
	w.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Millisecond)
	}
	return w
}

func TestWriterFileNames(t *testing.T) {
	dir := t.TempDir()
	w := testWriter(t, dir)

	name, err := w.Add(context.Background(), message.NewTextMessage(message.RoleUser, "hello"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	want := "20250107143022001000-test-agent-msg1-user.json"
	if name != want {
		t.Fatalf("file name = %q, want %q", name, want)
	}

	meta, err := conversation.ParseFilename(name)
	if err != nil {
		t.Fatalf("generated name does not parse: %v", err)
	}
	if meta.Agent != "test-agent" || meta.Number != 1 || meta.Role != "user" {
		t.Fatalf("parsed meta = %+v", meta)
	}
}

func TestWriterDeduplicates(t *testing.T) {
	dir := t.TempDir()
	w := testWriter(t, dir)

	msg := message.NewTextMessage(message.RoleUser, "hello")
	if _, err := w.Add(context.Background(), msg); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	name, err := w.Add(context.Background(), msg)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if name != "" {
		t.Fatalf("duplicate message was saved as %q", name)
	}

	// A different message still gets the next number.
	name, err = w.Add(context.Background(), message.NewTextMessage(message.RoleAssistant, "hi"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	meta, err := conversation.ParseFilename(name)
	if err != nil {
		t.Fatalf("generated name does not parse: %v", err)
	}
	if meta.Number != 2 {
		t.Fatalf("message number = %d, want 2", meta.Number)
	}
}

func TestWriterConsolidateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := testWriter(t, dir)

	msgs := []message.Message{
		message.NewTextMessage(message.RoleUser, "summarize a.txt"),
		message.NewTextMessage(message.RoleAssistant, "on it"),
		message.NewTextMessage(message.RoleAssistant, "done"),
	}
	for _, msg := range msgs {
		if _, err := w.Add(context.Background(), msg); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	conv, err := conversation.Consolidate(context.Background(), conversation.NewDirSource(dir), "test-agent")
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}
	if len(conv.Messages) != len(msgs) {
		t.Fatalf("got %d messages, want %d", len(conv.Messages), len(msgs))
	}
	for i := range msgs {
		if conv.Messages[i].Role != msgs[i].Role {
			t.Fatalf("message %d role = %s, want %s", i, conv.Messages[i].Role, msgs[i].Role)
		}
		if conv.Messages[i].Content[0].Text != msgs[i].Content[0].Text {
			t.Fatalf("message %d text = %q, want %q", i, conv.Messages[i].Content[0].Text, msgs[i].Content[0].Text)
		}
	}
}
