package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"agentviz/internal/util"
	"agentviz/pkg/logger"
	"agentviz/pkg/message"
)

// Writer captures messages as they are added to a conversation, saving each
// one to its own file named {timestamp}-{agent}-msg{number}-{role}.json.
// Message numbers are assigned per writer, and a message whose role and
// content were already saved is skipped, so replayed events do not produce
// duplicate numbers downstream.
type Writer struct {
	sink      Sink
	agentName string

	mu      sync.Mutex
	counter int
	seen    map[string]struct{}

	now func() time.Time
}

// NewWriter creates a capture writer for one agent.
func NewWriter(sink Sink, agentName string) *Writer {
	if agentName == "" {
		agentName = "UnknownAgent"
	}
	return &Writer{
		sink:      sink,
		agentName: agentName,
		seen:      make(map[string]struct{}),
		now:       time.Now,
	}
}

// Add saves one message to the sink. It returns the file name the message
// was saved under, or an empty name when the message was a duplicate of one
// already captured.
func (w *Writer) Add(ctx context.Context, msg message.Message) (string, error) {
	sig, err := signature(msg)
	if err != nil {
		return "", fmt.Errorf("failed to build message signature: %w", err)
	}

	w.mu.Lock()
	if _, ok := w.seen[sig]; ok {
		w.mu.Unlock()
		logger.Debug("[Capture] Skipping duplicate message", "agent", w.agentName, "role", msg.Role)
		return "", nil
	}
	w.seen[sig] = struct{}{}
	w.counter++
	number := w.counter
	ts := w.now()
	w.mu.Unlock()

	content, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	name := fileName(ts, w.agentName, number, msg.Role)
	if err := w.sink.Save(ctx, name, content); err != nil {
		return "", fmt.Errorf("failed to save message %d: %w", number, err)
	}

	logger.Info("[Capture] Saved message", "agent", w.agentName, "number", number, "role", msg.Role, "file", name)
	return name, nil
}

// signature identifies a message by role and canonical content, matching
// messages that differ only in wire formatting.
func signature(msg message.Message) (string, error) {
	content, err := json.Marshal(msg.Content)
	if err != nil {
		return "", err
	}
	return string(msg.Role) + ":" + string(content), nil
}

func fileName(ts time.Time, agentName string, number int, role message.Role) string {
	// Microsecond resolution keeps names unique across rapid messages.
	stamp := ts.Format("20060102150405") + fmt.Sprintf("%06d", ts.Nanosecond()/1000)
	safeRole := util.SanitizeName(string(role))
	if safeRole == "" {
		safeRole = "unknown"
	}
	return fmt.Sprintf("%s-%s-msg%d-%s.json", stamp, util.SanitizeName(agentName), number, safeRole)
}
