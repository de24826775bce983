package conversation

import (
	"encoding/json"
	"fmt"

	"agentviz/pkg/logger"
	"agentviz/pkg/message"
)

// Conversation is one complete ordered message sequence plus its origin
// metadata. It is owned by a single rendering pass and never mutated after
// consolidation.
type Conversation struct {
	AgentName   string
	Timestamp   string
	Messages    []message.Message
	SourceFiles []string
	Report      Report
}

// FromMessages builds a conversation directly from messages already in
// memory, bypassing file discovery. Messages without a sequence number get
// one from their position.
func FromMessages(agentName string, msgs []message.Message) (*Conversation, error) {
	if len(msgs) == 0 {
		return nil, ErrEmptyConversation
	}
	ordered := make([]message.Message, len(msgs))
	copy(ordered, msgs)
	for i := range ordered {
		if ordered[i].SequenceNumber == 0 {
			ordered[i].SequenceNumber = i + 1
		}
	}
	if agentName == "" {
		agentName = "UnknownAgent"
	}
	return &Conversation{
		AgentName: agentName,
		Messages:  ordered,
	}, nil
}

// LoadConsolidated parses a single-file JSON array of messages. Sequence
// numbers come from array positions. Individual malformed entries are
// reported and skipped rather than failing the whole file.
func LoadConsolidated(agentName string, raw []byte) (*Conversation, error) {
	elems, err := message.SplitArray(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse consolidated array: %w", err)
	}

	var report Report
	var msgs []message.Message
	for i, elem := range elems {
		msg, err := message.ParseMessage(elem)
		if err != nil {
			label := fmt.Sprintf("message[%d]", i)
			logger.Warn("[Consolidate] Skipping malformed entry", "entry", label, "err", err)
			report.Failed = append(report.Failed, FileError{File: label, Err: err})
			continue
		}
		msg.SequenceNumber = i + 1
		warnOpaqueBlocks(fmt.Sprintf("message[%d]", i), msg)
		msgs = append(msgs, msg)
	}

	if len(msgs) == 0 {
		return nil, fmt.Errorf("%w: no entry of %d parsed", ErrEmptyConversation, len(elems))
	}

	if agentName == "" {
		agentName = "UnknownAgent"
	}
	return &Conversation{
		AgentName: agentName,
		Messages:  msgs,
		Report:    report,
	}, nil
}

// ExportConsolidated serializes the conversation's messages as one indented
// JSON array. The output is byte-deterministic for a given conversation and
// round-trips through LoadConsolidated.
func ExportConsolidated(conv *Conversation) ([]byte, error) {
	data, err := json.MarshalIndent(conv.Messages, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal consolidated array: %w", err)
	}
	return append(data, '\n'), nil
}

func warnOpaqueBlocks(origin string, msg message.Message) {
	for i, block := range msg.Content {
		if block.Opaque {
			logger.Warn("[Consolidate] Unrecognized content block shape, keeping as opaque text",
				"origin", origin, "block", i, "role", msg.Role)
		}
	}
}
