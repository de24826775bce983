package conversation

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMessagesFound means discovery matched zero files after filtering.
	ErrNoMessagesFound = errors.New("no message files found")

	// ErrEmptyConversation means zero messages survived parsing.
	ErrEmptyConversation = errors.New("conversation has no messages")
)

// DuplicateMessageError means two files claim the same message number for
// the same agent. Both files are named: silent overwrite would corrupt
// conversation order invisibly.
type DuplicateMessageError struct {
	Agent  string
	Number int
	FileA  string
	FileB  string
}

func (e *DuplicateMessageError) Error() string {
	return fmt.Sprintf("duplicate message number %d for agent %q: %s and %s",
		e.Number, e.Agent, e.FileA, e.FileB)
}
