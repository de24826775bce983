package message

import "fmt"

// MalformedMessageError indicates a message object without a recognizable
// role. It is fatal for that message's file only; batch processing of other
// files continues.
type MalformedMessageError struct {
	Reason string
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("malformed message: %s", e.Reason)
}
