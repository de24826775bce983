package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseMessage parses one raw message object into a Message. It tolerates
// double-encoded JSON strings and attempts to repair malformed JSON before
// giving up. A *MalformedMessageError (missing/unrecognized role) is
// returned as-is: repair cannot fix semantics.
func ParseMessage(raw []byte) (Message, error) {
	var msg Message
	if err := unmarshalFlexible(raw, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// SplitArray parses a consolidated JSON array into its raw elements without
// interpreting them, so callers can degrade per element instead of losing
// the whole file to one bad entry.
func SplitArray(raw []byte) ([]json.RawMessage, error) {
	var elems []json.RawMessage
	if err := unmarshalFlexible(raw, &elems); err != nil {
		return nil, err
	}
	return elems, nil
}

// unmarshalFlexible tries standard unmarshaling, then double-encoded
// strings, then JSON repair. Capture files are written by an external
// runtime, so inputs occasionally arrive truncated or loosely quoted.
func unmarshalFlexible(input []byte, out any) error {
	trimmed := strings.TrimSpace(string(input))

	err := json.Unmarshal([]byte(trimmed), out)
	if err == nil {
		return nil
	}
	var malformed *MalformedMessageError
	if errors.As(err, &malformed) {
		return malformed
	}

	var asString string
	if strErr := json.Unmarshal([]byte(trimmed), &asString); strErr == nil {
		asString = strings.TrimSpace(asString)
		if innerErr := json.Unmarshal([]byte(asString), out); innerErr == nil {
			return nil
		} else if errors.As(innerErr, &malformed) {
			return malformed
		}
		trimmed = asString
	}

	repaired, repairErr := jsonrepair.JSONRepair(trimmed)
	if repairErr != nil {
		return fmt.Errorf("unparseable message: %w", err)
	}
	if repairedErr := json.Unmarshal([]byte(repaired), out); repairedErr != nil {
		if errors.As(repairedErr, &malformed) {
			return malformed
		}
		return fmt.Errorf("unparseable message after repair: %w", repairedErr)
	}
	return nil
}
