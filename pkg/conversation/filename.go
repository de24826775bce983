package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Message files are named {timestamp}-{agent_name}-msg{number}-{role}.json.
// The agent name may itself contain hyphens; the fields are anchored by the
// leading numeric timestamp and the trailing -msg{number}-{role}.json tail,
// so the last "-msg" occurrence wins.
var msgFileRe = regexp.MustCompile(`^(\d+)-(.+)-msg(\d+)-([A-Za-z0-9_-]+)\.json$`)

// FileMeta is the metadata encoded in a message file's name.
type FileMeta struct {
	Name      string
	Timestamp string
	Agent     string
	Number    int
	Role      string
}

// IsMessageFile is a cheap pre-filter: does the name look like it follows
// the message-file convention at all? Non-matching files in a directory are
// ignored, not errors.
func IsMessageFile(name string) bool {
	return strings.HasSuffix(name, ".json") && strings.Contains(name, "-msg")
}

// ParseFilename extracts the ordering metadata from a message file name.
// The message number, not the timestamp, is the sort key: two messages may
// share a millisecond timestamp but never a number.
func ParseFilename(name string) (FileMeta, error) {
	m := msgFileRe.FindStringSubmatch(name)
	if m == nil {
		return FileMeta{}, fmt.Errorf("filename %q does not match {timestamp}-{agent}-msg{number}-{role}.json", name)
	}

	numStr := m[3]
	number, err := strconv.Atoi(numStr)
	if err != nil {
		return FileMeta{}, fmt.Errorf("filename %q: unparseable message number %q: %w", name, numStr, err)
	}
	if number <= 0 {
		return FileMeta{}, fmt.Errorf("filename %q: message number must be positive, got %d", name, number)
	}

	return FileMeta{
		Name:      name,
		Timestamp: m[1],
		Agent:     m[2],
		Number:    number,
		Role:      m[4],
	}, nil
}
