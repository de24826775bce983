package conversation

import (
	"context"
	"os"
)

// FileSource reads an explicit list of message file paths, for callers that
// already know which files make up the conversation. Ordering still comes
// from the message numbers in the file names, not from list position.
type FileSource struct {
	paths []string
}

// NewFileSource creates a source over an explicit file list.
func NewFileSource(paths []string) *FileSource {
	return &FileSource{paths: paths}
}

// List returns the configured paths.
func (s *FileSource) List(ctx context.Context) ([]string, error) {
	return append([]string(nil), s.paths...), nil
}

// Read returns the content of one file.
func (s *FileSource) Read(ctx context.Context, key string) ([]byte, error) {
	return os.ReadFile(key)
}
