package conversation

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Source abstracts where message files live. Keys returned by List are
// opaque; their base name is expected to follow the message-file naming
// convention.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, key string) ([]byte, error)
}

// DirSource reads message files from a local directory. Reads are cached;
// concurrent reads of the same file are collapsed.
type DirSource struct {
	dir string

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewDirSource creates a filesystem-backed message source.
func NewDirSource(dir string) *DirSource {
	return &DirSource{
		dir:   dir,
		cache: make(map[string][]byte),
	}
}

// List returns the names of all regular files in the directory.
func (s *DirSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Read returns the content of one file. Results are cached.
func (s *DirSource) Read(ctx context.Context, key string) ([]byte, error) {
	s.cacheMu.RLock()
	if cached, ok := s.cache[key]; ok {
		s.cacheMu.RUnlock()
		return cached, nil
	}
	s.cacheMu.RUnlock()

	result, err, _ := s.group.Do(key, func() (any, error) {
		s.cacheMu.RLock()
		if cached, ok := s.cache[key]; ok {
			s.cacheMu.RUnlock()
			return cached, nil
		}
		s.cacheMu.RUnlock()

		data, err := os.ReadFile(filepath.Join(s.dir, key))
		if err != nil {
			return nil, err
		}

		s.cacheMu.Lock()
		s.cache[key] = data
		s.cacheMu.Unlock()

		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}
