package conversation

import "fmt"

// FileError records one file that could not be loaded or parsed.
type FileError struct {
	File string
	Err  error
}

// Report collects per-file outcomes of a consolidation run. A bad file does
// not abort the batch; it lands here so the caller can surface which files
// succeeded and which failed, and why.
type Report struct {
	Loaded []string
	Failed []FileError
}

// Ok reports whether every discovered file loaded cleanly.
func (r Report) Ok() bool {
	return len(r.Failed) == 0
}

// Summary renders a one-line overview for logs and CLI output.
func (r Report) Summary() string {
	return fmt.Sprintf("%d loaded, %d failed", len(r.Loaded), len(r.Failed))
}
