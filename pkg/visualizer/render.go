package visualizer

import (
	"bytes"
	"fmt"
	"html/template"

	"agentviz/internal/util"
	"agentviz/pkg/graph"
	"agentviz/pkg/logger"
)

var artifactTmpl = template.Must(template.New("artifact").Parse(artifactHTML))

type artifactData struct {
	Title              string
	MarkdownRuntimeURL string
	JSONData           template.JS
}

// Render serializes the graph into the self-contained artifact document.
// The embedded payload is byte-identical across runs for the same graph.
func Render(g *graph.Graph) ([]byte, error) {
	data, err := Payload(g)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = artifactTmpl.Execute(&buf, artifactData{
		Title:              g.AgentName,
		MarkdownRuntimeURL: markdownRuntimeURL,
		JSONData:           template.JS(data),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render artifact: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteArtifact publishes content at path atomically: the bytes land in a
// temporary file first and are renamed into place, so a failed write never
// leaves a partial artifact behind.
func WriteArtifact(path string, content []byte) error {
	if err := util.WriteFileAtomic(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to publish artifact: %w", err)
	}

	logger.Info("[Visualizer] Artifact written", "path", path, "bytes", len(content))
	return nil
}
