package visualizer

import (
	"context"
	"path/filepath"

	"agentviz/internal/util"
	"agentviz/pkg/conversation"
	"agentviz/pkg/graph"
	"agentviz/pkg/logger"
)

const defaultOutputDir = "visualizations"

// Visualizer runs the full pipeline for one conversation at a time:
// consolidate, build the graph, render, publish. Invocations are
// independent, so callers may visualize many agents in parallel as long as
// each writes to a distinct output path.
type Visualizer struct {
	outputDir string
}

// New creates a visualizer that writes artifacts under outputDir.
func New(outputDir string) *Visualizer {
	if outputDir == "" {
		outputDir = defaultOutputDir
	}
	return &Visualizer{outputDir: outputDir}
}

// Result describes one completed visualization.
type Result struct {
	AgentName string
	Path      string
	Report    conversation.Report
}

// VisualizeSource consolidates the source's message files and renders the
// artifact. outputName is optional; the default derives from the
// conversation's own agent name and timestamp, keeping repeated runs at the
// same path.
func (v *Visualizer) VisualizeSource(ctx context.Context, src conversation.Source, agentFilter, outputName string) (*Result, error) {
	conv, err := conversation.Consolidate(ctx, src, agentFilter)
	if err != nil {
		return nil, err
	}
	return v.VisualizeConversation(conv, outputName)
}

// VisualizeDirectory renders the messages found in a local directory.
func (v *Visualizer) VisualizeDirectory(ctx context.Context, dir, agentFilter, outputName string) (*Result, error) {
	return v.VisualizeSource(ctx, conversation.NewDirSource(dir), agentFilter, outputName)
}

// VisualizeFiles renders an explicit list of message files. Ordering still
// comes from the message numbers embedded in the file names.
func (v *Visualizer) VisualizeFiles(ctx context.Context, paths []string, outputName string) (*Result, error) {
	return v.VisualizeSource(ctx, conversation.NewFileSource(paths), "", outputName)
}

// VisualizeConsolidated renders a conversation stored as one JSON array.
func (v *Visualizer) VisualizeConsolidated(agentName string, raw []byte, outputName string) (*Result, error) {
	conv, err := conversation.LoadConsolidated(agentName, raw)
	if err != nil {
		return nil, err
	}
	return v.VisualizeConversation(conv, outputName)
}

// VisualizeConversation builds the graph and publishes the artifact for an
// already consolidated conversation.
func (v *Visualizer) VisualizeConversation(conv *conversation.Conversation, outputName string) (*Result, error) {
	g, err := graph.Build(conv)
	if err != nil {
		return nil, err
	}

	content, err := Render(g)
	if err != nil {
		return nil, err
	}

	if outputName == "" {
		outputName = artifactName(conv) + ".html"
	}
	path := filepath.Join(v.outputDir, outputName)
	if err := WriteArtifact(path, content); err != nil {
		return nil, err
	}

	logger.Info("[Visualizer] Visualization complete",
		"agent", conv.AgentName, "nodes", len(g.Nodes), "report", conv.Report.Summary())

	return &Result{
		AgentName: conv.AgentName,
		Path:      path,
		Report:    conv.Report,
	}, nil
}

// ExportConsolidated writes the conversation back out as one JSON array,
// the interchange form accepted by VisualizeConsolidated.
func (v *Visualizer) ExportConsolidated(conv *conversation.Conversation, outputName string) (string, error) {
	data, err := conversation.ExportConsolidated(conv)
	if err != nil {
		return "", err
	}

	if outputName == "" {
		outputName = artifactName(conv) + "-consolidated.json"
	}
	path := filepath.Join(v.outputDir, outputName)
	if err := WriteArtifact(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func artifactName(conv *conversation.Conversation) string {
	agent := util.SanitizeName(conv.AgentName)
	if agent == "" {
		agent = "conversation"
	}
	if conv.Timestamp == "" {
		return agent
	}
	return conv.Timestamp + "-" + agent
}
