package batch

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"agentviz/pkg/conversation"
	"agentviz/pkg/logger"
	"agentviz/pkg/visualizer"
)

const defaultParallelAgents = 4

// AgentResult is the outcome of visualizing one agent in a batch run.
type AgentResult struct {
	AgentName string
	Path      string
	Report    conversation.Report
	Err       error
}

// Options configures a batch render.
type Options struct {
	// ParallelAgents bounds how many agents render at once.
	ParallelAgents int
	// ExportJSON also writes the consolidated array next to each artifact.
	ExportJSON bool
}

// RenderAll visualizes every agent found in the source. Each agent is an
// independent conversation with its own output path, so agents render in
// parallel; one agent failing does not stop the others. The per-agent
// outcomes come back sorted by agent name.
func RenderAll(ctx context.Context, src conversation.Source, viz *visualizer.Visualizer, opts Options) ([]AgentResult, error) {
	agents, err := conversation.Agents(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, conversation.ErrNoMessagesFound
	}

	parallel := opts.ParallelAgents
	if parallel <= 0 {
		parallel = defaultParallelAgents
	}

	logger.Info("[Batch] Rendering agents", "count", len(agents), "parallel", parallel)

	results := make([]AgentResult, len(agents))
	mutex := sync.Mutex{}

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel)

	for i, agent := range agents {
		i, agent := i, agent
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			result := renderAgent(gCtx, src, viz, agent, opts.ExportJSON)

			mutex.Lock()
			results[i] = result
			mutex.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("batch render interrupted: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.Info("[Batch] Batch complete", "agents", len(results), "failed", failed)

	return results, nil
}

func renderAgent(ctx context.Context, src conversation.Source, viz *visualizer.Visualizer, agent string, exportJSON bool) AgentResult {
	conv, err := conversation.Consolidate(ctx, src, agent)
	if err != nil {
		logger.Warn("[Batch] Agent failed", "agent", agent, "err", err)
		return AgentResult{AgentName: agent, Err: err}
	}

	res, err := viz.VisualizeConversation(conv, "")
	if err != nil {
		logger.Warn("[Batch] Agent failed", "agent", agent, "err", err)
		return AgentResult{AgentName: agent, Err: err}
	}

	if exportJSON {
		if _, err := viz.ExportConsolidated(conv, ""); err != nil {
			logger.Warn("[Batch] Consolidated export failed", "agent", agent, "err", err)
			return AgentResult{
				AgentName: agent,
				Path:      res.Path,
				Report:    res.Report,
				Err:       fmt.Errorf("consolidated export failed: %w", err),
			}
		}
	}

	return AgentResult{AgentName: agent, Path: res.Path, Report: res.Report}
}
