package visualizer

import (
	"encoding/json"
	"fmt"

	"agentviz/pkg/graph"
)

// Metadata is the artifact header shown above the detail panel.
type Metadata struct {
	AgentName string `json:"agent_name"`
	Timestamp string `json:"timestamp"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

type payload struct {
	Metadata Metadata      `json:"metadata"`
	Nodes    []*graph.Node `json:"nodes"`
	Edges    []graph.Edge  `json:"edges"`
}

// Payload serializes the graph into the artifact's embedded data form. The
// bytes are deterministic for a given graph: no generated ids, no wall-clock
// timestamps, stable field order.
func Payload(g *graph.Graph) ([]byte, error) {
	p := payload{
		Metadata: Metadata{
			AgentName: g.AgentName,
			Timestamp: g.Timestamp,
			NodeCount: len(g.Nodes),
			EdgeCount: len(g.Edges),
		},
		Nodes: g.Nodes,
		Edges: g.Edges,
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph payload: %w", err)
	}
	return data, nil
}
