package export

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dusk-indust/crategraph/internal/graph"
)

// GraphExport is the top-level JSON export structure.
type GraphExport struct {
	Project    string           `json:"project,omitempty"`
	ExportedAt string           `json:"exportedAt"`
	Stats      graph.GraphStats `json:"stats"`
	Nodes      []graph.Node     `json:"nodes"`
	Edges      []graph.Edge     `json:"edges"`
}

// BuildExport assembles a GraphExport from a store. The node set is derived
// from the edge endpoints, deduplicated by composite key and sorted so that
// repeated exports of the same graph are byte-identical.
func BuildExport(ctx context.Context, store graph.Store, project string) (*GraphExport, error) {
	edges, err := store.GetAllEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("get edges: %w", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	nodeSet := make(map[string]graph.Node)
	for _, e := range edges {
		nodeSet[e.Source.Key()] = e.Source
		nodeSet[e.Target.Key()] = e.Target
	}

	nodes := make([]graph.Node, 0, len(nodeSet))
	for _, n := range nodeSet {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Key() < nodes[j].Key() })

	sortedEdges := make([]graph.Edge, len(edges))
	copy(sortedEdges, edges)
	sort.Slice(sortedEdges, func(i, j int) bool { return sortedEdges[i].Key() < sortedEdges[j].Key() })

	return &GraphExport{
		Project:    project,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Stats:      *stats,
		Nodes:      nodes,
		Edges:      sortedEdges,
	}, nil
}

// GenerateJSON renders a store's graph as indented JSON.
func GenerateJSON(ctx context.Context, store graph.Store, project string) ([]byte, error) {
	export, err := BuildExport(ctx, store, project)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(export, "", "  ")
}
