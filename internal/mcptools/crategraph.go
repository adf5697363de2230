package mcptools

import (
	"github.com/dusk-indust/crategraph/internal/graph"
	"github.com/dusk-indust/crategraph/internal/indexer"
)

// IndexProjectInput is the input schema for the index_project tool.
type IndexProjectInput struct {
	Path        string   `json:"path" jsonschema:"the absolute path to the Rust project to index"`
	Project     string   `json:"project,omitempty" jsonschema:"project name (default: directory base name)"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"directory names to exclude from indexing (e.g. vendor, examples)"`
}

// IndexProjectOutput is the output schema for the index_project tool.
type IndexProjectOutput struct {
	Run   indexer.RunStats `json:"run"`
	Graph graph.GraphStats `json:"graph"`
}

// QueryNodesInput is the input schema for the query_nodes tool.
type QueryNodesInput struct {
	Kind  string `json:"kind" jsonschema:"node kind: project, file, function, struct, trait"`
	Query string `json:"query,omitempty" jsonschema:"substring match on node name (path for files)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default: 20)"`
}

// QueryNodesOutput is the output schema for the query_nodes tool.
type QueryNodesOutput struct {
	Nodes []graph.Node `json:"nodes"`
	Total int          `json:"total"`
}

// GetRelationsInput is the input schema for the get_relations tool.
type GetRelationsInput struct {
	Kind      string `json:"kind" jsonschema:"node kind of the anchor: project, file, function, struct, trait"`
	Name      string `json:"name" jsonschema:"node name (path for files)"`
	Project   string `json:"project,omitempty" jsonschema:"project scope, required for function/struct/trait anchors"`
	Edge      string `json:"edge" jsonschema:"edge kind: CONTAINS_FILE, CONTAINS, CALLS, INSTANTIATES, IMPLEMENTS"`
	Direction string `json:"direction,omitempty" jsonschema:"out (edges leaving the node) or in (edges arriving). Default: out"`
}

// GetRelationsOutput is the output schema for the get_relations tool.
type GetRelationsOutput struct {
	Nodes []graph.Node `json:"nodes"`
}

// GraphStatsInput is the (empty) input schema for the graph_stats tool.
type GraphStatsInput struct{}

// GraphStatsOutput is the output schema for the graph_stats tool.
type GraphStatsOutput struct {
	Stats graph.GraphStats `json:"stats"`
}
