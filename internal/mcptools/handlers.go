package mcptools

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/crategraph/internal/graph"
	"github.com/dusk-indust/crategraph/internal/indexer"
)

// CrateGraphService holds the graph store and parser used by MCP tool
// handlers.
type CrateGraphService struct {
	store  graph.Store
	parser graph.Parser
	log    *slog.Logger
}

// NewCrateGraphService creates a CrateGraphService with the given store and
// parser. A nil log uses slog.Default.
func NewCrateGraphService(store graph.Store, parser graph.Parser, log *slog.Logger) *CrateGraphService {
	if log == nil {
		log = slog.Default()
	}
	return &CrateGraphService{store: store, parser: parser, log: log}
}

// IndexProject indexes a Rust project directory into the graph store.
func (s *CrateGraphService) IndexProject(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexProjectInput,
) (*mcp.CallToolResult, IndexProjectOutput, error) {
	if input.Path == "" {
		return nil, IndexProjectOutput{}, fmt.Errorf("path is required")
	}

	info, err := os.Stat(input.Path)
	if err != nil {
		return nil, IndexProjectOutput{}, fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return nil, IndexProjectOutput{}, fmt.Errorf("path is not a directory: %s", input.Path)
	}

	ix := indexer.New(s.store, s.parser, s.log)
	ix.ExcludeDirs = input.ExcludeDirs

	run, err := ix.Run(ctx, input.Path, input.Project)
	if err != nil {
		return nil, IndexProjectOutput{}, fmt.Errorf("index: %w", err)
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, IndexProjectOutput{}, fmt.Errorf("stats: %w", err)
	}

	return nil, IndexProjectOutput{Run: *run, Graph: *stats}, nil
}

// QueryNodes searches for nodes by kind and name substring.
func (s *CrateGraphService) QueryNodes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryNodesInput,
) (*mcp.CallToolResult, QueryNodesOutput, error) {
	kind, err := parseNodeKind(input.Kind)
	if err != nil {
		return nil, QueryNodesOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	nodes, err := s.store.QueryNodes(ctx, kind, input.Query, limit)
	if err != nil {
		return nil, QueryNodesOutput{}, fmt.Errorf("query nodes: %w", err)
	}

	return nil, QueryNodesOutput{Nodes: nodes, Total: len(nodes)}, nil
}

// GetRelations returns the neighbors of a node along one edge kind.
func (s *CrateGraphService) GetRelations(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetRelationsInput,
) (*mcp.CallToolResult, GetRelationsOutput, error) {
	kind, err := parseNodeKind(input.Kind)
	if err != nil {
		return nil, GetRelationsOutput{}, err
	}
	if input.Name == "" {
		return nil, GetRelationsOutput{}, fmt.Errorf("name is required")
	}

	var anchor graph.Node
	switch kind {
	case graph.NodeKindProject:
		anchor = graph.ProjectNode(input.Name)
	case graph.NodeKindFile:
		anchor = graph.FileNode(input.Name)
	default:
		if input.Project == "" {
			return nil, GetRelationsOutput{}, fmt.Errorf("project is required for %s anchors", kind)
		}
		anchor = graph.Node{Kind: kind, Name: input.Name, Project: input.Project}
	}

	edgeKind := graph.EdgeKind(strings.ToUpper(input.Edge))
	switch edgeKind {
	case graph.EdgeKindContainsFile, graph.EdgeKindContains, graph.EdgeKindCalls,
		graph.EdgeKindInstantiates, graph.EdgeKindImplements:
	default:
		return nil, GetRelationsOutput{}, fmt.Errorf("unknown edge kind: %s", input.Edge)
	}

	dir := graph.DirectionOut
	if strings.EqualFold(input.Direction, "in") {
		dir = graph.DirectionIn
	}

	nodes, err := s.store.Neighbors(ctx, anchor, edgeKind, dir)
	if err != nil {
		return nil, GetRelationsOutput{}, fmt.Errorf("neighbors: %w", err)
	}

	return nil, GetRelationsOutput{Nodes: nodes}, nil
}

// GraphStats returns counts of all node and edge kinds in the graph.
func (s *CrateGraphService) GraphStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GraphStatsInput,
) (*mcp.CallToolResult, GraphStatsOutput, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, GraphStatsOutput{}, fmt.Errorf("stats: %w", err)
	}
	return nil, GraphStatsOutput{Stats: *stats}, nil
}

// parseNodeKind validates a node kind string from tool input.
func parseNodeKind(s string) (graph.NodeKind, error) {
	kind := graph.NodeKind(strings.ToLower(s))
	switch kind {
	case graph.NodeKindProject, graph.NodeKindFile, graph.NodeKindFunction,
		graph.NodeKindStruct, graph.NodeKindTrait:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown node kind: %s", s)
	}
}
