package graph

import (
	"context"
	"io"
)

// Store is the graph sink the indexer writes into.
// Implementations: KuzuStore (production), MemStore (testing, non-cgo builds).
// Both upsert operations are idempotent: calling them any number of times with
// identical arguments never duplicates data and never errors for that reason.
type Store interface {
	io.Closer

	// Schema setup — called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// UpsertNode creates the node if absent; a no-op merge otherwise.
	UpsertNode(ctx context.Context, node Node) error

	// UpsertEdge creates the edge if absent. Both endpoint nodes are
	// upserted as part of the same call, so an edge can never reference a
	// node that does not exist.
	UpsertEdge(ctx context.Context, edge Edge) error

	// Read operations, used by the MCP tools and exports.
	QueryNodes(ctx context.Context, kind NodeKind, nameContains string, limit int) ([]Node, error)
	Neighbors(ctx context.Context, node Node, edgeKind EdgeKind, dir Direction) ([]Node, error)
	GetAllEdges(ctx context.Context) ([]Edge, error)

	// Stats.
	Stats(ctx context.Context) (*GraphStats, error)
}

// Direction controls which endpoint of an edge is matched by Neighbors.
type Direction string

const (
	DirectionOut Direction = "out" // edges leaving the node
	DirectionIn  Direction = "in"  // edges arriving at the node
)
