package graph

import (
	"context"
	"strings"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps keyed by the composite node/edge
// keys, which makes every upsert naturally idempotent. Thread-safe via
// sync.RWMutex.
type MemStore struct {
	mu    sync.RWMutex
	nodes map[string]Node
	edges map[string]Edge
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		nodes: make(map[string]Node),
		edges: make(map[string]Edge),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// UpsertNode stores the node under its composite key.
func (m *MemStore) UpsertNode(_ context.Context, node Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[node.Key()] = node
	return nil
}

// UpsertEdge stores both endpoints and the edge under their composite keys.
func (m *MemStore) UpsertEdge(_ context.Context, edge Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[edge.Source.Key()] = edge.Source
	m.nodes[edge.Target.Key()] = edge.Target
	m.edges[edge.Key()] = edge
	return nil
}

// QueryNodes returns nodes of the given kind whose name contains nameContains
// (case-insensitive; File nodes match on path), up to limit results.
// A limit <= 0 returns all matches.
func (m *MemStore) QueryNodes(_ context.Context, kind NodeKind, nameContains string, limit int) ([]Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(nameContains)
	var results []Node
	for _, n := range m.nodes {
		if n.Kind != kind {
			continue
		}
		label := n.Name
		if kind == NodeKindFile {
			label = n.Path
		}
		if !strings.Contains(strings.ToLower(label), needle) {
			continue
		}
		results = append(results, n)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Neighbors returns the opposite endpoints of all edges of the given kind
// touching node in the given direction.
func (m *MemStore) Neighbors(_ context.Context, node Node, edgeKind EdgeKind, dir Direction) ([]Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := node.Key()
	var out []Node
	for _, e := range m.edges {
		if e.Kind != edgeKind {
			continue
		}
		switch dir {
		case DirectionOut:
			if e.Source.Key() == key {
				out = append(out, e.Target)
			}
		case DirectionIn:
			if e.Target.Key() == key {
				out = append(out, e.Source)
			}
		}
	}
	return out, nil
}

// GetAllEdges returns a copy of all edges in the store.
func (m *MemStore) GetAllEdges(_ context.Context) ([]Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Edge, 0, len(m.edges))
	for _, e := range m.edges {
		out = append(out, e)
	}
	return out, nil
}

// Stats returns counts of all node kinds and of edges.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &GraphStats{EdgeCount: len(m.edges)}
	for _, n := range m.nodes {
		switch n.Kind {
		case NodeKindProject:
			stats.ProjectCount++
		case NodeKindFile:
			stats.FileCount++
		case NodeKindFunction:
			stats.FunctionCount++
		case NodeKindStruct:
			stats.StructCount++
		case NodeKindTrait:
			stats.TraitCount++
		}
	}
	return stats, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
