package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_UpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	require.NoError(t, store.InitSchema(ctx))

	edge := Edge{
		Kind:   EdgeKindCalls,
		Source: FunctionNode("main", "app"),
		Target: FunctionNode("helper", "app"),
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, store.UpsertNode(ctx, ProjectNode("app")))
		require.NoError(t, store.UpsertEdge(ctx, edge))
	}

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ProjectCount)
	assert.Equal(t, 2, stats.FunctionCount, "edge upserts both endpoints exactly once")
	assert.Equal(t, 1, stats.EdgeCount)
}

func TestMemStore_NameCollapsing(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	// The same function name declared in two files collapses to one node
	// with two containment edges.
	fn := FunctionNode("init", "app")
	require.NoError(t, store.UpsertEdge(ctx, Edge{Kind: EdgeKindContains, Source: FileNode("a.rs"), Target: fn}))
	require.NoError(t, store.UpsertEdge(ctx, Edge{Kind: EdgeKindContains, Source: FileNode("b.rs"), Target: fn}))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FunctionCount)
	assert.Equal(t, 2, stats.FileCount)
	assert.Equal(t, 2, stats.EdgeCount)

	files, err := store.Neighbors(ctx, fn, EdgeKindContains, DirectionIn)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestMemStore_QueryNodes(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	for _, name := range []string{"parse_file", "parse_expr", "link_impl"} {
		require.NoError(t, store.UpsertNode(ctx, FunctionNode(name, "app")))
	}
	require.NoError(t, store.UpsertNode(ctx, StructNode("Parser", "app")))

	t.Run("substring match is case-insensitive", func(t *testing.T) {
		got, err := store.QueryNodes(ctx, NodeKindFunction, "PARSE", 0)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("kind filter", func(t *testing.T) {
		got, err := store.QueryNodes(ctx, NodeKindStruct, "parse", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Parser", got[0].Name)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := store.QueryNodes(ctx, NodeKindFunction, "", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := store.QueryNodes(ctx, NodeKindFunction, "zzz", 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMemStore_Neighbors(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	main := FunctionNode("main", "app")
	require.NoError(t, store.UpsertEdge(ctx, Edge{Kind: EdgeKindCalls, Source: main, Target: FunctionNode("setup", "app")}))
	require.NoError(t, store.UpsertEdge(ctx, Edge{Kind: EdgeKindCalls, Source: main, Target: FunctionNode("teardown", "app")}))
	require.NoError(t, store.UpsertEdge(ctx, Edge{Kind: EdgeKindInstantiates, Source: main, Target: StructNode("Config", "app")}))

	out, err := store.Neighbors(ctx, main, EdgeKindCalls, DirectionOut)
	require.NoError(t, err)
	assert.Len(t, out, 2, "only CALLS edges should match")

	in, err := store.Neighbors(ctx, FunctionNode("setup", "app"), EdgeKindCalls, DirectionIn)
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, main, in[0])
}

func TestMemStore_GetAllEdges(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, store.UpsertEdge(ctx, Edge{Kind: EdgeKindContainsFile, Source: ProjectNode("app"), Target: FileNode("main.rs")}))
	require.NoError(t, store.UpsertEdge(ctx, Edge{Kind: EdgeKindContains, Source: FileNode("main.rs"), Target: FunctionNode("main", "app")}))

	edges, err := store.GetAllEdges(ctx)
	require.NoError(t, err)
	assert.Len(t, edges, 2)
}
