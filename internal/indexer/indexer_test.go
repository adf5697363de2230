package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/crategraph/internal/graph"
)

const fixtureProject = "../../testdata/fixtures/rs_project"

// runFixture indexes the fixture project into a fresh MemStore.
func runFixture(t *testing.T) (*graph.MemStore, *RunStats) {
	t.Helper()
	store := graph.NewMemStore()
	parser := graph.NewRustParser()
	t.Cleanup(func() { _ = parser.Close() })

	stats, err := New(store, parser, nil).Run(context.Background(), fixtureProject, "fixture")
	require.NoError(t, err)
	return store, stats
}

// writeTree writes the given path->content files under a fresh temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestIndexer_FixtureProject(t *testing.T) {
	store, stats := runFixture(t)
	ctx := context.Background()

	assert.Equal(t, 3, stats.FilesVisited)
	assert.Equal(t, 0, stats.FilesSkipped)

	gstats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, gstats.ProjectCount)
	assert.Equal(t, 3, gstats.FileCount)
	assert.Equal(t, 2, gstats.StructCount, "User and Service")
	assert.Equal(t, 1, gstats.TraitCount, "Validate")
	// Declared: default_user, build_service, audit, main, init.
	// Referenced only: greet, setup_logging, record, skip_audit.
	assert.Equal(t, 9, gstats.FunctionCount)

	t.Run("calls from main", func(t *testing.T) {
		callees, err := store.Neighbors(ctx, graph.FunctionNode("main", "fixture"), graph.EdgeKindCalls, graph.DirectionOut)
		require.NoError(t, err)
		names := make([]string, 0, len(callees))
		for _, n := range callees {
			names = append(names, n.Name)
		}
		assert.ElementsMatch(t, []string{"default_user", "init", "greet"}, names)
	})

	t.Run("implements edge", func(t *testing.T) {
		traits, err := store.Neighbors(ctx, graph.StructNode("User", "fixture"), graph.EdgeKindImplements, graph.DirectionOut)
		require.NoError(t, err)
		require.Len(t, traits, 1)
		assert.Equal(t, "Validate", traits[0].Name)
	})

	t.Run("instantiations", func(t *testing.T) {
		structs, err := store.Neighbors(ctx, graph.FunctionNode("default_user", "fixture"), graph.EdgeKindInstantiates, graph.DirectionOut)
		require.NoError(t, err)
		require.Len(t, structs, 1)
		assert.Equal(t, "User", structs[0].Name)
	})
}

func TestIndexer_RerunIsIdempotent(t *testing.T) {
	store := graph.NewMemStore()
	parser := graph.NewRustParser()
	t.Cleanup(func() { _ = parser.Close() })
	ctx := context.Background()

	ix := New(store, parser, nil)
	_, err := ix.Run(ctx, fixtureProject, "fixture")
	require.NoError(t, err)

	first, err := store.Stats(ctx)
	require.NoError(t, err)

	_, err = ix.Run(ctx, fixtureProject, "fixture")
	require.NoError(t, err)

	second, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second, "rerunning must not grow the graph")
}

func TestIndexer_ParseFailureSkipsFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"ok.rs":     "fn ok() {}\n",
		"broken.rs": "fn broken( { let = ; }\n",
	})

	store := graph.NewMemStore()
	parser := graph.NewRustParser()
	t.Cleanup(func() { _ = parser.Close() })
	ctx := context.Background()

	stats, err := New(store, parser, nil).Run(ctx, root, "demo")
	require.NoError(t, err, "a parse failure must not fail the run")
	assert.Equal(t, 2, stats.FilesVisited)
	assert.Equal(t, 1, stats.FilesSkipped)

	gstats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, gstats.FileCount, "the file node is recorded even when the parse fails")
	assert.Equal(t, 1, gstats.FunctionCount, "no declarations from the broken file")
}

func TestIndexer_WalkFiltering(t *testing.T) {
	ctx := context.Background()

	t.Run("gitignore", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			".gitignore":    "vendor/\ngenerated.rs\n",
			"src.rs":        "fn visible() {}\n",
			"generated.rs":  "fn generated() {}\n",
			"vendor/dep.rs": "fn vendored() {}\n",
		})

		store := graph.NewMemStore()
		parser := graph.NewRustParser()
		t.Cleanup(func() { _ = parser.Close() })

		stats, err := New(store, parser, nil).Run(ctx, root, "demo")
		require.NoError(t, err)
		assert.Equal(t, 1, stats.FilesVisited)
	})

	t.Run("default excluded dirs", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"lib.rs":          "fn lib() {}\n",
			"target/build.rs": "fn built() {}\n",
		})

		store := graph.NewMemStore()
		parser := graph.NewRustParser()
		t.Cleanup(func() { _ = parser.Close() })

		stats, err := New(store, parser, nil).Run(ctx, root, "demo")
		require.NoError(t, err)
		assert.Equal(t, 1, stats.FilesVisited)
	})

	t.Run("configured exclude dirs", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"lib.rs":          "fn lib() {}\n",
			"examples/ex.rs":  "fn example() {}\n",
			"benches/perf.rs": "fn bench() {}\n",
		})

		store := graph.NewMemStore()
		parser := graph.NewRustParser()
		t.Cleanup(func() { _ = parser.Close() })

		ix := New(store, parser, nil)
		ix.ExcludeDirs = []string{"examples", "benches"}
		stats, err := ix.Run(ctx, root, "demo")
		require.NoError(t, err)
		assert.Equal(t, 1, stats.FilesVisited)
	})

	t.Run("non rust files ignored", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"lib.rs":     "fn lib() {}\n",
			"Cargo.toml": "[package]\nname = \"demo\"\n",
			"README.md":  "# demo\n",
		})

		store := graph.NewMemStore()
		parser := graph.NewRustParser()
		t.Cleanup(func() { _ = parser.Close() })

		stats, err := New(store, parser, nil).Run(ctx, root, "demo")
		require.NoError(t, err)
		assert.Equal(t, 1, stats.FilesVisited)
	})
}

func TestIndexer_ProjectDefaultsToBaseName(t *testing.T) {
	root := writeTree(t, map[string]string{"lib.rs": "fn lib() {}\n"})

	store := graph.NewMemStore()
	parser := graph.NewRustParser()
	t.Cleanup(func() { _ = parser.Close() })
	ctx := context.Background()

	_, err := New(store, parser, nil).Run(ctx, root, "")
	require.NoError(t, err)

	projects, err := store.QueryNodes(ctx, graph.NodeKindProject, "", 0)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, filepath.Base(root), projects[0].Name)
}
