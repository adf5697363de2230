package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/dusk-indust/crategraph/internal/graph"
)

// RunStats summarizes one indexing run.
type RunStats struct {
	FilesVisited int `json:"filesVisited"`
	FilesSkipped int `json:"filesSkipped"` // parse failures and unreadable files
	EdgesEmitted int `json:"edgesEmitted"`
}

// Indexer drives one analysis run: it enumerates candidate source files,
// parses each one, extracts declarations and interactions, and forwards the
// emitted records to the graph sink. Files are processed strictly one at a
// time; because every sink write is an idempotent upsert, a partially
// completed run is safe to resume by rerunning from the start.
type Indexer struct {
	store  graph.Store
	parser graph.Parser
	log    *slog.Logger

	// ExcludeDirs are directory names skipped during the walk, in addition
	// to .git and target.
	ExcludeDirs []string
}

// New creates an Indexer writing to store, parsing with parser, and logging
// progress to log. A nil log uses slog.Default.
func New(store graph.Store, parser graph.Parser, log *slog.Logger) *Indexer {
	if log == nil {
		log = slog.Default()
	}
	return &Indexer{store: store, parser: parser, log: log}
}

// Run indexes every .rs file under root into the graph. The project node is
// named project, or after root's base name when project is empty. Parse
// failures skip the file and continue; sink failures abort the run.
func (ix *Indexer) Run(ctx context.Context, root, project string) (*RunStats, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project path: %w", err)
	}
	if project == "" {
		project = filepath.Base(absRoot)
	}

	if err := ix.store.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	ix.log.Info("indexing project", "project", project, "root", absRoot)

	projectNode := graph.ProjectNode(project)
	if err := ix.store.UpsertNode(ctx, projectNode); err != nil {
		return nil, fmt.Errorf("upsert project: %w", err)
	}

	// A missing or unreadable .gitignore just means nothing extra is ignored.
	gi, giErr := ignore.CompileIgnoreFile(filepath.Join(absRoot, ".gitignore"))
	if giErr != nil {
		gi = nil
	}

	excluded := map[string]bool{".git": true, "target": true}
	for _, d := range ix.ExcludeDirs {
		excluded[d] = true
	}

	extractor := graph.NewExtractor(project)
	stats := &RunStats{}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}

		if d.IsDir() {
			if excluded[d.Name()] || (gi != nil && relPath != "." && gi.MatchesPath(relPath)) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != ".rs" {
			return nil
		}
		if gi != nil && gi.MatchesPath(relPath) {
			return nil
		}

		emitted, err := ix.indexFile(ctx, extractor, projectNode, path, relPath)
		if err != nil {
			return err
		}
		stats.FilesVisited++
		if emitted < 0 {
			stats.FilesSkipped++
		} else {
			stats.EdgesEmitted += emitted
		}
		return nil
	})
	if walkErr != nil {
		return stats, fmt.Errorf("index %s: %w", project, walkErr)
	}

	if gstats, err := ix.store.Stats(ctx); err == nil {
		ix.log.Info("indexing complete",
			"project", project,
			"files", stats.FilesVisited,
			"skipped", stats.FilesSkipped,
			"functions", gstats.FunctionCount,
			"structs", gstats.StructCount,
			"traits", gstats.TraitCount,
			"edges", gstats.EdgeCount,
		)
	}

	return stats, nil
}

// indexFile analyzes one source file. It returns the number of edges emitted,
// or -1 when the file was skipped (unreadable or unparseable). Sink failures
// are returned as errors and abort the walk.
func (ix *Indexer) indexFile(ctx context.Context, extractor *graph.Extractor, projectNode graph.Node, path, relPath string) (int, error) {
	ix.log.Debug("processing file", "path", relPath)

	// The file's containment edge is recorded even when the parse later
	// fails: the file exists in the project regardless.
	if err := ix.store.UpsertEdge(ctx, graph.Edge{
		Kind:   graph.EdgeKindContainsFile,
		Source: projectNode,
		Target: graph.FileNode(relPath),
	}); err != nil {
		return 0, fmt.Errorf("upsert file %s: %w", relPath, err)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		ix.log.Warn("skipping unreadable file", "path", relPath, "error", err)
		return -1, nil
	}

	parsed, err := ix.parser.Parse(ctx, relPath, source)
	if err != nil {
		ix.log.Warn("skipping unparseable file", "path", relPath, "error", err)
		return -1, nil
	}
	defer parsed.Close()

	edges := extractor.ExtractFile(parsed)
	for _, edge := range edges {
		if err := ix.store.UpsertEdge(ctx, edge); err != nil {
			return 0, fmt.Errorf("upsert edge %s in %s: %w", edge.Kind, relPath, err)
		}
	}
	return len(edges), nil
}
