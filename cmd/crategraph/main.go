package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dusk-indust/crategraph/internal/config"
	"github.com/dusk-indust/crategraph/internal/export"
	"github.com/dusk-indust/crategraph/internal/graph"
	"github.com/dusk-indust/crategraph/internal/indexer"
	"github.com/dusk-indust/crategraph/internal/mcptools"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Path      string
	Project   string
	DBPath    string
	ConfigDir string
	ServeMCP  bool
	Addr      string
	Export    string
	Verbose   bool
	Version   bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("crategraph", flag.ContinueOnError)
	fs.StringVar(&flags.Path, "path", ".", "path to the Rust project to index")
	fs.StringVar(&flags.Project, "project", "", "project name (default: directory base name)")
	fs.StringVar(&flags.DBPath, "db", "", "KuzuDB directory (default: in-memory)")
	fs.StringVar(&flags.ConfigDir, "config", ".", "directory containing crategraph.yml")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "serve MCP tools over HTTP instead of running one index pass")
	fs.StringVar(&flags.Addr, "addr", ":8391", "listen address for -serve-mcp")
	fs.StringVar(&flags.Export, "export", "", "after indexing, print the graph as json or mermaid")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flags.Project == "" {
		flags.Project = cfg.Project
	}
	if flags.DBPath == "" {
		flags.DBPath = cfg.DatabasePath
	}

	level := slog.LevelInfo
	if flags.Verbose || cfg.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := openStore(flags.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	parser := graph.NewRustParser()
	defer parser.Close()

	ctx := context.Background()

	if flags.ServeMCP {
		svc := mcptools.NewCrateGraphService(store, parser, log)
		log.Info("serving MCP tools", "addr", flags.Addr)
		return mcptools.RunMCPServer(ctx, svc, flags.Addr)
	}

	project := flags.Project
	if project == "" {
		if abs, err := filepath.Abs(flags.Path); err == nil {
			project = filepath.Base(abs)
		}
	}

	ix := indexer.New(store, parser, log)
	ix.ExcludeDirs = cfg.ExcludeDirs
	if _, err := ix.Run(ctx, flags.Path, project); err != nil {
		return err
	}

	switch flags.Export {
	case "":
	case "json":
		data, err := export.GenerateJSON(ctx, store, project)
		if err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		fmt.Println(string(data))
	case "mermaid":
		diagram, err := export.GenerateMermaid(ctx, store)
		if err != nil {
			return fmt.Errorf("export mermaid: %w", err)
		}
		fmt.Print(diagram)
	default:
		return fmt.Errorf("unknown export format: %s", flags.Export)
	}
	return nil
}
