package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewCrateGraphMCPServer creates an MCP server with all crate graph tools
// registered.
func NewCrateGraphMCPServer(svc *CrateGraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "crategraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "index_project",
		Description: "Index a Rust project into the crate graph. Walks the file tree, parses each .rs file, and records files, functions, structs, traits, calls, instantiations, and trait implementations.",
	}, svc.IndexProject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_nodes",
		Description: "Search graph nodes (projects, files, functions, structs, traits) by name substring match.",
	}, svc.QueryNodes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_relations",
		Description: "List the neighbors of a node along one relationship kind, e.g. which functions a function calls, or which traits a struct implements.",
	}, svc.GetRelations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Return counts of all node and edge kinds in the indexed graph.",
	}, svc.GraphStats)

	return server
}

// RunMCPServer starts an HTTP server exposing the crate graph MCP tools.
func RunMCPServer(ctx context.Context, svc *CrateGraphService, addr string) error {
	server := NewCrateGraphMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
